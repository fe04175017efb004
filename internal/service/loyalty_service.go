package service

import (
	"fmt"
	"time"

	"github.com/greenbasket/internal/constants"
	"github.com/greenbasket/internal/logger"
	"github.com/greenbasket/internal/models"
	"github.com/greenbasket/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LoyaltyParams 积分参数，来自配置
type LoyaltyParams struct {
	EarnRate   decimal.Decimal // 每 1 元获得积分数
	RedeemRate decimal.Decimal // 每积分抵扣金额
	ExpiryDays int             // 积分有效期（天，0 表示永不过期）
}

// LoyaltyService 积分台账服务。余额没有独立字段，
// 恒等于用户全部流水之和，变动一律走追加流水。
type LoyaltyService struct {
	loyaltyRepo repository.LoyaltyRepository
	params      LoyaltyParams
}

// NewLoyaltyService 创建积分服务
func NewLoyaltyService(loyaltyRepo repository.LoyaltyRepository, params LoyaltyParams) *LoyaltyService {
	return &LoyaltyService{loyaltyRepo: loyaltyRepo, params: params}
}

// Balance 用户积分余额
func (s *LoyaltyService) Balance(userID uint) (int, error) {
	return s.loyaltyRepo.SumByUser(userID)
}

// History 用户积分流水
func (s *LoyaltyService) History(filter repository.LoyaltyListFilter) ([]models.LoyaltyTransaction, int64, error) {
	return s.loyaltyRepo.ListByUser(filter)
}

// PointsForTotal 按应付金额计算获得积分，向下取整
func (s *LoyaltyService) PointsForTotal(total models.Money) int {
	if s.params.EarnRate.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	points := total.Decimal.Mul(s.params.EarnRate).Floor()
	if points.IsNegative() {
		return 0
	}
	return int(points.IntPart())
}

// RedeemValue 积分抵扣金额
func (s *LoyaltyService) RedeemValue(points int) models.Money {
	if points <= 0 || s.params.RedeemRate.LessThanOrEqual(decimal.Zero) {
		return models.Money{}
	}
	return models.NewMoneyFromDecimal(s.params.RedeemRate.Mul(decimal.NewFromInt(int64(points))))
}

func (s *LoyaltyService) expiresAt(now time.Time) *time.Time {
	if s.params.ExpiryDays <= 0 {
		return nil
	}
	t := now.AddDate(0, 0, s.params.ExpiryDays)
	return &t
}

// RedeemInTx 在下单事务内抵扣积分。先锁用户行串行化并发抵扣，
// 再按流水合计校验余额，不足即拒绝。
func (s *LoyaltyService) RedeemInTx(tx *gorm.DB, userID uint, points int, orderID uint, reference string) error {
	if points <= 0 {
		return ErrLoyaltyInvalidAmount
	}
	repo := s.loyaltyRepo.WithTx(tx)

	if reference != "" {
		existing, err := repo.GetByReference(reference)
		if err != nil {
			return err
		}
		if existing != nil {
			return nil
		}
	}

	user, err := repo.LockUser(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	balance, err := repo.SumByUser(userID)
	if err != nil {
		return err
	}
	if balance < points {
		return ErrLoyaltyInsufficient
	}

	txn := &models.LoyaltyTransaction{
		UserID:       userID,
		Kind:         constants.LoyaltyTxnRedeemed,
		Points:       -points,
		BalanceAfter: balance - points,
		OrderID:      &orderID,
		Reference:    reference,
	}
	return repo.Create(txn)
}

// EarnInTx 在下单事务内入账积分，与订单同一事务提交
func (s *LoyaltyService) EarnInTx(tx *gorm.DB, userID uint, points int, orderID uint, reference string) error {
	if points <= 0 {
		return nil
	}
	repo := s.loyaltyRepo.WithTx(tx)

	if reference != "" {
		existing, err := repo.GetByReference(reference)
		if err != nil {
			return err
		}
		if existing != nil {
			return nil
		}
	}

	balance, err := repo.SumByUser(userID)
	if err != nil {
		return err
	}

	txn := &models.LoyaltyTransaction{
		UserID:       userID,
		Kind:         constants.LoyaltyTxnEarned,
		Points:       points,
		BalanceAfter: balance + points,
		OrderID:      &orderID,
		ExpiresAt:    s.expiresAt(time.Now()),
	}
	txn.Reference = reference
	return repo.Create(txn)
}

// ReverseForOrderInTx 在取消事务内写补偿流水：
// 冲回本单入账的积分，退还本单抵扣的积分。
func (s *LoyaltyService) ReverseForOrderInTx(tx *gorm.DB, order *models.Order) error {
	if order == nil || order.UserID == 0 {
		return nil
	}
	repo := s.loyaltyRepo.WithTx(tx)

	if _, err := repo.LockUser(order.UserID); err != nil {
		return err
	}
	balance, err := repo.SumByUser(order.UserID)
	if err != nil {
		return err
	}

	if order.PointsEarned > 0 {
		balance -= order.PointsEarned
		txn := &models.LoyaltyTransaction{
			UserID:       order.UserID,
			Kind:         constants.LoyaltyTxnReversal,
			Points:       -order.PointsEarned,
			BalanceAfter: balance,
			OrderID:      &order.ID,
			Reference:    fmt.Sprintf("order:%d:reverse_earn", order.ID),
			Remark:       "order cancelled",
		}
		if existing, err := repo.GetByReference(txn.Reference); err != nil {
			return err
		} else if existing == nil {
			if err := repo.Create(txn); err != nil {
				return err
			}
		} else {
			balance += order.PointsEarned
		}
	}

	if order.PointsRedeemed > 0 {
		balance += order.PointsRedeemed
		txn := &models.LoyaltyTransaction{
			UserID:       order.UserID,
			Kind:         constants.LoyaltyTxnRefund,
			Points:       order.PointsRedeemed,
			BalanceAfter: balance,
			OrderID:      &order.ID,
			Reference:    fmt.Sprintf("order:%d:refund_redeem", order.ID),
			Remark:       "order cancelled",
		}
		if existing, err := repo.GetByReference(txn.Reference); err != nil {
			return err
		} else if existing == nil {
			if err := repo.Create(txn); err != nil {
				return err
			}
		}
	}
	return nil
}

// ExpirePoints 过期积分清理。扫出有过期入账的用户，
// 逐用户开事务锁行核销，单个失败只记日志不中断。
func (s *LoyaltyService) ExpirePoints(before time.Time, batchSize int) int {
	userIDs, err := s.loyaltyRepo.ListUsersWithExpirable(before, batchSize)
	if err != nil {
		logger.Errorw("loyalty_expire_scan_failed", "error", err)
		return 0
	}

	expired := 0
	for _, userID := range userIDs {
		err := models.DB.Transaction(func(tx *gorm.DB) error {
			repo := s.loyaltyRepo.WithTx(tx)
			if _, err := repo.LockUser(userID); err != nil {
				return err
			}
			amount, err := repo.SumExpirable(userID, before)
			if err != nil {
				return err
			}
			balance, err := repo.SumByUser(userID)
			if err != nil {
				return err
			}
			// 核销不把余额打成负数，已消费的过期积分不再追回
			if amount > balance {
				amount = balance
			}
			if amount <= 0 {
				return nil
			}
			txn := &models.LoyaltyTransaction{
				UserID:       userID,
				Kind:         constants.LoyaltyTxnExpired,
				Points:       -amount,
				BalanceAfter: balance - amount,
				Reference:    fmt.Sprintf("loyalty:expire:%d:%s", userID, before.Format("2006-01-02")),
				Remark:       "points expired",
			}
			if existing, err := repo.GetByReference(txn.Reference); err != nil {
				return err
			} else if existing != nil {
				return nil
			}
			expired++
			return repo.Create(txn)
		})
		if err != nil {
			logger.Errorw("loyalty_expire_user_failed", "user_id", userID, "error", err)
		}
	}
	return expired
}
