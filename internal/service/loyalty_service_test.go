package service

import (
	"errors"
	"testing"
	"time"

	"github.com/greenbasket/internal/constants"
	"github.com/greenbasket/internal/models"
	"github.com/greenbasket/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newLoyaltyTestEnv(t *testing.T, name string) (*gorm.DB, *LoyaltyService) {
	t.Helper()
	db := newServiceTestDB(t, name)
	svc := NewLoyaltyService(repository.NewLoyaltyRepository(db), testLoyaltyParams())
	return db, svc
}

func grantPoints(t *testing.T, db *gorm.DB, userID uint, points int, expiresAt *time.Time) {
	t.Helper()
	txn := &models.LoyaltyTransaction{
		UserID:       userID,
		Kind:         "bonus",
		Points:       points,
		BalanceAfter: points,
		ExpiresAt:    expiresAt,
	}
	if err := db.Create(txn).Error; err != nil {
		t.Fatalf("发放测试积分失败: %v", err)
	}
}

func TestLoyaltyPointsForTotal(t *testing.T) {
	svc := NewLoyaltyService(nil, LoyaltyParams{
		EarnRate:   decimal.NewFromInt(1),
		RedeemRate: decimal.NewFromFloat(0.01),
	})
	if got := svc.PointsForTotal(models.NewMoneyFromString("26.10")); got != 26 {
		t.Fatalf("26.10 应获得 26 积分，实际 %d", got)
	}
	if got := svc.PointsForTotal(models.NewMoneyFromString("0.99")); got != 0 {
		t.Fatalf("0.99 应获得 0 积分，实际 %d", got)
	}

	zeroRate := NewLoyaltyService(nil, LoyaltyParams{})
	if got := zeroRate.PointsForTotal(models.NewMoneyFromString("100.00")); got != 0 {
		t.Fatalf("零费率应获得 0 积分，实际 %d", got)
	}
}

func TestLoyaltyRedeemValue(t *testing.T) {
	svc := NewLoyaltyService(nil, testLoyaltyParams())
	moneyEquals(t, "redeem_value", svc.RedeemValue(200), "2.00")
	moneyEquals(t, "redeem_value", svc.RedeemValue(0), "0.00")
	moneyEquals(t, "redeem_value", svc.RedeemValue(-5), "0.00")
}

func TestLoyaltyRedeemInsufficient(t *testing.T) {
	db, svc := newLoyaltyTestEnv(t, "loyalty_insufficient")
	user := seedTestUser(t, db, "points@example.com")
	grantPoints(t, db, user.ID, 50, nil)

	err := svc.RedeemInTx(db, user.ID, 100, 1, "order:1:redeem")
	if !errors.Is(err, ErrLoyaltyInsufficient) {
		t.Fatalf("期望 ErrLoyaltyInsufficient 实际 %v", err)
	}

	balance, err := svc.Balance(user.ID)
	if err != nil {
		t.Fatalf("查询余额失败: %v", err)
	}
	if balance != 50 {
		t.Fatalf("拒绝后余额应保持 50，实际 %d", balance)
	}
}

func TestLoyaltyRedeemAndBalance(t *testing.T) {
	db, svc := newLoyaltyTestEnv(t, "loyalty_redeem")
	user := seedTestUser(t, db, "points@example.com")
	grantPoints(t, db, user.ID, 300, nil)

	if err := svc.RedeemInTx(db, user.ID, 120, 7, "order:7:redeem"); err != nil {
		t.Fatalf("抵扣失败: %v", err)
	}
	balance, err := svc.Balance(user.ID)
	if err != nil {
		t.Fatalf("查询余额失败: %v", err)
	}
	if balance != 180 {
		t.Fatalf("余额期望 180 实际 %d", balance)
	}

	// 同一业务引用重复提交不再扣减
	if err := svc.RedeemInTx(db, user.ID, 120, 7, "order:7:redeem"); err != nil {
		t.Fatalf("重复抵扣应幂等返回: %v", err)
	}
	balance, _ = svc.Balance(user.ID)
	if balance != 180 {
		t.Fatalf("幂等重复后余额期望 180 实际 %d", balance)
	}
}

func TestLoyaltyRedeemRequiresUser(t *testing.T) {
	db, svc := newLoyaltyTestEnv(t, "loyalty_no_user")
	err := svc.RedeemInTx(db, 999, 10, 1, "order:1:redeem")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("期望 ErrUserNotFound 实际 %v", err)
	}
	if err := svc.RedeemInTx(db, 1, 0, 1, ""); !errors.Is(err, ErrLoyaltyInvalidAmount) {
		t.Fatalf("期望 ErrLoyaltyInvalidAmount 实际 %v", err)
	}
}

func TestLoyaltyEarnIdempotentByReference(t *testing.T) {
	db, svc := newLoyaltyTestEnv(t, "loyalty_earn")
	user := seedTestUser(t, db, "points@example.com")

	if err := svc.EarnInTx(db, user.ID, 26, 9, "order:9:earn"); err != nil {
		t.Fatalf("入账失败: %v", err)
	}
	if err := svc.EarnInTx(db, user.ID, 26, 9, "order:9:earn"); err != nil {
		t.Fatalf("重复入账应幂等返回: %v", err)
	}

	balance, err := svc.Balance(user.ID)
	if err != nil {
		t.Fatalf("查询余额失败: %v", err)
	}
	if balance != 26 {
		t.Fatalf("余额期望 26 实际 %d", balance)
	}

	var txn models.LoyaltyTransaction
	if err := db.Where("reference = ?", "order:9:earn").First(&txn).Error; err != nil {
		t.Fatalf("回查流水失败: %v", err)
	}
	if txn.ExpiresAt == nil {
		t.Fatalf("入账流水应带过期时间")
	}
}

func TestLoyaltyReverseForOrder(t *testing.T) {
	db, svc := newLoyaltyTestEnv(t, "loyalty_reverse")
	user := seedTestUser(t, db, "points@example.com")
	grantPoints(t, db, user.ID, 500, nil)

	orderID := uint(11)
	if err := svc.RedeemInTx(db, user.ID, 200, orderID, "order:11:redeem"); err != nil {
		t.Fatalf("抵扣失败: %v", err)
	}
	if err := svc.EarnInTx(db, user.ID, 30, orderID, "order:11:earn"); err != nil {
		t.Fatalf("入账失败: %v", err)
	}

	order := &models.Order{ID: orderID, UserID: user.ID, PointsEarned: 30, PointsRedeemed: 200}
	if err := svc.ReverseForOrderInTx(db, order); err != nil {
		t.Fatalf("冲正失败: %v", err)
	}

	// 500 - 200 + 30 - 30 + 200 = 500
	balance, err := svc.Balance(user.ID)
	if err != nil {
		t.Fatalf("查询余额失败: %v", err)
	}
	if balance != 500 {
		t.Fatalf("冲正后余额期望 500 实际 %d", balance)
	}

	// 补偿流水使用专用类型，不与正常消费/赠送混用
	var reversal, refund models.LoyaltyTransaction
	if err := db.Where("reference = ?", "order:11:reverse_earn").First(&reversal).Error; err != nil {
		t.Fatalf("回查冲回流水失败: %v", err)
	}
	if reversal.Kind != constants.LoyaltyTxnReversal || reversal.Points != -30 {
		t.Fatalf("冲回流水期望 %s/-30 实际 %s/%d", constants.LoyaltyTxnReversal, reversal.Kind, reversal.Points)
	}
	if err := db.Where("reference = ?", "order:11:refund_redeem").First(&refund).Error; err != nil {
		t.Fatalf("回查退还流水失败: %v", err)
	}
	if refund.Kind != constants.LoyaltyTxnRefund || refund.Points != 200 {
		t.Fatalf("退还流水期望 %s/200 实际 %s/%d", constants.LoyaltyTxnRefund, refund.Kind, refund.Points)
	}

	// 重复冲正不再写流水
	if err := svc.ReverseForOrderInTx(db, order); err != nil {
		t.Fatalf("重复冲正失败: %v", err)
	}
	balance, _ = svc.Balance(user.ID)
	if balance != 500 {
		t.Fatalf("重复冲正后余额期望 500 实际 %d", balance)
	}
}

func TestLoyaltyExpirePointsClampsToBalance(t *testing.T) {
	db, svc := newLoyaltyTestEnv(t, "loyalty_expire")
	user := seedTestUser(t, db, "points@example.com")

	expired := time.Now().Add(-24 * time.Hour)
	grantPoints(t, db, user.ID, 100, &expired)

	// 先消费掉 80，过期核销只能清掉剩下的 20
	if err := svc.RedeemInTx(db, user.ID, 80, 3, "order:3:redeem"); err != nil {
		t.Fatalf("抵扣失败: %v", err)
	}

	if got := svc.ExpirePoints(time.Now(), 100); got != 1 {
		t.Fatalf("应核销 1 个用户，实际 %d", got)
	}

	balance, err := svc.Balance(user.ID)
	if err != nil {
		t.Fatalf("查询余额失败: %v", err)
	}
	if balance != 0 {
		t.Fatalf("核销后余额期望 0 实际 %d", balance)
	}

	// 再跑一遍不重复核销
	if got := svc.ExpirePoints(time.Now(), 100); got != 0 {
		t.Fatalf("重复核销应为 0，实际 %d", got)
	}
}
