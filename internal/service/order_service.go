package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/greenbasket/internal/constants"
	"github.com/greenbasket/internal/logger"
	"github.com/greenbasket/internal/models"
	"github.com/greenbasket/internal/queue"
	"github.com/greenbasket/internal/repository"

	"gorm.io/gorm"
)

// PlaceOrderInput 下单输入
type PlaceOrderInput struct {
	UserID         uint
	SessionKey     string
	IdempotencyKey string
	PromoCode      string
	RedeemPoints   int
	DeliveryZoneID uint
	DeliverySlotID uint
	DeliveryDate   time.Time
	AddressName    string
	AddressPhone   string
	AddressLine    string
	PaymentMethod  string
	Remark         string
}

// OrderPreview 订单预览结果，不落库
type OrderPreview struct {
	Items         []CartItemDetail `json:"items"`
	Quote         PriceQuote       `json:"quote"`
	PromoDiscount models.Money     `json:"promo_discount"`
	RedeemValue   models.Money     `json:"redeem_value"`
	PointsEarned  int              `json:"points_earned"`
}

// OrderService 订单服务，下单与生命周期管理
type OrderService struct {
	orderRepo       repository.OrderRepository
	productRepo     repository.ProductRepository
	cartRepo        repository.CartRepository
	deliveryRepo    repository.DeliveryRepository
	stockService    *StockService
	promoService    *PromoService
	loyaltyService  *LoyaltyService
	deliveryService *DeliveryService
	queueClient     *queue.Client
	maxRetries      int
}

// NewOrderService 创建订单服务
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	cartRepo repository.CartRepository,
	deliveryRepo repository.DeliveryRepository,
	stockService *StockService,
	promoService *PromoService,
	loyaltyService *LoyaltyService,
	deliveryService *DeliveryService,
	queueClient *queue.Client,
	maxRetries int,
) *OrderService {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &OrderService{
		orderRepo:       orderRepo,
		productRepo:     productRepo,
		cartRepo:        cartRepo,
		deliveryRepo:    deliveryRepo,
		stockService:    stockService,
		promoService:    promoService,
		loyaltyService:  loyaltyService,
		deliveryService: deliveryService,
		queueClient:     queueClient,
		maxRetries:      maxRetries,
	}
}

// orderDraft 事务内逐步填充的下单中间结果
type orderDraft struct {
	lines        []PriceLine
	stockLines   []StockLine
	items        []models.OrderItem
	promo        *models.PromoCode
	promoAmount  models.Money
	redeemValue  models.Money
	quote        PriceQuote
	pointsEarned int
}

// PreviewOrder 预览订单金额，不做任何写入
func (s *OrderService) PreviewOrder(input PlaceOrderInput) (*OrderPreview, error) {
	owner := repository.CartOwner{UserID: input.UserID, SessionKey: input.SessionKey}
	cartItems, err := s.cartRepo.ListByOwner(owner)
	if err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		return nil, ErrCartEmpty
	}

	zone, slot, err := s.deliveryService.ResolveSelection(input.DeliveryZoneID, input.DeliverySlotID, input.DeliveryDate)
	if err != nil {
		return nil, err
	}

	draft, err := s.buildDraft(cartItems, zone, slot, input, time.Now())
	if err != nil {
		return nil, err
	}

	details := make([]CartItemDetail, 0, len(cartItems))
	for i, item := range cartItems {
		details = append(details, CartItemDetail{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: draft.lines[i].UnitPrice,
			LineTotal: draft.quote.LineTotals[i],
			InStock:   true,
			Product:   item.Product,
		})
	}
	return &OrderPreview{
		Items:         details,
		Quote:         draft.quote,
		PromoDiscount: draft.promoAmount,
		RedeemValue:   draft.redeemValue,
		PointsEarned:  draft.pointsEarned,
	}, nil
}

// buildDraft 组装计价草稿：逐行校验商品可售，计算优惠与积分抵扣。
// 起送金额按商品小计在任何写入前拦截。
func (s *OrderService) buildDraft(cartItems []models.CartItem, zone *models.DeliveryZone, slot *models.DeliverySlot, input PlaceOrderInput, now time.Time) (*orderDraft, error) {
	draft := &orderDraft{}

	ids := make([]uint, 0, len(cartItems))
	for _, item := range cartItems {
		if item.Quantity <= 0 {
			return nil, ErrInvalidCartItem
		}
		ids = append(ids, item.ProductID)
	}
	products, err := s.productRepo.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for _, item := range cartItems {
		product, ok := byID[item.ProductID]
		if !ok || !product.IsActive {
			return nil, fmt.Errorf("product %d: %w", item.ProductID, ErrProductNotAvailable)
		}
		if !Available(product.StockQuantity, item.Quantity) {
			return nil, fmt.Errorf("product %d: %w", product.ID, ErrStockInsufficient)
		}
		draft.lines = append(draft.lines, PriceLine{ProductID: product.ID, UnitPrice: product.PriceAmount, Quantity: item.Quantity})
		if product.StockQuantity != constants.StockUnlimited {
			draft.stockLines = append(draft.stockLines, StockLine{ProductID: product.ID, Quantity: item.Quantity})
		}
		draft.items = append(draft.items, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Unit:        product.Unit,
			UnitPrice:   product.PriceAmount,
			Quantity:    item.Quantity,
		})
	}

	baseQuote := QuotePrice(draft.lines, zone, slot, models.Money{})
	if baseQuote.Subtotal.Decimal.Cmp(zone.MinimumOrder.Decimal) < 0 {
		return nil, ErrBelowMinimumOrder
	}

	if code := strings.TrimSpace(input.PromoCode); code != "" {
		discount, promo, err := s.promoService.Validate(code, input.UserID, baseQuote.Subtotal, now)
		if err != nil {
			return nil, err
		}
		draft.promo = promo
		draft.promoAmount = discount
	}

	if input.RedeemPoints > 0 {
		if input.UserID == 0 {
			return nil, ErrLoyaltyInvalidAmount
		}
		draft.redeemValue = s.loyaltyService.RedeemValue(input.RedeemPoints)
	}

	totalDiscount := models.NewMoneyFromDecimal(draft.promoAmount.Decimal.Add(draft.redeemValue.Decimal))
	draft.quote = QuotePrice(draft.lines, zone, slot, totalDiscount)
	for i := range draft.items {
		draft.items[i].LineTotal = draft.quote.LineTotals[i]
	}
	draft.pointsEarned = s.loyaltyService.PointsForTotal(draft.quote.TotalAmount)
	return draft, nil
}

// PlaceOrder 下单。幂等键先查后插，唯一冲突兜底；
// 事务内的瞬时冲突（死锁、串行化失败、sqlite busy）有限次重试。
func (s *OrderService) PlaceOrder(input PlaceOrderInput) (*models.Order, error) {
	if input.UserID == 0 {
		return nil, ErrUserNotFound
	}
	if strings.TrimSpace(input.AddressName) == "" || strings.TrimSpace(input.AddressPhone) == "" || strings.TrimSpace(input.AddressLine) == "" {
		return nil, ErrInvalidAddress
	}
	if input.PaymentMethod == "" {
		input.PaymentMethod = constants.PaymentMethodCashOnDelivery
	}

	if key := strings.TrimSpace(input.IdempotencyKey); key != "" {
		existing, err := s.orderRepo.GetByIdempotencyKey(input.UserID, key)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}

	var order *models.Order
	var err error
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		order, err = s.placeOrderOnce(input)
		if err == nil {
			break
		}
		if isUniqueViolation(err) && strings.TrimSpace(input.IdempotencyKey) != "" {
			existing, lookupErr := s.orderRepo.GetByIdempotencyKey(input.UserID, strings.TrimSpace(input.IdempotencyKey))
			if lookupErr == nil && existing != nil {
				return existing, nil
			}
		}
		if !isTransientConflict(err) {
			return nil, err
		}
		logger.Warnw("order_place_transient_conflict",
			"user_id", input.UserID,
			"attempt", attempt+1,
			"error", err,
		)
	}
	if err != nil {
		if isTransientConflict(err) {
			return nil, ErrTransientConflict
		}
		return nil, err
	}

	s.notifyPlaced(order)
	return order, nil
}

func (s *OrderService) placeOrderOnce(input PlaceOrderInput) (*models.Order, error) {
	now := time.Now()
	var order *models.Order

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		owner := repository.CartOwner{UserID: input.UserID, SessionKey: input.SessionKey}
		cartRepo := s.cartRepo.WithTx(tx)

		cartItems, err := cartRepo.ListByOwner(owner)
		if err != nil {
			return err
		}
		if len(cartItems) == 0 {
			return ErrCartEmpty
		}

		zone, _, err := s.deliveryService.ResolveSelection(input.DeliveryZoneID, input.DeliverySlotID, input.DeliveryDate)
		if err != nil {
			return err
		}

		// 选了时段时锁时段行做容量校验，串行化同时段并发下单
		var slot *models.DeliverySlot
		if input.DeliverySlotID != 0 {
			slot, err = s.deliveryRepo.WithTx(tx).GetSlotByIDForUpdate(input.DeliverySlotID)
			if err != nil {
				return err
			}
			if slot == nil || !slot.IsActive {
				return ErrDeliverySlotNotFound
			}
			if slot.MaxOrders > 0 {
				count, err := s.orderRepo.WithTx(tx).CountBySlotAndDate(slot.ID, input.DeliveryDate)
				if err != nil {
					return err
				}
				if count >= int64(slot.MaxOrders) {
					return ErrDeliverySlotFull
				}
			}
		}

		draft, err := s.buildDraft(cartItems, zone, slot, input, now)
		if err != nil {
			return err
		}

		if err := s.stockService.ReserveInTx(tx, draft.stockLines); err != nil {
			return err
		}

		var idemKey *string
		if key := strings.TrimSpace(input.IdempotencyKey); key != "" {
			idemKey = &key
		}
		var slotID *uint
		if slot != nil {
			id := slot.ID
			slotID = &id
		}
		order = &models.Order{
			OrderNo:        generateOrderNo(),
			IdempotencyKey: idemKey,
			UserID:         input.UserID,
			Status:         constants.OrderStatusPending,
			PaymentStatus:  constants.PaymentStatusUnpaid,
			PaymentMethod:  input.PaymentMethod,
			Subtotal:       draft.quote.Subtotal,
			DeliveryFee:    draft.quote.DeliveryFee,
			Discount:       draft.quote.Discount,
			TotalAmount:    draft.quote.TotalAmount,
			PointsEarned:   draft.pointsEarned,
			PointsRedeemed: input.RedeemPoints,
			DeliveryZoneID: zone.ID,
			DeliverySlotID: slotID,
			DeliveryDate:   input.DeliveryDate,
			AddressName:    strings.TrimSpace(input.AddressName),
			AddressPhone:   strings.TrimSpace(input.AddressPhone),
			AddressLine:    strings.TrimSpace(input.AddressLine),
			Remark:         strings.TrimSpace(input.Remark),
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if draft.promo != nil {
			order.PromoCodeID = &draft.promo.ID
			order.PromoCode = draft.promo.Code
		}
		if err := s.orderRepo.WithTx(tx).Create(order, draft.items); err != nil {
			return err
		}
		order.Items = draft.items
		order.DeliveryZone = zone
		order.DeliverySlot = slot

		if draft.promo != nil {
			if err := s.promoService.RecordUsageInTx(tx, draft.promo, input.UserID, order.ID, draft.promoAmount); err != nil {
				return err
			}
		}

		if input.RedeemPoints > 0 {
			reference := fmt.Sprintf("order:%d:redeem", order.ID)
			if err := s.loyaltyService.RedeemInTx(tx, input.UserID, input.RedeemPoints, order.ID, reference); err != nil {
				return err
			}
		}
		if draft.pointsEarned > 0 {
			reference := fmt.Sprintf("order:%d:earn", order.ID)
			if err := s.loyaltyService.EarnInTx(tx, input.UserID, draft.pointsEarned, order.ID, reference); err != nil {
				return err
			}
		}

		return cartRepo.ClearByOwner(owner)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// notifyPlaced 下单成功后的通知入队。失败只记日志，绝不影响已提交订单。
func (s *OrderService) notifyPlaced(order *models.Order) {
	if s.queueClient == nil || !s.queueClient.Enabled() || order == nil {
		return
	}
	if err := s.queueClient.EnqueueOrderPlacedNotify(order.ID); err != nil {
		logger.Warnw("order_enqueue_placed_notify_failed", "order_id", order.ID, "error", err)
	}
	if remindAt := deliveryReminderAt(order); remindAt != nil {
		if err := s.queueClient.EnqueueOrderDeliveryReminder(order.ID, *remindAt); err != nil {
			logger.Warnw("order_enqueue_delivery_reminder_failed", "order_id", order.ID, "error", err)
		}
	}
}

// deliveryReminderAt 配送提醒时间：时段开始前 1 小时，已过期则不提醒
func deliveryReminderAt(order *models.Order) *time.Time {
	if order == nil || order.DeliverySlot == nil {
		return nil
	}
	d := order.DeliveryDate
	start := time.Date(d.Year(), d.Month(), d.Day(), order.DeliverySlot.StartHour, 0, 0, 0, d.Location())
	remindAt := start.Add(-time.Hour)
	if remindAt.Before(time.Now()) {
		return nil
	}
	return &remindAt
}

// CancelOrder 用户取消订单，仅 pending 可取消
func (s *OrderService) CancelOrder(orderID uint, userID uint, reason string) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusPending {
		return nil, ErrOrderNotCancellable
	}
	if err := s.cancelOrder(order, reason); err != nil {
		return nil, err
	}
	return order, nil
}

// cancelOrder 取消订单并完整回滚副作用：回补库存、
// 冲回积分、作废优惠码使用，全部在一个事务内。
func (s *OrderService) cancelOrder(order *models.Order, reason string) error {
	now := time.Now()
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"cancelled_at":     now,
			"cancelled_reason": strings.TrimSpace(reason),
			"updated_at":       now,
		}
		if err := s.orderRepo.WithTx(tx).UpdateStatus(order.ID, constants.OrderStatusCancelled, updates); err != nil {
			return err
		}

		restockLines := make([]StockLine, 0, len(order.Items))
		for _, item := range order.Items {
			restockLines = append(restockLines, StockLine{ProductID: item.ProductID, Quantity: item.Quantity})
		}
		if err := s.stockService.RestoreInTx(tx, restockLines); err != nil {
			return err
		}

		if err := s.loyaltyService.ReverseForOrderInTx(tx, order); err != nil {
			return err
		}

		return s.promoService.ReleaseUsageInTx(tx, order.ID)
	})
	if err != nil {
		return err
	}
	order.Status = constants.OrderStatusCancelled
	order.CancelledAt = &now
	order.CancelledReason = strings.TrimSpace(reason)
	order.UpdatedAt = now
	return nil
}

// UpdateOrderStatus 管理端推进订单状态。note 为可选操作备注，
// 取消时作为取消原因记录。
func (s *OrderService) UpdateOrderStatus(orderID uint, targetStatus, note string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	target := strings.ToLower(strings.TrimSpace(targetStatus))
	if !canTransition(order.Status, target) {
		return nil, ErrOrderStatusInvalid
	}

	note = strings.TrimSpace(note)
	if target == constants.OrderStatusCancelled {
		reason := note
		if reason == "" {
			reason = "cancelled by admin"
		}
		if err := s.cancelOrder(order, reason); err != nil {
			return nil, err
		}
		return order, nil
	}

	now := time.Now()
	updates := map[string]interface{}{"updated_at": now}
	if note != "" {
		updates["admin_note"] = note
	}
	if target == constants.OrderStatusDelivered {
		updates["delivered_at"] = now
		updates["payment_status"] = constants.PaymentStatusPaid
	}
	if err := s.orderRepo.UpdateStatus(order.ID, target, updates); err != nil {
		return nil, err
	}
	order.Status = target
	if target == constants.OrderStatusDelivered {
		order.DeliveredAt = &now
		order.PaymentStatus = constants.PaymentStatusPaid
	}
	if note != "" {
		order.AdminNote = note
	}
	order.UpdatedAt = now
	return order, nil
}

// GetOrderByUser 用户订单详情
func (s *OrderService) GetOrderByUser(orderID uint, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetOrderByUserOrderNo 按订单号查用户订单
func (s *OrderService) GetOrderByUserOrderNo(orderNo string, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNoAndUser(strings.TrimSpace(orderNo), userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrdersByUser 用户订单列表
func (s *OrderService) ListOrdersByUser(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListByUser(filter)
}

// ListOrdersForAdmin 管理端订单列表
func (s *OrderService) ListOrdersForAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListAdmin(filter)
}

// GetOrderForAdmin 管理端订单详情
func (s *OrderService) GetOrderForAdmin(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	randPart := randNumeric(6)
	return fmt.Sprintf("GB%s%s", now, randPart)
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(n.String())
	}
	return b.String()
}

// isUniqueViolation 识别唯一约束冲突（幂等键并发插入时兜底）
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "constraint failed: unique")
}

// isTransientConflict 识别可重试的瞬时冲突
func isTransientConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "deadlock") ||
		strings.Contains(msg, "serialization failure") ||
		strings.Contains(msg, "could not serialize") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}
