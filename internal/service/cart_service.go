package service

import (
	"github.com/greenbasket/internal/models"
	"github.com/greenbasket/internal/repository"
)

// CartItemDetail 购物车项详情（用于响应）
type CartItemDetail struct {
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice models.Money    `json:"unit_price"`
	LineTotal models.Money    `json:"line_total"`
	InStock   bool            `json:"in_stock"`
	Product   *models.Product `json:"product"`
}

// AddCartItemInput 加购输入
type AddCartItemInput struct {
	Owner     repository.CartOwner
	ProductID uint
	Quantity  int
}

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// List 获取购物车。下架或已删除的商品顺手清掉，
// 库存状态只做展示参考，权威校验在下单事务内。
func (s *CartService) List(owner repository.CartOwner) ([]CartItemDetail, error) {
	items, err := s.cartRepo.ListByOwner(owner)
	if err != nil {
		return nil, err
	}
	details := make([]CartItemDetail, 0, len(items))
	for _, item := range items {
		product := item.Product
		if product == nil || product.ID == 0 {
			p, err := s.productRepo.GetByID(item.ProductID)
			if err != nil {
				return nil, err
			}
			product = p
		}
		if product == nil || !product.IsActive {
			_ = s.cartRepo.DeleteByOwnerAndProduct(owner, item.ProductID)
			continue
		}

		quote := QuotePrice([]PriceLine{{ProductID: product.ID, UnitPrice: product.PriceAmount, Quantity: item.Quantity}}, nil, nil, models.Money{})
		details = append(details, CartItemDetail{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: product.PriceAmount,
			LineTotal: quote.Subtotal,
			InStock:   Available(product.StockQuantity, item.Quantity),
			Product:   product,
		})
	}
	return details, nil
}

// AddItem 加购。同一归属下重复加购同一商品时在原行累加数量。
func (s *CartService) AddItem(input AddCartItemInput) error {
	if input.ProductID == 0 || input.Quantity <= 0 {
		return ErrInvalidCartItem
	}
	if input.Owner.UserID == 0 && input.Owner.SessionKey == "" {
		return ErrInvalidCartItem
	}
	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return err
	}
	if product == nil || !product.IsActive {
		return ErrProductNotAvailable
	}

	existing, err := s.cartRepo.GetByOwnerAndProduct(input.Owner, input.ProductID)
	if err != nil {
		return err
	}
	quantity := input.Quantity
	if existing != nil {
		quantity += existing.Quantity
	}
	if !Available(product.StockQuantity, quantity) {
		return ErrStockInsufficient
	}
	if existing != nil {
		return s.cartRepo.UpdateQuantity(existing.ID, quantity)
	}
	item := &models.CartItem{
		UserID:     input.Owner.UserID,
		SessionKey: input.Owner.SessionKey,
		ProductID:  input.ProductID,
		Quantity:   input.Quantity,
	}
	return s.cartRepo.Create(item)
}

// SetQuantity 直接设置数量，0 表示移除
func (s *CartService) SetQuantity(owner repository.CartOwner, productID uint, quantity int) error {
	if productID == 0 || quantity < 0 {
		return ErrInvalidCartItem
	}
	if quantity == 0 {
		return s.cartRepo.DeleteByOwnerAndProduct(owner, productID)
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil || !product.IsActive {
		return ErrProductNotAvailable
	}
	if !Available(product.StockQuantity, quantity) {
		return ErrStockInsufficient
	}
	existing, err := s.cartRepo.GetByOwnerAndProduct(owner, productID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrCartItemMissing
	}
	return s.cartRepo.UpdateQuantity(existing.ID, quantity)
}

// RemoveItem 移除购物车项
func (s *CartService) RemoveItem(owner repository.CartOwner, productID uint) error {
	if productID == 0 {
		return ErrInvalidCartItem
	}
	return s.cartRepo.DeleteByOwnerAndProduct(owner, productID)
}

// Clear 清空购物车
func (s *CartService) Clear(owner repository.CartOwner) error {
	return s.cartRepo.ClearByOwner(owner)
}

// MergeOnLogin 登录后合并游客购物车
func (s *CartService) MergeOnLogin(sessionKey string, userID uint) error {
	return s.cartRepo.MergeGuestToUser(sessionKey, userID)
}
