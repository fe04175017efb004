package repository

import "time"

// CartOwner 购物车归属：登录用户按 UserID，游客按 SessionKey，二者互斥
type CartOwner struct {
	UserID     uint
	SessionKey string
}

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page         int
	PageSize     int
	CategoryID   string
	Search       string
	Tag          string
	OnlyActive   bool
	InStockOnly  bool
	WithCategory bool
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Status      string
	OrderNo     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// PromoCodeListFilter 查询优惠码列表的过滤条件
type PromoCodeListFilter struct {
	Page     int
	PageSize int
	Code     string
	IsActive *bool
}

// LoyaltyListFilter 查询积分流水的过滤条件
type LoyaltyListFilter struct {
	Page     int
	PageSize int
	UserID   uint
	Kind     string
}
