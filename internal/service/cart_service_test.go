package service

import (
	"errors"
	"testing"

	"github.com/greenbasket/internal/models"
	"github.com/greenbasket/internal/repository"

	"gorm.io/gorm"
)

func newCartTestEnv(t *testing.T, name string) (*gorm.DB, *CartService) {
	t.Helper()
	db := newServiceTestDB(t, name)
	svc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
	return db, svc
}

func TestCartAddItemAccumulates(t *testing.T) {
	db, svc := newCartTestEnv(t, "cart_add")
	category := seedTestCategory(t, db, "veg")
	product := seedTestProduct(t, db, category.ID, "tomatoes", "8.50", 10)
	owner := repository.CartOwner{UserID: 1}

	if err := svc.AddItem(AddCartItemInput{Owner: owner, ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("加购失败: %v", err)
	}
	if err := svc.AddItem(AddCartItemInput{Owner: owner, ProductID: product.ID, Quantity: 3}); err != nil {
		t.Fatalf("重复加购失败: %v", err)
	}

	details, err := svc.List(owner)
	if err != nil {
		t.Fatalf("获取购物车失败: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("同一商品应只有一行，实际 %d 行", len(details))
	}
	if details[0].Quantity != 5 {
		t.Fatalf("数量期望 5 实际 %d", details[0].Quantity)
	}
	moneyEquals(t, "line_total", details[0].LineTotal, "42.50")
	if !details[0].InStock {
		t.Fatalf("库存充足时 in_stock 应为 true")
	}
}

func TestCartAddItemStockLimit(t *testing.T) {
	db, svc := newCartTestEnv(t, "cart_stock")
	category := seedTestCategory(t, db, "veg")
	product := seedTestProduct(t, db, category.ID, "spinach", "4.20", 3)
	owner := repository.CartOwner{SessionKey: "guest-1"}

	if err := svc.AddItem(AddCartItemInput{Owner: owner, ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("加购失败: %v", err)
	}
	// 累计 4 超出库存 3
	err := svc.AddItem(AddCartItemInput{Owner: owner, ProductID: product.ID, Quantity: 2})
	if !errors.Is(err, ErrStockInsufficient) {
		t.Fatalf("期望 ErrStockInsufficient 实际 %v", err)
	}

	// 不限量商品不受限
	unlimited := seedTestProduct(t, db, category.ID, "rice", "39.90", -1)
	if err := svc.AddItem(AddCartItemInput{Owner: owner, ProductID: unlimited.ID, Quantity: 999}); err != nil {
		t.Fatalf("不限量商品加购失败: %v", err)
	}
}

func TestCartAddItemValidation(t *testing.T) {
	db, svc := newCartTestEnv(t, "cart_validate")
	category := seedTestCategory(t, db, "veg")
	inactive := seedTestProduct(t, db, category.ID, "hidden", "1.00", 10)
	if err := db.Model(inactive).Update("is_active", false).Error; err != nil {
		t.Fatalf("下架商品失败: %v", err)
	}

	owner := repository.CartOwner{UserID: 1}
	if err := svc.AddItem(AddCartItemInput{Owner: owner, ProductID: 0, Quantity: 1}); !errors.Is(err, ErrInvalidCartItem) {
		t.Fatalf("期望 ErrInvalidCartItem 实际 %v", err)
	}
	if err := svc.AddItem(AddCartItemInput{Owner: owner, ProductID: inactive.ID, Quantity: 1}); !errors.Is(err, ErrProductNotAvailable) {
		t.Fatalf("期望 ErrProductNotAvailable 实际 %v", err)
	}
	if err := svc.AddItem(AddCartItemInput{ProductID: inactive.ID, Quantity: 1}); !errors.Is(err, ErrInvalidCartItem) {
		t.Fatalf("无归属加购期望 ErrInvalidCartItem 实际 %v", err)
	}
	if err := svc.AddItem(AddCartItemInput{Owner: owner, ProductID: 9999, Quantity: 1}); !errors.Is(err, ErrProductNotAvailable) {
		t.Fatalf("不存在的商品期望 ErrProductNotAvailable 实际 %v", err)
	}
}

func TestCartSetQuantity(t *testing.T) {
	db, svc := newCartTestEnv(t, "cart_set")
	category := seedTestCategory(t, db, "veg")
	product := seedTestProduct(t, db, category.ID, "eggs", "12.00", 10)
	owner := repository.CartOwner{UserID: 2}

	if err := svc.SetQuantity(owner, product.ID, 1); !errors.Is(err, ErrCartItemMissing) {
		t.Fatalf("不存在的购物车项期望 ErrCartItemMissing 实际 %v", err)
	}

	if err := svc.AddItem(AddCartItemInput{Owner: owner, ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("加购失败: %v", err)
	}
	if err := svc.SetQuantity(owner, product.ID, 7); err != nil {
		t.Fatalf("改数量失败: %v", err)
	}

	details, err := svc.List(owner)
	if err != nil {
		t.Fatalf("获取购物车失败: %v", err)
	}
	if len(details) != 1 || details[0].Quantity != 7 {
		t.Fatalf("数量期望 7 实际 %+v", details)
	}

	// 0 表示移除
	if err := svc.SetQuantity(owner, product.ID, 0); err != nil {
		t.Fatalf("清零失败: %v", err)
	}
	details, _ = svc.List(owner)
	if len(details) != 0 {
		t.Fatalf("清零后购物车应为空，实际 %d 行", len(details))
	}

	if err := svc.SetQuantity(owner, product.ID, -1); !errors.Is(err, ErrInvalidCartItem) {
		t.Fatalf("负数量期望 ErrInvalidCartItem 实际 %v", err)
	}
}

func TestCartListDropsUnavailableProducts(t *testing.T) {
	db, svc := newCartTestEnv(t, "cart_list")
	category := seedTestCategory(t, db, "veg")
	active := seedTestProduct(t, db, category.ID, "bread", "15.00", 5)
	retired := seedTestProduct(t, db, category.ID, "retired", "3.00", 5)
	owner := repository.CartOwner{UserID: 3}

	seedCartItem(t, db, owner, active.ID, 1)
	seedCartItem(t, db, owner, retired.ID, 2)
	if err := db.Model(retired).Update("is_active", false).Error; err != nil {
		t.Fatalf("下架商品失败: %v", err)
	}

	details, err := svc.List(owner)
	if err != nil {
		t.Fatalf("获取购物车失败: %v", err)
	}
	if len(details) != 1 || details[0].ProductID != active.ID {
		t.Fatalf("下架商品应被清出购物车，实际 %+v", details)
	}

	var count int64
	if err := db.Model(&models.CartItem{}).Where("user_id = ?", owner.UserID).Count(&count).Error; err != nil {
		t.Fatalf("统计购物车失败: %v", err)
	}
	if count != 1 {
		t.Fatalf("数据库应只剩 1 行，实际 %d", count)
	}
}

func TestCartMergeOnLogin(t *testing.T) {
	db, svc := newCartTestEnv(t, "cart_merge")
	category := seedTestCategory(t, db, "veg")
	shared := seedTestProduct(t, db, category.ID, "apples", "6.00", 100)
	guestOnly := seedTestProduct(t, db, category.ID, "pears", "7.00", 100)

	guest := repository.CartOwner{SessionKey: "guest-merge"}
	user := repository.CartOwner{UserID: 9}

	seedCartItem(t, db, guest, shared.ID, 2)
	seedCartItem(t, db, guest, guestOnly.ID, 1)
	seedCartItem(t, db, user, shared.ID, 3)

	if err := svc.MergeOnLogin("guest-merge", 9); err != nil {
		t.Fatalf("合并失败: %v", err)
	}

	details, err := svc.List(user)
	if err != nil {
		t.Fatalf("获取购物车失败: %v", err)
	}
	byProduct := map[uint]int{}
	for _, d := range details {
		byProduct[d.ProductID] = d.Quantity
	}
	if byProduct[shared.ID] != 5 {
		t.Fatalf("同商品合并后数量期望 5 实际 %d", byProduct[shared.ID])
	}
	if byProduct[guestOnly.ID] != 1 {
		t.Fatalf("游客独有商品应改归属，实际 %d", byProduct[guestOnly.ID])
	}

	guestLeft, err := svc.List(guest)
	if err != nil {
		t.Fatalf("获取游客购物车失败: %v", err)
	}
	if len(guestLeft) != 0 {
		t.Fatalf("合并后游客购物车应为空，实际 %d 行", len(guestLeft))
	}
}

func TestCartReAddAfterRemove(t *testing.T) {
	db, svc := newCartTestEnv(t, "cart_readd")
	category := seedTestCategory(t, db, "veg")
	product := seedTestProduct(t, db, category.ID, "tomatoes", "8.50", 10)
	owner := repository.CartOwner{UserID: seedTestUser(t, db, "readd@example.com").ID}

	if err := svc.AddItem(AddCartItemInput{Owner: owner, ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("加购失败: %v", err)
	}
	if err := svc.RemoveItem(owner, product.ID); err != nil {
		t.Fatalf("移除失败: %v", err)
	}
	// 移除后同商品要能再次加入
	if err := svc.AddItem(AddCartItemInput{Owner: owner, ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("再次加购失败: %v", err)
	}

	if err := svc.Clear(owner); err != nil {
		t.Fatalf("清空失败: %v", err)
	}
	if err := svc.AddItem(AddCartItemInput{Owner: owner, ProductID: product.ID, Quantity: 3}); err != nil {
		t.Fatalf("清空后加购失败: %v", err)
	}
	items, err := svc.List(owner)
	if err != nil {
		t.Fatalf("获取购物车失败: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 3 {
		t.Fatalf("期望 1 行数量 3，实际 %d 行", len(items))
	}
}
