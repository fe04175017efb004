package service

import (
	"fmt"
	"sort"

	"github.com/greenbasket/internal/constants"
	"github.com/greenbasket/internal/repository"

	"gorm.io/gorm"
)

// StockLine 库存预占行
type StockLine struct {
	ProductID uint
	Quantity  int
}

// StockService 库存台账服务。扣减通过条件更新实现，
// 任意一行失败即返回错误让外层事务整体回滚。
type StockService struct {
	productRepo repository.ProductRepository
}

// NewStockService 创建库存服务
func NewStockService(productRepo repository.ProductRepository) *StockService {
	return &StockService{productRepo: productRepo}
}

// ReserveInTx 在事务内按商品ID升序逐行预占库存。
// 固定加锁顺序避免并发下单互相死锁。
func (s *StockService) ReserveInTx(tx *gorm.DB, lines []StockLine) error {
	sorted := make([]StockLine, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ProductID < sorted[j].ProductID })

	repo := s.productRepo.WithTx(tx)
	for _, line := range sorted {
		if line.ProductID == 0 || line.Quantity <= 0 {
			return ErrInvalidCartItem
		}
		affected, err := repo.ReserveStock(line.ProductID, line.Quantity)
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("product %d: %w", line.ProductID, ErrStockInsufficient)
		}
	}
	return nil
}

// RestoreInTx 在事务内回补库存（取消订单时调用）
func (s *StockService) RestoreInTx(tx *gorm.DB, lines []StockLine) error {
	repo := s.productRepo.WithTx(tx)
	for _, line := range lines {
		if line.ProductID == 0 || line.Quantity <= 0 {
			continue
		}
		if _, err := repo.RestoreStock(line.ProductID, line.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// Available 判断商品对指定数量是否可售
func Available(stockQuantity, quantity int) bool {
	if stockQuantity == constants.StockUnlimited {
		return true
	}
	return stockQuantity >= quantity
}
