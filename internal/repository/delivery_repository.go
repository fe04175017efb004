package repository

import (
	"errors"

	"github.com/greenbasket/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeliveryRepository 配送区域与时段数据访问接口
type DeliveryRepository interface {
	ListZones(onlyActive bool) ([]models.DeliveryZone, error)
	GetZoneByID(id uint) (*models.DeliveryZone, error)
	CreateZone(zone *models.DeliveryZone) error
	UpdateZone(zone *models.DeliveryZone) error
	DeleteZone(id uint) error
	ListSlots(onlyActive bool) ([]models.DeliverySlot, error)
	GetSlotByID(id uint) (*models.DeliverySlot, error)
	GetSlotByIDForUpdate(id uint) (*models.DeliverySlot, error)
	CreateSlot(slot *models.DeliverySlot) error
	UpdateSlot(slot *models.DeliverySlot) error
	DeleteSlot(id uint) error
	WithTx(tx *gorm.DB) *GormDeliveryRepository
}

// GormDeliveryRepository GORM 实现
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewDeliveryRepository 创建配送仓库
func NewDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// WithTx 绑定事务
func (r *GormDeliveryRepository) WithTx(tx *gorm.DB) *GormDeliveryRepository {
	if tx == nil {
		return r
	}
	return &GormDeliveryRepository{db: tx}
}

// ListZones 配送区域列表
func (r *GormDeliveryRepository) ListZones(onlyActive bool) ([]models.DeliveryZone, error) {
	query := r.db.Model(&models.DeliveryZone{})
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	var zones []models.DeliveryZone
	if err := query.Order("sort_order DESC, id ASC").Find(&zones).Error; err != nil {
		return nil, err
	}
	return zones, nil
}

// GetZoneByID 根据ID获取配送区域
func (r *GormDeliveryRepository) GetZoneByID(id uint) (*models.DeliveryZone, error) {
	var zone models.DeliveryZone
	if err := r.db.First(&zone, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &zone, nil
}

// CreateZone 创建配送区域
func (r *GormDeliveryRepository) CreateZone(zone *models.DeliveryZone) error {
	return r.db.Create(zone).Error
}

// UpdateZone 更新配送区域
func (r *GormDeliveryRepository) UpdateZone(zone *models.DeliveryZone) error {
	return r.db.Save(zone).Error
}

// DeleteZone 删除配送区域
func (r *GormDeliveryRepository) DeleteZone(id uint) error {
	return r.db.Delete(&models.DeliveryZone{}, id).Error
}

// ListSlots 配送时段列表
func (r *GormDeliveryRepository) ListSlots(onlyActive bool) ([]models.DeliverySlot, error) {
	query := r.db.Model(&models.DeliverySlot{})
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	var slots []models.DeliverySlot
	if err := query.Order("sort_order DESC, start_hour ASC").Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

// GetSlotByID 根据ID获取配送时段
func (r *GormDeliveryRepository) GetSlotByID(id uint) (*models.DeliverySlot, error) {
	var slot models.DeliverySlot
	if err := r.db.First(&slot, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

// GetSlotByIDForUpdate 加锁获取配送时段，下单事务内用于串行化容量校验
func (r *GormDeliveryRepository) GetSlotByIDForUpdate(id uint) (*models.DeliverySlot, error) {
	var slot models.DeliverySlot
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&slot, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

// CreateSlot 创建配送时段
func (r *GormDeliveryRepository) CreateSlot(slot *models.DeliverySlot) error {
	return r.db.Create(slot).Error
}

// UpdateSlot 更新配送时段
func (r *GormDeliveryRepository) UpdateSlot(slot *models.DeliverySlot) error {
	return r.db.Save(slot).Error
}

// DeleteSlot 删除配送时段
func (r *GormDeliveryRepository) DeleteSlot(id uint) error {
	return r.db.Delete(&models.DeliverySlot{}, id).Error
}
