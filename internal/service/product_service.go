package service

import (
	"strings"

	"github.com/greenbasket/internal/models"
	"github.com/greenbasket/internal/repository"

	"github.com/shopspring/decimal"
)

// ProductService 商品业务服务
type ProductService struct {
	repo repository.ProductRepository
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

// ProductInput 创建/更新商品输入
type ProductInput struct {
	CategoryID    uint
	Slug          string
	Name          string
	Description   string
	Unit          string
	PriceAmount   decimal.Decimal
	StockQuantity *int
	Images        []string
	Tags          []string
	IsActive      *bool
	SortOrder     int
}

// ListPublic 获取公开商品列表
func (s *ProductService) ListPublic(categoryID, search, tag string, page, pageSize int) ([]models.Product, int64, error) {
	filter := repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		CategoryID:   categoryID,
		Search:       search,
		Tag:          tag,
		OnlyActive:   true,
		WithCategory: true,
	}
	return s.repo.List(filter)
}

// GetPublicBySlug 获取公开商品详情
func (s *ProductService) GetPublicBySlug(slug string) (*models.Product, error) {
	product, err := s.repo.GetBySlug(slug, true)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ListAdmin 获取后台商品列表
func (s *ProductService) ListAdmin(categoryID, search string, page, pageSize int) ([]models.Product, int64, error) {
	filter := repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		CategoryID:   categoryID,
		Search:       search,
		OnlyActive:   false,
		WithCategory: true,
	}
	return s.repo.List(filter)
}

// GetAdminByID 获取后台商品详情
func (s *ProductService) GetAdminByID(id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func normalizeProductInput(input *ProductInput) error {
	input.Slug = strings.TrimSpace(input.Slug)
	input.Name = strings.TrimSpace(input.Name)
	input.Unit = strings.TrimSpace(input.Unit)
	if input.Unit == "" {
		input.Unit = "pc"
	}
	if input.Slug == "" || input.Name == "" || input.CategoryID == 0 {
		return ErrProductNotAvailable
	}
	if input.PriceAmount.LessThan(decimal.Zero) {
		return ErrProductNotAvailable
	}
	return nil
}

// Create 创建商品
func (s *ProductService) Create(input ProductInput) (*models.Product, error) {
	if err := normalizeProductInput(&input); err != nil {
		return nil, err
	}
	count, err := s.repo.CountBySlug(input.Slug, nil)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugTaken
	}

	product := &models.Product{
		CategoryID:  input.CategoryID,
		Slug:        input.Slug,
		Name:        input.Name,
		Description: input.Description,
		Unit:        input.Unit,
		PriceAmount: models.NewMoneyFromDecimal(input.PriceAmount),
		Images:      input.Images,
		Tags:        input.Tags,
		SortOrder:   input.SortOrder,
		IsActive:    true,
	}
	if input.StockQuantity != nil {
		product.StockQuantity = *input.StockQuantity
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update 更新商品
func (s *ProductService) Update(id uint, input ProductInput) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if err := normalizeProductInput(&input); err != nil {
		return nil, err
	}
	if input.Slug != product.Slug {
		count, err := s.repo.CountBySlug(input.Slug, &id)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrSlugTaken
		}
	}

	product.CategoryID = input.CategoryID
	product.Slug = input.Slug
	product.Name = input.Name
	product.Description = input.Description
	product.Unit = input.Unit
	product.PriceAmount = models.NewMoneyFromDecimal(input.PriceAmount)
	product.Images = input.Images
	product.Tags = input.Tags
	product.SortOrder = input.SortOrder
	if input.StockQuantity != nil {
		product.StockQuantity = *input.StockQuantity
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// AdjustStock 管理端直接调整库存（进货、盘点）
func (s *ProductService) AdjustStock(id uint, stockQuantity int) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	product.StockQuantity = stockQuantity
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete 删除商品
func (s *ProductService) Delete(id uint) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	return s.repo.Delete(id)
}
