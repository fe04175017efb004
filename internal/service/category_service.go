package service

import (
	"strings"

	"github.com/greenbasket/internal/models"
	"github.com/greenbasket/internal/repository"
)

// CategoryService 分类业务服务
type CategoryService struct {
	repo repository.CategoryRepository
}

// NewCategoryService 创建分类服务
func NewCategoryService(repo repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// CategoryInput 创建/更新分类输入
type CategoryInput struct {
	Slug      string
	Name      string
	Icon      string
	SortOrder int
}

// List 分类列表
func (s *CategoryService) List() ([]models.Category, error) {
	return s.repo.List()
}

// Create 创建分类
func (s *CategoryService) Create(input CategoryInput) (*models.Category, error) {
	slug := strings.TrimSpace(input.Slug)
	name := strings.TrimSpace(input.Name)
	if slug == "" || name == "" {
		return nil, ErrCategoryNotFound
	}
	existing, err := s.repo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrSlugTaken
	}
	category := &models.Category{
		Slug:      slug,
		Name:      name,
		Icon:      strings.TrimSpace(input.Icon),
		SortOrder: input.SortOrder,
	}
	if err := s.repo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Update 更新分类
func (s *CategoryService) Update(id uint, input CategoryInput) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	slug := strings.TrimSpace(input.Slug)
	name := strings.TrimSpace(input.Name)
	if slug == "" || name == "" {
		return nil, ErrCategoryNotFound
	}
	if slug != category.Slug {
		existing, err := s.repo.GetBySlug(slug)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, ErrSlugTaken
		}
	}
	category.Slug = slug
	category.Name = name
	category.Icon = strings.TrimSpace(input.Icon)
	category.SortOrder = input.SortOrder
	if err := s.repo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete 删除分类，分类下还有商品时拒绝
func (s *CategoryService) Delete(id uint) error {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	count, err := s.repo.CountProducts(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryNotEmpty
	}
	return s.repo.Delete(id)
}
