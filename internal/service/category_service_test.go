package service

import (
	"errors"
	"testing"

	"github.com/greenbasket/internal/repository"

	"gorm.io/gorm"
)

func newCategoryTestEnv(t *testing.T, name string) (*gorm.DB, *CategoryService) {
	t.Helper()
	db := newServiceTestDB(t, name)
	return db, NewCategoryService(repository.NewCategoryRepository(db))
}

func TestCategoryCreate(t *testing.T) {
	_, svc := newCategoryTestEnv(t, "category_create")

	category, err := svc.Create(CategoryInput{Slug: " fresh-produce ", Name: " 时令果蔬 "})
	if err != nil {
		t.Fatalf("创建分类失败: %v", err)
	}
	if category.Slug != "fresh-produce" || category.Name != "时令果蔬" {
		t.Fatalf("字段应去空格: %+v", category)
	}

	if _, err := svc.Create(CategoryInput{Slug: "fresh-produce", Name: "撞名"}); !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("期望 ErrSlugTaken 实际 %v", err)
	}
	if _, err := svc.Create(CategoryInput{Slug: "", Name: "无标识"}); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("期望 ErrCategoryNotFound 实际 %v", err)
	}
}

func TestCategoryUpdate(t *testing.T) {
	_, svc := newCategoryTestEnv(t, "category_update")
	first, err := svc.Create(CategoryInput{Slug: "dairy", Name: "乳品"})
	if err != nil {
		t.Fatalf("创建分类失败: %v", err)
	}
	second, err := svc.Create(CategoryInput{Slug: "bakery", Name: "烘焙"})
	if err != nil {
		t.Fatalf("创建分类失败: %v", err)
	}

	updated, err := svc.Update(first.ID, CategoryInput{Slug: "dairy-eggs", Name: "乳品蛋类", SortOrder: 3})
	if err != nil {
		t.Fatalf("更新分类失败: %v", err)
	}
	if updated.Slug != "dairy-eggs" || updated.SortOrder != 3 {
		t.Fatalf("更新结果不符: %+v", updated)
	}

	// 改成另一分类的 slug 要被拒绝
	if _, err := svc.Update(first.ID, CategoryInput{Slug: second.Slug, Name: "乳品"}); !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("期望 ErrSlugTaken 实际 %v", err)
	}
	if _, err := svc.Update(9999, CategoryInput{Slug: "x", Name: "x"}); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("期望 ErrCategoryNotFound 实际 %v", err)
	}
}

func TestCategoryDeleteGuardedByProducts(t *testing.T) {
	db, svc := newCategoryTestEnv(t, "category_delete")
	category, err := svc.Create(CategoryInput{Slug: "pantry", Name: "粮油"})
	if err != nil {
		t.Fatalf("创建分类失败: %v", err)
	}
	seedTestProduct(t, db, category.ID, "rice", "39.90", 10)

	if err := svc.Delete(category.ID); !errors.Is(err, ErrCategoryNotEmpty) {
		t.Fatalf("分类下有商品期望 ErrCategoryNotEmpty 实际 %v", err)
	}

	if err := db.Exec("DELETE FROM products").Error; err != nil {
		t.Fatalf("清理商品失败: %v", err)
	}
	if err := svc.Delete(category.ID); err != nil {
		t.Fatalf("删除分类失败: %v", err)
	}

	categories, err := svc.List()
	if err != nil {
		t.Fatalf("分类列表失败: %v", err)
	}
	if len(categories) != 0 {
		t.Fatalf("删除后列表应为空，实际 %d", len(categories))
	}
}
