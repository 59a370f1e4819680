package service

import (
	"context"
	"fmt"
	"strings"

	"taskquest/internal/model"
	"taskquest/internal/repository"
)

// CategoryService provides helpers around categories.
type CategoryService struct {
	repo *repository.CategoryRepository
}

func NewCategoryService(repo *repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// Create persists a new category, filling in default display attributes when
// the caller leaves them blank.
func (s *CategoryService) Create(ctx context.Context, name, colorHex, iconName string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("category name is required")
	}
	if colorHex == "" {
		colorHex = model.DefaultCategoryColor
	}
	if iconName == "" {
		iconName = model.DefaultCategoryIcon
	}

	category := model.Category{Name: name, ColorHex: colorHex, IconName: iconName}
	if err := s.repo.Insert(ctx, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.repo.ListAll(ctx)
}

func (s *CategoryService) Get(ctx context.Context, categoryID uint) (*model.Category, error) {
	return s.repo.GetByID(ctx, categoryID)
}

// Delete removes the category; tasks that referenced it keep living with the
// reference cleared by the repository.
func (s *CategoryService) Delete(ctx context.Context, categoryID uint) error {
	return s.repo.DeleteByID(ctx, categoryID)
}

// Watch streams category list snapshots until ctx is cancelled.
func (s *CategoryService) Watch(ctx context.Context) <-chan []model.Category {
	return s.repo.WatchAll(ctx)
}
