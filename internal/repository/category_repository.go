package repository

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskquest/internal/model"
	"taskquest/internal/realtime"
)

// CategoryRepository manages task categories.
type CategoryRepository struct {
	db  *gorm.DB
	hub *realtime.Hub
}

func NewCategoryRepository(db *gorm.DB, hub *realtime.Hub) *CategoryRepository {
	return &CategoryRepository{db: db, hub: hub}
}

// Insert persists the category, assigning an identity when absent and
// replacing an existing row with the same identity.
func (r *CategoryRepository) Insert(ctx context.Context, category *model.Category) error {
	rec := toCategoryRecord(*category)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rec).Error; err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	category.ID = rec.ID
	r.hub.Notify()
	return nil
}

// Update persists all fields by identity; a missing identity is a silent
// no-op.
func (r *CategoryRepository) Update(ctx context.Context, category model.Category) error {
	rec := toCategoryRecord(category)
	res := r.db.WithContext(ctx).
		Model(&categoryRecord{}).
		Where("id = ?", rec.ID).
		Select("*").Omit("id").
		Updates(rec)
	if res.Error != nil {
		return fmt.Errorf("update category: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		r.hub.Notify()
	}
	return nil
}

// DeleteByID removes a category and clears the reference on every task that
// pointed at it. Tasks are never deleted with their category; both changes
// land in one transaction.
func (r *CategoryRepository) DeleteByID(ctx context.Context, categoryID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&taskRecord{}).
			Where("category_id = ?", categoryID).
			Update("category_id", nil).Error; err != nil {
			return fmt.Errorf("clear task references: %w", err)
		}
		if err := tx.Delete(&categoryRecord{}, categoryID).Error; err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.hub.Notify()
	return nil
}

// GetByID returns the category, or nil when no row exists.
func (r *CategoryRepository) GetByID(ctx context.Context, categoryID uint) (*model.Category, error) {
	var rec categoryRecord
	err := r.db.WithContext(ctx).First(&rec, categoryID).Error
	switch {
	case err == nil:
		category := toCategory(rec)
		return &category, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("find category: %w", err)
	}
}

// ListAll returns every category ordered by name.
func (r *CategoryRepository) ListAll(ctx context.Context) ([]model.Category, error) {
	var records []categoryRecord
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	categories := make([]model.Category, 0, len(records))
	for _, rec := range records {
		categories = append(categories, toCategory(rec))
	}
	return categories, nil
}

// WatchAll streams snapshots of the category list: one immediately, then one
// after every store change, until ctx is cancelled.
func (r *CategoryRepository) WatchAll(ctx context.Context) <-chan []model.Category {
	out := make(chan []model.Category, 1)
	signals, cancel := r.hub.Subscribe()

	push := func() {
		categories, err := r.ListAll(ctx)
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("watch categories: %v", err)
			}
			return
		}
		select {
		case out <- categories:
		default:
			select {
			case <-out:
			default:
			}
			out <- categories
		}
	}

	go func() {
		defer cancel()
		defer close(out)
		push()
		for {
			select {
			case <-ctx.Done():
				return
			case <-signals:
				push()
			}
		}
	}()
	return out
}
