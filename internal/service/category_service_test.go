package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskquest/internal/model"
	"taskquest/internal/realtime"
	"taskquest/internal/repository"
)

func newTestCategoryService(t *testing.T) *CategoryService {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return NewCategoryService(repository.NewCategoryRepository(db, realtime.NewHub()))
}

func TestCategoryCreateFillsDefaults(t *testing.T) {
	svc := newTestCategoryService(t)

	category, err := svc.Create(context.Background(), "  errands  ", "", "")
	require.NoError(t, err)
	assert.Equal(t, "errands", category.Name)
	assert.Equal(t, model.DefaultCategoryColor, category.ColorHex)
	assert.Equal(t, model.DefaultCategoryIcon, category.IconName)
	assert.NotZero(t, category.ID)
}

func TestCategoryCreateRejectsBlankName(t *testing.T) {
	svc := newTestCategoryService(t)

	_, err := svc.Create(context.Background(), "   ", "", "")
	require.Error(t, err)
}

func TestCategoryListSortsByName(t *testing.T) {
	svc := newTestCategoryService(t)
	ctx := context.Background()

	for _, name := range []string{"work", "errands", "health"} {
		_, err := svc.Create(ctx, name, "#112233", "star")
		require.NoError(t, err)
	}

	categories, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.Equal(t, "errands", categories[0].Name)
	assert.Equal(t, "health", categories[1].Name)
	assert.Equal(t, "work", categories[2].Name)
}
