package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/asamarka-625/ApplicationSystem/internal/entities"
)

type fakeCache struct {
	values map[string]string
	broken bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	if c.broken {
		return "", fmt.Errorf("redis недоступен")
	}
	value, ok := c.values[key]
	if !ok {
		return "", fmt.Errorf("ключ %s не найден", key)
	}
	return value, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if c.broken {
		return fmt.Errorf("redis недоступен")
	}
	c.values[key] = value.(string)
	return nil
}

func (c *fakeCache) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.values, key)
	}
	return nil
}

type countingCatalogRepo struct {
	fakeCatalogRepo
	departmentCalls int
}

func (r *countingCatalogRepo) ListDepartments(context.Context) ([]entities.Department, error) {
	r.departmentCalls++
	return []entities.Department{
		{ID: 3, Name: "Городской суд", Code: 77},
		{ID: 4, Name: "Районный суд", Code: 78},
	}, nil
}

func TestCatalogService_ListDepartments_Cached(t *testing.T) {
	repo := &countingCatalogRepo{fakeCatalogRepo: fakeCatalogRepo{store: newMemStore()}}
	cache := newFakeCache()
	service := NewCatalogService(repo, cache, zap.NewNop())
	ctx := context.Background()

	first, err := service.ListDepartments(ctx)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, 1, repo.departmentCalls)
	assert.Contains(t, cache.values, "catalog:departments")

	// Повторное чтение идет из кэша, в базу не ходит.
	second, err := service.ListDepartments(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.departmentCalls)
}

func TestCatalogService_ListDepartments_CacheDown(t *testing.T) {
	repo := &countingCatalogRepo{fakeCatalogRepo: fakeCatalogRepo{store: newMemStore()}}
	cache := newFakeCache()
	cache.broken = true
	service := NewCatalogService(repo, cache, zap.NewNop())

	// Недоступный кэш не мешает отдавать справочник.
	departments, err := service.ListDepartments(context.Background())
	require.NoError(t, err)
	assert.Len(t, departments, 2)
}

func TestCatalogService_ListExecutors_Scope(t *testing.T) {
	repo := &countingCatalogRepo{fakeCatalogRepo: fakeCatalogRepo{store: newMemStore()}}
	service := NewCatalogService(repo, newFakeCache(), zap.NewNop())
	ctx := context.Background()

	// Список исполнителей доступен только отделу управления.
	executors, err := service.ListExecutors(ctx, executorActor)
	require.NoError(t, err)
	assert.Empty(t, executors)

	executors, err = service.ListExecutors(ctx, departmentActor)
	require.NoError(t, err)
	assert.NotNil(t, executors)
}

func TestCatalogService_SearchItems_LimitClamp(t *testing.T) {
	repo := &clampCatalogRepo{}
	service := NewCatalogService(repo, newFakeCache(), zap.NewNop())
	ctx := context.Background()

	_, err := service.SearchItems(ctx, "бумага", 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), repo.lastLimit)

	_, err = service.SearchItems(ctx, "бумага", 500)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), repo.lastLimit)

	_, err = service.SearchItems(ctx, "бумага", 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), repo.lastLimit)
}

type clampCatalogRepo struct {
	fakeCatalogRepo
	lastLimit uint64
}

func (r *clampCatalogRepo) SearchItems(_ context.Context, _ string, limit uint64) ([]entities.Item, error) {
	r.lastLimit = limit
	return nil, nil
}
