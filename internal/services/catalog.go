package services

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/asamarka-625/ApplicationSystem/internal/entities"
	"github.com/asamarka-625/ApplicationSystem/internal/repositories"
)

const (
	cacheKeyDepartments   = "catalog:departments"
	cacheKeyOrganizations = "catalog:organizations"
	catalogCacheTTL       = 10 * time.Minute
)

type CatalogServiceInterface interface {
	SearchItems(ctx context.Context, nameLike string, limit uint64) ([]entities.Item, error)
	ListDepartments(ctx context.Context) ([]entities.Department, error)
	ListOrganizations(ctx context.Context) ([]entities.ExecutorOrganization, error)
	ListExecutors(ctx context.Context, actor entities.Actor) ([]entities.Executor, error)
	ListManagementDepartments(ctx context.Context, actor entities.Actor) ([]entities.ManagementDepartment, error)
}

// CatalogService отдает справочники. Списки судов и организаций редко
// меняются и кэшируются в Redis; поиск по предметам идет мимо кэша.
type CatalogService struct {
	catalogRepo repositories.CatalogRepositoryInterface
	cache       repositories.CacheRepositoryInterface
	logger      *zap.Logger
}

func NewCatalogService(
	catalogRepo repositories.CatalogRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	logger *zap.Logger,
) CatalogServiceInterface {
	return &CatalogService{catalogRepo: catalogRepo, cache: cache, logger: logger}
}

func (s *CatalogService) SearchItems(ctx context.Context, nameLike string, limit uint64) ([]entities.Item, error) {
	if limit == 0 || limit > 100 {
		limit = 100
	}
	return s.catalogRepo.SearchItems(ctx, nameLike, limit)
}

// cached читает значение из кэша, при промахе загружает и кладет.
// Ошибки кэша не фатальны: данные всегда можно взять из базы.
func cached[T any](ctx context.Context, s *CatalogService, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	if raw, err := s.cache.Get(ctx, key); err == nil {
		var values []T
		if err := json.Unmarshal([]byte(raw), &values); err == nil {
			return values, nil
		}
	}

	values, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(values); err == nil {
		if err := s.cache.Set(ctx, key, string(raw), catalogCacheTTL); err != nil {
			s.logger.Warn("не удалось записать справочник в кэш",
				zap.String("key", key), zap.Error(err))
		}
	}
	return values, nil
}

func (s *CatalogService) ListDepartments(ctx context.Context) ([]entities.Department, error) {
	return cached(ctx, s, cacheKeyDepartments, s.catalogRepo.ListDepartments)
}

func (s *CatalogService) ListOrganizations(ctx context.Context) ([]entities.ExecutorOrganization, error) {
	return cached(ctx, s, cacheKeyOrganizations, s.catalogRepo.ListOrganizations)
}

// ListExecutors возвращает исполнителей, доступных актору для
// назначения: отдел видит своих, управление - никого без уточнения.
func (s *CatalogService) ListExecutors(ctx context.Context, actor entities.Actor) ([]entities.Executor, error) {
	if actor.Is(entities.RoleManagementDepartment) {
		return s.catalogRepo.ListExecutorsByDepartment(ctx, actor.ProfileID)
	}
	return []entities.Executor{}, nil
}

func (s *CatalogService) ListManagementDepartments(ctx context.Context, actor entities.Actor) ([]entities.ManagementDepartment, error) {
	if actor.Is(entities.RoleManagement) {
		return s.catalogRepo.ListManagementDepartments(ctx, actor.ProfileID)
	}
	return []entities.ManagementDepartment{}, nil
}
