package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/zyrnwastaken/mini-crm/internal/cache"
	"github.com/zyrnwastaken/mini-crm/internal/composer"
	"github.com/zyrnwastaken/mini-crm/internal/domain"
	"github.com/zyrnwastaken/mini-crm/internal/repository"
)

const catalogFlightKey = "catalog"

type ItemService struct {
	repo  repository.ItemRepository
	cache cache.CatalogCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewItemService(repo repository.ItemRepository, cache cache.CatalogCache) *ItemService {
	return &ItemService{
		repo:  repo,
		cache: cache,
	}
}

// List returns the catalog, serving from cache when possible. Concurrent
// misses collapse into one repository query via singleflight.
func (s *ItemService) List(ctx context.Context) ([]*domain.Item, error) {
	v, err, _ := s.sfg.Do(catalogFlightKey, func() (interface{}, error) {

		items, err := s.cache.Get(ctx)
		if err == nil {
			return items, nil // catalog is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v \n", err) // log cache error but continue
		}

		items, errList := s.repo.ListItems(ctx)
		if errList != nil {
			return nil, errList
		}

		// set cache
		go func() {
			errSet := s.cache.Set(context.Background(), items)
			if errSet != nil {
				log.Printf("cache set error: %v \n", errSet)
			}
		}()

		return items, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]*domain.Item), nil
}

func (s *ItemService) Create(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	if strings.TrimSpace(item.Name) == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(item.Code) == "" {
		item.Code = composer.GenerateCode("ITM_")
	}

	item.ID = uuid.New()
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	s.invalidateCache()
	return item, nil
}

func (s *ItemService) Update(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	if strings.TrimSpace(item.Name) == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(item.Code) == "" {
		item.Code = composer.GenerateCode("ITM_")
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	s.invalidateCache()
	return s.repo.GetItemByID(ctx, item.ID)
}

func (s *ItemService) Get(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	return s.repo.GetItemByID(ctx, id)
}

func (s *ItemService) invalidateCache() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Printf("cache invalidate error: %v \n", err)
	}
}
