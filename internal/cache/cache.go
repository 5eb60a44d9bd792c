package cache

import (
	"context"
	"errors"

	"github.com/zyrnwastaken/mini-crm/internal/domain"
)

type CatalogCache interface {
	Get(ctx context.Context) ([]*domain.Item, error)
	Set(ctx context.Context, items []*domain.Item) error
	Invalidate(ctx context.Context) error
}

var ErrCacheMiss = errors.New("cache miss")
