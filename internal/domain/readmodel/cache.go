// Package readmodel names the cached read views and the port that stores
// them. Writers never touch the cache; event subscribers invalidate it.
package readmodel

import (
	"context"
	"time"
)

type Cache interface {
	// Get decodes the cached value into dst; ok is false on a miss.
	Get(ctx context.Context, key string, dst any) (ok bool, err error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

func CatalogKey(category string) string {
	if category == "" {
		category = "all"
	}
	return "loan-types:" + category
}

func UserApplicationsKey(userID string) string { return "loan-apps:user:" + userID }

func ApplicationKey(applicationID string) string { return "loan-apps:one:" + applicationID }
