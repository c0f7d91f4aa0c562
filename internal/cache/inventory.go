package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	ProfileKeyPrefix = "profile:user:%d"
	CategoryListKey  = "categories:list"
)

const (
	ProfileTTL      = 5 * time.Minute
	CategoryListTTL = 10 * time.Minute
)

func ProfileKey(userID uint) string {
	return fmt.Sprintf(ProfileKeyPrefix, userID)
}

// Invalidate deletes keys, ignoring errors.
func Invalidate(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

func InvalidateProfile(ctx context.Context, userID uint) {
	Invalidate(ctx, ProfileKey(userID))
}

// InvalidateCategories drops the category list, whose post counts change
// with every post create, move or delete.
func InvalidateCategories(ctx context.Context) {
	Invalidate(ctx, CategoryListKey)
}
