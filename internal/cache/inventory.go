package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix      = "user:%s"
	PostKeyPrefix      = "post:%s"
	PostsListPrefix    = "posts:list:%d:%d"
	CommentsKeyPrefix  = "post:%s:comments"
	NearbyKeyPrefix    = "places:nearby:%.3f:%.3f"
	FavoritesKeyPrefix = "user:%s:favorites"
)

const (
	UserTTL      = 5 * time.Minute
	PostTTL      = 30 * time.Minute
	ListTTL      = 2 * time.Minute
	CommentsTTL  = 2 * time.Minute
	NearbyTTL    = 10 * time.Minute
	FavoritesTTL = 5 * time.Minute
)

func UserKey(userID string) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID string) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func PostsListKey(limit, offset int) string {
	return fmt.Sprintf(PostsListPrefix, limit, offset)
}

func CommentsKey(postID string) string {
	return fmt.Sprintf(CommentsKeyPrefix, postID)
}

// NearbyKey buckets coordinates to ~100m so nearby lookups share cache entries.
func NearbyKey(lat, lng float64) string {
	return fmt.Sprintf(NearbyKeyPrefix, lat, lng)
}

func FavoritesKey(userID string) string {
	return fmt.Sprintf(FavoritesKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID string) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePost(ctx context.Context, postID string) {
	Invalidate(ctx, PostKey(postID))
	Invalidate(ctx, CommentsKey(postID))
}

// InvalidatePostsList deletes every cached feed page. Pages are keyed by
// limit and offset, so a pattern scan is needed rather than a single DEL.
func InvalidatePostsList(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, "posts:list:*", 100).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}

func InvalidateFavorites(ctx context.Context, userID string) {
	Invalidate(ctx, FavoritesKey(userID))
}
