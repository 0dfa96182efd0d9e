package storage

import (
	"testing"

	"quietspace/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestPublicURL(t *testing.T) {
	s := &Storage{cfg: &config.Config{
		S3Endpoint:  "minio.internal:9000",
		S3PublicURL: "https://cdn.example.com/",
	}}
	assert.Equal(t, "https://cdn.example.com/community-posts/images/a.jpg",
		s.PublicURL("community-posts", "images/a.jpg"))

	// Without a public URL the endpoint is used directly.
	s = &Storage{cfg: &config.Config{S3Endpoint: "minio.internal:9000"}}
	assert.Equal(t, "http://minio.internal:9000/avatars/u1.jpg",
		s.PublicURL("avatars", "u1.jpg"))

	s = &Storage{cfg: &config.Config{S3Endpoint: "minio.internal:9000", S3UseSSL: true}}
	assert.Equal(t, "https://minio.internal:9000/avatars/u1.jpg",
		s.PublicURL("avatars", "u1.jpg"))
}

func TestKeyFromURL(t *testing.T) {
	key, ok := KeyFromURL("https://cdn.example.com/community-posts/images/post_abc_123.jpg", "community-posts")
	assert.True(t, ok)
	assert.Equal(t, "images/post_abc_123.jpg", key)

	_, ok = KeyFromURL("https://cdn.example.com/other-bucket/images/x.jpg", "community-posts")
	assert.False(t, ok)

	_, ok = KeyFromURL("https://cdn.example.com/community-posts/", "community-posts")
	assert.False(t, ok)
}
