package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"quietspace/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateMyProfile(t *testing.T) {
	t.Parallel()

	s, db, _ := newTestServer(t)
	user := createTestUser(t, db, "maya@example.com")

	app := fiber.New()
	app.Put("/api/users/me", injectUser(user.ID), s.UpdateMyProfile)

	resp := doJSON(t, app, http.MethodPut, "/api/users/me", fiber.Map{
		"full_name": "Maya Lindqvist",
		"bio":       "always looking for a quiet corner",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.User
	decodeBody(t, resp, &updated)
	assert.Equal(t, "Maya Lindqvist", updated.FullName)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, "always looking for a quiet corner", stored.Bio)
}

func TestUpdateMyProfile_Validation(t *testing.T) {
	t.Parallel()

	s, db, _ := newTestServer(t)
	user := createTestUser(t, db, "maya@example.com")

	app := fiber.New()
	app.Put("/api/users/me", injectUser(user.ID), s.UpdateMyProfile)

	resp := doJSON(t, app, http.MethodPut, "/api/users/me", fiber.Map{
		"bio": strings.Repeat("x", 501),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestGetUserProfile(t *testing.T) {
	t.Parallel()

	s, db, _ := newTestServer(t)
	user := createTestUser(t, db, "maya@example.com")

	app := fiber.New()
	app.Get("/api/users/:id", s.GetUserProfile)

	resp := doJSON(t, app, http.MethodGet, "/api/users/"+user.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got models.User
	decodeBody(t, resp, &got)
	assert.Equal(t, user.Email, got.Email)

	resp = doJSON(t, app, http.MethodGet, "/api/users/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestUploadAvatar(t *testing.T) {
	t.Parallel()

	s, db, blobs := newTestServer(t)
	user := createTestUser(t, db, "maya@example.com")

	app := fiber.New()
	app.Post("/api/users/me/avatar", injectUser(user.ID), s.UploadAvatar)

	body, contentType := multipartPost(t, nil, "avatar", "me.jpg", encodedJPEG(t, 600, 600))
	req := httptest.NewRequest(http.MethodPost, "/api/users/me/avatar", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.User
	decodeBody(t, resp, &updated)
	assert.Contains(t, updated.AvatarURL, "avatars/avatar_"+user.ID)
	assert.Equal(t, 1, blobs.len())

	// missing file
	resp = doJSON(t, app, http.MethodPost, "/api/users/me/avatar", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
