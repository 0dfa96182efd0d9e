package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"quietspace/internal/config"
	"quietspace/internal/middleware"
	"quietspace/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSignup(t *testing.T) {
	t.Parallel()

	s, db, _ := newTestServer(t)
	app := fiber.New()
	app.Post("/api/auth/signup", s.Signup)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", fiber.Map{
		"email":     "maya@example.com",
		"password":  "SecurePass12!@",
		"full_name": "Maya",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decodeBody(t, resp, &body)
	assert.NotEmpty(t, body.Token)
	assert.Equal(t, "maya@example.com", body.User.Email)
	assert.NotEmpty(t, body.User.ID)

	var stored models.User
	require.NoError(t, db.First(&stored, "email = ?", "maya@example.com").Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("SecurePass12!@")))
}

func TestSignup_Validation(t *testing.T) {
	t.Parallel()

	s, _, _ := newTestServer(t)
	app := fiber.New()
	app.Post("/api/auth/signup", s.Signup)

	tests := []struct {
		name string
		body fiber.Map
	}{
		{"missing fields", fiber.Map{"email": "x@example.com"}},
		{"bad email", fiber.Map{"email": "not-an-email", "password": "SecurePass12!@"}},
		{"weak password", fiber.Map{"email": "x@example.com", "password": "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			resp.Body.Close()
		})
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	t.Parallel()

	s, _, _ := newTestServer(t)
	app := fiber.New()
	app.Post("/api/auth/signup", s.Signup)

	body := fiber.Map{"email": "dup@example.com", "password": "SecurePass12!@"}
	resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/auth/signup", body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestLogin(t *testing.T) {
	t.Parallel()

	s, db, _ := newTestServer(t)
	hashed, err := bcrypt.GenerateFromPassword([]byte("SecurePass12!@"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.User{
		Email:    "maya@example.com",
		Password: string(hashed),
	}).Error)

	app := fiber.New()
	app.Post("/api/auth/login", s.Login)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/login", fiber.Map{
		"email":    "maya@example.com",
		"password": "SecurePass12!@",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &body)
	assert.NotEmpty(t, body.Token)

	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", fiber.Map{
		"email":    "maya@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", fiber.Map{
		"email":    "nobody@example.com",
		"password": "SecurePass12!@",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

// TestAuthRoundTrip drives the whole route table: signup, then use the issued
// token on a protected route and for liked flags on the public feed.
func TestAuthRoundTrip(t *testing.T) {
	s, db, _ := newTestServer(t)
	middleware.InitMiddleware(s.config)

	app := fiber.New()
	s.SetupRoutes(app)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", fiber.Map{
		"email":     "maya@example.com",
		"password":  "SecurePass12!@",
		"full_name": "Maya",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var signup struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decodeBody(t, resp, &signup)

	// protected route without a token
	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// protected route with the issued token
	req = httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+signup.Token)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me models.User
	decodeBody(t, resp, &me)
	assert.Equal(t, signup.User.ID, me.ID)

	// liked flags on the public feed follow the bearer identity
	post := createTestPost(t, db, signup.User.ID)
	require.NoError(t, db.Create(&models.Like{PostID: post.ID, UserID: signup.User.ID}).Error)

	req = httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.Header.Set("Authorization", "Bearer "+signup.Token)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var feed struct {
		Posts []models.Post `json:"posts"`
	}
	decodeBody(t, resp, &feed)
	require.Len(t, feed.Posts, 1)
	assert.True(t, feed.Posts[0].Liked)
}

// TestNewServerWithDeps_WiresAuthMiddleware builds the server through the
// production constructor and sends a bad bearer token through the recover
// middleware: a misconfigured auth layer would panic and surface as a 500
// instead of a clean 401.
func TestNewServerWithDeps_WiresAuthMiddleware(t *testing.T) {
	db := setupHandlerTestDB(t)
	cfg := &config.Config{
		JWTSecret:     "wiring-secret-wiring-secret-wiring!!",
		PostsBucket:   "community-posts",
		AvatarsBucket: "avatars",
		Env:           "test",
	}
	s := NewServerWithDeps(cfg, db, nil, newMemBlobStore())

	app := fiber.New()
	app.Use(recover.New())
	s.SetupRoutes(app)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// and a token signed with the configured secret is accepted
	user := createTestUser(t, db, "wired@example.com")
	token, err := s.generateToken(user.ID)
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
