package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchmate/middleware"
	"matchmate/models"
	"matchmate/store/storetest"
)

func TestCORS(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.CORS(middleware.DefaultCORSConfig([]string{"http://localhost:8081"})))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	tests := []struct {
		name       string
		method     string
		origin     string
		wantStatus int
		wantOrigin string
	}{
		{"allowed origin", http.MethodGet, "http://localhost:8081", http.StatusOK, "http://localhost:8081"},
		{"unknown origin", http.MethodGet, "http://evil.example", http.StatusOK, ""},
		{"preflight", http.MethodOptions, "http://localhost:8081", http.StatusNoContent, "http://localhost:8081"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", nil)
			req.Header.Set("Origin", tt.origin)
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantOrigin, resp.Header.Get("Access-Control-Allow-Origin"))
			if tt.method == http.MethodOptions {
				assert.Equal(t, "3600", resp.Header.Get("Access-Control-Max-Age"))
				assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), middleware.PlayerHeader)
			}
		})
	}
}

func TestCORSAllowsAnyOriginWhenUnconfigured(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.CORS(middleware.DefaultCORSConfig(nil)))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://anything.example")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRequirePlayer(t *testing.T) {
	repo, _ := storetest.NewRepository(t)
	u := &models.User{Name: "Ada", Surname: "Kaya", City: "Muğla", District: "Bodrum", Position: models.PositionStriker}
	require.NoError(t, repo.CreateUser(context.Background(), u))

	app := fiber.New()
	app.Get("/me", middleware.RequirePlayer(repo), func(c *fiber.Ctx) error {
		return c.SendString(middleware.CurrentPlayer(c).DisplayName())
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not a number", "abc", http.StatusUnauthorized},
		{"zero", "0", http.StatusUnauthorized},
		{"unknown player", "999999", http.StatusUnauthorized},
		{"known player", u.ID(), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(middleware.PlayerHeader, tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestInviteRateLimiterKeysByPlayerAndMatch(t *testing.T) {
	app := fiber.New()
	app.Post("/matches/:id/invitations",
		func(c *fiber.Ctx) error {
			c.Locals(middleware.LocalPlayer, &models.User{PlayerID: 1000})
			return c.Next()
		},
		middleware.InviteRateLimiter(1, nil),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusCreated) },
	)

	post := func(matchID string) int {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/matches/"+matchID+"/invitations", nil), -1)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusCreated, post("m1"))
	assert.Equal(t, http.StatusTooManyRequests, post("m1"))
	assert.Equal(t, http.StatusCreated, post("m2"))
}
