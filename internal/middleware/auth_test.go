package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/photoapp/photoapp/internal/models"
	"github.com/photoapp/photoapp/pkg/logger"
	"github.com/photoapp/photoapp/pkg/utils"
)

func setupMiddlewareTest(t *testing.T) string {
	t.Helper()
	logger.Init()
	utils.ConfigureJWT("middleware-test-secret", 24)

	token, err := utils.GenerateToken(&models.User{ID: 5, Username: "alice"})
	if err != nil {
		t.Fatalf("failed generating token: %v", err)
	}
	return token
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("failed decoding body: %v body=%q", err, string(raw))
	}
	return body
}

func newAuthTestApp() *fiber.App {
	app := fiber.New()
	app.Use(RequestLogger())
	app.Use(SecurityLogger())
	app.Get("/whoami", Authenticate(), func(c *fiber.Ctx) error {
		r := GetRequester(c)
		if r == nil {
			return c.JSON(fiber.Map{"anonymous": true})
		}
		return c.JSON(fiber.Map{"userid": r.UserID, "username": r.Username})
	})
	return app
}

func TestAuthenticate(t *testing.T) {
	token := setupMiddlewareTest(t)
	app := newAuthTestApp()

	do := func(header string) *http.Response {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		return resp
	}

	t.Run("no header continues anonymously", func(t *testing.T) {
		resp := do("")
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if body := decodeBody(t, resp); body["anonymous"] != true {
			t.Fatalf("expected anonymous caller, got %v", body)
		}
	})

	t.Run("valid token sets requester", func(t *testing.T) {
		resp := do("Bearer " + token)
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if resp.Header.Get("X-Request-ID") == "" {
			t.Fatal("expected request id header")
		}
		body := decodeBody(t, resp)
		if body["userid"] != float64(5) || body["username"] != "alice" {
			t.Fatalf("unexpected requester: %v", body)
		}
	})

	assertAnonymous := func(t *testing.T, resp *http.Response) {
		t.Helper()
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if body := decodeBody(t, resp); body["anonymous"] != true {
			t.Fatalf("expected anonymous caller, got %v", body)
		}
	}

	t.Run("missing bearer prefix continues anonymously", func(t *testing.T) {
		assertAnonymous(t, do(token))
	})

	t.Run("empty bearer token continues anonymously", func(t *testing.T) {
		assertAnonymous(t, do("Bearer "))
	})

	t.Run("expired token continues anonymously", func(t *testing.T) {
		claims := utils.Claims{
			UserID:   5,
			Username: "alice",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			},
		}
		expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("middleware-test-secret"))
		if err != nil {
			t.Fatalf("failed signing token: %v", err)
		}

		assertAnonymous(t, do("Bearer "+expired))
	})

	t.Run("token signed with another secret continues anonymously", func(t *testing.T) {
		forged, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, utils.Claims{UserID: 5}).SignedString([]byte("other"))
		assertAnonymous(t, do("Bearer "+forged))
	})
}
