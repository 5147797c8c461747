package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func identityApp() *fiber.App {
	app := fiber.New()
	app.Use(JWTProtected(testSecret))
	app.Get("/", func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		role, _ := c.Locals("user_role").(string)
		return c.JSON(fiber.Map{"user_id": userID, "role": role})
	})
	return app
}

func TestJWTProtectedStoresStringSubject(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"sub":  "student-42",
		"role": "Student",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := identityApp().Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeJSON(t, resp, &body)
	require.Equal(t, "student-42", body["user_id"])
	require.Equal(t, "student", body["role"])
}

func TestJWTProtectedAcceptsNumericSubjectAndRoleList(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"user_id": 17,
		"roles":   []string{"Faculty", "admin"},
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := identityApp().Test(req, -1)
	require.NoError(t, err)

	var body map[string]string
	decodeJSON(t, resp, &body)
	require.Equal(t, "17", body["user_id"])
	require.Equal(t, "faculty", body["role"])
}

func TestJWTProtectedRejectsBadTokens(t *testing.T) {
	app := identityApp()

	cases := map[string]string{
		"missing":   "",
		"scheme":    "Token abc",
		"signature": "Bearer " + signTokenWithSecret(t, "other-secret"),
		"expired":   "Bearer " + signToken(t, jwt.MapClaims{"sub": "x", "exp": time.Now().Add(-time.Hour).Unix()}),
	}

	for name, header := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, name)
	}
}

func signTokenWithSecret(t *testing.T, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "intruder"})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}
