package tests

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lilacbtch/carlytics/app/handlers"
	"github.com/lilacbtch/carlytics/app/middleware"
	"github.com/lilacbtch/carlytics/app/router"
	"github.com/lilacbtch/carlytics/app/services"
	businessflow "github.com/lilacbtch/carlytics/business_flow"
	"github.com/lilacbtch/carlytics/pricing"
	"github.com/lilacbtch/carlytics/repository"
	testingutil "github.com/lilacbtch/carlytics/testing"
	"github.com/lilacbtch/carlytics/utils"
)

// newTestApp wires the full router the same way main does, with the mock
// providers swapped in.
func newTestApp(testDB *testingutil.TestDB, provider services.SessionProvider, extractor services.TextExtractor) *fiber.App {
	userRepo := repository.NewUserRepository(testDB.DB)
	sessionRepo := repository.NewUserSessionRepository(testDB.DB)
	vehicleRepo := repository.NewVehicleRepository(testDB.DB)
	trendRepo := repository.NewPriceTrendRepository(testDB.DB)
	savedRepo := repository.NewSavedVehicleRepository(testDB.DB)
	auditRepo := repository.NewAuditLogRepository(testDB.DB)

	authFlow := businessflow.NewAuthFlow(userRepo, sessionRepo, auditRepo, provider, testDB.DB)
	vehicleFlow := businessflow.NewVehicleFlow(vehicleRepo, trendRepo, auditRepo, pricing.NewEngine(pricing.DefaultConfig()), nil, 0)
	savedFlow := businessflow.NewSavedVehicleFlow(savedRepo, vehicleRepo, auditRepo, testDB.DB)
	ocrFlow := businessflow.NewOCRFlow(extractor, auditRepo, 10*1024*1024)

	r := router.NewFiberRouter(
		handlers.NewAuthHandler(authFlow),
		handlers.NewVehicleHandler(vehicleFlow),
		handlers.NewSavedVehicleHandler(savedFlow),
		handlers.NewOCRHandler(ocrFlow),
		middleware.NewAuthMiddleware(sessionRepo),
		[]string{"http://localhost:3000"},
	)
	r.SetupRoutes()

	return r.GetApp()
}

type apiEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   struct {
		Code string `json:"code"`
	} `json:"error"`
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, apiEnvelope) {
	t.Helper()

	if req.Host == "" && req.URL.Host == "" {
		// HTTP/1.1 requires a Host header; requests built from a relative URL
		// have none and fasthttp rejects them before routing.
		req.Host = "localhost"
	}

	resp, err := app.Test(req, fiber.TestConfig{Timeout: 10 * time.Second})
	require.NoError(t, err)

	var body apiEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NoError(t, resp.Body.Close())

	return resp, body
}

// testPNG returns a small valid PNG payload.
func testPNG(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func TestSessionExchangeEndpoint(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		t.Run("MissingHeaderReturnsBadRequest", func(t *testing.T) {
			app := newTestApp(testDB, services.NewMockSessionProvider(), services.NewMockTextExtractor(""))

			req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/session", nil)
			resp, body := doRequest(t, app, req)

			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.False(t, body.Success)
			assert.Equal(t, "SESSION_ID_MISSING", body.Error.Code)
		})

		t.Run("ProviderFailureReturnsBadRequest", func(t *testing.T) {
			app := newTestApp(testDB, &failingSessionProvider{}, services.NewMockTextExtractor(""))

			req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/session", nil)
			req.Header.Set("X-Session-ID", "sess-rejected")
			resp, body := doRequest(t, app, req)

			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "SESSION_EXCHANGE_FAILED", body.Error.Code)
		})

		t.Run("SuccessSetsSessionCookie", func(t *testing.T) {
			app := newTestApp(testDB, services.NewMockSessionProvider(), services.NewMockTextExtractor(""))

			req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/session", nil)
			req.Header.Set("X-Session-ID", "sess-valid")
			resp, body := doRequest(t, app, req)

			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.True(t, body.Success)

			var cookie *http.Cookie
			for _, c := range resp.Cookies() {
				if c.Name == utils.SessionCookieName {
					cookie = c
				}
			}
			require.NotNil(t, cookie)
			assert.NotEmpty(t, cookie.Value)
			assert.True(t, cookie.HttpOnly)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestLogoutEndpointRequiresSession(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		app := newTestApp(testDB, services.NewMockSessionProvider(), services.NewMockTextExtractor(""))

		t.Run("NoSessionReturnsUnauthorized", func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
			resp, body := doRequest(t, app, req)

			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, "NOT_AUTHENTICATED", body.Error.Code)
		})

		t.Run("ValidSessionLogsOut", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			session, err := fixtures.CreateTestSession(user.ID)
			require.NoError(t, err)

			req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
			req.AddCookie(&http.Cookie{Name: utils.SessionCookieName, Value: session.SessionToken})
			resp, body := doRequest(t, app, req)

			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.True(t, body.Success)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestScanEndpointProviderFailure(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		extractor := services.NewMockTextExtractor("")
		extractor.Err = services.ErrOCRFailed
		app := newTestApp(testDB, services.NewMockSessionProvider(), extractor)

		user, err := fixtures.CreateTestUser()
		require.NoError(t, err)
		session, err := fixtures.CreateTestSession(user.ID)
		require.NoError(t, err)

		payload, err := json.Marshal(map[string]string{
			"image_base64": base64.StdEncoding.EncodeToString(testPNG(t)),
		})
		require.NoError(t, err)

		req, _ := http.NewRequest(http.MethodPost, "/api/v1/ocr/scan-base64", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(&http.Cookie{Name: utils.SessionCookieName, Value: session.SessionToken})
		resp, body := doRequest(t, app, req)

		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "OCR_FAILED", body.Error.Code)

		return nil
	})
	require.NoError(t, err)
}
