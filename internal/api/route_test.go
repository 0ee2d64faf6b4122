package api

import (
	"Autopost/internal/api/handler"
	"Autopost/internal/api/middleware"
	"Autopost/internal/pkg/security"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type neverRevoked struct{}

func (neverRevoked) IsRevoked(context.Context, string) (bool, error) { return false, nil }

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	jwt := security.NewJWTManager("secret", "autopost", time.Hour)
	group := &HandlersGroup{
		AuthHandler:              handler.NewAuthHandler(nil),
		ContentSourceHandler:     handler.NewContentSourceHandler(nil, nil),
		DiscoveredContentHandler: handler.NewDiscoveredContentHandler(nil),
		SocialAccountHandler:     handler.NewSocialAccountHandler(nil),
		GeneratedPostHandler:     handler.NewGeneratedPostHandler(nil, nil),
		AnalyticsHandler:         handler.NewAnalyticsHandler(nil),
	}
	return SetupRouter(group, RouterOptions{Auth: middleware.AuthMiddleware(jwt, neverRevoked{})})
}

func TestPing(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.TraceHeader))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "pong", body["data"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newTestRouter()
	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodPost, "/api/auth/logout"},
		{http.MethodGet, "/api/content-sources"},
		{http.MethodPost, "/api/content-sources/1/crawl"},
		{http.MethodGet, "/api/discovered-content/search?q=go"},
		{http.MethodPatch, "/api/discovered-content/1"},
		{http.MethodPost, "/api/discovered-content/1/summarize"},
		{http.MethodGet, "/api/social-accounts/1"},
		{http.MethodGet, "/api/generated-posts/generation-logs"},
		{http.MethodPost, "/api/generated-posts/1/publish"},
		{http.MethodPost, "/api/generated-posts/1/retry"},
		{http.MethodGet, "/api/analytics/overview"},
	}
	for _, route := range routes {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(route.method, route.path, nil))
		require.Equal(t, http.StatusOK, w.Code, route.path)

		var body struct {
			Code int `json:"code"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, 401, body.Code, route.method+" "+route.path)
	}
}
