package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/haierkeys/note-share-service/pkg/app"
	"github.com/haierkeys/note-share-service/pkg/code"
	"github.com/haierkeys/note-share-service/pkg/limiter"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeRes(t *testing.T, w *httptest.ResponseRecorder) app.Res {
	t.Helper()
	var res app.Res
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func TestUserAuthTokenWithManager(t *testing.T) {
	tm := app.NewTokenManager(app.TokenConfig{SecretKey: "k"})
	token, err := tm.Generate(7, "alice", "127.0.0.1")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", UserAuthTokenWithManager(tm), func(c *gin.Context) {
		c.String(http.StatusOK, "%d", app.GetUID(c))
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   int
	}{
		{"missing", "", http.StatusUnauthorized, code.ErrorNotUserAuthToken.Code()},
		{"invalid", "Bearer nope", http.StatusUnauthorized, code.ErrorInvalidUserAuthToken.Code()},
		{"bearer", "Bearer " + token, http.StatusOK, 0},
		{"raw", token, http.StatusOK, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, decodeRes(t, w).Code)
			} else {
				assert.Equal(t, "7", w.Body.String())
			}
		})
	}
}

func TestAdminOnly(t *testing.T) {
	tm := app.NewTokenManager(app.TokenConfig{SecretKey: "k"})
	admin, _ := tm.Generate(1, "root", "")
	user, _ := tm.Generate(2, "bob", "")

	r := gin.New()
	r.GET("/admin", UserAuthTokenWithManager(tm), AdminOnly(func(uid int64) bool { return uid == 1 }), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for token, want := range map[string]int{admin: http.StatusOK, user: http.StatusForbidden} {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code)
	}
}

func TestRecoveryWithLogger(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryWithLogger(zap.NewNop()))
	r.GET("/panic", func(c *gin.Context) { panic("secret detail") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, code.ErrorServerInternal.Code(), decodeRes(t, w).Code)
	assert.NotContains(t, w.Body.String(), "secret detail")
}

func TestRateLimiter(t *testing.T) {
	l := limiter.NewMethodLimiter().AddBuckets(limiter.BucketRule{
		Key:          "/limited",
		FillInterval: time.Hour,
		Capacity:     2,
		Quantum:      1,
	})

	r := gin.New()
	r.Use(RateLimiter(l))
	r.GET("/limited", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/free", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/limited", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/free", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTraceMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(TraceMiddlewareWithConfig(true, ""))
	r.GET("/t", func(c *gin.Context) {
		assert.Equal(t, GetTraceIDFromGin(c), GetTraceID(c.Request.Context()))
		c.String(http.StatusOK, GetTraceIDFromGin(c))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/t", nil))
	generated := w.Header().Get(DefaultTraceIDHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/t", nil)
	req.Header.Set(DefaultTraceIDHeader, "given-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "given-id", w.Header().Get(DefaultTraceIDHeader))
}

type recordingObserver struct {
	paths []string
}

func (o *recordingObserver) ObserveHTTPRequest(method, path string, status int, d time.Duration) {
	o.paths = append(o.paths, method+" "+path)
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	o := &recordingObserver{}
	r := gin.New()
	r.Use(Metrics(o))
	r.GET("/notes/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/notes/1", "/notes/2", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	assert.Equal(t, []string{"GET /notes/:id", "GET /notes/:id", "GET unmatched"}, o.paths)
}
