package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/haierkeys/note-share-service/internal/middleware"
	pkgapp "github.com/haierkeys/note-share-service/pkg/app"
	"github.com/haierkeys/note-share-service/pkg/code"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, lang string, err error) (int, AppError) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(middleware.TraceIDKey, "trace-1")
	if lang != "" {
		c.Set(pkgapp.LangKey, lang)
	}

	ErrorResponse(c, err)

	var out AppError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return w.Code, out
}

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name       string
		lang       string
		err        error
		wantStatus int
		wantCode   int
		wantMsg    string
		wantDetail string
	}{
		{
			name:       "code with details",
			err:        code.ErrorUserNotFound.WithDetails("ghost_one"),
			wantStatus: http.StatusNotFound,
			wantCode:   514,
			wantMsg:    "User not found",
			wantDetail: "ghost_one",
		},
		{
			name:       "wrapped code keeps status",
			err:        fmt.Errorf("share: %w", code.ErrorNoteShareForbidden),
			wantStatus: http.StatusForbidden,
			wantCode:   535,
			wantMsg:    "You are not the owner of this note, permission denied",
		},
		{
			name:       "request language",
			lang:       "zh_cn",
			err:        code.ErrorNoteNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   530,
			wantMsg:    "笔记不存在",
		},
		{
			name:       "deadline",
			err:        fmt.Errorf("query: %w", context.DeadlineExceeded),
			wantStatus: http.StatusGatewayTimeout,
			wantCode:   505,
			wantMsg:    "Request timeout",
		},
		{
			name:       "unknown error hides detail",
			err:        stderrors.New("dial tcp 10.0.0.1:5432: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   500,
			wantMsg:    "Internal Server Error",
		},
		{
			name:       "app error",
			err:        NewAppError(code.ErrorNoteConflict, stderrors.New("version 3 != 4")),
			wantStatus: http.StatusConflict,
			wantCode:   537,
			wantMsg:    "Note was modified concurrently, please retry",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, out := render(t, tt.lang, tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, out.Code)
			assert.False(t, out.Status)
			assert.Equal(t, tt.wantMsg, out.Message)
			assert.Equal(t, tt.wantDetail, out.Details)
			assert.Equal(t, "trace-1", out.TraceID)
			assert.False(t, out.Timestamp.IsZero())
		})
	}
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, 530, CodeOf(fmt.Errorf("x: %w", code.ErrorNoteNotFound)).Code())
	assert.Equal(t, 500, CodeOf(stderrors.New("boom")).Code())
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("root cause")
	err := NewAppError(code.ErrorDBQuery, cause)

	assert.True(t, IsAppError(fmt.Errorf("w: %w", err)))
	assert.False(t, IsAppError(cause))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Database query failed: root cause", err.Error())
}
