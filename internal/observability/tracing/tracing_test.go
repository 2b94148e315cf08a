package tracing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestNewProviderWithoutExporter(t *testing.T) {
	tp, err := NewProvider(nil, Config{ServiceName: "pointsale-test", SamplingRatio: 1}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx, span := StartSpan(context.Background(), "test", "op")
	assert.True(t, trace.SpanFromContext(ctx).SpanContext().IsValid())
	EndSpan(span, nil)
}

func TestGinMiddlewareAttachesSpan(t *testing.T) {
	tp, err := NewProvider(nil, Config{SamplingRatio: 1}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware())
	var valid bool
	r.GET("/ping", func(c *gin.Context) {
		valid = trace.SpanFromContext(c.Request.Context()).SpanContext().IsValid()
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, valid)
}

func TestSafeError(t *testing.T) {
	base := errors.New("storage_unavailable")
	wrapped := fmt.Errorf("%w: dial tcp 10.0.0.1:5432", base)
	assert.Equal(t, base, SafeError(wrapped))
	assert.Equal(t, base, SafeError(base))
	assert.Nil(t, SafeError(nil))
}
