package logger

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_TeesToSink(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("production", &buf)
	require.NoError(t, err)

	log.Info("order created", zap.String("order_id", "order_abc"))
	_ = log.Sync()

	assert.Contains(t, buf.String(), `"order_id":"order_abc"`)
	assert.Contains(t, buf.String(), `"level":"info"`)
}

func TestFromGin_AddsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set(RequestIDKey, "rid-123")

	FromGin(base, c).Info("hello")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "rid-123", logs.All()[0].ContextMap()[RequestIDKey])
}
