package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/common/auth"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/common/middleware"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/config"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/controllers"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/events"
)

func testRouter(burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Env:            "test",
		AllowedOrigins: []string{"*"},
		RequestTimeout: 5 * time.Second,
	}
	log := zap.NewNop()
	limiter := middleware.NewRateLimiter(rate.Limit(0.001), burst, time.Minute)
	pc := controllers.NewPaymentController(nil, controllers.CheckoutConfig{KeyID: "rzp_test_key", Currency: "INR"}, log)
	ac := controllers.NewApplicationController(nil, log)
	return newRouter(cfg, log, nil, limiter, pc, ac, auth.NewTokenValidator("secret"))
}

func TestHealthIsNotRateLimited(t *testing.T) {
	r := testRouter(1)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "healthy")
	}
}

func TestAPIRoutesAreRateLimited(t *testing.T) {
	r := testRouter(1)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/payment-config", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "rzp_test_key")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/payment-config", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestAdminRouteRequiresToken(t *testing.T) {
	r := testRouter(10)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/applications/3f0e2c1a-8f44-4d3e-9c55-0d8a1b2c3d4e", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNewPublisherFallsBackToNoop(t *testing.T) {
	log := zap.NewNop()

	p, closeFn := newPublisher(&config.Config{EventBus: config.EventBusNone}, sdkaws.Config{}, nil, log)
	defer closeFn()
	assert.IsType(t, events.NoopPublisher{}, p)

	p, closeFn2 := newPublisher(&config.Config{EventBus: config.EventBusSNS}, sdkaws.Config{}, assert.AnError, log)
	defer closeFn2()
	assert.IsType(t, events.NoopPublisher{}, p)
}
