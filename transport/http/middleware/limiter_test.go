package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hotel/config"
	otelMocks "hotel/infras/otel/mocks"
	"hotel/shared/cache/mocks"
	"hotel/shared/constant"
	"hotel/transport/http/middleware"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func limiterConfig(enable bool) *config.Config {
	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = enable
	cfg.App.RateLimiter.MaxRequests = 3
	cfg.App.RateLimiter.WindowSeconds = 60

	return cfg
}

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name          string
		enable        bool
		method        string
		path          string
		setupMock     func(cache *mocks.MockRedisCache)
		wantStatus    int
		wantRemaining string
	}{
		{
			name:       "disabled",
			method:     http.MethodGet,
			path:       "/v1/rooms/",
			setupMock:  func(*mocks.MockRedisCache) {},
			wantStatus: http.StatusOK,
		},
		{
			name:       "health is not limited",
			enable:     true,
			method:     http.MethodGet,
			path:       "/health",
			setupMock:  func(*mocks.MockRedisCache) {},
			wantStatus: http.StatusOK,
		},
		{
			name:   "read under budget",
			enable: true,
			method: http.MethodGet,
			path:   "/v1/rooms/",
			setupMock: func(cache *mocks.MockRedisCache) {
				cache.EXPECT().Increment(gomock.Any(), "limiter:read:10.0.0.1", 60).Return(int64(1), nil)
			},
			wantStatus:    http.StatusOK,
			wantRemaining: "2",
		},
		{
			name:   "write over budget",
			enable: true,
			method: http.MethodPost,
			path:   "/v1/bookings/",
			setupMock: func(cache *mocks.MockRedisCache) {
				cache.EXPECT().Increment(gomock.Any(), "limiter:write:10.0.0.1", 60).Return(int64(4), nil)
			},
			wantStatus:    http.StatusTooManyRequests,
			wantRemaining: "0",
		},
		{
			name:   "cache failure lets the request through",
			enable: true,
			method: http.MethodPost,
			path:   "/v1/bookings/",
			setupMock: func(cache *mocks.MockRedisCache) {
				cache.EXPECT().Increment(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), errors.New("connection refused"))
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			cache := mocks.NewMockRedisCache(ctrl)
			tt.setupMock(cache)

			app := middleware.NewAppMiddleware(otelMocks.NewOtel(), limiterConfig(tt.enable), cache)
			handler := app.RateLimit()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.RemoteAddr = "10.0.0.1:52314"
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantRemaining, rec.Header().Get(constant.RequestHeaderRateLimitRemaining))
		})
	}
}
