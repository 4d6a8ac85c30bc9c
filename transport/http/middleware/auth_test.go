package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"hotel/config"
	"hotel/infras/jwt"
	jwtMocks "hotel/infras/jwt/mocks"
	otelMocks "hotel/infras/otel/mocks"
	"hotel/permissions"
	"hotel/shared/constant"
	"hotel/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const authPermissions = `{
  "endpoints": [
    {"path": "/v1/auth/login", "method": "POST", "skip": true},
    {"path": "/v1/bookings/{id}/confirm", "method": "POST", "permissions": ["admin", "superadmin"]},
    {"path": "/v1/bookings", "method": "GET", "permissions": ["user", "admin", "superadmin"]}
  ]
}`

func guardedRouter(t *testing.T, jwtService jwt.JWT) http.Handler {
	t.Helper()

	table, err := permissions.Parse([]byte(authPermissions))
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.App.APIKey = "internal-key"

	auth := middleware.NewAuthRoleMiddleware(jwtService, otelMocks.NewOtel(), table, cfg)

	r := chi.NewRouter()
	r.Use(auth.APIKey, auth.Auth, auth.RBAC)

	ok := func(w http.ResponseWriter, r *http.Request) {
		role, _ := r.Context().Value(constant.ContextKeyUserRole).(string)
		w.Header().Set("X-Role", role)
		w.WriteHeader(http.StatusOK)
	}

	r.Post("/v1/auth/login", ok)
	r.Post("/v1/bookings/{id}/confirm", ok)
	r.Get("/v1/bookings", ok)

	return r
}

func TestAuthRole(t *testing.T) {
	claims := func(role string) *jwt.Claims {
		return &jwt.Claims{UserID: "u-1", Email: "guest@example.com", Role: role}
	}

	tests := []struct {
		name       string
		method     string
		path       string
		header     map[string]string
		setupMock  func(m *jwtMocks.MockJWT)
		wantStatus int
		wantRole   string
	}{
		{
			name:       "public route needs no token",
			method:     http.MethodPost,
			path:       "/v1/auth/login",
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing header",
			method:     http.MethodGet,
			path:       "/v1/bookings",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "expired token",
			method: http.MethodGet,
			path:   "/v1/bookings",
			header: map[string]string{constant.RequestHeaderAuthorization: "Bearer stale"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken("stale", jwt.AccessToken).Return(nil, jwt.ErrExpiredToken)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "guest lists own bookings",
			method: http.MethodGet,
			path:   "/v1/bookings",
			header: map[string]string{constant.RequestHeaderAuthorization: "Bearer good"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken("good", jwt.AccessToken).Return(claims(constant.RoleUser), nil)
			},
			wantStatus: http.StatusOK,
			wantRole:   constant.RoleUser,
		},
		{
			name:   "guest cannot confirm",
			method: http.MethodPost,
			path:   "/v1/bookings/b-1/confirm",
			header: map[string]string{constant.RequestHeaderAuthorization: "Bearer good"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken("good", jwt.AccessToken).Return(claims(constant.RoleUser), nil)
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:   "admin confirms",
			method: http.MethodPost,
			path:   "/v1/bookings/b-1/confirm",
			header: map[string]string{constant.RequestHeaderAuthorization: "Bearer admin"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken("admin", jwt.AccessToken).Return(claims(constant.RoleAdmin), nil)
			},
			wantStatus: http.StatusOK,
			wantRole:   constant.RoleAdmin,
		},
		{
			name:   "token without subject",
			method: http.MethodGet,
			path:   "/v1/bookings",
			header: map[string]string{constant.RequestHeaderAuthorization: "Bearer anon"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken("anon", jwt.AccessToken).Return(&jwt.Claims{Role: constant.RoleUser}, nil)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "trusted service key skips token",
			method:     http.MethodPost,
			path:       "/v1/bookings/b-1/confirm",
			header:     map[string]string{constant.RequestHeaderAPIKey: "internal-key"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "wrong service key",
			method:     http.MethodGet,
			path:       "/v1/bookings",
			header:     map[string]string{constant.RequestHeaderAPIKey: "guess"},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockJWT := jwtMocks.NewMockJWT(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(mockJWT)
			}

			req := httptest.NewRequest(tt.method, tt.path, nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}

			rec := httptest.NewRecorder()
			guardedRouter(t, mockJWT).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantRole != "" {
				assert.Equal(t, tt.wantRole, rec.Header().Get("X-Role"))
			}
		})
	}
}
