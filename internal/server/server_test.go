package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/handler"
	"storefront/internal/infra/memory"
	"storefront/internal/middleware"
	"storefront/internal/usecase"
	auth "storefront/internal/usecase/auth_usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newTestServer(t *testing.T, port string) *Server {
	t.Helper()

	products := memory.NewProductStore()
	users := memory.NewUserStore()
	issuer := auth.NewJWTIssuer("secret", time.Hour)
	idGen := usecase.UUIDGenerator{}
	clock := usecase.SystemClock{}

	h := Handlers{
		Auth: handler.NewAuthHandler(
			auth.NewRegisterUserUsecase(users, auth.NewBcryptPasswordHasher(bcrypt.MinCost), issuer, idGen, clock),
			auth.NewLoginUsecase(users, auth.NewBcryptPasswordVerifier(), issuer, clock),
		),
		Product: handler.NewProductHandler(usecase.NewProductUsecase(products, idGen, clock)),
		Cart: handler.NewCartHandler(
			usecase.NewCartUsecase(memory.NewCartStore(), products, idGen, clock, model.DefaultTaxRate),
		),
	}

	cfg := config.Config{Port: port, JWTSecret: "secret", ShutdownTimeout: time.Second}
	return New(cfg, zap.NewNop(), h)
}

func TestServer_Routes(t *testing.T) {
	s := newTestServer(t, ":0")

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.HeaderRequestID))

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	s := newTestServer(t, "127.0.0.1:0")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
