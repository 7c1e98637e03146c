package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/expensegenie/internal/auth"
	"github.com/mmynk/expensegenie/internal/cache"
	"github.com/mmynk/expensegenie/internal/metrics"
	"github.com/mmynk/expensegenie/internal/middleware"
	"github.com/mmynk/expensegenie/internal/models"
	"github.com/mmynk/expensegenie/internal/storage/sqlite"
	"github.com/mmynk/expensegenie/pkg/api/apiconnect"
)

// testEnv hosts every service over a real HTTP server backed by a temporary
// SQLite database. Requests carry the claims of env.caller, if any.
type testEnv struct {
	store   *sqlite.SQLiteStore
	cache   *cache.Memory
	metrics *metrics.Metrics
	jwt     *auth.JWTManager
	caller  atomic.Pointer[auth.Claims]

	auth         apiconnect.AuthServiceClient
	participants apiconnect.ParticipantServiceClient
	sessions     apiconnect.SessionServiceClient
	briefs       apiconnect.BriefServiceClient

	sessionSvc *SessionService
	briefSvc   *BriefService
}

// testAuthInterceptor puts the current test caller into the context.
func (env *testEnv) testAuthInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if claims := env.caller.Load(); claims != nil {
				ctx = middleware.WithClaims(ctx, claims)
			}
			return next(ctx, req)
		}
	}
}

// as makes subsequent requests come from user. A nil user is anonymous.
func (env *testEnv) as(user *models.User) {
	if user == nil {
		env.caller.Store(nil)
		return
	}
	env.caller.Store(&auth.Claims{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Admin:       env.jwt.IsAdmin(user.Email),
	})
}

func (env *testEnv) createUser(t *testing.T, email, name string) *models.User {
	t.Helper()
	user := models.NewUser(email, name, "")
	if err := env.store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	env := &testEnv{
		store:   store,
		cache:   cache.NewMemory(time.Minute),
		metrics: metrics.New(),
		jwt:     auth.NewJWTManager("test-secret", time.Hour, []string{"admin@example.com"}),
	}
	env.sessionSvc = NewSessionService(store, env.cache, env.metrics, "USD")
	env.briefSvc = NewBriefService(store)
	authSvc := NewAuthService(auth.NewPasswordAuthenticator(store), nil, store, env.jwt, slog.Default())

	interceptors := connect.WithInterceptors(env.testAuthInterceptor())
	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(authSvc, interceptors))
	mux.Handle(apiconnect.NewParticipantServiceHandler(NewParticipantService(store), interceptors))
	mux.Handle(apiconnect.NewSessionServiceHandler(env.sessionSvc, interceptors))
	mux.Handle(apiconnect.NewBriefServiceHandler(env.briefSvc, interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	env.auth = apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL)
	env.participants = apiconnect.NewParticipantServiceClient(http.DefaultClient, server.URL)
	env.sessions = apiconnect.NewSessionServiceClient(http.DefaultClient, server.URL)
	env.briefs = apiconnect.NewBriefServiceClient(http.DefaultClient, server.URL)
	return env
}

// wantCode fails the test unless err carries the given Connect code.
func wantCode(t *testing.T, err error, code connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", code)
	}
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected connect error, got %v", err)
	}
	if connectErr.Code() != code {
		t.Fatalf("expected %v, got %v (%s)", code, connectErr.Code(), connectErr.Message())
	}
}

func TestUpdateClock(t *testing.T) {
	fixed := time.UnixMilli(5000)
	c := &updateClock{now: func() time.Time { return fixed }}

	a, b := c.next(), c.next()
	if a != 5000 || b != 5001 {
		t.Errorf("next() = %d, %d; want 5000, 5001", a, b)
	}
	if got := nextUpdate(1 << 50); got != 1<<50+1 {
		t.Errorf("nextUpdate must pass the previous value, got %d", got)
	}
}
