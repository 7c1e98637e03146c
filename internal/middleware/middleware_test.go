package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/expensegenie/internal/auth"
	"github.com/mmynk/expensegenie/internal/models"
)

func TestHTTPAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour, []string{"admin@example.com"})
	token := func(email string) string {
		tok, err := jwtManager.Generate(models.NewUser(email, "User", ""))
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		return "Bearer " + tok
	}

	var seen *auth.Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetClaims(r.Context())
	})

	tests := []struct {
		name      string
		header    string
		adminOnly bool
		status    int
	}{
		{"missing token", "", false, http.StatusUnauthorized},
		{"not bearer", "Basic abc", false, http.StatusUnauthorized},
		{"bad token", "Bearer nope", false, http.StatusUnauthorized},
		{"user", token("ana@example.com"), false, http.StatusOK},
		{"user on admin route", token("ana@example.com"), true, http.StatusForbidden},
		{"admin", token("admin@example.com"), true, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			HTTPAuth(jwtManager, tt.adminOnly)(next).ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.status == http.StatusOK && seen == nil {
				t.Error("claims not passed to the handler")
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	const guarded = "/expensegenie.v1.BriefService/ListBriefs"
	ok := func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) { return nil, nil }
	handler := RequireAdmin(guarded)(ok)

	tests := []struct {
		name      string
		procedure string
		claims    *auth.Claims
		code      connect.Code
	}{
		{"open procedure", "/expensegenie.v1.BriefService/SubmitBrief", nil, 0},
		{"anonymous", guarded, nil, connect.CodeUnauthenticated},
		{"user", guarded, &auth.Claims{UserID: "u1"}, connect.CodePermissionDenied},
		{"admin", guarded, &auth.Claims{UserID: "u2", Admin: true}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.claims != nil {
				ctx = WithClaims(ctx, tt.claims)
			}
			_, err := handler(ctx, &procedureRequest{procedure: tt.procedure})
			if tt.code == 0 {
				if err != nil {
					t.Errorf("unexpected error %v", err)
				}
				return
			}
			if connect.CodeOf(err) != tt.code {
				t.Errorf("got %v, want %v", err, tt.code)
			}
		})
	}
}

func TestClaimsAccessors(t *testing.T) {
	ctx := context.Background()
	if GetUserID(ctx) != "" || GetEmail(ctx) != "" || IsAdmin(ctx) {
		t.Error("empty context should carry no identity")
	}

	ctx = WithClaims(ctx, &auth.Claims{UserID: "u1", Email: "a@example.com", Admin: true})
	if GetUserID(ctx) != "u1" || GetEmail(ctx) != "a@example.com" || !IsAdmin(ctx) {
		t.Errorf("claims not readable: %+v", GetClaims(ctx))
	}
}

func TestLevelForCode(t *testing.T) {
	if levelForCode(connect.CodeNotFound) != slog.LevelWarn {
		t.Error("client errors should log at warn")
	}
	if levelForCode(connect.CodeInternal) != slog.LevelError {
		t.Error("server errors should log at error")
	}
}

// procedureRequest is a request whose only job is to report a procedure.
type procedureRequest struct {
	connect.AnyRequest
	procedure string
}

func (r *procedureRequest) Spec() connect.Spec {
	return connect.Spec{Procedure: r.procedure}
}
