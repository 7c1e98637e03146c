package service

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"connectrpc.com/connect"
	"github.com/gorilla/mux"

	"github.com/mmynk/expensegenie/internal/auth"
	"github.com/mmynk/expensegenie/internal/export"
	"github.com/mmynk/expensegenie/internal/middleware"
)

const stateCookie = "expensegenie_oauth_state"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to write response", "error", err)
	}
}

// httpStatus maps Connect codes returned by the services onto HTTP.
func httpStatus(err error) int {
	switch connect.CodeOf(err) {
	case connect.CodeInvalidArgument:
		return http.StatusBadRequest
	case connect.CodeNotFound:
		return http.StatusNotFound
	case connect.CodeUnauthenticated:
		return http.StatusUnauthorized
	case connect.CodePermissionDenied:
		return http.StatusForbidden
	case connect.CodeAlreadyExists:
		return http.StatusConflict
	case connect.CodeUnimplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func errorMessage(err error) string {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr.Message()
	}
	return err.Error()
}

func attachment(w http.ResponseWriter, f export.Format, filename string) {
	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
}

// GoogleLogin redirects the browser to Google. The state travels in a
// short-lived cookie and is checked by GoogleCallback.
func (s *AuthService) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.google.Enabled() {
		http.Error(w, auth.ErrGoogleDisabled.Error(), http.StatusNotImplemented)
		return
	}

	state := auth.NewState()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/auth/google",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, s.google.AuthCodeURL(state), http.StatusFound)
}

// GoogleCallback completes the redirect flow and answers with the same
// {user, token} body as the RPC sign-in methods.
func (s *AuthService) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if !s.google.Enabled() {
		http.Error(w, auth.ErrGoogleDisabled.Error(), http.StatusNotImplemented)
		return
	}

	query := r.URL.Query()
	if reason := query.Get("error"); reason != "" {
		http.Error(w, "google sign-in cancelled: "+reason, http.StatusUnauthorized)
		return
	}
	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != query.Get("state") {
		http.Error(w, "invalid oauth state", http.StatusBadRequest)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Path: "/auth/google", MaxAge: -1})

	code := query.Get("code")
	if code == "" {
		http.Error(w, "missing code", http.StatusBadRequest)
		return
	}

	user, err := s.google.Exchange(r.Context(), code)
	if err != nil {
		s.logger.Warn("Google callback failed", "error", err)
		switch {
		case errors.Is(err, auth.ErrEmailNotVerified):
			http.Error(w, err.Error(), http.StatusForbidden)
		case errors.Is(err, auth.ErrGoogleExchange):
			http.Error(w, err.Error(), http.StatusUnauthorized)
		default:
			http.Error(w, "sign-in failed", http.StatusInternalServerError)
		}
		return
	}

	resp, err := s.issue(user)
	if err != nil {
		http.Error(w, "sign-in failed", http.StatusInternalServerError)
		return
	}
	s.logger.Info("User signed in with Google", "user_id", user.ID, "email", user.Email)
	writeJSON(w, http.StatusOK, resp.Msg)
}

// ExportSession serves GET /api/sessions/{id}/export?format=md|xlsx. The
// optional multiCurrency=true query switches to per-currency settlement.
func (s *SessionService) ExportSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	format := export.FormatMarkdown
	if name := query.Get("format"); name != "" {
		f, err := export.ParseFormat(name, export.FormatMarkdown, export.FormatXLSX)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		format = f
	}
	multi := false
	if raw := query.Get("multiCurrency"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			http.Error(w, "multiCurrency must be true or false", http.StatusBadRequest)
			return
		}
		multi = v
	}

	userID, err := requireUser(ctx)
	if err != nil {
		http.Error(w, errorMessage(err), httpStatus(err))
		return
	}
	session, err := s.Session(ctx, userID, mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, errorMessage(err), httpStatus(err))
		return
	}

	settlement := settleSession(session, multi)
	s.metrics.ObserveSettlement(multi, len(settlement.Debts), settlement.Warnings)

	now := time.Now()
	attachment(w, format, export.Filename("session-"+session.ID, format, now))
	if err := export.Session(w, format, session, settlement, now); err != nil {
		// Headers are gone; all we can do is log.
		slog.Error("Session export failed", "session_id", session.ID, "error", err)
		return
	}
	slog.Info("Session exported", "session_id", session.ID, "format", format)
}

// ExportBriefs serves GET /api/admin/briefs/export?format=json|md|xlsx.
func (s *BriefService) ExportBriefs(w http.ResponseWriter, r *http.Request) {
	format := export.FormatJSON
	if name := r.URL.Query().Get("format"); name != "" {
		f, err := export.ParseFormat(name, export.FormatJSON, export.FormatMarkdown, export.FormatXLSX)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		format = f
	}

	briefs, err := s.store.ListBriefs(r.Context())
	if err != nil {
		slog.Error("Brief export failed", "error", err)
		http.Error(w, "failed to load briefs", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	attachment(w, format, export.Filename("briefs-export", format, now))
	if err := export.Briefs(w, format, briefs, now); err != nil {
		slog.Error("Brief export failed", "error", err)
		return
	}
	slog.Info("Briefs exported", "count", len(briefs), "format", format, "by", middleware.GetEmail(r.Context()))
}
