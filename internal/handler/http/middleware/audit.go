package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"

	"github.com/islandhr/payroll-backend-go/internal/domain/audit"
)

var actionByMethod = map[string]audit.Action{
	http.MethodPost:   audit.ActionCreate,
	http.MethodPut:    audit.ActionUpdate,
	http.MethodPatch:  audit.ActionUpdate,
	http.MethodDelete: audit.ActionDelete,
}

// AuditTrail records every successful mutating request against the audit
// service. Reads are not audited.
func AuditTrail(auditService audit.AuditService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			action, mutating := actionByMethod[r.Method]
			if !mutating {
				next.ServeHTTP(w, r)
				return
			}

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			if ww.Status() >= http.StatusBadRequest {
				return
			}

			log := audit.Log{
				Action:    action,
				Entity:    entityFromPath(r.URL.Path),
				EntityID:  chi.URLParam(r, "id"),
				IPAddress: ClientIP(r),
				Detail: map[string]any{
					"method": r.Method,
					"path":   r.URL.Path,
					"status": ww.Status(),
				},
			}
			if _, claims, err := jwtauth.FromContext(r.Context()); err == nil {
				if userID, ok := claims["user_id"].(string); ok {
					log.UserID = &userID
				}
				if email, ok := claims["email"].(string); ok {
					log.UserEmail = &email
				}
			}

			_ = auditService.Record(r.Context(), log)
		})
	}
}

// entityFromPath extracts the resource segment from /api/v1/<entity>/...
func entityFromPath(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, p := range parts {
		if p == "v1" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	if len(parts) > 0 {
		return parts[0]
	}
	return ""
}

// ClientIP resolves the originating address, preferring X-Forwarded-For.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
