package middleware

import (
	"net/http"

	"github.com/2beens/ridesmap/internal/telemetry/tracing"
	"github.com/2beens/ridesmap/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

const AdminTokenHeader = "X-ADMIN-TOKEN"

type AdminAuthMiddlewareHandler struct {
	// bcrypt hash of the admin token
	adminTokenHash string
}

func NewAdminAuthMiddlewareHandler(adminTokenHash string) *AdminAuthMiddlewareHandler {
	return &AdminAuthMiddlewareHandler{
		adminTokenHash: adminTokenHash,
	}
}

// AuthCheck guards the admin routes, every request must carry the admin token
func (h *AdminAuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, PUT, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			authToken := r.Header.Get(AdminTokenHeader)
			if authToken == "" {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-auth-token")
				return
			}

			if h.adminTokenHash == "" || !pkg.CheckPasswordHash(authToken, h.adminTokenHash) {
				reqIp, _ := pkg.ReadUserIP(r)
				log.Warnf("[invalid token] [auth middleware] unauthorized => %s, from: %s", r.URL.Path, reqIp)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "invalid-auth-token")
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r)
		})
	}
}
