package http

import (
	"net/http"
	"strings"

	"vocab-quiz-service/internal/domain"
)

type authedHandler func(w http.ResponseWriter, r *http.Request, caller domain.User)

// requireUser resolves the Authorization header to an account before calling
// next. Missing or bad credentials end the request with a 401.
func (h *Handler) requireUser(next authedHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		caller, err := h.auth.Authenticate(r.Context(), token)
		if err != nil {
			h.writeDomainError(w, err)
			return
		}
		next(w, r, caller)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
