package middleware

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// UUIDParam rejects requests whose path parameter key is not a UUID before
// they reach a handler.
func UUIDParam(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !validator.IsValidUUID(chi.URLParam(r, key)) {
				response.BadRequest(w, fmt.Sprintf("Invalid %s: must be a UUID", key), nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
