package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestIPRateLimiter_GetLimiter(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(5), 2)

	a := l.GetLimiter("10.0.0.1")
	assert.Same(t, a, l.GetLimiter("10.0.0.1"))
	assert.NotSame(t, a, l.GetLimiter("10.0.0.2"))
}

func TestRateLimitByIP(t *testing.T) {
	h := RateLimitByIP(rate.Limit(1), 2)(okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// Another client has its own bucket
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitByIP_Disabled(t *testing.T) {
	h := RateLimitByIP(0, 0)(okHandler)

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func serveWithRole(t *testing.T, role user.Role, perm user.Permission) int {
	t.Helper()

	svc := jwt.NewJWTService("middleware-test-secret", "5m")
	tokenString, _, err := svc.GenerateAccessToken("u1", "u1@example.com", nil, role)
	require.NoError(t, err)

	h := jwtauth.Verifier(svc.JWTAuth())(AuthRequired(svc.JWTAuth())(RequirePermission(perm)(okHandler)))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestRequirePermission(t *testing.T) {
	tests := []struct {
		name string
		role user.Role
		perm user.Permission
		want int
	}{
		{"finance generates", user.RoleFinance, user.PermissionPayrollGenerate, http.StatusOK},
		{"hr cannot generate", user.RoleHR, user.PermissionPayrollGenerate, http.StatusForbidden},
		{"hr sees summaries", user.RoleHR, user.PermissionPayrollSummary, http.StatusOK},
		{"hr cannot approve", user.RoleHR, user.PermissionPayrollApprove, http.StatusForbidden},
		{"director approves", user.RoleDirector, user.PermissionPayrollApprove, http.StatusOK},
		{"finance pays", user.RoleFinance, user.PermissionPayrollPay, http.StatusOK},
		{"employee sees own payslip", user.RoleEmployee, user.PermissionPayslipViewOwn, http.StatusOK},
		{"employee cannot view journals", user.RoleEmployee, user.PermissionJournalView, http.StatusForbidden},
		{"admin has everything", user.RoleAdmin, user.PermissionPayrollReject, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, serveWithRole(t, tt.role, tt.perm))
		})
	}
}

func TestAuthRequired_NoToken(t *testing.T) {
	svc := jwt.NewJWTService("middleware-test-secret", "5m")
	h := jwtauth.Verifier(svc.JWTAuth())(AuthRequired(svc.JWTAuth())(okHandler))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUUIDParam(t *testing.T) {
	r := chi.NewRouter()
	r.With(UUIDParam("id")).Get("/periods/{id}", okHandler)

	tests := []struct {
		id   string
		want int
	}{
		{"0192f5a4-7c1e-7d3a-9b2e-5f6a7b8c9d0e", http.StatusOK},
		{"0192F5A4-7C1E-7D3A-9B2E-5F6A7B8C9D0E", http.StatusOK},
		{"p1", http.StatusBadRequest},
		{"0192f5a4-7c1e-7d3a-9b2e", http.StatusBadRequest},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/periods/"+tt.id, nil))
		assert.Equal(t, tt.want, rec.Code, tt.id)
	}
}
