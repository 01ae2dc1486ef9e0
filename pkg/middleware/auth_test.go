package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/justinas/alice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/adlibrary-tracker/pkg/apiErrors"
)

const testSecret = "s3cret"

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func chain(middlewares []func(http.Handler) http.Handler) http.Handler {
	constructors := make([]alice.Constructor, 0, len(middlewares))
	for _, m := range middlewares {
		constructors = append(constructors, m)
	}
	return alice.New(constructors...).Then(okHandler())
}

func request(t *testing.T, h http.Handler, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/sync", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewTokenAndValidate(t *testing.T) {
	token, err := NewToken(testSecret, "ops", RoleAdmin, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)

	_, err = ValidateToken("other", token)
	assert.Error(t, err)

	_, err = NewToken("", "ops", RoleAdmin, time.Hour)
	assert.Error(t, err)
}

func TestValidateTokenRejectsOtherAlgorithms(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Role: RoleAdmin})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ValidateToken(testSecret, signed)
	assert.Error(t, err)
}

func TestAdminOnly(t *testing.T) {
	admin, err := NewToken(testSecret, "ops", RoleAdmin, time.Hour)
	require.NoError(t, err)
	viewer, err := NewToken(testSecret, "analyst", RoleViewer, time.Hour)
	require.NoError(t, err)
	expired, err := NewToken(testSecret, "ops", RoleAdmin, -time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name          string
		secret        string
		authorization string
		wantStatus    int
		wantCode      string
	}{
		{name: "admin token", secret: testSecret, authorization: "Bearer " + admin, wantStatus: http.StatusOK},
		{name: "viewer token", secret: testSecret, authorization: "Bearer " + viewer, wantStatus: http.StatusForbidden, wantCode: apiErrors.ErrInsufficientPrivilege},
		{name: "expired token", secret: testSecret, authorization: "Bearer " + expired, wantStatus: http.StatusUnauthorized, wantCode: apiErrors.ErrExpiredToken},
		{name: "missing header", secret: testSecret, wantStatus: http.StatusUnauthorized, wantCode: apiErrors.ErrMissingToken},
		{name: "not bearer", secret: testSecret, authorization: admin, wantStatus: http.StatusUnauthorized, wantCode: apiErrors.ErrMissingToken},
		{name: "garbage token", secret: testSecret, authorization: "Bearer nope", wantStatus: http.StatusUnauthorized, wantCode: apiErrors.ErrInvalidToken},
		{name: "auth disabled", secret: "", authorization: "Bearer " + admin, wantStatus: http.StatusForbidden, wantCode: apiErrors.ErrAuthDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := request(t, chain(AdminOnly(tt.secret)), tt.authorization)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Contains(t, rec.Body.String(), tt.wantCode)
			}
		})
	}
}

func TestAnyRoleAcceptsViewer(t *testing.T) {
	viewer, err := NewToken(testSecret, "analyst", RoleViewer, time.Hour)
	require.NoError(t, err)

	rec := request(t, chain(AnyRole(testSecret)), "Bearer "+viewer)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoleMiddlewareWithoutClaims(t *testing.T) {
	h := RoleMiddleware([]string{RoleAdmin})(okHandler())

	rec := request(t, h, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
