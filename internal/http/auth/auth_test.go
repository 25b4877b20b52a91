package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/envelope/internal/http/auth"
)

func TestAuthenticator_Middleware(t *testing.T) {
	a := auth.New("secret")
	userID := uuid.New()

	valid, err := a.Sign(userID, time.Hour)
	require.NoError(t, err)

	expired, err := a.Sign(userID, -time.Hour)
	require.NoError(t, err)

	foreign, err := auth.New("other").Sign(userID, time.Hour)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: userID.String()}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	notUUID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "alice"}).
		SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		query      string
		wantStatus int
	}{
		{name: "Valid", header: "Bearer " + valid, wantStatus: http.StatusOK},
		{name: "QueryToken", query: "?access_token=" + valid, wantStatus: http.StatusOK},
		{name: "Missing", wantStatus: http.StatusUnauthorized},
		{name: "WrongScheme", header: "Basic " + valid, wantStatus: http.StatusUnauthorized},
		{name: "Expired", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized},
		{name: "WrongSecret", header: "Bearer " + foreign, wantStatus: http.StatusUnauthorized},
		{name: "AlgNone", header: "Bearer " + none, wantStatus: http.StatusUnauthorized},
		{name: "SubjectNotUUID", header: "Bearer " + notUUID, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got uuid.UUID

			h := a.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = auth.UserID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, userID, got)
			} else {
				assert.Contains(t, rec.Body.String(), `"kind":"unauthorized"`)
			}
		})
	}
}
