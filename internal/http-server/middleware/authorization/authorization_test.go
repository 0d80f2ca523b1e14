package authorization_test

import (
	"encoding/json"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"sessionstore/internal/http-server/middleware/authorization"
	resp "sessionstore/internal/lib/api/response"
	jwtlib "sessionstore/internal/lib/jwt"
	"sessionstore/internal/lib/logger/handlers/slogdiscard"
	"testing"
	"time"
)

func TestAuthorization(t *testing.T) {
	manager := jwtlib.New(time.Hour, "test-secret")

	token, err := manager.NewToken("shop.myshopify.com", "merchant")
	require.NoError(t, err)

	testCases := []struct {
		name       string
		header     string
		respError  string
		respStatus int
	}{
		{
			name:       "Success",
			header:     "Bearer " + token,
			respStatus: http.StatusOK,
		},
		{
			name:       "Missing header",
			respError:  "authorization header is required",
			respStatus: http.StatusUnauthorized,
		},
		{
			name:       "Wrong scheme",
			header:     "Basic " + token,
			respError:  "invalid authorization header format",
			respStatus: http.StatusUnauthorized,
		},
		{
			name:       "Invalid token",
			header:     "Bearer not-a-token",
			respError:  "invalid token",
			respStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				claims, err := jwtlib.GetClaimsFromContext(r.Context())
				require.NoError(t, err)
				require.Equal(t, "shop.myshopify.com", claims["shop"])
				w.WriteHeader(http.StatusOK)
			})

			handler := authorization.New(slogdiscard.NewDiscardLogger(), manager)(next)

			req, err := http.NewRequest(http.MethodGet, "/sessions/id", nil)
			require.NoError(t, err)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			require.Equal(t, tc.respStatus, rr.Code)

			if tc.respStatus != http.StatusOK {
				var body resp.Response
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
				require.Equal(t, resp.Error(tc.respError), body)
			}
		})
	}
}
