package deleteMany_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"sessionstore/internal/http-server/handlers/session/deleteMany"
	"sessionstore/internal/http-server/handlers/session/deleteMany/mocks"
	resp "sessionstore/internal/lib/api/response"
	jwtlib "sessionstore/internal/lib/jwt"
	"sessionstore/internal/lib/logger/handlers/slogdiscard"
	"sessionstore/internal/storage"
	"testing"
)

func TestDeleteManyHandler(t *testing.T) {
	admin := jwt.MapClaims{"role": jwtlib.RoleAdmin}

	testCases := []struct {
		name       string
		input      string
		claims     jwt.MapClaims
		ids        []string
		mockError  error
		respError  string
		respStatus int
	}{
		{
			name:       "Success",
			input:      `{"ids": ["a", "b"]}`,
			claims:     admin,
			ids:        []string{"a", "b"},
			respStatus: http.StatusNoContent,
		},
		{
			name:       "Empty list",
			input:      `{"ids": []}`,
			claims:     admin,
			ids:        []string{},
			respStatus: http.StatusNoContent,
		},
		{
			name:       "Empty id",
			input:      `{"ids": ["a", ""]}`,
			claims:     admin,
			respError:  "field IDs[1] is a required field",
			respStatus: http.StatusBadRequest,
		},
		{
			name:       "Shop token",
			input:      `{"ids": ["a"]}`,
			claims:     jwt.MapClaims{"shop": "shop.myshopify.com"},
			respError:  "access denied",
			respStatus: http.StatusForbidden,
		},
		{
			name:       "Invalid JSON",
			input:      `{"ids": [`,
			claims:     admin,
			respError:  "failed to decode request",
			respStatus: http.StatusBadRequest,
		},
		{
			name:       "storage error: unavailable",
			input:      `{"ids": ["a"]}`,
			claims:     admin,
			ids:        []string{"a"},
			mockError:  storage.ErrConnection,
			respError:  "storage unavailable",
			respStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "storage error: other error",
			input:      `{"ids": ["a"]}`,
			claims:     admin,
			ids:        []string{"a"},
			mockError:  errors.New("unexpected error"),
			respError:  "internal server error",
			respStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			sessionsDeleterMock := mocks.NewSessionsDeleter(t)
			if tc.ids != nil {
				sessionsDeleterMock.On("DeleteSessions", mock.Anything, tc.ids).
					Return(tc.mockError).
					Once()
			}

			handler := deleteMany.New(slogdiscard.NewDiscardLogger(), sessionsDeleterMock)

			req, err := http.NewRequest(http.MethodPost, "/sessions/delete", bytes.NewReader([]byte(tc.input)))
			require.NoError(t, err)
			req.Header.Set("Content-Type", "application/json")
			req = req.WithContext(jwtlib.ContextWithClaims(req.Context(), tc.claims))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			require.Equal(t, tc.respStatus, rr.Code)

			if tc.respStatus == http.StatusNoContent {
				require.Empty(t, rr.Body.Bytes())
				return
			}

			var body resp.Response
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			require.Equal(t, tc.respError, body.Error)
		})
	}
}
