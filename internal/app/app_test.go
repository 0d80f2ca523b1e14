package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sessionstore/internal/app"
	"sessionstore/internal/http-server/handlers/session/findByShop"
	"sessionstore/internal/http-server/handlers/session/load"
	jwtlib "sessionstore/internal/lib/jwt"
	"sessionstore/internal/lib/logger/handlers/slogdiscard"
	"sessionstore/internal/storage/sql"
	"testing"
	"time"
)

const shop = "shop.myshopify.com"

type client struct {
	t       *testing.T
	handler http.Handler
	token   string
}

func (c client) do(method, target, body string) *httptest.ResponseRecorder {
	c.t.Helper()

	req, err := http.NewRequest(method, target, bytes.NewReader([]byte(body)))
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	rr := httptest.NewRecorder()
	c.handler.ServeHTTP(rr, req)

	return rr
}

func newRouter(t *testing.T) (http.Handler, *jwtlib.TokenManager) {
	t.Helper()

	storage := sql.New("sqlite3", filepath.Join(t.TempDir(), "sessions.db"), sql.Options{})
	t.Cleanup(func() {
		_ = storage.Disconnect(context.Background())
	})

	tokenManager := jwtlib.New(time.Hour, "test-secret")

	return app.NewRouter(slogdiscard.NewDiscardLogger(), storage, tokenManager), tokenManager
}

func TestRouter_SessionLifecycle(t *testing.T) {
	router, tokenManager := newRouter(t)

	shopToken, err := tokenManager.NewToken(shop, "shop")
	require.NoError(t, err)
	adminToken, err := tokenManager.NewToken("", jwtlib.RoleAdmin)
	require.NoError(t, err)

	anonymous := client{t: t, handler: router}
	merchant := client{t: t, handler: router, token: shopToken}
	admin := client{t: t, handler: router, token: adminToken}

	require.Equal(t, http.StatusOK, anonymous.do(http.MethodGet, "/healthz", "").Code)
	require.Equal(t, http.StatusUnauthorized, anonymous.do(http.MethodGet, "/sessions/offline_"+shop, "").Code)

	rr := merchant.do(http.MethodPut, "/sessions", `{"id": "offline_shop.myshopify.com", "shop": "shop.myshopify.com",
		"state": "state", "scope": "read_products", "expires": 1700000000999, "accessToken": "shpat_token"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = merchant.do(http.MethodPut, "/sessions", `{"id": "shop.myshopify.com_42", "shop": "shop.myshopify.com",
		"state": "state", "isOnline": true}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = merchant.do(http.MethodGet, "/sessions/offline_"+shop, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var loaded load.Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &loaded))
	require.NotNil(t, loaded.Session)
	require.Equal(t, "read_products", loaded.Session.Scope)
	require.Equal(t, int64(1_700_000_000_000), loaded.Session.Expires)

	rr = merchant.do(http.MethodGet, "/shops/"+shop+"/sessions/offline", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &loaded))
	require.Equal(t, "offline_"+shop, loaded.Session.ID)

	rr = merchant.do(http.MethodGet, "/shops/"+shop+"/users/42/session", "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = merchant.do(http.MethodGet, "/shops/"+shop+"/sessions", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var found findByShop.Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &found))
	require.Len(t, found.Sessions, 2)

	require.Equal(t, http.StatusForbidden, merchant.do(http.MethodGet, "/shops/other.myshopify.com/sessions", "").Code)
	require.Equal(t, http.StatusForbidden, merchant.do(http.MethodDelete, "/sessions/offline_"+shop, "").Code)

	require.Equal(t, http.StatusNoContent, admin.do(http.MethodDelete, "/sessions/offline_"+shop, "").Code)
	require.Equal(t, http.StatusNotFound, merchant.do(http.MethodGet, "/sessions/offline_"+shop, "").Code)

	rr = admin.do(http.MethodPost, "/sessions/delete", `{"ids": ["shop.myshopify.com_42", "missing"]}`)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = admin.do(http.MethodGet, "/shops/"+shop+"/sessions", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"status":"OK","sessions":[]}`, rr.Body.String())
}

func TestRouter_HealthBeforeStorageFails(t *testing.T) {
	storage := sql.New("sqlite3", filepath.Join(t.TempDir(), "missing", "sessions.db"), sql.Options{})

	router := app.NewRouter(slogdiscard.NewDiscardLogger(), storage, jwtlib.New(time.Hour, "test-secret"))

	rr := client{t: t, handler: router}.do(http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
