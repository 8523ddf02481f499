package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/devbazaar/marketplace-backend/auth"
	"github.com/devbazaar/marketplace-backend/database"
	"github.com/devbazaar/marketplace-backend/services"
)

type fakeUploadStore struct {
	lastKey string
	fail    bool
}

func (f *fakeUploadStore) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if f.fail {
		return "", fmt.Errorf("store offline")
	}
	f.lastKey = key
	return "https://cdn.test/" + key, nil
}

func newTestDatabase(t *testing.T) database.Database {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxIdleConns(2)

	d := database.New(db)
	require.NoError(t, d.Migrate())
	return d
}

func newTestServer(t *testing.T, uploads services.UploadStore) *httptest.Server {
	t.Helper()

	mux := newRouter(newTestDatabase(t), uploads, withConfig(map[string]string{
		"JWT_SECRET": "test-signing-key",
	}))
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func newClient(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func doJSON(t *testing.T, client *http.Client, method, target string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func decodeMap(t *testing.T, data []byte) map[string]any {
	t.Helper()

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func decodeList(t *testing.T, data []byte) []map[string]any {
	t.Helper()

	var list []map[string]any
	require.NoError(t, json.Unmarshal(data, &list))
	return list
}

// signup registers a fresh account on the client's cookie jar and returns the
// new user id.
func signup(t *testing.T, client *http.Client, baseURL, email string) string {
	t.Helper()

	status, body := doJSON(t, client, http.MethodPost, baseURL+"/auth/signup", map[string]any{
		"email":       email,
		"password":    "hunter22",
		"displayName": strings.Split(email, "@")[0],
	})
	require.Equal(t, http.StatusOK, status, "signup failed: %s", body)

	user, ok := decodeMap(t, body)["user"].(map[string]any)
	require.True(t, ok)
	id, ok := user["id"].(string)
	require.True(t, ok)
	return id
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t, nil)

	status, body := doJSON(t, http.DefaultClient, http.MethodGet, ts.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, status)

	health := decodeMap(t, body)
	assert.Equal(t, "ok", health["status"])
	assert.NotEmpty(t, health["uptime"])
}

func TestSignupAndSession(t *testing.T) {
	ts := newTestServer(t, nil)
	client := newClient(t)

	t.Run("signup issues a session cookie", func(t *testing.T) {
		status, body := doJSON(t, client, http.MethodPost, ts.URL+"/auth/signup", map[string]any{
			"email":    "alice@example.com",
			"password": "hunter22",
		})
		require.Equal(t, http.StatusOK, status)

		resp := decodeMap(t, body)
		assert.Equal(t, true, resp["success"])

		// the response must never leak credential material
		assert.NotContains(t, string(body), "hunter22")
		assert.NotContains(t, strings.ToLower(string(body)), "password")

		serverURL, err := url.Parse(ts.URL)
		require.NoError(t, err)
		var sessionCookie *http.Cookie
		for _, c := range client.Jar.Cookies(serverURL) {
			if c.Name == auth.SessionCookieName {
				sessionCookie = c
			}
		}
		require.NotNil(t, sessionCookie, "session cookie missing after signup")
	})

	t.Run("me reflects the session", func(t *testing.T) {
		status, body := doJSON(t, client, http.MethodGet, ts.URL+"/auth/me", nil)
		require.Equal(t, http.StatusOK, status)

		user, ok := decodeMap(t, body)["user"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "alice@example.com", user["email"])
	})

	t.Run("duplicate signup is rejected", func(t *testing.T) {
		status, _ := doJSON(t, newClient(t), http.MethodPost, ts.URL+"/auth/signup", map[string]any{
			"email":    "alice@example.com",
			"password": "other",
		})
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("unknown payload fields are rejected", func(t *testing.T) {
		status, _ := doJSON(t, newClient(t), http.MethodPost, ts.URL+"/auth/signup", map[string]any{
			"email":    "bob@example.com",
			"password": "hunter22",
			"isAdmin":  true,
		})
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("missing fields are rejected", func(t *testing.T) {
		status, _ := doJSON(t, newClient(t), http.MethodPost, ts.URL+"/auth/signup", map[string]any{
			"email": "carol@example.com",
		})
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("logout clears the session", func(t *testing.T) {
		status, _ := doJSON(t, client, http.MethodPost, ts.URL+"/auth/logout", map[string]any{})
		require.Equal(t, http.StatusOK, status)

		status, body := doJSON(t, client, http.MethodGet, ts.URL+"/auth/me", nil)
		require.Equal(t, http.StatusOK, status)
		assert.Nil(t, decodeMap(t, body)["user"])
	})
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t, nil)
	signup(t, newClient(t), ts.URL, "alice@example.com")

	t.Run("wrong secret and unknown account fail identically", func(t *testing.T) {
		status, wrongSecret := doJSON(t, newClient(t), http.MethodPost, ts.URL+"/auth/login", map[string]any{
			"email":    "alice@example.com",
			"password": "wrong",
		})
		require.Equal(t, http.StatusUnauthorized, status)

		status, unknownAccount := doJSON(t, newClient(t), http.MethodPost, ts.URL+"/auth/login", map[string]any{
			"email":    "ghost@example.com",
			"password": "wrong",
		})
		require.Equal(t, http.StatusUnauthorized, status)

		assert.JSONEq(t, string(wrongSecret), string(unknownAccount))
	})

	t.Run("valid credentials open a session", func(t *testing.T) {
		client := newClient(t)
		status, _ := doJSON(t, client, http.MethodPost, ts.URL+"/auth/login", map[string]any{
			"email":    "alice@example.com",
			"password": "hunter22",
		})
		require.Equal(t, http.StatusOK, status)

		status, body := doJSON(t, client, http.MethodGet, ts.URL+"/auth/me", nil)
		require.Equal(t, http.StatusOK, status)
		user, ok := decodeMap(t, body)["user"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "alice@example.com", user["email"])
	})

	t.Run("a tampered cookie collapses to anonymous", func(t *testing.T) {
		client := newClient(t)
		serverURL, err := url.Parse(ts.URL)
		require.NoError(t, err)
		client.Jar.SetCookies(serverURL, []*http.Cookie{{Name: auth.SessionCookieName, Value: "not-a-token"}})

		status, body := doJSON(t, client, http.MethodGet, ts.URL+"/auth/me", nil)
		require.Equal(t, http.StatusOK, status)
		assert.Nil(t, decodeMap(t, body)["user"])
	})
}
