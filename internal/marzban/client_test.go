package marzban

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSettings struct {
	url, user, pass string
}

func (f fixedSettings) PanelURL(context.Context) (string, error)       { return f.url, nil }
func (f fixedSettings) PanelAdminUser(context.Context) (string, error) { return f.user, nil }
func (f fixedSettings) PanelAdminPass(context.Context) (string, error) { return f.pass, nil }

func TestTokenExchange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/admin/token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "admin", r.PostForm.Get("username"))
		assert.Equal(t, "hunter2", r.PostForm.Get("password"))
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-1"})
	}))
	defer srv.Close()

	c := NewClient(fixedSettings{url: srv.URL, user: "admin", pass: "hunter2"})
	token, err := c.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
}

func TestTokenAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(fixedSettings{url: srv.URL, user: "x", pass: "y"})
	_, err := c.Token(context.Background())
	assert.ErrorIs(t, err, ErrAuth)
}

func TestCreateUserResolvesRelativeURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/user", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))

		var req CreateUserRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Kanallar", req.Username)
		assert.Equal(t, int64(100<<30), req.DataLimit)
		assert.Equal(t, "active", req.Status)
		assert.Equal(t, "aes-256-gcm", req.Proxies["shadowsocks"].Method)

		json.NewEncoder(w).Encode(map[string]string{"subscription_url": "/sub/abc"})
	}))
	defer srv.Close()

	c := NewClient(fixedSettings{url: srv.URL})
	subURL, err := c.CreateUser(context.Background(), "tok-1", CreateUserRequest{
		Username:  "Kanallar",
		DataLimit: 100 << 30,
		Status:    "active",
		Proxies:   map[string]Proxy{"shadowsocks": {Method: "aes-256-gcm", Password: "s"}},
	})
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/sub/abc", subURL)
}

func TestCreateUserConflictStillYieldsURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The panel returns the existing account's data on conflict.
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"subscription_url": "/sub/existing"})
	}))
	defer srv.Close()

	c := NewClient(fixedSettings{url: srv.URL})
	subURL, err := c.CreateUser(context.Background(), "tok", CreateUserRequest{Username: "Kanallar"})
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/sub/existing", subURL)
}

func TestCreateUserServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(fixedSettings{url: srv.URL})
	_, err := c.CreateUser(context.Background(), "tok", CreateUserRequest{Username: "Kanallar"})
	assert.Error(t, err)
}

func TestDeleteUserIgnoresStatus(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(fixedSettings{url: srv.URL})
	err := c.DeleteUser(context.Background(), "tok", "Kanallar")
	assert.NoError(t, err, "delete is cleanup, not a correctness gate")
	assert.Equal(t, "/api/user/Kanallar", path)
}
