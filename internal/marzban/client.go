// Package marzban is a minimal client for the Marzban panel API:
// admin token exchange, user deletion and user creation. Panel
// location and credentials are read from settings on every call, so
// an administrative reconfiguration takes effect on the next cycle
// without a restart.
package marzban

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrAuth signals a failed admin credential exchange. Provisioning
// treats it as "cannot proceed this cycle", not as a hard fault.
var ErrAuth = errors.New("panel authentication failed")

// PanelSettings supplies the panel endpoint and admin credentials.
type PanelSettings interface {
	PanelURL(ctx context.Context) (string, error)
	PanelAdminUser(ctx context.Context) (string, error)
	PanelAdminPass(ctx context.Context) (string, error)
}

type Client struct {
	http     *resty.Client
	settings PanelSettings
}

func NewClient(settings PanelSettings) *Client {
	client := resty.New().SetTimeout(30 * time.Second)
	return &Client{http: client, settings: settings}
}

type Proxy struct {
	Method   string `json:"method"`
	Password string `json:"password"`
}

type CreateUserRequest struct {
	Username     string           `json:"username"`
	DataLimit    int64            `json:"data_limit"`
	Status       string           `json:"status"`
	Proxies      map[string]Proxy `json:"proxies"`
	ProfileTitle string           `json:"profile-title"`
}

// Token performs the form-encoded admin credential exchange. There is
// no caching: every call re-reads settings and re-authenticates.
func (c *Client) Token(ctx context.Context) (string, error) {
	base, user, pass, err := c.panelConfig(ctx)
	if err != nil {
		return "", err
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{"username": user, "password": pass}).
		Post(base + "/api/admin/token")
	if err != nil {
		return "", fmt.Errorf("panel token: %w", err)
	}
	if resp.IsError() {
		return "", ErrAuth
	}
	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("panel token: %w", err)
	}
	return out.AccessToken, nil
}

// DeleteUser removes a panel account. The response status is not
// inspected: deletion is a cleanup step and "not found" is as good as
// "deleted".
func (c *Client) DeleteUser(ctx context.Context, token, username string) error {
	base, err := c.settings.PanelURL(ctx)
	if err != nil {
		return err
	}
	_, err = c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		Delete(base + "/api/user/" + url.PathEscape(username))
	return err
}

// CreateUser creates a panel account and returns its subscription URL
// resolved against the panel base URL. A 409 conflict is absorbed:
// the panel echoes the existing account, so its subscription URL is
// still extracted from the body.
func (c *Client) CreateUser(ctx context.Context, token string, req CreateUserRequest) (string, error) {
	base, err := c.settings.PanelURL(ctx)
	if err != nil {
		return "", err
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(req).
		Post(base + "/api/user")
	if err != nil {
		return "", fmt.Errorf("panel create user: %w", err)
	}
	if resp.IsError() && resp.StatusCode() != http.StatusConflict {
		return "", fmt.Errorf("panel create user: %s", resp.Status())
	}
	var out struct {
		SubscriptionURL string `json:"subscription_url"`
	}
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("panel create user: %w", err)
	}
	if out.SubscriptionURL == "" {
		return "", errors.New("panel create user: no subscription_url in response")
	}
	return resolveURL(base, out.SubscriptionURL)
}

// resolveURL makes a possibly-relative subscription path absolute.
func resolveURL(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(r).String(), nil
}

func (c *Client) panelConfig(ctx context.Context) (base, user, pass string, err error) {
	if base, err = c.settings.PanelURL(ctx); err != nil {
		return
	}
	if user, err = c.settings.PanelAdminUser(ctx); err != nil {
		return
	}
	pass, err = c.settings.PanelAdminPass(ctx)
	return
}
