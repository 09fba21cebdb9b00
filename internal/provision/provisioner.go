package provision

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"happ-seller-bot/internal/marzban"
)

// AccountID is the single shared panel identity the bot re-provisions
// on every trigger. One live account serves all subscribers; the code
// is broadcast, not handed out per user.
const AccountID = "Kanallar"

const (
	trafficLimitBytes = 100 << 30 // 100 GiB plan
	statusActive      = "active"
	proxyMethod       = "aes-256-gcm"
)

type PanelClient interface {
	Token(ctx context.Context) (string, error)
	DeleteUser(ctx context.Context, token, username string) error
	CreateUser(ctx context.Context, token string, req marzban.CreateUserRequest) (string, error)
}

type Provisioner struct {
	panel PanelClient
	now   func() time.Time
}

func New(panel PanelClient) *Provisioner {
	return &Provisioner{panel: panel, now: time.Now}
}

// Provision tears down any live account under accountID and creates a
// fresh one, returning its absolute subscription URL.
//
// Teardown is best-effort: if no token can be obtained, or the delete
// itself fails, the account may simply not exist yet and creation
// decides the outcome. Creation acquires its own token; deletion and
// creation never share a token lifetime.
func (p *Provisioner) Provision(ctx context.Context, accountID string) (string, error) {
	if token, err := p.panel.Token(ctx); err == nil {
		_ = p.panel.DeleteUser(ctx, token, accountID)
	}

	token, err := p.panel.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("provision %s: %w", accountID, err)
	}

	req := marzban.CreateUserRequest{
		Username:  accountID,
		DataLimit: trafficLimitBytes,
		Status:    statusActive,
		Proxies: map[string]marzban.Proxy{
			"shadowsocks": {
				Method:   proxyMethod,
				Password: p.proxySecret(accountID),
			},
		},
		ProfileTitle: "base64:" + base64.StdEncoding.EncodeToString([]byte(accountID)),
	}

	subURL, err := p.panel.CreateUser(ctx, token, req)
	if err != nil {
		return "", fmt.Errorf("provision %s: %w", accountID, err)
	}
	return subURL, nil
}

// proxySecret derives a fresh secret per cycle. The timestamp
// component keeps re-provisioning the same logical account from ever
// reusing a secret.
func (p *Provisioner) proxySecret(accountID string) string {
	return fmt.Sprintf("ss_%s_%d", accountID, p.now().UnixNano())
}
