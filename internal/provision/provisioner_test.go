package provision

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"happ-seller-bot/internal/marzban"
)

// fakePanel scripts successive Token results; an empty entry means an
// authentication failure for that acquisition.
type fakePanel struct {
	tokens     []string
	tokenCalls int
	deleted    []string
	created    []marzban.CreateUserRequest
	createURL  string
	createErr  error
	deleteErr  error
}

func (f *fakePanel) Token(context.Context) (string, error) {
	i := f.tokenCalls
	f.tokenCalls++
	if i < len(f.tokens) && f.tokens[i] != "" {
		return f.tokens[i], nil
	}
	return "", marzban.ErrAuth
}

func (f *fakePanel) DeleteUser(_ context.Context, _, username string) error {
	f.deleted = append(f.deleted, username)
	return f.deleteErr
}

func (f *fakePanel) CreateUser(_ context.Context, _ string, req marzban.CreateUserRequest) (string, error) {
	f.created = append(f.created, req)
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.createURL, nil
}

func TestProvisionDeletesThenCreates(t *testing.T) {
	panel := &fakePanel{tokens: []string{"t1", "t2"}, createURL: "https://panel/sub/abc"}
	p := New(panel)

	subURL, err := p.Provision(context.Background(), AccountID)
	require.NoError(t, err)
	assert.Equal(t, "https://panel/sub/abc", subURL)
	assert.Equal(t, []string{AccountID}, panel.deleted)
	require.Len(t, panel.created, 1)
	assert.Equal(t, 2, panel.tokenCalls, "deletion and creation acquire independent tokens")
}

func TestDeleteSkippedWhenFirstTokenFails(t *testing.T) {
	panel := &fakePanel{tokens: []string{"", "t2"}, createURL: "https://panel/sub/abc"}
	p := New(panel)

	_, err := p.Provision(context.Background(), AccountID)
	require.NoError(t, err)
	assert.Empty(t, panel.deleted, "no token, no delete; the account may not exist yet")
	assert.Len(t, panel.created, 1)
}

func TestDeleteFailureDoesNotAbort(t *testing.T) {
	panel := &fakePanel{
		tokens:    []string{"t1", "t2"},
		deleteErr: errors.New("connection reset"),
		createURL: "https://panel/sub/abc",
	}
	p := New(panel)

	_, err := p.Provision(context.Background(), AccountID)
	assert.NoError(t, err)
}

func TestProvisionFailsWhenCreateTokenFails(t *testing.T) {
	panel := &fakePanel{tokens: []string{"t1", ""}}
	p := New(panel)

	_, err := p.Provision(context.Background(), AccountID)
	assert.ErrorIs(t, err, marzban.ErrAuth)
	assert.Empty(t, panel.created)
}

func TestProvisionFailsWhenCreateFails(t *testing.T) {
	panel := &fakePanel{tokens: []string{"t1", "t2"}, createErr: errors.New("panel create user: 500")}
	p := New(panel)

	_, err := p.Provision(context.Background(), AccountID)
	assert.Error(t, err)
}

func TestFreshSecretPerCycle(t *testing.T) {
	panel := &fakePanel{tokens: []string{"a", "b", "c", "d"}, createURL: "https://panel/sub/abc"}
	p := New(panel)

	_, err := p.Provision(context.Background(), AccountID)
	require.NoError(t, err)
	_, err = p.Provision(context.Background(), AccountID)
	require.NoError(t, err)

	require.Len(t, panel.created, 2)
	first := panel.created[0].Proxies["shadowsocks"].Password
	second := panel.created[1].Proxies["shadowsocks"].Password
	assert.True(t, strings.HasPrefix(first, "ss_"+AccountID+"_"))
	assert.NotEqual(t, first, second, "re-provisioning must never reuse a secret")
}

func TestPayloadShape(t *testing.T) {
	panel := &fakePanel{tokens: []string{"t1", "t2"}, createURL: "https://panel/sub/abc"}
	p := New(panel)

	_, err := p.Provision(context.Background(), AccountID)
	require.NoError(t, err)

	req := panel.created[0]
	assert.Equal(t, AccountID, req.Username)
	assert.Equal(t, int64(100<<30), req.DataLimit)
	assert.Equal(t, "active", req.Status)
	assert.Equal(t, "aes-256-gcm", req.Proxies["shadowsocks"].Method)
	assert.Equal(t, "base64:S2FuYWxsYXI=", req.ProfileTitle)
}
