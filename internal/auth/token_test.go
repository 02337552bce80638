package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadankyi1/amforex/internal/config"
	"github.com/kadankyi1/amforex/internal/scope"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenLifetime = time.Hour
	m, err := NewManager(cfg)
	require.NoError(t, err)
	return m
}

func TestIssueAndParse(t *testing.T) {
	m := newTestManager(t)

	scopes := scope.NewSet(scope.AddCurrency, scope.ViewCurrencies)
	token, err := m.Issue("admin", 42, scopes)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	p, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", p.UserType)
	assert.Equal(t, int64(42), p.ID)
	assert.NotEmpty(t, p.JTI)
	assert.True(t, p.Scope.Has(scope.AddCurrency))
	assert.True(t, p.Scope.Has(scope.ViewCurrencies))
	assert.False(t, p.Scope.Has(scope.AddAdmin))
	assert.Greater(t, p.TTL(), time.Duration(0))
}

func TestParseRejectsTamperedToken(t *testing.T) {
	m := newTestManager(t)

	token, err := m.Issue("admin", 42, scope.NewSet(scope.ViewReports))
	require.NoError(t, err)

	_, err = m.Parse(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsTokenFromOtherSecret(t *testing.T) {
	m := newTestManager(t)

	other := &config.Config{}
	other.Auth.JWTSecret = "different-secret"
	other.Auth.TokenLifetime = time.Hour
	m2, err := NewManager(other)
	require.NoError(t, err)

	token, err := m2.Issue("admin", 42, scope.NewSet())
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDistinctTokensGetDistinctJTIs(t *testing.T) {
	m := newTestManager(t)

	t1, err := m.Issue("admin", 1, scope.NewSet())
	require.NoError(t, err)
	t2, err := m.Issue("admin", 1, scope.NewSet())
	require.NoError(t, err)

	p1, err := m.Parse(t1)
	require.NoError(t, err)
	p2, err := m.Parse(t2)
	require.NoError(t, err)
	assert.NotEqual(t, p1.JTI, p2.JTI)
}
