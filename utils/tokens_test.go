package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Matesfu/Mela-rent/internal/models"
)

func TestManagerRoundTrip(t *testing.T) {
	m, err := NewManager("secret")
	require.NoError(t, err)

	token, err := m.NewJWT(models.User{ID: 7, Role: models.RoleOwner}, time.Now(), time.Minute)
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, models.RoleOwner, claims.Role)
}

func TestManagerRejectsExpiredAndForeignTokens(t *testing.T) {
	m, err := NewManager("secret")
	require.NoError(t, err)
	other, err := NewManager("other")
	require.NoError(t, err)

	expired, err := m.NewJWT(models.User{ID: 7, Role: models.RoleTenant}, time.Now().Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)
	_, err = m.Parse(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	foreign, err := other.NewJWT(models.User{ID: 7, Role: models.RoleTenant}, time.Now(), time.Hour)
	require.NoError(t, err)
	_, err = m.Parse(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewManagerRequiresKey(t *testing.T) {
	_, err := NewManager("")
	assert.Error(t, err)
	assert.NotEqual(t, mustManager(t).NewRefreshToken(), mustManager(t).NewRefreshToken())
}

func mustManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager("secret")
	require.NoError(t, err)
	return m
}
