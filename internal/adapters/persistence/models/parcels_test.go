package models_test

import (
	"testing"
	"time"

	"colisso/internal/adapters/persistence/models"
	"colisso/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParcelIsFullyPaid(t *testing.T) {
	t.Parallel()

	p := &models.Parcel{Price: 100, AmountPaid: 99.99}
	assert.False(t, p.IsFullyPaid())

	p.AmountPaid = 100
	assert.True(t, p.IsFullyPaid())

	p.AmountPaid = 120
	assert.True(t, p.IsFullyPaid())
}

func TestParcelToTrackingResponse(t *testing.T) {
	t.Parallel()

	old := string(domain.ParcelPending)
	parcel := &models.Parcel{
		ID:           3,
		TrackingCode: "COL-A1B2C3D4",
		Status:       string(domain.ParcelInTransit),
	}
	history := []*models.StatusHistory{
		{ID: 1, ParcelID: 3, NewStatus: old, CreatedAt: time.Now().Add(-time.Hour)},
		{ID: 2, ParcelID: 3, OldStatus: &old, NewStatus: string(domain.ParcelInTransit), CreatedAt: time.Now()},
	}

	resp := parcel.ToTrackingResponse(history)

	require.NotNil(t, resp)
	assert.Equal(t, "COL-A1B2C3D4", resp.TrackingCode)
	assert.Equal(t, string(domain.ParcelInTransit), resp.Status)
	assert.Len(t, resp.History, 2)
}

func TestRefreshTokenState(t *testing.T) {
	t.Parallel()

	now := time.Now()
	token := &models.RefreshToken{ExpiresAt: now.Add(time.Hour)}

	assert.False(t, token.IsRevoked())
	assert.False(t, token.IsExpired())

	token.RevokedAt = &now
	assert.True(t, token.IsRevoked())

	token.ExpiresAt = now.Add(-time.Minute)
	assert.True(t, token.IsExpired())
}

func TestUserFullNameAndRole(t *testing.T) {
	t.Parallel()

	user := &models.User{FirstName: "Awa", LastName: "Diop"}
	assert.Equal(t, "Awa Diop", user.FullName())

	// Role not preloaded
	assert.Equal(t, domain.RoleCode(""), user.RoleCode())

	user.Role = &models.Role{Code: string(domain.RoleCourier)}
	assert.Equal(t, domain.RoleCourier, user.RoleCode())
}
