package domain_test

import (
	"testing"

	"colisso/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleCodeIsValid(t *testing.T) {
	t.Parallel()

	for _, role := range domain.AllRoles {
		assert.True(t, role.IsValid(), string(role))
	}
	assert.False(t, domain.RoleCode("superuser").IsValid())
	assert.False(t, domain.RoleCode("ADMIN").IsValid())
	assert.False(t, domain.RoleCode("").IsValid())
}

func TestScopeForClient(t *testing.T) {
	t.Parallel()

	scope := domain.ScopeFor(domain.Caller{UserID: 42, Role: domain.RoleClient})

	require.True(t, scope.IsOwnerScoped())
	assert.False(t, scope.All)
	assert.Equal(t, uint(42), *scope.OwnerID)
}

func TestScopeForShipper(t *testing.T) {
	t.Parallel()

	scope := domain.ScopeFor(domain.Caller{UserID: 7, Role: domain.RoleShipper})

	require.True(t, scope.IsOwnerScoped())
	assert.Equal(t, uint(7), *scope.OwnerID)
}

func TestScopeForStationStaff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		role domain.RoleCode
	}{
		{"manager", domain.RoleManager},
		{"counter agent", domain.RoleCounterAgent},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			scope := domain.ScopeFor(domain.Caller{
				UserID:     3,
				Role:       tt.role,
				StationIDs: []uint{10, 11},
			})

			assert.True(t, scope.IsStationScoped())
			assert.False(t, scope.IsOwnerScoped())
			assert.Equal(t, []uint{10, 11}, scope.StationIDs)
		})
	}
}

func TestScopeForUnrestrictedRoles(t *testing.T) {
	t.Parallel()

	for _, role := range []domain.RoleCode{domain.RoleAdmin, domain.RoleParcelAgent, domain.RoleCourier} {
		scope := domain.ScopeFor(domain.Caller{UserID: 1, Role: role})
		assert.True(t, scope.All, string(role))
		assert.False(t, scope.IsOwnerScoped(), string(role))
		assert.False(t, scope.IsStationScoped(), string(role))
	}
}

func TestScopeForStaffWithoutAssignments(t *testing.T) {
	t.Parallel()

	// A manager with no active assignments sees nothing, not everything
	scope := domain.ScopeFor(domain.Caller{UserID: 5, Role: domain.RoleManager})

	assert.True(t, scope.IsStationScoped())
	assert.Empty(t, scope.StationIDs)
}
