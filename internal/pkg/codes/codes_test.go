package codes_test

import (
	"strings"
	"testing"

	"colisso/internal/pkg/codes"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTrackingCode(t *testing.T) {
	t.Parallel()

	code := codes.NewTrackingCode()

	require.Len(t, code, len(codes.TrackingPrefix)+8)
	assert.True(t, strings.HasPrefix(code, codes.TrackingPrefix))
	assert.Equal(t, strings.ToUpper(code), code)
}

func TestNewTrackingCodeUniqueness(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		code := codes.NewTrackingCode()
		assert.False(t, seen[code], code)
		seen[code] = true
	}
}

func TestNewTicketNumber(t *testing.T) {
	t.Parallel()

	ticket := codes.NewTicketNumber()

	require.Len(t, ticket, len(codes.TicketPrefix)+6)
	assert.True(t, strings.HasPrefix(ticket, codes.TicketPrefix))

	digits := strings.TrimPrefix(ticket, codes.TicketPrefix)
	for _, r := range digits {
		assert.True(t, r >= '0' && r <= '9', ticket)
	}
}
