package codes

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

// Business identifier generation. Uniqueness is ultimately guaranteed
// by the unique index on the column; these just make collisions
// unlikely enough that the insert retry path almost never runs.

// TrackingPrefix is prepended to every parcel tracking code
const TrackingPrefix = "COL-"

// TicketPrefix is prepended to every reservation ticket number
const TicketPrefix = "TK"

// NewTrackingCode returns a code like "COL-3FA85F64"
func NewTrackingCode() string {
	return TrackingPrefix + strings.ToUpper(uuid.New().String()[:8])
}

// NewTicketNumber returns a ticket like "TK483920"
func NewTicketNumber() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		return TicketPrefix + uuid.New().String()[:6]
	}
	return fmt.Sprintf("%s%06d", TicketPrefix, n.Int64())
}
