package domain

// RoleCode is the closed role enumeration
type RoleCode string

const (
	RoleAdmin        RoleCode = "admin"
	RoleManager      RoleCode = "manager"
	RoleCounterAgent RoleCode = "counter_agent"
	RoleParcelAgent  RoleCode = "parcel_agent"
	RoleCourier      RoleCode = "courier"
	RoleClient       RoleCode = "client"
	RoleShipper      RoleCode = "shipper"
)

// AllRoles lists every seeded role code
var AllRoles = []RoleCode{
	RoleAdmin,
	RoleManager,
	RoleCounterAgent,
	RoleParcelAgent,
	RoleCourier,
	RoleClient,
	RoleShipper,
}

// IsValid reports whether r is a known role code
func (r RoleCode) IsValid() bool {
	for _, role := range AllRoles {
		if role == r {
			return true
		}
	}
	return false
}

// Caller identifies the authenticated user for authorization decisions
type Caller struct {
	UserID     uint
	Role       RoleCode
	StationIDs []uint // stations the caller is assigned to
}

// Scope is the visibility predicate applied by repositories before any
// list query. Exactly one of the three shapes holds: unrestricted,
// owner-restricted, or station-restricted.
type Scope struct {
	All        bool
	OwnerID    *uint
	StationIDs []uint
}

// ScopeAll is the unrestricted scope
func ScopeAll() Scope {
	return Scope{All: true}
}

// ScopeFor computes the visibility scope for a caller. Clients and
// shippers see only their own records, station staff see their assigned
// stations' records, everyone else sees the full collection.
func ScopeFor(caller Caller) Scope {
	switch caller.Role {
	case RoleClient, RoleShipper:
		owner := caller.UserID
		return Scope{OwnerID: &owner}
	case RoleManager, RoleCounterAgent:
		return Scope{StationIDs: caller.StationIDs}
	default:
		return Scope{All: true}
	}
}

// IsOwnerScoped reports whether the scope restricts to a single owner
func (s Scope) IsOwnerScoped() bool {
	return !s.All && s.OwnerID != nil
}

// IsStationScoped reports whether the scope restricts to stations
func (s Scope) IsStationScoped() bool {
	return !s.All && s.OwnerID == nil
}
