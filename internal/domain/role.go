package domain

// Role enumerates access levels. The numeric values are pinned by the seed
// data and travel on the wire as roleId.
type Role int64

const (
	RoleAdmin   Role = 1
	RoleSupport Role = 2
)

// String returns the display name matching the seeded role rows.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleSupport:
		return "Support"
	default:
		return "Unknown"
	}
}

// Valid reports whether the role is one of the seeded roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleSupport
}

// CanViewAllTickets reports whether the role sees every ticket in scoped
// listings, not just its own.
func (r Role) CanViewAllTickets() bool {
	return r == RoleAdmin
}

// CanManageTicket decides edit/delete permission for a ticket owned by ownerID.
func (r Role) CanManageTicket(requesterID, ownerID int64) bool {
	if r == RoleAdmin {
		return true
	}
	return requesterID == ownerID
}

// CanReassignTickets reports whether the role may change a ticket's owner on edit.
func (r Role) CanReassignTickets() bool {
	return r == RoleAdmin
}

// CanListUsers reports whether the role may list all user accounts.
func (r Role) CanListUsers() bool {
	return r == RoleAdmin
}
