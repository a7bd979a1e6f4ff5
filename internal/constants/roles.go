package constants

import "fmt"

// Role mirrors the backend's roles table (RoleID).
type Role int

const (
	RoleAdmin Role = 1
	RoleUser  Role = 2
)

// String implements fmt.Stringer for logs.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleUser:
		return "user"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Label is the human-readable role title shown in the admin table.
func (r Role) Label() string {
	if r == RoleAdmin {
		return "Administrator"
	}
	return "User"
}

// HomePath returns the panel a freshly logged in user lands on.
func (r Role) HomePath() string {
	switch r {
	case RoleAdmin:
		return "/admin"
	case RoleUser:
		return "/user"
	default:
		return "/auth/login"
	}
}

// CabinType mirrors the backend's cabin_types table.
type CabinType int

const (
	CabinEconomy  CabinType = 1
	CabinBusiness CabinType = 2
	CabinFirst    CabinType = 3
)

func (c CabinType) String() string {
	switch c {
	case CabinEconomy:
		return "Economy"
	case CabinBusiness:
		return "Business"
	case CabinFirst:
		return "First Class"
	default:
		return fmt.Sprintf("cabin(%d)", int(c))
	}
}

// ParseCabinType accepts either the numeric id or the display name.
func ParseCabinType(s string) (CabinType, bool) {
	switch s {
	case "1", "Economy", "economy":
		return CabinEconomy, true
	case "2", "Business", "business":
		return CabinBusiness, true
	case "3", "First", "First Class", "first":
		return CabinFirst, true
	}
	return 0, false
}

// CabinTypes lists cabins in display order.
var CabinTypes = []CabinType{CabinEconomy, CabinBusiness, CabinFirst}
