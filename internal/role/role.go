// Package role holds the closed set of portal roles, the capabilities each
// role grants and the sidebar menu derived from a role.
package role

import "strings"

type Role string

const (
	ManagingPartner Role = "managingpartner"
	Partner         Role = "partner"
	Admin           Role = "admin"
	Manager         Role = "manager"
	Auditor         Role = "auditor"
	Client          Role = "client"
	Mitra           Role = "mitra"

	// Unknown is what Parse returns for anything outside the enumeration.
	Unknown Role = ""
)

// All lists the known roles, most privileged first.
var All = []Role{ManagingPartner, Partner, Admin, Manager, Auditor, Client, Mitra}

// Parse maps a stored role string onto the enumeration.
func Parse(s string) Role {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if r.Valid() {
		return r
	}
	return Unknown
}

func (r Role) Valid() bool {
	switch r {
	case ManagingPartner, Partner, Admin, Manager, Auditor, Client, Mitra:
		return true
	}
	return false
}

func (r Role) String() string {
	if r == Unknown {
		return "unknown"
	}
	return string(r)
}

// Label is the display name shown next to the user in the dashboard.
func (r Role) Label() string {
	switch r {
	case ManagingPartner:
		return "Managing Partner"
	case Partner:
		return "Partner"
	case Admin:
		return "Administrator"
	case Manager:
		return "Manager"
	case Auditor:
		return "Auditor"
	case Client:
		return "Klien"
	case Mitra:
		return "Mitra"
	}
	return "Pengguna"
}
