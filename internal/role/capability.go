package role

type Capability string

const (
	ViewClients     Capability = "view_clients"
	ManageClients   Capability = "manage_clients"
	ViewDocuments   Capability = "view_documents"
	ManageDocuments Capability = "manage_documents"
	ScheduleAudit   Capability = "schedule_audit"
	ManageTeam      Capability = "manage_team"
	ManageUsers     Capability = "manage_users"
	ViewFinancials  Capability = "view_financials"
	Collaborate     Capability = "collaborate"
)

// Capabilities is every capability in table order.
var Capabilities = []Capability{
	ViewClients, ManageClients, ViewDocuments, ManageDocuments,
	ScheduleAudit, ManageTeam, ManageUsers, ViewFinancials, Collaborate,
}

type capSet map[Capability]struct{}

func grant(caps ...Capability) capSet {
	s := make(capSet, len(caps))
	for _, c := range caps {
		s[c] = struct{}{}
	}
	return s
}

var table = map[Role]capSet{
	ManagingPartner: grant(Capabilities...),
	Partner: grant(ViewClients, ManageClients, ViewDocuments, ManageDocuments,
		ScheduleAudit, ManageTeam, Collaborate),
	Admin: grant(ViewClients, ManageClients, ViewDocuments, ManageDocuments,
		ManageUsers, Collaborate),
	Manager: grant(ViewClients, ViewDocuments, ManageDocuments, Collaborate),
	Auditor: grant(ViewClients, ViewDocuments, ManageDocuments, Collaborate),
	Client:  grant(ViewDocuments, Collaborate),
	Mitra:   grant(ViewClients, ViewDocuments, Collaborate),
}

// Can reports whether r grants c. Unknown roles grant nothing.
func Can(r Role, c Capability) bool {
	_, ok := table[r][c]
	return ok
}

// Granted returns the capabilities of r in table order.
func Granted(r Role) []Capability {
	out := []Capability{}
	for _, c := range Capabilities {
		if Can(r, c) {
			out = append(out, c)
		}
	}
	return out
}
