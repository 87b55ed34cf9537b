// Package chat is the collaboration module: a static roster of colleagues
// and groups, scripted seed conversations and locally appended messages.
package chat

type Kind string

const (
	Direct Kind = "direct"
	Group  Kind = "group"
)

// Ref identifies a conversation.
type Ref struct {
	Kind Kind   `json:"kind"`
	ID   string `json:"id"`
}

type Contact struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Online bool   `json:"online"`
}

type GroupInfo struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Members int      `json:"members"`
	Voices  []string `json:"-"`
}

type Roster struct {
	Contacts []Contact   `json:"contacts"`
	Groups   []GroupInfo `json:"groups"`
}

func (r Roster) Contact(id string) (Contact, bool) {
	for _, c := range r.Contacts {
		if c.ID == id {
			return c, true
		}
	}
	return Contact{}, false
}

func (r Roster) Group(id string) (GroupInfo, bool) {
	for _, g := range r.Groups {
		if g.ID == id {
			return g, true
		}
	}
	return GroupInfo{}, false
}

// DefaultRoster is the demo roster shown to every user.
func DefaultRoster() Roster {
	return Roster{
		Contacts: []Contact{
			{ID: "budi", Name: "Budi Santoso", Role: "Partner", Online: true},
			{ID: "siti", Name: "Siti Rahayu", Role: "Manager", Online: true},
			{ID: "andi", Name: "Andi Wijaya", Role: "Auditor", Online: false},
			{ID: "dewi", Name: "Dewi Lestari", Role: "Auditor", Online: false},
		},
		Groups: []GroupInfo{
			{ID: "tim-audit", Name: "Tim Audit PT Maju Jaya", Members: 5, Voices: []string{"Budi Santoso", "Andi Wijaya"}},
			{ID: "pajak", Name: "Divisi Pajak", Members: 8, Voices: []string{"Siti Rahayu", "Dewi Lestari"}},
		},
	}
}
