package directory

import (
	"strings"

	"github.com/kidandcat/firmportal/internal/role"
)

type Client struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Industry string `json:"industry"`
	Service  string `json:"service"`
	Status   string `json:"status"`
}

type User struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Role   role.Role `json:"role"`
	Status string    `json:"status"`
}

type Document struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Client   string `json:"client"`
	Uploaded string `json:"uploaded"`
	Status   string `json:"status"`
}

type AuditSchedule struct {
	ID        string `json:"id"`
	Client    string `json:"client"`
	Auditor   string `json:"auditor"`
	Type      string `json:"type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
	Notes     string `json:"notes,omitempty"`
}

type TeamMember struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Position   string `json:"position"`
	Department string `json:"department"`
}

var (
	clientStatuses   = []string{"active", "inactive", "prospect"}
	userStatuses     = []string{"active", "inactive"}
	documentStatuses = []string{"draft", "review", "final"}
	auditTypes       = []string{"Audit Keuangan", "Audit Pajak", "Audit Internal", "Review"}
	auditStatuses    = []string{"scheduled", "in_progress", "completed", "cancelled"}
)

func validateClient(c Client) error {
	var ch checker
	ch.required("name", c.Name)
	ch.email("email", c.Email)
	ch.phone("phone", c.Phone)
	ch.oneOf("status", c.Status, clientStatuses...)
	return ch.err()
}

func validateUser(u User) error {
	var ch checker
	ch.required("name", u.Name)
	ch.email("email", u.Email)
	if !u.Role.Valid() {
		ch.fail("role", "peran tidak dikenal")
	}
	ch.oneOf("status", u.Status, userStatuses...)
	return ch.err()
}

func validateDocument(d Document) error {
	var ch checker
	ch.required("name", d.Name)
	ch.required("type", d.Type)
	ch.required("client", d.Client)
	if strings.TrimSpace(d.Uploaded) != "" {
		ch.date("uploaded", d.Uploaded)
	}
	ch.oneOf("status", d.Status, documentStatuses...)
	return ch.err()
}

func validateSchedule(a AuditSchedule) error {
	var ch checker
	ch.required("client", a.Client)
	ch.required("auditor", a.Auditor)
	ch.oneOf("type", a.Type, auditTypes...)
	start, okStart := ch.date("start_date", a.StartDate)
	end, okEnd := ch.date("end_date", a.EndDate)
	if okStart && okEnd && end.Before(start) {
		ch.fail("end_date", "tanggal selesai tidak boleh sebelum tanggal mulai")
	}
	ch.oneOf("status", a.Status, auditStatuses...)
	return ch.err()
}

func validateTeamMember(m TeamMember) error {
	var ch checker
	ch.required("name", m.Name)
	ch.email("email", m.Email)
	if ch.required("phone", m.Phone) {
		ch.phone("phone", m.Phone)
	}
	ch.required("position", m.Position)
	ch.required("department", m.Department)
	return ch.err()
}

var (
	ClientSchema = Schema[Client]{
		Name:     "clients",
		View:     role.ViewClients,
		Manage:   role.ManageClients,
		ID:       func(c *Client) *string { return &c.ID },
		Validate: validateClient,
		Key:      func(c Client) string { return c.Email },
		KeyField: "email",
		Fields:   func(c Client) []string { return []string{c.Name, c.Email, c.Industry} },
	}
	UserSchema = Schema[User]{
		Name:     "users",
		View:     role.ManageUsers,
		Manage:   role.ManageUsers,
		ID:       func(u *User) *string { return &u.ID },
		Validate: validateUser,
		Key:      func(u User) string { return u.Email },
		KeyField: "email",
		Fields:   func(u User) []string { return []string{u.Name, u.Email, string(u.Role)} },
	}
	DocumentSchema = Schema[Document]{
		Name:     "documents",
		View:     role.ViewDocuments,
		Manage:   role.ManageDocuments,
		ID:       func(d *Document) *string { return &d.ID },
		Validate: validateDocument,
		Fields:   func(d Document) []string { return []string{d.Name, d.Type, d.Client} },
	}
	ScheduleSchema = Schema[AuditSchedule]{
		Name:     "audit-schedules",
		View:     role.ViewClients,
		Manage:   role.ScheduleAudit,
		ID:       func(a *AuditSchedule) *string { return &a.ID },
		Validate: validateSchedule,
		Fields:   func(a AuditSchedule) []string { return []string{a.Client, a.Auditor, a.Type} },
	}
	TeamSchema = Schema[TeamMember]{
		Name:     "team",
		View:     role.ViewClients,
		Manage:   role.ManageTeam,
		ID:       func(m *TeamMember) *string { return &m.ID },
		Validate: validateTeamMember,
		Key:      func(m TeamMember) string { return m.Email },
		KeyField: "email",
		Fields:   func(m TeamMember) []string { return []string{m.Name, m.Email, m.Position, m.Department} },
	}
)

// ContactForm is the public contact page submission. It is validated only;
// nothing is stored.
type ContactForm struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

func ValidateContact(f ContactForm) error {
	var ch checker
	ch.required("name", f.Name)
	ch.email("email", f.Email)
	ch.phone("phone", f.Phone)
	if ch.required("message", f.Message) && len([]rune(strings.TrimSpace(f.Message))) < 10 {
		ch.fail("message", "pesan minimal 10 karakter")
	}
	return ch.err()
}
