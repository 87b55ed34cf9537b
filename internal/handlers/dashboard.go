package handlers

import (
	"net/http"
	"strings"

	"github.com/kidandcat/firmportal/internal/auth"
	"github.com/kidandcat/firmportal/internal/role"
)

type table struct {
	Columns []string
	Rows    [][]string
}

// sectionTable renders the list view behind a dashboard section. ok is false
// for sections served only by the API.
func (h *Handler) sectionTable(section, q string, r role.Role) (t table, canAdd, ok bool) {
	switch section {
	case "clients":
		if !h.dir.Clients.CanView(r) {
			return table{}, false, false
		}
		t.Columns = []string{"Nama", "Email", "Telepon", "Industri", "Layanan", "Status"}
		for _, c := range h.dir.Clients.Search(q) {
			t.Rows = append(t.Rows, []string{c.Name, c.Email, c.Phone, c.Industry, c.Service, c.Status})
		}
		return t, h.dir.Clients.CanManage(r), true
	case "team-management":
		t.Columns = []string{"Nama", "Email", "Telepon", "Jabatan", "Departemen"}
		for _, m := range h.dir.Team.Search(q) {
			t.Rows = append(t.Rows, []string{m.Name, m.Email, m.Phone, m.Position, m.Department})
		}
		return t, h.dir.Team.CanManage(r), true
	case "audit-schedule":
		t.Columns = []string{"Klien", "Auditor", "Jenis", "Mulai", "Selesai", "Status"}
		for _, a := range h.dir.Schedules.Search(q) {
			t.Rows = append(t.Rows, []string{a.Client, a.Auditor, a.Type, a.StartDate, a.EndDate, a.Status})
		}
		return t, h.dir.Schedules.CanManage(r), true
	case "users":
		t.Columns = []string{"Nama", "Email", "Peran", "Status"}
		for _, u := range h.dir.Users.Search(q) {
			t.Rows = append(t.Rows, []string{u.Name, u.Email, u.Role.Label(), u.Status})
		}
		return t, h.dir.Users.CanManage(r), true
	case "documents":
		t.Columns = []string{"Nama", "Jenis", "Klien", "Diunggah", "Status"}
		for _, d := range h.dir.Documents.Search(q) {
			t.Rows = append(t.Rows, []string{d.Name, d.Type, d.Client, d.Uploaded, d.Status})
		}
		return t, h.dir.Documents.CanManage(r), true
	}
	return table{}, false, false
}

// dashboard renders the guarded shell. Sections outside the viewer's menu
// do not exist for that viewer.
func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	v, ok := auth.ViewerFrom(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	section := strings.Trim(r.PathValue("section"), "/")
	current := "/dashboard"
	if section != "" {
		current += "/" + section
	}
	if !role.Allows(v.Role, current) {
		http.NotFound(w, r)
		return
	}

	menu := role.Menu(v.Role)
	title := "Dashboard"
	for _, e := range menu {
		if e.Path == current {
			title = e.Label
		}
	}

	data := map[string]any{
		"Firm":      h.firm,
		"Title":     title,
		"Viewer":    v,
		"RoleLabel": v.Role.Label(),
		"Menu":      menu,
		"Current":   current,
		"Section":   section,
		"Query":     r.URL.Query().Get("q"),
		"Stats": map[string]int{
			"Clients":   len(h.dir.Clients.List()),
			"Schedules": len(h.dir.Schedules.List()),
			"Documents": len(h.dir.Documents.List()),
		},
	}
	if t, canAdd, ok := h.sectionTable(section, r.URL.Query().Get("q"), v.Role); ok {
		data["Table"] = t
		data["CanAdd"] = canAdd
	}
	h.render(w, http.StatusOK, "dashboard.html", data)
}

