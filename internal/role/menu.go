package role

// MenuEntry is one sidebar link.
type MenuEntry struct {
	Icon  string `json:"icon"`
	Label string `json:"label"`
	Path  string `json:"path"`
}

var (
	entryDashboard   = MenuEntry{"LayoutDashboard", "Dashboard", "/dashboard"}
	entryClients     = MenuEntry{"Users", "Daftar Klien", "/dashboard/clients"}
	entryPerformance = MenuEntry{"TrendingUp", "Kinerja Partner", "/dashboard/partner-performance"}
	entryFinancials  = MenuEntry{"DollarSign", "Metrik Keuangan", "/dashboard/financial-metrics"}
	entryTeam        = MenuEntry{"UserCog", "Manajemen Tim", "/dashboard/team-management"}
	entrySchedule    = MenuEntry{"Calendar", "Jadwal Audit", "/dashboard/audit-schedule"}
	entryDocuments   = MenuEntry{"FileText", "Dokumen", "/dashboard/documents"}
	entryChat        = MenuEntry{"MessageSquare", "Kolaborasi", "/dashboard/collaboration"}
	entryUsers       = MenuEntry{"Shield", "Pengguna", "/dashboard/users"}
	entryProfile     = MenuEntry{"User", "Profil", "/dashboard/profile"}
	entrySettings    = MenuEntry{"Settings", "Pengaturan", "/dashboard/settings"}
)

var baseMenu = []MenuEntry{entryDashboard, entryClients}

var roleMenus = map[Role][]MenuEntry{
	ManagingPartner: {entryPerformance, entryFinancials, entryTeam, entrySchedule, entryDocuments, entryChat, entryProfile, entrySettings},
	Partner:         {entrySchedule, entryTeam, entryDocuments, entryChat, entryProfile, entrySettings},
	Admin:           {entryDocuments, entryChat, entryUsers, entryProfile, entrySettings},
	Manager:         {entrySchedule, entryDocuments, entryChat, entryProfile, entrySettings},
	Auditor:         {entrySchedule, entryDocuments, entryChat, entryProfile, entrySettings},
}

var defaultMenu = []MenuEntry{entryProfile, entrySettings}

// Menu returns the sidebar for r: the base entries followed by the entries
// specific to r. Roles without their own branch get the default set.
// The result is a fresh slice on every call.
func Menu(r Role) []MenuEntry {
	extra, ok := roleMenus[r]
	if !ok {
		extra = defaultMenu
	}
	out := make([]MenuEntry, 0, len(baseMenu)+len(extra))
	out = append(out, baseMenu...)
	return append(out, extra...)
}

// Allows reports whether path is one of the entries in r's menu.
func Allows(r Role, path string) bool {
	for _, e := range Menu(r) {
		if e.Path == path {
			return true
		}
	}
	return false
}
