package directory

// Directory groups the dashboard collections.
type Directory struct {
	Clients   *Collection[Client]
	Users     *Collection[User]
	Documents *Collection[Document]
	Schedules *Collection[AuditSchedule]
	Team      *Collection[TeamMember]
}

// New returns empty collections.
func New() *Directory {
	return &Directory{
		Clients:   NewCollection(ClientSchema),
		Users:     NewCollection(UserSchema),
		Documents: NewCollection(DocumentSchema),
		Schedules: NewCollection(ScheduleSchema),
		Team:      NewCollection(TeamSchema),
	}
}

// NewMock returns collections filled with the demo data.
func NewMock() *Directory {
	return &Directory{
		Clients: NewCollection(ClientSchema,
			Client{ID: "maju-jaya", Name: "PT Maju Jaya", Email: "finance@majujaya.co.id", Phone: "+62 21 5550 1234", Industry: "Manufaktur", Service: "Audit", Status: "active"},
			Client{ID: "sinar-abadi", Name: "CV Sinar Abadi", Email: "admin@sinarabadi.id", Phone: "+62 22 420 8877", Industry: "Perdagangan", Service: "Pajak", Status: "active"},
			Client{ID: "nusantara-tech", Name: "PT Nusantara Teknologi", Email: "cfo@nusantaratech.id", Phone: "+62 21 7788 9900", Industry: "Teknologi", Service: "Audit", Status: "prospect"},
			Client{ID: "berkah-pangan", Name: "PT Berkah Pangan", Email: "akuntansi@berkahpangan.com", Phone: "+62 31 355 6677", Industry: "Makanan", Service: "Konsultasi", Status: "inactive"},
		),
		Users: NewCollection(UserSchema,
			User{Name: "Hendra Gunawan", Email: "hendra@firm.co.id", Role: "managingpartner", Status: "active"},
			User{Name: "Budi Santoso", Email: "budi@firm.co.id", Role: "partner", Status: "active"},
			User{Name: "Maya Sari", Email: "maya@firm.co.id", Role: "admin", Status: "active"},
			User{Name: "Siti Rahayu", Email: "siti@firm.co.id", Role: "manager", Status: "active"},
			User{Name: "Andi Wijaya", Email: "andi@firm.co.id", Role: "auditor", Status: "inactive"},
		),
		Documents: NewCollection(DocumentSchema,
			Document{Name: "Laporan Keuangan 2024", Type: "PDF", Client: "PT Maju Jaya", Uploaded: "2025-01-10", Status: "final"},
			Document{Name: "SPT Tahunan Badan", Type: "PDF", Client: "CV Sinar Abadi", Uploaded: "2025-01-22", Status: "review"},
			Document{Name: "Neraca Saldo Q4", Type: "Excel", Client: "PT Nusantara Teknologi", Uploaded: "2025-02-01", Status: "draft"},
		),
		Schedules: NewCollection(ScheduleSchema,
			AuditSchedule{Client: "PT Maju Jaya", Auditor: "Andi Wijaya", Type: "Audit Keuangan", StartDate: "2025-03-03", EndDate: "2025-03-21", Status: "scheduled"},
			AuditSchedule{Client: "CV Sinar Abadi", Auditor: "Dewi Lestari", Type: "Audit Pajak", StartDate: "2025-02-10", EndDate: "2025-02-14", Status: "completed"},
		),
		Team: NewCollection(TeamSchema,
			TeamMember{Name: "Andi Wijaya", Email: "andi@firm.co.id", Phone: "+62 812 3456 7890", Position: "Senior Auditor", Department: "Audit"},
			TeamMember{Name: "Dewi Lestari", Email: "dewi@firm.co.id", Phone: "+62 813 2222 3333", Position: "Auditor", Department: "Audit"},
			TeamMember{Name: "Siti Rahayu", Email: "siti@firm.co.id", Phone: "+62 811 9876 5432", Position: "Tax Manager", Department: "Pajak"},
		),
	}
}
