package role

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"managingpartner", ManagingPartner},
		{" Partner ", Partner},
		{"ADMIN", Admin},
		{"mitra", Mitra},
		{"", Unknown},
		{"superuser", Unknown},
	}
	for _, tt := range tests {
		if got := Parse(tt.in); got != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMenuContainsBase(t *testing.T) {
	for _, r := range append(All, Unknown, Role("guest")) {
		menu := Menu(r)
		if len(menu) < len(baseMenu) {
			t.Fatalf("Menu(%q) has %d entries, want at least %d", r, len(menu), len(baseMenu))
		}
		for i, e := range baseMenu {
			if menu[i] != e {
				t.Errorf("Menu(%q)[%d] = %+v, want %+v", r, i, menu[i], e)
			}
		}
	}
}

func TestMenuDeterministicAndUnique(t *testing.T) {
	for _, r := range All {
		first := Menu(r)
		second := Menu(r)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Menu(%q) differs between calls", r)
		}

		seen := map[string]bool{}
		for _, e := range first {
			if seen[e.Path] {
				t.Errorf("Menu(%q) repeats path %s", r, e.Path)
			}
			seen[e.Path] = true
		}
	}
}

func TestMenuReturnsFreshSlice(t *testing.T) {
	m := Menu(Admin)
	m[0].Label = "changed"
	if Menu(Admin)[0].Label == "changed" {
		t.Fatal("mutating a returned menu leaked into the next call")
	}
}

func TestMenuDefaultBranch(t *testing.T) {
	want := Menu(Unknown)
	if len(want) != len(baseMenu)+len(defaultMenu) {
		t.Fatalf("default menu has %d entries", len(want))
	}
	for _, r := range []Role{Client, Mitra, Role("intern")} {
		if got := Menu(r); !reflect.DeepEqual(got, want) {
			t.Errorf("Menu(%q) = %+v, want default %+v", r, got, want)
		}
	}
}

func TestMenuRoleEntries(t *testing.T) {
	tests := []struct {
		role Role
		want []string
	}{
		{ManagingPartner, []string{"/dashboard/partner-performance", "/dashboard/financial-metrics", "/dashboard/team-management", "/dashboard/audit-schedule"}},
		{Admin, []string{"/dashboard/documents", "/dashboard/users"}},
		{Partner, []string{"/dashboard/audit-schedule", "/dashboard/team-management"}},
	}
	for _, tt := range tests {
		for _, p := range tt.want {
			if !Allows(tt.role, p) {
				t.Errorf("Menu(%q) is missing %s", tt.role, p)
			}
		}
	}
	if Allows(Admin, "/dashboard/financial-metrics") {
		t.Error("admin should not see financial metrics")
	}
}

func TestCan(t *testing.T) {
	tests := []struct {
		role Role
		cap  Capability
		want bool
	}{
		{ManagingPartner, ManageTeam, true},
		{Partner, ManageTeam, true},
		{Partner, ScheduleAudit, true},
		{Client, ManageTeam, false},
		{Client, ScheduleAudit, false},
		{Client, ViewDocuments, true},
		{Admin, ManageUsers, true},
		{Auditor, ManageUsers, false},
		{Unknown, Collaborate, false},
	}
	for _, tt := range tests {
		if got := Can(tt.role, tt.cap); got != tt.want {
			t.Errorf("Can(%q, %q) = %v, want %v", tt.role, tt.cap, got, tt.want)
		}
	}
}

func TestEveryRoleHasTableRow(t *testing.T) {
	for _, r := range All {
		if _, ok := table[r]; !ok {
			t.Errorf("role %q has no capability row", r)
		}
	}
	if got := Granted(Unknown); len(got) != 0 {
		t.Errorf("Granted(Unknown) = %v, want none", got)
	}
	if got := Granted(ManagingPartner); len(got) != len(Capabilities) {
		t.Errorf("managing partner has %d capabilities, want all %d", len(got), len(Capabilities))
	}
}
