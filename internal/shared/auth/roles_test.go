package auth

import "testing"

func TestParseRole(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Role
		ok    bool
	}{
		{"canonical staff", "Staff", RoleStaff, true},
		{"canonical manager", "Manager", RoleManager, true},
		{"canonical admin", "Admin", RoleAdmin, true},
		{"lowercase", "admin", RoleAdmin, true},
		{"uppercase", "MANAGER", RoleManager, true},
		{"mixed case", "sTaFf", RoleStaff, true},
		{"unknown", "superuser", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseRole(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseRole(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("ParseRole(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRoleIs(t *testing.T) {
	if !Role("admin").Is(RoleAdmin) {
		t.Error("expected lowercase role to match canonical form")
	}
	if Role("Staff").Is(RoleAdmin) {
		t.Error("Staff should not match Admin")
	}
}

func TestRolePermissions(t *testing.T) {
	tests := []struct {
		role           Role
		managePatients bool
		manageUsers    bool
	}{
		{RoleStaff, false, false},
		{RoleManager, true, false},
		{RoleAdmin, true, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if got := tt.role.CanManagePatients(); got != tt.managePatients {
				t.Errorf("CanManagePatients() = %v, want %v", got, tt.managePatients)
			}
			if got := tt.role.CanManageUsers(); got != tt.manageUsers {
				t.Errorf("CanManageUsers() = %v, want %v", got, tt.manageUsers)
			}
		})
	}
}
