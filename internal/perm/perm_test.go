package perm

import "testing"

func TestParseRole(t *testing.T) {
	for _, ok := range []string{"viewer", "player", "writer", "admin"} {
		if _, err := ParseRole(ok); err != nil {
			t.Errorf("ParseRole(%q) failed: %v", ok, err)
		}
	}
	for _, bad := range []string{"", "root", "Admin", "editor"} {
		if _, err := ParseRole(bad); err == nil {
			t.Errorf("ParseRole(%q) should fail", bad)
		}
	}
}

func TestAllowed(t *testing.T) {
	tests := []struct {
		name    string
		role    Role
		actor   string
		owner   string
		cap     Capability
		wantHas bool
	}{
		{"viewer cannot edit", RoleViewer, "v1", "w1", CapEditPages, false},
		{"player cannot delete", RolePlayer, "p1", "w1", CapDeletePages, false},
		{"writer can edit", RoleWriter, "w1", "w2", CapEditPages, true},
		{"writer can delete", RoleWriter, "w1", "w2", CapDeletePages, true},
		{"writer rollback own", RoleWriter, "w1", "w1", CapRollbackOwn, true},
		{"writer no rollback others", RoleWriter, "w1", "w2", CapRollbackOwn, false},
		{"writer no rollback any", RoleWriter, "w1", "w1", CapRollbackAny, false},
		{"writer own drafts", RoleWriter, "w1", "w1", CapViewOwnDrafts, true},
		{"writer not others drafts", RoleWriter, "w1", "w2", CapViewOwnDrafts, false},
		{"admin rollback any", RoleAdmin, "a1", "w2", CapRollbackAny, true},
		{"admin all drafts", RoleAdmin, "a1", "w2", CapViewAllDrafts, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Allowed(tt.role, tt.actor, tt.owner).Has(tt.cap)
			if got != tt.wantHas {
				t.Errorf("Allowed(%s, %s, %s).Has = %v, want %v", tt.role, tt.actor, tt.owner, got, tt.wantHas)
			}
		})
	}
}

func TestCanRollback(t *testing.T) {
	if !CanRollback(Actor{ID: "a", Role: RoleAdmin}, "someone-else") {
		t.Error("admin should roll back any page")
	}
	if !CanRollback(Actor{ID: "w", Role: RoleWriter}, "w") {
		t.Error("writer should roll back own page")
	}
	if CanRollback(Actor{ID: "w", Role: RoleWriter}, "other") {
		t.Error("writer should not roll back another writer's page")
	}
	if CanRollback(Actor{ID: "v", Role: RoleViewer}, "v") {
		t.Error("viewer should never roll back")
	}
}

func TestCanSeeDraft(t *testing.T) {
	if CanSeeDraft(Actor{ID: "p", Role: RolePlayer}, "p") {
		t.Error("player should not see drafts")
	}
	if !CanSeeDraft(Actor{ID: "w", Role: RoleWriter}, "w") {
		t.Error("writer should see own drafts")
	}
	if CanSeeDraft(Actor{ID: "w", Role: RoleWriter}, "x") {
		t.Error("writer should not see others' drafts")
	}
	if !CanSeeDraft(Actor{ID: "a", Role: RoleAdmin}, "x") {
		t.Error("admin should see all drafts")
	}
}
