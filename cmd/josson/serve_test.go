package main

import "testing"

func TestParseRolesBuildsAllowRules(t *testing.T) {
	rules, err := parseRoles("alice=admin,bob=viewer:eval")
	if err != nil {
		t.Fatalf("parseRoles: %v", err)
	}
	if err := rules.Police("alice", "merge"); err != nil {
		t.Errorf("alice merge should be allowed: %v", err)
	}
	if err := rules.Police("alice", "eval"); err != nil {
		t.Errorf("alice eval should be allowed: %v", err)
	}
	if err := rules.Police("bob", "eval"); err != nil {
		t.Errorf("bob eval should be allowed: %v", err)
	}
	if err := rules.Police("bob", "merge"); err == nil {
		t.Errorf("bob merge should not be allowed")
	}
	if err := rules.Police("carol", "eval"); err == nil {
		t.Errorf("unassigned subject should be denied")
	}
}

func TestParseRolesEmptySpecYieldsEmptyRules(t *testing.T) {
	rules, err := parseRoles("")
	if err != nil {
		t.Fatalf("parseRoles: %v", err)
	}
	if err := rules.Police("alice", "merge"); err == nil {
		t.Errorf("expected unknown subject to be denied")
	}
}

func TestParseRolesRejectsMalformedEntries(t *testing.T) {
	if _, err := parseRoles("noequals"); err == nil {
		t.Errorf("expected an error for an entry without '='")
	}
	if _, err := parseRoles("alice="); err == nil {
		t.Errorf("expected an error for an entry with no role")
	}
}
