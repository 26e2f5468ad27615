package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestPasswordHashing(t *testing.T) {
	var user User
	if err := user.SetPassword("password123"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}
	if user.Password == "password123" {
		t.Fatal("password stored in plain text")
	}
	if !user.CheckPassword("password123") {
		t.Error("correct password rejected")
	}
	if user.CheckPassword("password124") {
		t.Error("wrong password accepted")
	}
}

func TestUserJSONNeverExposesHash(t *testing.T) {
	user := User{Email: "a@b.com", FirstName: "A", LastName: "B", Role: RoleAuditor}
	if err := user.SetPassword("password123"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}

	raw, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(strings.ToLower(string(raw)), "password") {
		t.Errorf("serialized user leaks the hash: %s", raw)
	}

	resp := user.ToResponse()
	if resp.Email != user.Email || resp.Role != user.Role {
		t.Errorf("unexpected public profile: %+v", resp)
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleInputter, RoleApprover, RoleAuditor} {
		if !ValidRole(role) {
			t.Errorf("role %s reported invalid", role)
		}
	}
	for _, role := range []string{"", "MANAGER", "inputter"} {
		if ValidRole(role) {
			t.Errorf("role %q reported valid", role)
		}
	}
}
