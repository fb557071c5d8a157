package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCommandRoutesSubcommands(t *testing.T) {
	root := newRootCmd()

	cmd, _, err := root.Find([]string{"seed-admin", "--login", "admin"})
	if err != nil {
		t.Fatalf("find returned error: %v", err)
	}
	if cmd.Name() != "seed-admin" {
		t.Fatalf("expected seed-admin, got %s", cmd.Name())
	}

	cmd, args, err := root.Find([]string{"-a", ":8080"})
	if err != nil {
		t.Fatalf("find returned error: %v", err)
	}
	if cmd != root || len(args) != 2 {
		t.Fatalf("expected service flags to stay on root, got %s %v", cmd.Name(), args)
	}
}

func TestSeedAdminRequiresPassword(t *testing.T) {
	t.Setenv(adminPasswordEnv, "")
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"seed-admin", "--login", "admin"})

	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), adminPasswordEnv) {
		t.Fatalf("expected missing password error, got %v", err)
	}
}
