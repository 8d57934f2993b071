package commands

import (
	"bytes"
	"testing"

	"scopeline/workbench/internal/brd"
)

func TestRootShowsHelpWithoutSubcommand(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("Usage:")) {
		t.Error("expected help output")
	}
	if !bytes.Contains(buf.Bytes(), []byte("workbench")) {
		t.Error("expected command name in help")
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	want := []string{
		"status", "confirm", "needs-review", "move", "vision", "background",
		"role", "invite", "health", "refresh", "cascades", "impact", "action",
		"questions", "search", "history", "export", "review", "upload",
	}
	registered := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		registered[cmd.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestParseEntityType(t *testing.T) {
	got, err := parseEntityType("data-entity")
	if err != nil {
		t.Fatalf("parseEntityType() error = %v", err)
	}
	if got != brd.TypeDataEntity {
		t.Fatalf("parseEntityType() = %q", got)
	}
	if _, err := parseEntityType("gadget"); err == nil {
		t.Fatal("expected error for unknown entity type")
	}
}

func TestParseGroup(t *testing.T) {
	got, err := parseGroup("should-have")
	if err != nil {
		t.Fatalf("parseGroup() error = %v", err)
	}
	if got != brd.GroupShouldHave {
		t.Fatalf("parseGroup() = %q", got)
	}
	if _, err := parseGroup("wont-have"); err == nil {
		t.Fatal("expected error for unknown group")
	}
}
