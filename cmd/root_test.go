package cmd

import "testing"

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "mypalclara" {
		t.Errorf("expected Use=%q, got %q", "mypalclara", rootCmd.Use)
	}

	if rootCmd.Short == "" {
		t.Error("expected non-empty Short description")
	}

	if rootCmd.Long == "" {
		t.Error("expected non-empty Long description")
	}

	if rootCmd.RunE == nil {
		t.Error("expected non-nil RunE function")
	}

	if !rootCmd.SilenceUsage {
		t.Error("expected SilenceUsage to be set")
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	registered := map[string]bool{}
	for _, sub := range rootCmd.Commands() {
		registered[sub.Name()] = true
	}

	for _, name := range []string{"serve", "tools", "version"} {
		if !registered[name] {
			t.Errorf("expected %s subcommand to be registered", name)
		}
	}
}
