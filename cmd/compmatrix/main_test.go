// Package main provides tests for the compmatrix CLI.
package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/compmatrix/internal/cli"
	"github.com/leapstack-labs/compmatrix/internal/cli/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	output, err := execute(t, "version")
	if err != nil {
		t.Errorf("version command error = %v", err)
	}

	if !strings.Contains(output, "compmatrix") {
		t.Errorf("version output should contain 'compmatrix', got: %s", output)
	}
}

func TestVersionFlag(t *testing.T) {
	output, err := execute(t, "--version")
	if err != nil {
		t.Errorf("--version error = %v", err)
	}

	if !strings.HasPrefix(output, "compmatrix "+cli.Version) {
		t.Errorf("--version output should start with the version, got: %s", output)
	}
}

func TestHelpCommand(t *testing.T) {
	output, err := execute(t, "--help")
	if err != nil {
		t.Errorf("help command error = %v", err)
	}

	expectedCommands := []string{"serve", "matrix", "apps", "sdks", "seed", "migrate"}
	for _, expected := range expectedCommands {
		if !strings.Contains(output, expected) {
			t.Errorf("help output should contain '%s', got: %s", expected, output)
		}
	}
}

func TestSeedThenMatrix(t *testing.T) {
	db := filepath.Join(t.TempDir(), "compmatrix.db")

	if _, err := execute(t, "--database-path", db, "seed"); err != nil {
		t.Fatalf("seed command error = %v", err)
	}

	output, err := execute(t, "--database-path", db, "--output", "markdown", "matrix", "--from", "1,2,3", "--to", "1,2,3")
	if err != nil {
		t.Fatalf("matrix command error = %v", err)
	}

	for _, expected := range []string{"PayPal", "card.io", "Chartboost"} {
		if !strings.Contains(output, expected) {
			t.Errorf("matrix output should contain %q, got: %s", expected, output)
		}
	}
	if strings.Contains(output, "(none)") {
		t.Errorf("matrix listing every SDK should have no (none) bucket, got: %s", output)
	}
}

func TestUnknownCommand(t *testing.T) {
	if _, err := execute(t, "frobnicate"); err == nil {
		t.Error("unknown command should fail")
	}
}
