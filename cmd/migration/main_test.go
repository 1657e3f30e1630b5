package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/riskibarqy/fpl-hub/internal/platform/logging"
)

func TestParseSteps(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    int
		wantErr bool
	}{
		{name: "default one step", args: nil, want: 1},
		{name: "explicit", args: []string{" 3 "}, want: 3},
		{name: "zero", args: []string{"0"}, wantErr: true},
		{name: "not a number", args: []string{"all"}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseSteps(tc.args)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse steps: %v", err)
			}
			if got != tc.want {
				t.Fatalf("unexpected steps: got %d want %d", got, tc.want)
			}
		})
	}
}

func TestParseVersionAndTarget(t *testing.T) {
	if v, err := parseVersion("20260801000001"); err != nil || v != 20260801000001 {
		t.Fatalf("unexpected version: %d err=%v", v, err)
	}
	if v, err := parseVersion("-1"); err != nil || v != -1 {
		t.Fatalf("expected -1 to be accepted for force, got %d err=%v", v, err)
	}
	if _, err := parseVersion("-2"); err == nil {
		t.Fatalf("expected error for version -2")
	}
	if _, err := parseTarget("-1"); err == nil {
		t.Fatalf("expected error for negative target")
	}
}

func TestRun_UsageAndMissingDBURL(t *testing.T) {
	logger := logging.NewNop()
	var out bytes.Buffer

	if err := run(nil, logger, &out); !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if err := run([]string{"sideways"}, logger, &out); !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error for unknown command, got %v", err)
	}

	t.Setenv("DB_URL", "")
	if err := run([]string{"up"}, logger, &out); err == nil {
		t.Fatalf("expected error without DB_URL")
	}
}

func TestResolveMigrationsDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MIGRATIONS_DIR", dir)

	got, err := resolveMigrationsDir()
	if err != nil {
		t.Fatalf("resolve migrations dir: %v", err)
	}
	want, _ := filepath.Abs(dir)
	if got != want {
		t.Fatalf("unexpected dir: got %q want %q", got, want)
	}

	t.Setenv("MIGRATIONS_DIR", filepath.Join(dir, "missing"))
	for _, fallback := range []string{"./db/migrations", "/app/db/migrations"} {
		if _, err := os.Stat(fallback); err == nil {
			t.Skip("fallback migrations directory present")
		}
	}
	if _, err := resolveMigrationsDir(); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}
