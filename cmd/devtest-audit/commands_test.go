package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestRootCommandHasProviderSubcommands(t *testing.T) {
	root := newRootCmd()
	want := map[string]bool{"aws": false, "azure": false, "gcp": false, "oci": false, "version": false}
	for _, sub := range root.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestVersionCommandOutput(t *testing.T) {
	cmd := newVersionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.Run(cmd, nil)
	if !strings.Contains(out.String(), "devtest-audit version") {
		t.Errorf("output = %q", out.String())
	}
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	log := newLogger("nonsense")
	if log.GetLevel() != zerolog.InfoLevel {
		t.Errorf("level = %s, want info", log.GetLevel())
	}
	if newLogger("debug").GetLevel() != zerolog.DebugLevel {
		t.Error("debug verbosity not honoured")
	}
}
