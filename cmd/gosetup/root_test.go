package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mwflint/gosetup/internal/config"
	"github.com/mwflint/gosetup/internal/installer"
	"github.com/mwflint/gosetup/internal/plan"
	"github.com/mwflint/gosetup/internal/release"
)

func TestSettleMode(t *testing.T) {
	tests := []struct {
		name    string
		opts    runOptions
		cfg     config.Config
		input   string
		want    plan.Mode
		wantErr bool
	}{
		{name: "flag system", opts: runOptions{mode: "system"}, want: plan.ModeSystem},
		{name: "flag user", opts: runOptions{mode: "user"}, want: plan.ModeUser},
		{name: "flag invalid", opts: runOptions{mode: "global"}, wantErr: true},
		{name: "config default with yes", opts: runOptions{assumeYes: true}, cfg: config.Config{DefaultMode: "system"}, want: plan.ModeSystem},
		{name: "yes without config defaults to user", opts: runOptions{assumeYes: true}, want: plan.ModeUser},
		{name: "prompt answer", input: "1\n", want: plan.ModeSystem},
		{name: "config invalid", cfg: config.Config{DefaultMode: "root"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompter := NewPrompter(strings.NewReader(tt.input), &bytes.Buffer{})

			got, err := settleMode(tt.opts, tt.cfg, prompter)
			if tt.wantErr {
				if err == nil {
					t.Fatal("settleMode succeeded, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("settleMode failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("settleMode = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSettleVersionFromFlag(t *testing.T) {
	// An explicit flag never touches the network.
	resolver := release.NewResolver("http://127.0.0.1:1/")
	prompter := NewPrompter(strings.NewReader(""), &bytes.Buffer{})

	got, err := settleVersion(context.Background(), runOptions{version: "1.21.5"}, resolver, "linux-amd64", prompter)
	if err != nil {
		t.Fatalf("settleVersion failed: %v", err)
	}
	if got != release.Version("1.21.5") {
		t.Errorf("settleVersion = %q, want 1.21.5", got)
	}
}

func TestSettleVersionRejectsMalformedFlag(t *testing.T) {
	resolver := release.NewResolver("http://127.0.0.1:1/")
	prompter := NewPrompter(strings.NewReader(""), &bytes.Buffer{})

	_, err := settleVersion(context.Background(), runOptions{version: "1.22"}, resolver, "linux-amd64", prompter)
	if !errors.Is(err, release.ErrInvalidVersionFormat) {
		t.Fatalf("settleVersion error = %v, want ErrInvalidVersionFormat", err)
	}
}

func TestLogTransitionEmitsResolutionStates(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	logTransition(logger, installer.StatePlanReady)
	logTransition(logger, installer.StateVersionResolved)

	out := buf.String()
	for _, state := range []string{"plan_ready", "version_resolved"} {
		if !strings.Contains(out, state) {
			t.Errorf("transition log missing %q:\n%s", state, out)
		}
	}
}

func TestRootCommandRejectsPositionalArgs(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"unexpected"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	if err := root.Execute(); err == nil {
		t.Error("Execute accepted positional arguments")
	}
}
