package plan

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{input: "system", want: ModeSystem},
		{input: "user", want: ModeUser},
		{input: "", wantErr: true},
		{input: "global", wantErr: true},
		{input: "System", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.input)
				}
				if !errors.Is(err, ErrUnknownMode) {
					t.Errorf("expected ErrUnknownMode, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMode(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBuildUserMode(t *testing.T) {
	home := t.TempDir()

	p, err := Build(context.Background(), ModeUser, Options{HomeDir: home})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if p.Mode != ModeUser {
		t.Errorf("Mode = %v", p.Mode)
	}
	if p.RequiresPrivilege {
		t.Error("user mode must not require privilege")
	}
	if p.InstallRoot != filepath.Join(home, ".local") {
		t.Errorf("InstallRoot = %q", p.InstallRoot)
	}
	if p.TargetDir != filepath.Join(home, ".local", "go") {
		t.Errorf("TargetDir = %q", p.TargetDir)
	}

	// The install root is created as part of plan building.
	if info, err := os.Stat(p.InstallRoot); err != nil || !info.IsDir() {
		t.Errorf("install root should exist as a directory: %v", err)
	}
}

func TestBuildUserModeDirCreateError(t *testing.T) {
	// A regular file where the home directory should be makes MkdirAll fail.
	parent := t.TempDir()
	home := filepath.Join(parent, "home")
	if err := os.WriteFile(home, []byte("file, not a dir"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Build(context.Background(), ModeUser, Options{HomeDir: home})
	if err == nil {
		t.Fatal("expected error when install root cannot be created")
	}

	var dirErr *DirCreateError
	if !errors.As(err, &dirErr) {
		t.Errorf("expected *DirCreateError, got %T", err)
	}
}

func TestBuildSystemMode(t *testing.T) {
	t.Run("probe_succeeds", func(t *testing.T) {
		p, err := Build(context.Background(), ModeSystem, Options{
			PrivilegeProber: func(ctx context.Context) error { return nil },
		})
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}

		if !p.RequiresPrivilege {
			t.Error("system mode must require privilege")
		}
		if p.InstallRoot != "/usr/local" {
			t.Errorf("InstallRoot = %q", p.InstallRoot)
		}
		if p.TargetDir != "/usr/local/go" {
			t.Errorf("TargetDir = %q", p.TargetDir)
		}
	})

	t.Run("probe_fails", func(t *testing.T) {
		_, err := Build(context.Background(), ModeSystem, Options{
			PrivilegeProber: func(ctx context.Context) error { return ErrPrivilegeRequired },
		})
		if !errors.Is(err, ErrPrivilegeRequired) {
			t.Errorf("expected ErrPrivilegeRequired, got %v", err)
		}
	})
}

func TestBuildUnknownMode(t *testing.T) {
	_, err := Build(context.Background(), Mode(0), Options{})
	if !errors.Is(err, ErrUnknownMode) {
		t.Errorf("expected ErrUnknownMode, got %v", err)
	}
}

func TestPathExportLine(t *testing.T) {
	system := &Plan{Mode: ModeSystem}
	if got := system.PathExportLine(); got != "export PATH=$PATH:/usr/local/go/bin" {
		t.Errorf("system export line = %q", got)
	}

	user := &Plan{Mode: ModeUser}
	if got := user.PathExportLine(); got != "export PATH=$PATH:$HOME/.local/go/bin" {
		t.Errorf("user export line = %q", got)
	}
}

func TestBinDir(t *testing.T) {
	p := &Plan{TargetDir: "/usr/local/go"}
	if got := p.BinDir(); got != "/usr/local/go/bin" {
		t.Errorf("BinDir = %q", got)
	}
}
