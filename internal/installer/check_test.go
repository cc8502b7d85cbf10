package installer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFakeGo(t *testing.T, script string) string {
	t.Helper()
	target := t.TempDir()
	binDir := filepath.Join(target, "bin")
	if err := os.MkdirAll(binDir, 0755); err != nil {
		t.Fatalf("create bin dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(binDir, "go"), []byte(script), 0755); err != nil {
		t.Fatalf("write fake go: %v", err)
	}
	return target
}

func TestCheckReportsVersionAndEnv(t *testing.T) {
	target := writeFakeGo(t, fakeGoScript)

	report, err := NewBinaryChecker().Check(context.Background(), target)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if report.Version != "go1.22.4" {
		t.Errorf("Version = %q, want go1.22.4", report.Version)
	}
	if report.GOROOT != "/home/test/.local/go" {
		t.Errorf("GOROOT = %q", report.GOROOT)
	}
	if report.GOPATH != "/home/test/go" {
		t.Errorf("GOPATH = %q", report.GOPATH)
	}
}

func TestCheckMissingBinary(t *testing.T) {
	if _, err := NewBinaryChecker().Check(context.Background(), t.TempDir()); err == nil {
		t.Error("Check succeeded without a go binary")
	}
}

func TestCheckGarbageOutput(t *testing.T) {
	target := writeFakeGo(t, "#!/bin/sh\necho not a toolchain\n")

	if _, err := NewBinaryChecker().Check(context.Background(), target); err == nil {
		t.Error("Check accepted garbage version output")
	}
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		want    string
		wantErr bool
	}{
		{name: "normal", out: "go version go1.22.4 linux/amd64\n", want: "go1.22.4"},
		{name: "devel", out: "go version go1.23.0 darwin/arm64\n", want: "go1.23.0"},
		{name: "empty", out: "", wantErr: true},
		{name: "no version token", out: "command not found\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVersion(tt.out)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseVersion(%q) succeeded, want error", tt.out)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseVersion(%q) failed: %v", tt.out, err)
			}
			if got != tt.want {
				t.Errorf("parseVersion(%q) = %q, want %q", tt.out, got, tt.want)
			}
		})
	}
}
