package installer

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/mwflint/gosetup/internal/plan"
)

func systemInstaller(t *testing.T, record *[][]string) *Installer {
	t.Helper()
	in := &Installer{
		plan: &plan.Plan{
			Mode:              plan.ModeSystem,
			InstallRoot:       plan.SystemRoot,
			TargetDir:         plan.SystemRoot + "/go",
			RequiresPrivilege: true,
		},
		runner: func(_ context.Context, name string, args ...string) error {
			*record = append(*record, append([]string{name}, args...))
			return nil
		},
	}
	return in
}

func TestRemoveTreeElevatesForSystemInstall(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("running as root, sudo path not taken")
	}

	var calls [][]string
	in := systemInstaller(t, &calls)

	if err := in.removeTree(context.Background(), "/usr/local/go"); err != nil {
		t.Fatalf("removeTree failed: %v", err)
	}

	if len(calls) != 1 {
		t.Fatalf("runner called %d times, want 1", len(calls))
	}
	got := strings.Join(calls[0], " ")
	if got != "sudo rm -rf /usr/local/go" {
		t.Errorf("runner invoked %q", got)
	}
}

func TestExtractTreeElevatesForSystemInstall(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("running as root, sudo path not taken")
	}

	var calls [][]string
	in := systemInstaller(t, &calls)

	if err := in.extractTree(context.Background(), "/tmp/archive.tar.gz"); err != nil {
		t.Fatalf("extractTree failed: %v", err)
	}

	if len(calls) != 1 {
		t.Fatalf("runner called %d times, want 1", len(calls))
	}
	got := strings.Join(calls[0], " ")
	if got != "sudo tar -C /usr/local -xzf /tmp/archive.tar.gz" {
		t.Errorf("runner invoked %q", got)
	}
}
