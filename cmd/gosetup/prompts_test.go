package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mwflint/gosetup/internal/plan"
	"github.com/mwflint/gosetup/internal/release"
)

func TestAskMode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		def   plan.Mode
		want  plan.Mode
	}{
		{name: "system", input: "1\n", want: plan.ModeSystem},
		{name: "user", input: "2\n", want: plan.ModeUser},
		{name: "empty with default", input: "\n", def: plan.ModeUser, want: plan.ModeUser},
		{name: "garbage then valid", input: "3\nboth\n1\n", want: plan.ModeSystem},
		{name: "empty without default re-prompts", input: "\n2\n", want: plan.ModeUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.input), &out)

			got, err := p.AskMode(tt.def)
			if err != nil {
				t.Fatalf("AskMode failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("AskMode = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAskModeReportsInvalidInput(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("maybe\n1\n"), &out)

	if _, err := p.AskMode(0); err != nil {
		t.Fatalf("AskMode failed: %v", err)
	}
	if !strings.Contains(out.String(), "Please answer 1 or 2.") {
		t.Errorf("missing re-prompt message in output:\n%s", out.String())
	}
}

func TestAskModeClosedInput(t *testing.T) {
	p := NewPrompter(strings.NewReader(""), &bytes.Buffer{})

	if _, err := p.AskMode(0); err == nil {
		t.Error("AskMode succeeded on closed input")
	}
}

func TestAskVersion(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "explicit", input: "1.21.5\n", want: "1.21.5"},
		{name: "empty selects latest", input: "\n", want: "1.22.4"},
		{name: "whitespace selects latest", input: "   \n", want: "1.22.4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.input), &out)

			got, err := p.AskVersion(release.Version("1.22.4"))
			if err != nil {
				t.Fatalf("AskVersion failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("AskVersion = %q, want %q", got, tt.want)
			}
		})
	}
}
