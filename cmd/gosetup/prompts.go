package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mwflint/gosetup/internal/plan"
	"github.com/mwflint/gosetup/internal/release"
)

// Prompter asks the two interactive questions on stdin/stdout.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter constructs a prompter referencing stdio.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Prompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// AskMode prompts for the installation mode, re-asking on unrecognized
// input. An empty answer selects def when one is given.
func (p *Prompter) AskMode(def plan.Mode) (plan.Mode, error) {
	fmt.Fprintln(p.out, "Select installation mode:")
	fmt.Fprintf(p.out, "  1) system-wide (%s, requires administrator privileges)\n", plan.SystemRoot)
	fmt.Fprintf(p.out, "  2) current user ($HOME/%s)\n", plan.UserRootDir)

	for {
		if def != 0 {
			fmt.Fprintf(p.out, "Mode [1/2, default %s]: ", def)
		} else {
			fmt.Fprint(p.out, "Mode [1/2]: ")
		}

		line, err := p.readLine()
		if err != nil {
			return 0, err
		}

		switch line {
		case "1":
			return plan.ModeSystem, nil
		case "2":
			return plan.ModeUser, nil
		case "":
			if def != 0 {
				return def, nil
			}
		}
		fmt.Fprintln(p.out, "Please answer 1 or 2.")
	}
}

// AskVersion prompts for the version to install. An empty answer selects
// the detected latest release. The returned string is unvalidated.
func (p *Prompter) AskVersion(latest release.Version) (string, error) {
	fmt.Fprintf(p.out, "Go version to install [default %s]: ", latest)
	line, err := p.readLine()
	if err != nil {
		return "", err
	}
	return release.PromptOrDefault(latest, line), nil
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
