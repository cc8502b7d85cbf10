package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mwflint/gosetup/internal/artifact"
	"github.com/mwflint/gosetup/internal/config"
	"github.com/mwflint/gosetup/internal/installer"
	"github.com/mwflint/gosetup/internal/logging"
	"github.com/mwflint/gosetup/internal/plan"
	"github.com/mwflint/gosetup/internal/platform"
	"github.com/mwflint/gosetup/internal/release"
	"github.com/mwflint/gosetup/internal/shellenv"
)

// Version is set at build time via -ldflags.
var Version = "v0.1.0-dev"

type runOptions struct {
	mode       string
	version    string
	configPath string
	assumeYes  bool
}

// newRootCmd wires the cobra root command.
func newRootCmd() *cobra.Command {
	var (
		opts      runOptions
		verbosity int
	)

	root := &cobra.Command{
		Use:     "gosetup",
		Short:   "Interactive installer for the Go toolchain",
		Long:    "gosetup downloads an official Go release, verifies it, installs it system-wide or for the current user, and updates your shell PATH.",
		Version: Version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logging.Setup(verbosity)
			return runInstall(cmd.Context(), opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.Flags().StringVarP(&opts.mode, "mode", "m", "", `installation mode: "system" or "user" (default: prompt)`)
	root.Flags().StringVar(&opts.version, "install-version", "", "Go version to install, e.g. 1.22.4 (default: prompt, latest release)")
	root.Flags().StringVarP(&opts.configPath, "config", "c", "", "config file path")
	root.Flags().BoolVarP(&opts.assumeYes, "yes", "y", false, "accept defaults instead of prompting")
	root.Flags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity")

	return root
}

// runInstall drives one installation: detect platform, settle mode and
// version, build the plan, then hand off to the installer.
func runInstall(ctx context.Context, opts runOptions) error {
	log := logging.Component("setup")

	cfg, err := config.NewLoader(opts.configPath).Load()
	if err != nil {
		log.Warn().Err(err).Msg("could not load config, using defaults")
		cfg = config.Config{}
	}

	info, err := platform.NewDetector().Detect(ctx)
	if err != nil {
		return err
	}
	log.Info().Str("platform", info.Describe()).Msg("detected platform")

	prompter := NewPrompter(nil, nil)

	mode, err := settleMode(opts, cfg, prompter)
	if err != nil {
		return err
	}

	p, err := plan.Build(ctx, mode, plan.Options{})
	if err != nil {
		return err
	}
	logTransition(log, installer.StatePlanReady)
	log.Info().Str("mode", mode.String()).Str("target", p.TargetDir).Msg("installation target resolved")

	indexURL := cfg.IndexURL
	if indexURL == "" {
		indexURL = release.DefaultIndexURL
	}
	resolver := release.NewResolver(indexURL)

	version, err := settleVersion(ctx, opts, resolver, info.Tag(), prompter)
	if err != nil {
		return err
	}
	logTransition(log, installer.StateVersionResolved)
	log.Info().Str("version", version.String()).Msg("installing Go")

	updater, err := shellenv.NewUpdater("")
	if err != nil {
		return err
	}

	in, err := installer.New(installer.Config{
		Plan:      p,
		Artifact:  resolver.Describe(version, info.Tag()),
		Checksums: resolver,
		Profiles:  updater,
		Foreign:   foreignDetector(info),
		Verifier:  verifierFor(cfg),
		VerifyGPG: cfg.VerifyGPG,
	})
	if err != nil {
		return err
	}

	if err := in.Run(ctx); err != nil {
		return err
	}

	fmt.Printf("\nGo %s installed to %s.\n", version, p.TargetDir)
	fmt.Println("Open a new shell, or source your profile, to pick up the PATH change.")
	return nil
}

// logTransition mirrors the installer's own state logging for the two
// phases that run before the orchestrator is handed its inputs.
func logTransition(log zerolog.Logger, s installer.State) {
	log.Debug().Str("state", string(s)).Msg("state transition")
}

// settleMode resolves the installation mode from the flag, the config,
// or the interactive prompt, in that order.
func settleMode(opts runOptions, cfg config.Config, prompter *Prompter) (plan.Mode, error) {
	if opts.mode != "" {
		return plan.ParseMode(opts.mode)
	}

	var def plan.Mode
	if cfg.DefaultMode != "" {
		m, err := plan.ParseMode(cfg.DefaultMode)
		if err != nil {
			return 0, err
		}
		def = m
	}

	if opts.assumeYes {
		if def != 0 {
			return def, nil
		}
		return plan.ModeUser, nil
	}

	return prompter.AskMode(def)
}

// settleVersion resolves the version from the flag or the interactive
// prompt, defaulting to the newest release the index advertises. The
// result is validated regardless of where it came from.
func settleVersion(ctx context.Context, opts runOptions, resolver *release.Resolver, tag string, prompter *Prompter) (release.Version, error) {
	input := opts.version

	if input == "" {
		latest, err := resolver.ResolveLatest(ctx, tag)
		if err != nil {
			return "", err
		}
		if opts.assumeYes {
			input = latest
		} else {
			input, err = prompter.AskVersion(release.Version(latest))
			if err != nil {
				return "", err
			}
		}
	}

	return release.Validate(input)
}

// foreignDetector returns the package-manager cleanup step for platforms
// that have one. Homebrew is only consulted on macOS; on Linux a brew
// installation lives under its own prefix and never conflicts with ours.
func foreignDetector(info *platform.Info) installer.ForeignDetector {
	if info.IsMacOS() {
		return installer.NewBrewCask()
	}
	return nil
}

func verifierFor(cfg config.Config) installer.ChecksumVerifier {
	if cfg.KeyringPath == "" {
		return nil
	}
	return artifact.NewVerifier(cfg.KeyringPath)
}
