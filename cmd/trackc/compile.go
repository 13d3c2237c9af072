package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"trackc/internal/compiler/execsvc"
	"trackc/internal/config"
	"trackc/internal/driver"
	"trackc/internal/prof"
	"trackc/internal/trace"
)

func runCompile(cmd *cobra.Command, args []string) error {
	if len(args) > 0 && args[0] == "--" {
		args = args[1:]
	}
	// -h is a compiler option, so only the long form asks for help.
	if len(args) == 0 || (len(args) == 1 && args[0] == "--help") {
		return cmd.Help()
	}

	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, err := config.Load(wd)
	if err != nil {
		return err
	}

	cleanup, err := setupTracing(cmd, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if pc := cfg.ProfileConfig(); pc.Enabled() {
		session, err := prof.Start(pc)
		if err != nil {
			return err
		}
		defer func() {
			if err := session.Stop(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
			}
		}()
	}

	mode, err := cfg.ColorMode()
	if err != nil {
		return err
	}
	paths, err := cfg.PathMode()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	svc := execsvc.New(execsvc.Config{
		Command: cfg.Compiler.Command,
		Options: cfg.OptionTable(),
		Env:     cfg.Compiler.Env,
		Dir:     cfg.Compiler.Dir,
	}).WithTracer(trace.FromContext(ctx))

	opts := driver.Options{
		Service: svc,
		Stderr:  cmd.ErrOrStderr(),
		Color:   useColor(mode, os.Stderr),
		Paths:   paths,
	}
	if cfg.Console.Timings {
		opts.Timings = cmd.ErrOrStderr()
	}

	if code := driver.Run(ctx, args, opts); code != driver.ExitOK {
		return errFailed
	}
	return nil
}

// useColor resolves [console].color. -Tcolor still turns color on for a
// single run regardless of the result.
func useColor(mode config.ColorMode, f *os.File) bool {
	switch mode {
	case config.ColorOn:
		return true
	case config.ColorAuto:
		return f != nil && isTerminal(f)
	default:
		return false
	}
}

// describeConfig names the configuration in effect, for the version command.
func describeConfig() string {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Sprintf("unavailable (%v)", err)
	}
	path, ok, err := config.Find(wd)
	switch {
	case err != nil:
		return fmt.Sprintf("unavailable (%v)", err)
	case !ok:
		return "none (built-in defaults)"
	}
	return path
}
