package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"trackc/internal/diag"
	"trackc/internal/diagfmt"
)

// errFailed signals a run that already reported its own failure.
var errFailed = errors.New("compilation failed")

var rootCmd = &cobra.Command{
	Use:   "trackc [compiler options] [-T flags] <source files>",
	Short: "Compile sources and record which outputs each source produced",
	Long: `trackc runs the configured compiler over the given source files and
prints its diagnostics. Tool flags:

  -Tdependencyfile <path>      write "<source> -> <output>" lines to path
  -Tcolor                      color diagnostics
  -Tnowarnprefixes <list>      drop warnings for files under these prefixes
  -Tnowarnregex <regex>        drop warnings whose message matches regex

All other flags are handed to the compiler. The compiler itself is set up in
trackc.toml, found in the current directory or any parent, or at $TRACKC_CONFIG.`,
	// Compiler flags are routed by trackc itself.
	DisableFlagParsing: true,
	SilenceErrors:      true,
	SilenceUsage:       true,
	Args:               cobra.ArbitraryArgs,
	RunE:               runCompile,
}

// main executes the root command. Any failure exits with status 1.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	rootCmd.SetArgs(commandArgs(os.Args[1:]))
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errFailed) {
			d := diag.New(diag.SevError, err.Error())
			fmt.Fprint(os.Stderr, diagfmt.Pretty(&d, diagfmt.PrettyOpts{Color: isTerminal(os.Stderr)}))
		}
		os.Exit(1)
	}
}

// commandArgs passes a command line that starts with a subcommand name through
// unchanged. Every other command line is put behind "--" so that cobra's
// subcommand lookup never sees compiler options or their values; runCompile
// strips the marker again.
func commandArgs(args []string) []string {
	if len(args) > 0 && isSubcommand(args[0]) {
		return args
	}
	return append([]string{"--"}, args...)
}

func isSubcommand(name string) bool {
	switch name {
	case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return true
	}
	for _, c := range rootCmd.Commands() {
		if c.Name() == name || c.HasAlias(name) {
			return true
		}
	}
	return false
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
