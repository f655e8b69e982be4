package cli

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Command names accepted as the first positional argument.
const (
	CmdRunTests = "run-tests"
	CmdPropose  = "propose"
	CmdApply    = "apply"
	CmdFix      = "fix"
	CmdCIRun    = "ci-run"
	CmdRevert   = "revert"
)

var commandHelp = []struct{ name, desc string }{
	{CmdRunTests, "Run the test suite and capture its log."},
	{CmdPropose, "Parse the failure log, ask the model, print and persist the proposed diff."},
	{CmdApply, "Apply the last proposal (stdin, clipboard, or the proposal file)."},
	{CmdFix, "Run tests, propose a patch, apply it, and re-run tests."},
	{CmdCIRun, "Run tests, propose a patch, and post it as a PR comment."},
	{CmdRevert, "Restore the files touched by the last apply."},
}

// Config holds all the command-line flag values.
type Config struct {
	Command     string
	ProjectName string
	TestCmd     string
	Model       string
	Verbose     bool
	Clipboard   bool
	NoTUI       bool
}

// ParseFlags defines and parses command-line flags using pflag.
func ParseFlags() (*Config, error) {
	cfg := &Config{}

	pflag.StringVarP(&cfg.ProjectName, "project-name", "p", "Sample Project", "Project name included in the model prompt.")
	pflag.StringVarP(&cfg.TestCmd, "test-cmd", "t", "", "Test command to run (default: the pytest CI invocation).")
	pflag.StringVarP(&cfg.Model, "model", "m", "", "Model identifier (default: REPODOC_MODEL or z-ai/glm-4.5).")
	pflag.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Print the full pipeline diagnostics on apply.")
	pflag.BoolVarP(&cfg.Clipboard, "clipboard", "c", false, "Read the proposal from the clipboard instead of the proposal file.")
	pflag.BoolVar(&cfg.NoTUI, "no-tui", false, "Disable the spinner while waiting on the model.")

	pflag.Usage = func() {
		fmt.Println("Usage: repodoc <command> [flags]")
		fmt.Println("\nRun tests, ask a model for a unified diff, and apply it.")
		fmt.Println("\nCommands:")
		for _, c := range commandHelp {
			fmt.Printf("  %-10s %s\n", c.name, c.desc)
		}
		fmt.Println("\nFlags:")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	cfg.Command = pflag.Arg(0)
	if cfg.Command == "" {
		pflag.Usage()
		return nil, fmt.Errorf("error: no command given")
	}
	known := false
	for _, c := range commandHelp {
		if cfg.Command == c.name {
			known = true
			break
		}
	}
	if !known {
		return nil, fmt.Errorf("error: unknown command %q", cfg.Command)
	}
	return cfg, nil
}
