// Package app wires the commands together: test running, failure parsing,
// model calls, and the patch pipeline.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/repodoc/repodoc/internal/cli"
	"github.com/repodoc/repodoc/internal/focus"
	"github.com/repodoc/repodoc/internal/ghpr"
	"github.com/repodoc/repodoc/internal/llm"
	"github.com/repodoc/repodoc/internal/logs"
	"github.com/repodoc/repodoc/internal/patch"
	"github.com/repodoc/repodoc/internal/report"
	"github.com/repodoc/repodoc/internal/runner"
	"github.com/repodoc/repodoc/internal/source"
	"github.com/repodoc/repodoc/internal/state"
	"github.com/repodoc/repodoc/internal/tui"
	"github.com/repodoc/repodoc/internal/ui"
)

const (
	// LogFile receives the test suite's combined output.
	LogFile = "repodoc.log"
	// ReportFile is the junit fallback some runners leave behind.
	ReportFile = "report.xml"
	// ProposalFile is the persisted proposal markdown.
	ProposalFile = "repodoc_output.md"
)

// App orchestrates one command invocation.
type App struct {
	cfg       *cli.Config
	pipeline  *patch.Pipeline
	snapshots *state.Manager
}

// New creates an App rooted at the current working directory.
func New(cfg *cli.Config) (*App, error) {
	snapshots, err := state.New("")
	if err != nil {
		return nil, fmt.Errorf("initialize state manager: %w", err)
	}
	return &App{
		cfg:       cfg,
		pipeline:  patch.New(patch.Config{}),
		snapshots: snapshots,
	}, nil
}

// Run dispatches the parsed command.
func (a *App) Run(ctx context.Context) error {
	switch a.cfg.Command {
	case cli.CmdRunTests:
		return a.runTests(ctx)
	case cli.CmdPropose:
		return a.propose(ctx)
	case cli.CmdApply:
		return a.apply(ctx)
	case cli.CmdFix:
		return a.fix(ctx)
	case cli.CmdCIRun:
		return a.ciRun(ctx)
	case cli.CmdRevert:
		return a.revert()
	}
	return fmt.Errorf("unknown command %q", a.cfg.Command)
}

func (a *App) runTests(ctx context.Context) error {
	r := runner.New(a.cfg.TestCmd, LogFile)
	ui.Header("Running %s", r.TestCmd)
	if err := r.Run(ctx); err != nil {
		return err
	}
	ui.Success("Tests finished")
	return nil
}

// ensureFailureLog returns a log with failures in it, running the tests once
// when the current log is missing or clean.
func (a *App) ensureFailureLog(ctx context.Context) (string, error) {
	log := logs.ReadText(LogFile)
	if log == "" {
		log = logs.ReadText(ReportFile)
	}
	if log == "" || !logs.LooksFailing(log) {
		ui.Warning("No failing logs found; running tests to capture failures...")
		if err := a.runTests(ctx); err != nil {
			return "", err
		}
		log = logs.ReadText(LogFile)
		if log == "" {
			log = logs.ReadText(ReportFile)
		}
	}
	return log, nil
}

// generate runs the failure log through context selection and the model, and
// returns the extracted diff plus the cost line.
func (a *App) generate(ctx context.Context, log string) (diffText, costLine string, err error) {
	brief := logs.Parse(log)
	fileList, slices := focus.New("").Build(brief.Tail)

	client, err := llm.New(llm.Config{Model: a.cfg.Model})
	if err != nil {
		return "", "", err
	}
	prompt := llm.BuildUserPrompt(a.cfg.ProjectName, brief.Format(), fileList, slices)

	var usage llm.Usage
	task := func() (string, error) {
		content, u, taskErr := client.Propose(ctx, prompt)
		usage = u
		return content, taskErr
	}

	var content string
	if a.useSpinner() {
		content, err = tui.Run(fmt.Sprintf("Asking %s for a fix...", client.Model()), task)
	} else {
		ui.Info("Asking %s for a fix...", client.Model())
		content, err = task()
	}
	if err != nil {
		return "", "", err
	}
	return patch.Extract(content), llm.EstimateCost(usage), nil
}

func (a *App) useSpinner() bool {
	return !a.cfg.NoTUI && isatty.IsTerminal(os.Stderr.Fd())
}

func (a *App) propose(ctx context.Context) error {
	log, err := a.ensureFailureLog(ctx)
	if err != nil {
		return err
	}
	if log == "" {
		return errors.New("no test logs found; run 'repodoc run-tests' first")
	}

	diffText, costLine, err := a.generate(ctx, log)
	if err != nil {
		return err
	}
	md := report.ProposalMarkdown(costLine, report.Diffstat(diffText), diffText)
	fmt.Println(md)
	if err := os.WriteFile(ProposalFile, []byte(md+"\n"), 0o644); err != nil {
		return fmt.Errorf("persist proposal: %w", err)
	}
	return nil
}

func (a *App) apply(ctx context.Context) error {
	provider := source.New(a.cfg.Clipboard, ProposalFile)
	text, err := provider.GetContent()
	if err != nil {
		return err
	}

	if strings.TrimSpace(text) == "" {
		ui.Warning("No patch found, running propose first...")
		log := logs.ReadText(LogFile)
		if log == "" {
			log = logs.ReadText(ReportFile)
		}
		if log == "" {
			return errors.New("no test logs found; run 'repodoc run-tests' first")
		}
		text, _, err = a.generate(ctx, log)
		if err != nil {
			return err
		}
	}

	diffText := patch.Extract(text)
	if strings.TrimSpace(diffText) == "" {
		return errors.New("no valid diff found to apply")
	}
	return a.applyDiff(diffText)
}

// applyDiff snapshots the targets for revert, then runs the patch pipeline.
func (a *App) applyDiff(diffText string) error {
	if targets := patch.Targets(diffText); len(targets) > 0 {
		if err := a.snapshots.Snapshot(targets); err != nil {
			ui.Warning("Revert will not be available: %v", err)
		}
	}

	res := a.pipeline.Apply(diffText)
	if !res.Applied {
		return fmt.Errorf("patch failed: %s", res.Message)
	}
	if a.cfg.Verbose {
		ui.Success("Applied: %s", res.Message)
	} else {
		ui.Success("Applied")
	}
	return nil
}

func (a *App) fix(ctx context.Context) error {
	if err := a.runTests(ctx); err != nil {
		return err
	}
	log := logs.ReadText(LogFile)
	if log == "" {
		log = logs.ReadText(ReportFile)
	}
	if log == "" {
		return errors.New("no test logs found")
	}

	brief := logs.Parse(log)
	if !brief.HasFailure() {
		ui.Success("No test failures found - nothing to fix!")
		return nil
	}

	ui.Info("Analyzing failure and generating fix...")
	diffText, costLine, err := a.generate(ctx, log)
	if err != nil {
		return err
	}
	if strings.TrimSpace(diffText) == "" {
		return errors.New("could not generate a valid fix")
	}

	ui.Info("Generated fix (%s)", costLine)
	fmt.Printf("```diff\n%s\n```\n", diffText)

	if err := a.applyDiff(diffText); err != nil {
		return err
	}
	ui.Success("Fix applied! Re-running tests to verify...")
	return a.runTests(ctx)
}

func (a *App) ciRun(ctx context.Context) error {
	if err := a.runTests(ctx); err != nil {
		return err
	}
	log := logs.ReadText(LogFile)
	if log == "" {
		return errors.New("no test logs found")
	}

	diffText, costLine, err := a.generate(ctx, log)
	if err != nil {
		return err
	}

	body := report.CommentBody(costLine, diffText)
	poster := ghpr.New()
	if poster.Enabled() {
		if err := poster.Post(ctx, body); err != nil {
			ui.Warning("Could not post PR comment: %v", err)
		}
	} else {
		ui.Warning("Not running in GitHub Actions; skipping PR comment.")
	}

	if err := os.WriteFile(ProposalFile, []byte(body+"\n"), 0o644); err != nil {
		return fmt.Errorf("persist proposal: %w", err)
	}
	fmt.Println(body)
	return nil
}

func (a *App) revert() error {
	restored, err := a.snapshots.Revert()
	if err != nil {
		return err
	}
	if len(restored) == 0 {
		ui.Warning("No operation to revert.")
		return nil
	}
	ui.Header("--- Revert Summary ---")
	ui.Success("Restored %d file(s):", len(restored))
	for _, f := range restored {
		ui.Path("- %s", f)
	}
	return nil
}
