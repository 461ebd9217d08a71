package engine

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"pwacheck/internal/artifact"
	"pwacheck/internal/config"
	gh "pwacheck/internal/github"
	"pwacheck/internal/output"
	"pwacheck/internal/report"
	"pwacheck/internal/rules"
)

type Engine struct {
	Logger *zap.Logger
	Stdout io.Writer
	Stderr io.Writer

	// newTree is a test seam for the artifact tree. If nil, Engine builds a
	// directory or GitHub tree from the config.
	newTree func(ctx context.Context, cfg *config.Config) (artifact.Tree, error)
}

func NewEngine(logger *zap.Logger, stdout, stderr io.Writer) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Engine{Logger: logger, Stdout: stdout, Stderr: stderr}
}

// fatal prints the diagnostic for a run that could not be performed.
func (e *Engine) fatal(format string, args ...any) int {
	fmt.Fprintf(e.Stderr, "error: "+format+"\n", args...)
	return report.ExitInfrastructure
}

func (e *Engine) setupOutputManager(cfg *config.Config) (*output.Manager, error) {
	outMgr := output.NewManager()

	// Console Sink
	if !cfg.Output.NoConsole {
		if err := outMgr.AddSink(output.NewConsoleSink(e.Stdout, cfg.Output.ConsoleFormat, cfg.Output.ConsoleFilterStatus, !cfg.Output.NoColor && isTerminal(e.Stdout))); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	// Emit Sinks (additional structured streams)
	for _, emit := range cfg.Output.Emit {
		es, err := output.NewEmitSink(e.Stdout, emit)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(es); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	// File Sink
	if cfg.Output.Out != "" {
		fs, err := output.NewFileSink(cfg.Output.Out, cfg.Output.OutFormat)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(fs); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	// Report Sink
	if cfg.Output.Report != "" {
		rs, err := output.NewReportSink(cfg.Output.Report, ReproduceCommand(cfg))
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(rs); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	return outMgr, nil
}

// ConfigureRules resolves the selected rules and applies their options.
// Every selected rule is configured, with an empty option set when none was
// given, so a rule never keeps options from an earlier run.
func ConfigureRules(cfg *config.Config) ([]rules.Rule, error) {
	selected, err := rules.Resolve(cfg.Rules.Selector)
	if err != nil {
		return nil, fmt.Errorf("resolving rules: %w", err)
	}
	assignments, err := cfg.RuleOptions()
	if err != nil {
		return nil, err
	}

	byID := make(map[string]rules.Rule, len(selected))
	for _, r := range selected {
		byID[r.ID()] = r
	}
	for ruleID := range assignments {
		if _, ok := rules.Lookup(ruleID); !ok {
			return nil, fmt.Errorf("unknown rule ID %q", ruleID)
		}
	}

	for _, r := range selected {
		opts := assignments[r.ID()]
		cr, ok := r.(rules.ConfigurableRule)
		if !ok {
			if len(opts) > 0 {
				return nil, fmt.Errorf("rule %q does not support options", r.ID())
			}
			continue
		}

		allowed := make(map[string]struct{})
		for _, opt := range cr.Options() {
			allowed[opt.Name] = struct{}{}
		}
		for name := range opts {
			if _, ok := allowed[name]; !ok {
				return nil, fmt.Errorf("unknown option %q for rule %q", name, r.ID())
			}
		}
		if opts == nil {
			opts = map[string]string{}
		}
		if err := cr.Configure(opts); err != nil {
			return nil, fmt.Errorf("configure rule %q: %w", r.ID(), err)
		}
	}
	return selected, nil
}

func (e *Engine) buildTree(ctx context.Context, cfg *config.Config) (artifact.Tree, error) {
	if e.newTree != nil {
		return e.newTree(ctx, cfg)
	}
	if cfg.Target.GitHub == "" {
		return artifact.NewDirTree(cfg.Target.Root), nil
	}

	token, source, err := gh.ResolveAuthToken(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("resolving GitHub token: %w", err)
	}
	if token == "" {
		e.Logger.Warn("no GitHub token found; using unauthenticated requests")
	} else {
		e.Logger.Debug("using GitHub token", zap.String("source", string(source)))
	}
	client, err := gh.NewClient(ctx, token, gh.WithLogger(e.Logger.Named("github")))
	if err != nil {
		return nil, err
	}
	return gh.NewTree(client, cfg.Target.GitHub, cfg.Target.Ref, cfg.Target.Root)
}

// Run performs one check and returns the process exit code.
func (e *Engine) Run(ctx context.Context, cfg *config.Config) int {
	ctx, cancel := context.WithTimeout(ctx, cfg.Runtime.Timeout)
	defer cancel()

	selected, err := ConfigureRules(cfg)
	if err != nil {
		return e.fatal("%v", err)
	}
	e.Logger.Debug("selected rules", zap.Int("count", len(selected)))

	base, err := e.buildTree(ctx, cfg)
	if err != nil {
		return e.fatal("%v", err)
	}
	tree := artifact.NewCachedTree(base)
	if err := tree.Check(ctx); err != nil {
		return e.fatal("cannot read artifact root %s: %v", tree.Root(), err)
	}

	outMgr, err := e.setupOutputManager(cfg)
	if err != nil {
		return e.fatal("creating output sinks: %v", err)
	}

	runID := uuid.NewString()
	log := e.Logger.With(zap.String("run_id", runID))
	log.Info("checking PWA artifacts", zap.String("root", tree.Root()), zap.Int("rules", len(selected)))

	var writeErrs []error
	write := func(v any) {
		if err := outMgr.Write(v); err != nil {
			writeErrs = append(writeErrs, err)
		}
	}

	write(output.Event{Type: output.EventRunStarted, RunID: runID, Root: tree.Root(), Rules: len(selected)})

	// Documents are fetched in the background while rules run; a rule that
	// needs one still in flight joins that read.
	layout := cfg.Layout()
	prefetchCtx, stopPrefetch := context.WithCancel(ctx)
	prefetched := make(chan struct{})
	go func() {
		defer close(prefetched)
		if err := tree.Prefetch(prefetchCtx, layout.Documents()); err != nil {
			log.Debug("prefetch stopped", zap.Error(err))
		}
	}()

	rep, err := evaluate(ctx, selected, layout, tree, func(f rules.Finding) {
		log.Debug("rule evaluated", zap.String("rule", f.RuleID), zap.String("status", string(f.Status())))
		write(f)
	})
	stopPrefetch()
	<-prefetched
	if err != nil {
		write(output.RunFinished(runID, nil, report.ExitInfrastructure))
		_ = outMgr.Close()
		return e.fatal("check aborted: %v", err)
	}

	code := rep.ExitStatus()
	write(rep)
	write(output.RunFinished(runID, rep, code))
	if err := outMgr.Close(); err != nil {
		writeErrs = append(writeErrs, err)
	}
	if len(writeErrs) > 0 {
		return e.fatal("writing output: %v", writeErrs[0])
	}

	c := rep.Counts()
	log.Info("check finished",
		zap.Int("passed", c.Passed),
		zap.Int("warnings", c.Warnings),
		zap.Int("errors", c.Errors),
		zap.Int("exit_code", code))
	return code
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
