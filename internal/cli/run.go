package cli

import (
	"context"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Run is a high-level CLI entrypoint suitable for black-box tests.
// It accepts the argument slice (excluding argv[0]) and returns the semantic
// exit code plus any error.
func Run(ctx context.Context, args []string) (CLIResult, error) {
	return RunWithOutput(ctx, args, io.Discard)
}

// RunWithOutput is Run with help and usage text written to out.
func RunWithOutput(ctx context.Context, args []string, out io.Writer) (CLIResult, error) {
	var (
		res     CLIResult
		ran     bool
		execErr error
	)
	root := newRootCommand(func(inv CLIInvocation) error {
		ran = true
		logger, err := NewLogger(inv.Verbose)
		if err != nil {
			logger = zap.NewNop()
		}
		defer func() { _ = logger.Sync() }()
		res, execErr = ExecuteWith(ctx, inv, defaultCorpusBuilder{}, logger)
		return nil
	})
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(out)
	if err := root.ExecuteContext(ctx); err != nil {
		err = asInvocationError(err)
		return CLIResult{ExitCode: ExitCode(err)}, err
	}
	if !ran {
		// --help or --version.
		return CLIResult{ExitCode: ExitSuccess}, nil
	}
	return res, execErr
}

// NewLogger returns the production JSON logger on stderr, at debug level when
// verbose.
func NewLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}
