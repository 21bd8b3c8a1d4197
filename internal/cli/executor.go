package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"slicevec/internal/config"
	"slicevec/internal/corpus"
	"slicevec/internal/export"
	"slicevec/internal/trace"
)

// CorpusBuilder is the minimal engine interface the CLI wires into.
//
// This allows the CLI to prove exit-code mapping (including panic) in tests
// without depending on builder internals.
type CorpusBuilder interface {
	Build(ctx context.Context, grid corpus.Grid, values []int, opts ...corpus.Option) (corpus.Corpus, error)
}

type defaultCorpusBuilder struct{}

func (defaultCorpusBuilder) Build(ctx context.Context, grid corpus.Grid, values []int, opts ...corpus.Option) (corpus.Corpus, error) {
	return corpus.Build(ctx, grid, values, opts...)
}

type CLIResult struct {
	ExitCode int

	// Entries is the number of corpus entries built (generate, or verify
	// with regeneration).
	Entries int

	// Results holds the per-artifact write outcomes of generate.
	Results []export.WriteResult

	// Report holds the checks of verify.
	Report export.Report

	// TraceHash is the sha256 of the canonical trace, set when tracing.
	TraceHash string
}

// Execute runs a canonical invocation without logging.
func Execute(ctx context.Context, inv CLIInvocation) (CLIResult, error) {
	return ExecuteWith(ctx, inv, defaultCorpusBuilder{}, zap.NewNop())
}

// ExecuteWith maps a canonical CLIInvocation to corpus generation or
// verification.
//
// Responsibilities:
//   - Load the configuration and apply invocation overrides.
//   - Initialize trace output before any work and finalize it afterwards,
//     even on panic/failure.
//   - Translate outcomes to semantic exit codes.
func ExecuteWith(ctx context.Context, inv CLIInvocation, builder CorpusBuilder, logger *zap.Logger) (res CLIResult, execErr error) {
	res.ExitCode = ExitInternalError
	if builder == nil {
		return res, fmt.Errorf("nil corpus builder")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	logger = logger.With(
		zap.String("run_id", uuid.NewString()),
		zap.String("command", string(inv.Command)),
	)

	cfg, err := config.Load(inv.ConfigPath)
	if err != nil {
		logger.Error("load config", zap.Error(err))
		res.ExitCode = ExitConfigError
		return res, err
	}
	if inv.Workers > 0 {
		cfg.Workers = inv.Workers
	}
	if inv.AliasZeroStart != nil {
		cfg.Compat.AliasZeroStart = *inv.AliasZeroStart
	}

	grid := cfg.CorpusGrid()
	fingerprint := corpus.ComputeFingerprint(grid, cfg.Reference, cfg.Compat.AliasZeroStart)
	logger = logger.With(zap.String("corpus", fingerprint.String()))

	rec := trace.NewRecorder()
	traceWriter, err := newTraceWriter(inv, fingerprint.String())
	if err != nil {
		logger.Error("init trace", zap.String("path", inv.Trace.Path), zap.Error(err))
		res.ExitCode = ExitArtifactFailure
		return res, err
	}
	defer func() {
		// Always finalize trace output deterministically.
		h, ferr := traceWriter.Finalize(rec)
		if ferr != nil {
			logger.Warn("finalize trace", zap.String("path", inv.Trace.Path), zap.Error(ferr))
			return
		}
		res.TraceHash = h
	}()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("internal error", zap.Any("panic", r))
			res.ExitCode = ExitInternalError
			execErr = fmt.Errorf("internal error: %v", r)
		}
	}()

	dir := inv.ArtifactDir
	if dir == "" {
		if dir, err = resolveDirUnderWorkDir(inv.WorkDir, cfg.Output.Dir); err != nil {
			res.ExitCode = ExitConfigError
			return res, err
		}
	}

	switch inv.Command {
	case CommandGenerate:
		return runGenerate(ctx, cfg, dir, builder, rec, logger, res)
	case CommandVerify:
		return runVerify(ctx, cfg, inv, dir, builder, rec, logger, res)
	default:
		res.ExitCode = ExitInvalidInvocation
		return res, invalidInvocationf("unknown command %q", inv.Command)
	}
}

func buildCorpus(ctx context.Context, cfg config.Config, builder CorpusBuilder, rec trace.Sink, logger *zap.Logger) (corpus.Corpus, error) {
	c, err := builder.Build(ctx, cfg.CorpusGrid(), cfg.Reference,
		corpus.WithWorkers(cfg.Workers),
		corpus.WithLogger(logger),
	)
	if err != nil {
		return corpus.Corpus{}, err
	}
	trace.SafeRecord(rec, trace.Event{Kind: trace.EventCorpusBuilt, Count: c.Len()})
	if cfg.Compat.AliasZeroStart {
		var n int
		c, n = corpus.AliasZeroStart(c)
		trace.SafeRecord(rec, trace.Event{Kind: trace.EventZeroStartAliased, Count: n})
		logger.Info("aliased zero-start entries", zap.Int("count", n))
	}
	logger.Info("corpus built", zap.Int("entries", c.Len()), zap.Int("workers", cfg.Workers))
	return c, nil
}

// buildExitCode maps a corpus build failure to an exit code.
func buildExitCode(err error) int {
	switch {
	case errors.Is(err, corpus.ErrInvalidGrid):
		return ExitConfigError
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ExitArtifactFailure
	default:
		return ExitInternalError
	}
}

func runGenerate(ctx context.Context, cfg config.Config, dir string, builder CorpusBuilder, rec trace.Sink, logger *zap.Logger, res CLIResult) (CLIResult, error) {
	c, err := buildCorpus(ctx, cfg, builder, rec, logger)
	if err != nil {
		logger.Error("build corpus", zap.Error(err))
		res.ExitCode = buildExitCode(err)
		return res, err
	}
	res.Entries = c.Len()

	set, err := export.Render(c, cfg.Output.Names, cfg.Output.GzipLevel)
	if err != nil {
		logger.Error("render artifacts", zap.Error(err))
		res.ExitCode = ExitInternalError
		return res, err
	}

	results, err := export.WriteAll(ctx, dir, set, logger)
	if results == nil && err != nil {
		// The output directory itself is unusable.
		logger.Error("prepare output dir", zap.String("dir", dir), zap.Error(err))
		res.ExitCode = ExitConfigError
		return res, err
	}
	res.Results = results
	for _, r := range results {
		if r.Err != nil {
			trace.SafeRecord(rec, trace.Event{
				Kind:     trace.EventArtifactFailed,
				Artifact: string(r.Artifact.Format),
				Reason:   "IOFailure",
			})
			continue
		}
		trace.SafeRecord(rec, trace.Event{
			Kind:     trace.EventArtifactWritten,
			Artifact: string(r.Artifact.Format),
			Digest:   trace.Digest(r.Artifact.Content),
		})
	}
	if err != nil {
		res.ExitCode = ExitArtifactFailure
		return res, err
	}
	res.ExitCode = ExitSuccess
	return res, nil
}

func runVerify(ctx context.Context, cfg config.Config, inv CLIInvocation, dir string, builder CorpusBuilder, rec trace.Sink, logger *zap.Logger, res CLIResult) (CLIResult, error) {
	set, loadErr := export.Load(dir, cfg.Output.Names)
	if loadErr != nil {
		// Missing artifacts surface as failed "present" checks below.
		logger.Warn("load artifacts", zap.String("dir", dir), zap.Error(loadErr))
	}

	var want *corpus.Corpus
	if inv.Regenerate {
		c, err := buildCorpus(ctx, cfg, builder, rec, logger)
		if err != nil {
			logger.Error("regenerate corpus", zap.Error(err))
			res.ExitCode = buildExitCode(err)
			return res, err
		}
		res.Entries = c.Len()
		want = &c
	}

	report := export.Verify(set, want, inv.MaxMismatches)
	res.Report = report
	for _, c := range report.Checks {
		kind := trace.EventArtifactVerified
		if !c.OK {
			kind = trace.EventArtifactMismatch
			logger.Error("check failed", zap.String("format", string(c.Format)), zap.String("check", c.Subject), zap.String("detail", c.Detail))
		} else {
			logger.Debug("check passed", zap.String("format", string(c.Format)), zap.String("check", c.Subject))
		}
		trace.SafeRecord(rec, trace.Event{Kind: kind, Artifact: string(c.Format), Reason: c.Subject})
	}

	if err := report.Err(); err != nil {
		res.ExitCode = ExitArtifactFailure
		return res, err
	}
	logger.Info("artifacts verified", zap.String("dir", dir), zap.Int("checks", len(report.Checks)))
	res.ExitCode = ExitSuccess
	return res, nil
}

type traceFileWriter struct {
	enabled    bool
	path       string
	corpusHash string
}

func newTraceWriter(inv CLIInvocation, corpusHash string) (*traceFileWriter, error) {
	if !inv.Trace.Enabled {
		return &traceFileWriter{enabled: false}, nil
	}
	if inv.Trace.Path == "" {
		return nil, fmt.Errorf("trace enabled but path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(inv.Trace.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create trace dir: %w", err)
	}
	// Create an empty trace file eagerly so the destination is reserved and
	// so that even a panic results in a deterministic artifact.
	w := &traceFileWriter{enabled: true, path: inv.Trace.Path, corpusHash: corpusHash}
	_, err := w.write(trace.RunTrace{CorpusHash: corpusHash})
	return w, err
}

// Finalize writes the canonical trace of everything rec collected and returns
// its hash.
func (w *traceFileWriter) Finalize(rec *trace.Recorder) (string, error) {
	if w == nil || !w.enabled {
		return "", nil
	}
	return w.write(rec.Trace(w.corpusHash))
}

func (w *traceFileWriter) write(t trace.RunTrace) (string, error) {
	b, err := t.CanonicalJSON()
	if err != nil {
		return "", err
	}
	if err := export.WriteFileAtomic(w.path, b, 0o644); err != nil {
		return "", err
	}
	return trace.ComputeTraceHash(b), nil
}
