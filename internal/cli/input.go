package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

const (
	ExitSuccess           = 0
	ExitArtifactFailure   = 1
	ExitInvalidInvocation = 2
	ExitConfigError       = 3
	ExitInternalError     = 4
)

// Command selects what a run does.
type Command string

const (
	CommandGenerate Command = "generate"
	CommandVerify   Command = "verify"
)

type TraceConfig struct {
	Enabled bool
	Path    string
}

// CLIInvocation is the fully canonicalized description of a run.
//
// All paths are cleaned, and relative paths are resolved against WorkDir,
// which is always absolute. Empty ConfigPath means built-in defaults; empty
// ArtifactDir means the directory named by the configuration.
type CLIInvocation struct {
	Command     Command
	WorkDir     string
	ConfigPath  string
	ArtifactDir string
	Trace       TraceConfig
	Verbose     bool

	// Workers overrides the configured worker count when positive.
	Workers int
	// AliasZeroStart overrides the configured compat switch when non-nil.
	AliasZeroStart *bool

	// Regenerate makes verify compare the artifacts against a freshly built
	// corpus, not only against each other.
	Regenerate bool
	// MaxMismatches caps how many differing entries verify reports.
	MaxMismatches int

	OriginalConfig   string
	OriginalArtifact string
	OriginalTrace    string
}

type InvocationError struct {
	ExitCode int
	Message  string
}

func (e *InvocationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func invalidInvocationf(format string, args ...any) error {
	return &InvocationError{ExitCode: ExitInvalidInvocation, Message: fmt.Sprintf(format, args...)}
}

// ErrNoCommand is returned by ParseInvocation when the arguments only asked
// for help.
var ErrNoCommand = errors.New("no command to run")

// ParseInvocation parses CLI arguments into a canonical CLIInvocation without
// running anything.
func ParseInvocation(args []string) (CLIInvocation, error) {
	var inv CLIInvocation
	parsed := false
	root := newRootCommand(func(i CLIInvocation) error {
		inv = i
		parsed = true
		return nil
	})
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	if err := root.Execute(); err != nil {
		return CLIInvocation{}, asInvocationError(err)
	}
	if !parsed {
		return CLIInvocation{}, ErrNoCommand
	}
	return inv, nil
}

func asInvocationError(err error) error {
	var invErr *InvocationError
	if errors.As(err, &invErr) {
		return err
	}
	return invalidInvocationf("%v", err)
}

type rawInvocation struct {
	command        Command
	workDir        string
	configPath     string
	artifactDir    string
	tracePath      string
	verbose        bool
	workers        int
	aliasZeroStart *bool
	regenerate     bool
	maxMismatches  int
}

// canonicalize validates raw flag values and resolves every path under the
// work directory.
func canonicalize(raw rawInvocation) (CLIInvocation, error) {
	if strings.TrimSpace(raw.workDir) == "" {
		return CLIInvocation{}, invalidInvocationf("--workdir is required")
	}
	workDir := filepath.Clean(raw.workDir)
	if !filepath.IsAbs(workDir) {
		return CLIInvocation{}, invalidInvocationf("--workdir must be an absolute path (got %q)", raw.workDir)
	}
	if raw.workers < 0 || raw.workers > 256 {
		return CLIInvocation{}, invalidInvocationf("--workers must be between 0 and 256, 0 keeps the configured value (got %d)", raw.workers)
	}
	if raw.maxMismatches < 0 {
		return CLIInvocation{}, invalidInvocationf("--max-mismatches cannot be negative (got %d)", raw.maxMismatches)
	}

	inv := CLIInvocation{
		Command:          raw.command,
		WorkDir:          workDir,
		Verbose:          raw.verbose,
		Workers:          raw.workers,
		AliasZeroStart:   raw.aliasZeroStart,
		Regenerate:       raw.regenerate,
		MaxMismatches:    raw.maxMismatches,
		OriginalConfig:   raw.configPath,
		OriginalArtifact: raw.artifactDir,
		OriginalTrace:    raw.tracePath,
	}

	var err error
	if raw.configPath != "" {
		if inv.ConfigPath, err = resolveUnderWorkDir(workDir, raw.configPath); err != nil {
			return CLIInvocation{}, err
		}
	}
	if raw.artifactDir != "" {
		if inv.ArtifactDir, err = resolveDirUnderWorkDir(workDir, raw.artifactDir); err != nil {
			return CLIInvocation{}, err
		}
	}
	if strings.TrimSpace(raw.tracePath) != "" {
		p, err := resolveUnderWorkDir(workDir, raw.tracePath)
		if err != nil {
			return CLIInvocation{}, err
		}
		inv.Trace = TraceConfig{Enabled: true, Path: p}
	}
	return inv, nil
}

func resolveUnderWorkDir(workDir, p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", invalidInvocationf("path must not be empty")
	}
	clean := filepath.Clean(p)
	if clean == "." {
		return "", invalidInvocationf("path must not be '.'")
	}
	if filepath.IsAbs(clean) {
		return clean, nil
	}
	// WorkDir is absolute, so Join does not consult the process CWD.
	return filepath.Clean(filepath.Join(workDir, clean)), nil
}

// resolveDirUnderWorkDir is resolveUnderWorkDir that also accepts "." for the
// work directory itself.
func resolveDirUnderWorkDir(workDir, p string) (string, error) {
	if filepath.Clean(p) == "." {
		return workDir, nil
	}
	return resolveUnderWorkDir(workDir, p)
}

// ExitCode extracts a semantic exit code from an error.
// Unknown errors map to ExitInternalError.
func ExitCode(err error) int {
	var invErr *InvocationError
	if errors.As(err, &invErr) && invErr != nil {
		if invErr.ExitCode != 0 {
			return invErr.ExitCode
		}
		return ExitInvalidInvocation
	}
	if err == nil {
		return ExitSuccess
	}
	return ExitInternalError
}
