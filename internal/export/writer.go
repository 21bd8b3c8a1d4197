package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrIOFailure is the kind of every artifact write failure.
var ErrIOFailure = errors.New("artifact write failed")

// WriteError reports a single artifact that could not be written.
type WriteError struct {
	Format Format
	Path   string
	Err    error
}

func (e *WriteError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s (%s): %v", ErrIOFailure, e.Path, e.Format, e.Err)
}

// Is makes errors.Is(err, ErrIOFailure) hold for every WriteError.
func (e *WriteError) Is(target error) bool { return target == ErrIOFailure }

func (e *WriteError) Unwrap() error { return e.Err }

// WriteResult is the outcome of writing one artifact.
type WriteResult struct {
	Artifact Artifact
	Path     string
	Err      error
}

// WriteAll writes every artifact of set into dir.
//
// Writes are independent: each artifact is written atomically on its own and
// a failure never removes or rolls back another artifact. The returned results
// are in set order. The error joins one *WriteError per failed artifact and is
// nil when everything was written.
func WriteAll(ctx context.Context, dir string, set ArtifactSet, logger *zap.Logger) ([]WriteResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir == "" {
		return nil, fmt.Errorf("output dir is empty")
	}
	if err := prepareOutputDir(dir); err != nil {
		return nil, err
	}

	results := make([]WriteResult, len(set.Artifacts))
	var g errgroup.Group
	for i, a := range set.Artifacts {
		path := filepath.Join(dir, a.Name)
		results[i] = WriteResult{Artifact: a, Path: path}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = &WriteError{Format: a.Format, Path: path, Err: err}
				return nil
			}
			if err := WriteFileAtomic(path, a.Content, 0o644); err != nil {
				results[i].Err = &WriteError{Format: a.Format, Path: path, Err: err}
			}
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			logger.Error("artifact write failed",
				zap.String("format", string(r.Artifact.Format)),
				zap.String("path", r.Path),
				zap.Error(r.Err),
			)
			errs = append(errs, r.Err)
			continue
		}
		logger.Info("artifact written",
			zap.String("format", string(r.Artifact.Format)),
			zap.String("path", r.Path),
			zap.Int("bytes", len(r.Artifact.Content)),
		)
	}
	return results, errors.Join(errs...)
}

// prepareOutputDir creates dir when missing. Existing files are left alone;
// only the artifacts themselves are replaced.
func prepareOutputDir(dir string) error {
	clean := filepath.Clean(dir)
	info, err := os.Stat(clean)
	if err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(clean, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
			return nil
		}
		return fmt.Errorf("stat output dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output dir is not a directory: %s", clean)
	}
	return nil
}

// WriteFileAtomic writes data to a temporary file next to path and renames it
// into place, so readers see either the old or the new content.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	_ = syncDir(dir) // best-effort; not every platform can fsync a directory
	return nil
}

func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
