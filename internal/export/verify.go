package export

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"slicevec/internal/corpus"
)

// ErrMismatch is returned by Report.Err when any check failed.
var ErrMismatch = errors.New("artifact verification failed")

// Load reads the four artifacts named by names from dir. Every missing or
// unreadable file is reported; the returned set holds the ones that were read.
func Load(dir string, names Names) (ArtifactSet, error) {
	if err := names.Validate(); err != nil {
		return ArtifactSet{}, err
	}
	var set ArtifactSet
	var errs []error
	for _, f := range Formats {
		path := filepath.Join(dir, names.For(f))
		b, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("read %s artifact: %w", f, err))
			continue
		}
		set.Artifacts = append(set.Artifacts, Artifact{Format: f, Name: names.For(f), Content: b})
	}
	return set, errors.Join(errs...)
}

// Check is the outcome of one verification step.
type Check struct {
	Format Format
	// Subject names what was checked, e.g. "parse" or "matches compact".
	Subject string
	OK      bool
	Detail  string
}

func (c Check) String() string {
	status := "ok"
	if !c.OK {
		status = "FAIL"
	}
	if c.Detail == "" {
		return fmt.Sprintf("%s %s: %s", c.Format, c.Subject, status)
	}
	return fmt.Sprintf("%s %s: %s (%s)", c.Format, c.Subject, status, c.Detail)
}

// Report collects the checks of one Verify call.
type Report struct {
	Checks []Check

	// Mismatches lists entries that differ from the expected corpus, if one
	// was given.
	Mismatches []corpus.Mismatch
}

// OK reports whether every check passed.
func (r Report) OK() bool {
	for _, c := range r.Checks {
		if !c.OK {
			return false
		}
	}
	return true
}

// Err returns nil when every check passed, otherwise an ErrMismatch wrapping
// the failed checks.
func (r Report) Err() error {
	var failed []string
	for _, c := range r.Checks {
		if !c.OK {
			failed = append(failed, c.String())
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrMismatch, strings.Join(failed, "; "))
}

// Verify checks that the artifacts in set are consistent renderings of one
// corpus:
//
//   - the compact and pretty files parse, to the same entries;
//   - the gzip file decompresses to exactly the compact bytes;
//   - the base64 file decodes to exactly the gzip bytes, and decoding plus
//     decompressing it parses to the same entries as the compact file.
//
// When want is non-nil the compact corpus must also equal it entry for entry;
// up to limit differing entries are reported.
func Verify(set ArtifactSet, want *corpus.Corpus, limit int) Report {
	var r Report
	add := func(f Format, subject string, err error) bool {
		c := Check{Format: f, Subject: subject, OK: err == nil}
		if err != nil {
			c.Detail = err.Error()
		}
		r.Checks = append(r.Checks, c)
		return err == nil
	}
	artifact := func(f Format) ([]byte, bool) {
		a, ok := set.Get(f)
		if !ok {
			add(f, "present", errors.New("artifact missing"))
			return nil, false
		}
		return a.Content, true
	}

	compactBytes, haveCompact := artifact(FormatCompact)
	var compact corpus.Corpus
	if haveCompact {
		c, err := DecodeCompact(compactBytes)
		haveCompact = add(FormatCompact, "parse", err)
		compact = c
	}

	if prettyBytes, ok := artifact(FormatPretty); ok {
		pretty, err := DecodeCompact(prettyBytes)
		if add(FormatPretty, "parse", err) && haveCompact {
			add(FormatPretty, "matches compact", corpusMismatch(compact, pretty))
		}
	}

	gzBytes, haveGzip := artifact(FormatGzip)
	if haveGzip {
		payload, err := Decompress(gzBytes)
		if add(FormatGzip, "decompress", err) && haveCompact {
			var cmpErr error
			if !bytes.Equal(payload, compactBytes) {
				cmpErr = fmt.Errorf("decompressed %d bytes differ from %d compact bytes", len(payload), len(compactBytes))
			}
			add(FormatGzip, "matches compact", cmpErr)
		}
	}

	if text, ok := artifact(FormatBase64); ok {
		raw, err := DecodeBase64(text)
		if add(FormatBase64, "decode", err) {
			if haveGzip {
				var cmpErr error
				if !bytes.Equal(raw, gzBytes) {
					cmpErr = errors.New("decoded bytes differ from gzip artifact")
				}
				add(FormatBase64, "matches gzip", cmpErr)
			}
			payload, err := Decompress(raw)
			if add(FormatBase64, "decompress", err) {
				round, err := DecodeCompact(payload)
				if add(FormatBase64, "parse", err) && haveCompact {
					add(FormatBase64, "round trip matches compact", corpusMismatch(compact, round))
				}
			}
		}
	}

	if want != nil && haveCompact {
		r.Mismatches = corpus.Diff(*want, compact, limit)
		var err error
		if len(r.Mismatches) > 0 {
			err = fmt.Errorf("%d differing entries, first: %s", len(r.Mismatches), r.Mismatches[0])
		}
		add(FormatCompact, "matches regenerated corpus", err)
	}
	return r
}

func corpusMismatch(want, got corpus.Corpus) error {
	d := corpus.Diff(want, got, 1)
	if len(d) == 0 {
		return nil
	}
	return errors.New(d[0].String())
}
