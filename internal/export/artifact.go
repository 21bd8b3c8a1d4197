// Package export renders a corpus into its serialized artifacts and writes
// them to disk.
package export

import (
	"fmt"
	"strings"
)

// Format identifies one of the four corpus encodings.
type Format string

const (
	// FormatCompact is single-line JSON without insignificant whitespace.
	FormatCompact Format = "compact"
	// FormatPretty is tab-indented, newline-separated JSON.
	FormatPretty Format = "pretty"
	// FormatGzip is the gzip compression of the compact bytes.
	FormatGzip Format = "gzip"
	// FormatBase64 is the standard base64 encoding of the gzip bytes.
	FormatBase64 Format = "base64"
)

// Formats lists every format in emission order.
var Formats = []Format{FormatCompact, FormatPretty, FormatGzip, FormatBase64}

// Names maps each format to the file name it is written under.
type Names struct {
	Compact string `yaml:"compact" validate:"required,excludesall=/\\"`
	Pretty  string `yaml:"pretty" validate:"required,excludesall=/\\"`
	Gzip    string `yaml:"gzip" validate:"required,excludesall=/\\"`
	Base64  string `yaml:"base64" validate:"required,excludesall=/\\"`
}

// DefaultNames returns the file names the reference artifacts are published
// under.
func DefaultNames() Names {
	return Names{
		Compact: "test.json",
		Pretty:  "test2.json",
		Gzip:    "test.gz",
		Base64:  "test.txt",
	}
}

// For returns the file name of format f.
func (n Names) For(f Format) string {
	switch f {
	case FormatCompact:
		return n.Compact
	case FormatPretty:
		return n.Pretty
	case FormatGzip:
		return n.Gzip
	case FormatBase64:
		return n.Base64
	default:
		return ""
	}
}

// Validate checks that every name is set, is a bare file name and is unique.
func (n Names) Validate() error {
	seen := make(map[string]Format, len(Formats))
	for _, f := range Formats {
		name := n.For(f)
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("artifact name for %s is empty", f)
		}
		if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
			return fmt.Errorf("artifact name for %s must be a bare file name (got %q)", f, name)
		}
		if other, ok := seen[name]; ok {
			return fmt.Errorf("artifact name %q used for both %s and %s", name, other, f)
		}
		seen[name] = f
	}
	return nil
}

// Artifact is one rendered encoding of the corpus.
type Artifact struct {
	Format Format

	// Name is the file name the artifact is written under.
	Name string

	// Content is the exact byte payload.
	Content []byte
}

// ArtifactSet holds the artifacts of one corpus in Formats order.
type ArtifactSet struct {
	Artifacts []Artifact
}

// Get returns the artifact of format f.
func (s ArtifactSet) Get(f Format) (Artifact, bool) {
	for _, a := range s.Artifacts {
		if a.Format == f {
			return a, true
		}
	}
	return Artifact{}, false
}
