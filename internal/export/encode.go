package export

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/gzip"

	"slicevec/internal/corpus"
)

// DefaultGzipLevel matches the level the reference artifacts were produced
// with.
const DefaultGzipLevel = gzip.BestCompression

// EncodeCompact returns the corpus as JSON with no insignificant whitespace.
func EncodeCompact(c corpus.Corpus) ([]byte, error) {
	b, err := c.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode compact: %w", err)
	}
	return b, nil
}

// EncodePretty returns the corpus as tab-indented JSON. Every array element
// sits on its own line, empty arrays stay "[]", and there is no trailing
// newline.
func EncodePretty(c corpus.Corpus) ([]byte, error) {
	compact, err := EncodeCompact(c)
	if err != nil {
		return nil, err
	}
	return indent(compact)
}

func indent(compact []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(compact) * 3)
	if err := json.Indent(&buf, compact, "", "\t"); err != nil {
		return nil, fmt.Errorf("encode pretty: %w", err)
	}
	return buf.Bytes(), nil
}

// Compress gzips payload at the given level.
//
// The header carries no file name and a zero modification time, so equal
// payloads always compress to equal bytes.
func Compress(payload []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("gzip writer: %w", err)
	}
	zw.Header.ModTime = time.Time{}
	zw.Header.Name = ""
	if _, err := zw.Write(payload); err != nil {
		_ = zw.Close()
		return nil, fmt.Errorf("gzip write: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("gzip close: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress reverses Compress.
func Decompress(compressed []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("gzip reader: %w", err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("gzip read: %w", err)
	}
	return out, nil
}

// EncodeBase64 returns the standard, padded base64 encoding of b on a single
// line.
func EncodeBase64(b []byte) []byte {
	out := make([]byte, base64.StdEncoding.EncodedLen(len(b)))
	base64.StdEncoding.Encode(out, b)
	return out
}

// DecodeBase64 reverses EncodeBase64. Surrounding whitespace and line breaks
// are tolerated.
func DecodeBase64(text []byte) ([]byte, error) {
	clean := bytes.TrimSpace(text)
	out := make([]byte, base64.StdEncoding.DecodedLen(len(clean)))
	n, err := base64.StdEncoding.Decode(out, clean)
	if err != nil {
		return nil, fmt.Errorf("base64 decode: %w", err)
	}
	return out[:n], nil
}

// DecodeCompact parses either JSON rendering back into a corpus.
func DecodeCompact(b []byte) (corpus.Corpus, error) {
	var c corpus.Corpus
	if err := json.Unmarshal(b, &c); err != nil {
		return corpus.Corpus{}, fmt.Errorf("decode corpus: %w", err)
	}
	return c, nil
}

// Render produces all four artifacts of c.
func Render(c corpus.Corpus, names Names, level int) (ArtifactSet, error) {
	if err := names.Validate(); err != nil {
		return ArtifactSet{}, err
	}
	compact, err := EncodeCompact(c)
	if err != nil {
		return ArtifactSet{}, err
	}
	pretty, err := indent(compact)
	if err != nil {
		return ArtifactSet{}, err
	}
	gz, err := Compress(compact, level)
	if err != nil {
		return ArtifactSet{}, err
	}
	text := EncodeBase64(gz)

	return ArtifactSet{Artifacts: []Artifact{
		{Format: FormatCompact, Name: names.Compact, Content: compact},
		{Format: FormatPretty, Name: names.Pretty, Content: pretty},
		{Format: FormatGzip, Name: names.Gzip, Content: gz},
		{Format: FormatBase64, Name: names.Base64, Content: text},
	}}, nil
}
