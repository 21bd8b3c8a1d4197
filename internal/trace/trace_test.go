package trace

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalTraceStability_ByteForByte(t *testing.T) {
	trace1 := RunTrace{
		CorpusHash: "corpus-abc",
		Events: []Event{
			{Kind: EventArtifactWritten, Artifact: "pretty", Digest: "d2"},
			{Kind: EventCorpusBuilt, Count: 12},
			{Kind: EventArtifactFailed, Artifact: "gzip", Reason: "IOFailure"},
		},
	}

	trace2 := RunTrace{
		CorpusHash: "corpus-abc",
		Events: []Event{
			{Kind: EventArtifactFailed, Artifact: "gzip", Reason: "IOFailure"},
			{Kind: EventCorpusBuilt, Count: 12},
			{Kind: EventArtifactWritten, Artifact: "pretty", Digest: "d2"},
		},
	}

	b1, err := trace1.CanonicalJSON()
	require.NoError(t, err)
	b2, err := trace2.CanonicalJSON()
	require.NoError(t, err)
	assert.Equal(t, string(b1), string(b2))
}

func TestCanonicalOrdering_CorpusEventsFirst(t *testing.T) {
	tr := RunTrace{
		CorpusHash: "c",
		Events: []Event{
			{Kind: EventArtifactWritten, Artifact: "gzip", Digest: "ab"},
			{Kind: EventArtifactWritten, Artifact: "compact", Digest: "cd"},
			{Kind: EventZeroStartAliased, Count: 3},
			{Kind: EventCorpusBuilt, Count: 9},
		},
	}
	b, err := tr.CanonicalJSON()
	require.NoError(t, err)
	expected := `{"corpusHash":"c","events":[` +
		`{"kind":"CorpusBuilt","count":9},` +
		`{"kind":"ZeroStartAliased","count":3},` +
		`{"kind":"ArtifactWritten","artifact":"compact","digest":"cd"},` +
		`{"kind":"ArtifactWritten","artifact":"gzip","digest":"ab"}]}`
	assert.Equal(t, expected, string(b))
}

func TestCanonicalJSON_DoesNotMutateCaller(t *testing.T) {
	events := []Event{
		{Kind: EventArtifactWritten, Artifact: "pretty"},
		{Kind: EventCorpusBuilt, Count: 1},
	}
	tr := RunTrace{CorpusHash: "c", Events: events}
	_, err := tr.CanonicalJSON()
	require.NoError(t, err)
	assert.Equal(t, EventArtifactWritten, events[0].Kind, "caller slice was reordered")
}

func TestHash_IgnoresInsertionOrder(t *testing.T) {
	tr1 := RunTrace{CorpusHash: "g", Events: []Event{
		{Kind: EventArtifactVerified, Artifact: "base64", Reason: "round trip"},
		{Kind: EventArtifactVerified, Artifact: "compact", Reason: "parse"},
	}}
	tr2 := RunTrace{CorpusHash: "g", Events: []Event{
		{Kind: EventArtifactVerified, Artifact: "compact", Reason: "parse"},
		{Kind: EventArtifactVerified, Artifact: "base64", Reason: "round trip"},
	}}

	h1, err := tr1.Hash()
	require.NoError(t, err)
	h2, err := tr2.Hash()
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64, "sha256 hex digest")
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		tr   RunTrace
	}{
		{"missing corpus hash", RunTrace{}},
		{"missing kind", RunTrace{CorpusHash: "c", Events: []Event{{Artifact: "gzip"}}}},
		{"artifact event without artifact", RunTrace{CorpusHash: "c", Events: []Event{{Kind: EventArtifactWritten}}}},
		{"negative count", RunTrace{CorpusHash: "c", Events: []Event{{Kind: EventCorpusBuilt, Count: -1}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.tr.CanonicalJSON()
			assert.Error(t, err)
		})
	}
}

func TestRecorder_ConcurrentRecordsAreCanonical(t *testing.T) {
	r := NewRecorder()
	formats := []string{"compact", "pretty", "gzip", "base64"}

	var wg sync.WaitGroup
	for _, f := range formats {
		wg.Add(1)
		go func() {
			defer wg.Done()
			SafeRecord(r, Event{Kind: EventArtifactWritten, Artifact: f, Digest: Digest([]byte(f))})
		}()
	}
	wg.Wait()

	tr := r.Trace("c")
	require.Len(t, tr.Events, len(formats))
	var got []string
	for _, e := range tr.Events {
		got = append(got, e.Artifact)
	}
	assert.Equal(t, []string{"base64", "compact", "gzip", "pretty"}, got)
}

func TestComputeTraceHash(t *testing.T) {
	assert.Empty(t, ComputeTraceHash(nil))
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Digest(nil))
	assert.Equal(t, Digest([]byte("x")), ComputeTraceHash([]byte("x")))
}

type panicSink struct{}

func (panicSink) Record(Event) { panic("boom") }

func TestSafeRecord_SwallowsPanics(t *testing.T) {
	assert.NotPanics(t, func() {
		SafeRecord(panicSink{}, Event{Kind: EventCorpusBuilt})
		SafeRecord(nil, Event{Kind: EventCorpusBuilt})
		NopSink{}.Record(Event{Kind: EventCorpusBuilt})
	})
}
