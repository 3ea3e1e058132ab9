package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func collect(spans []span) (reasoning, content string) {
	for _, sp := range spans {
		if sp.segment == SegmentReasoning {
			reasoning += sp.text
		} else {
			content += sp.text
		}
	}
	return reasoning, content
}

func TestSegmenterPlainContent(t *testing.T) {
	s := newSegmenter()
	reasoning, content := collect(s.feed("just a normal answer"))
	assert.Empty(t, reasoning)
	assert.Equal(t, "just a normal answer", content)
	assert.Empty(t, s.flush())
}

func TestSegmenterSingleChunk(t *testing.T) {
	s := newSegmenter()
	spans := s.feed("<think>weighing options</think>Final answer.")
	spans = append(spans, s.flush()...)

	reasoning, content := collect(spans)
	assert.Equal(t, "weighing options", reasoning)
	assert.Equal(t, "Final answer.", content)
}

func TestSegmenterMarkerSplitAcrossChunks(t *testing.T) {
	s := newSegmenter()
	var spans []span
	for _, chunk := range []string{"<th", "ink>step one", " step two</thi", "nk>done"} {
		spans = append(spans, s.feed(chunk)...)
	}
	spans = append(spans, s.flush()...)

	reasoning, content := collect(spans)
	assert.Equal(t, "step one step two", reasoning)
	assert.Equal(t, "done", content)
}

func TestSegmenterUnterminatedReasoning(t *testing.T) {
	s := newSegmenter()
	var spans []span
	spans = append(spans, s.feed("<think>never closed")...)
	spans = append(spans, s.flush()...)

	reasoning, content := collect(spans)
	assert.Equal(t, "never closed", reasoning)
	assert.Empty(t, content)
}

func TestSegmenterFlushReleasesFalseMarkerPrefix(t *testing.T) {
	s := newSegmenter()
	var spans []span
	spans = append(spans, s.feed("answer <thi")...)
	spans = append(spans, s.flush()...)

	reasoning, content := collect(spans)
	assert.Empty(t, reasoning)
	assert.Equal(t, "answer <thi", content)
}

func TestSegmenterAngleBracketContentSurvives(t *testing.T) {
	s := newSegmenter()
	var spans []span
	spans = append(spans, s.feed("use a <thread> pool here")...)
	spans = append(spans, s.flush()...)

	reasoning, content := collect(spans)
	assert.Empty(t, reasoning)
	assert.Equal(t, "use a <thread> pool here", content)
}
