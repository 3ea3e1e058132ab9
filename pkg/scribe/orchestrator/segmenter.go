package orchestrator

import "strings"

const (
	reasoningOpen  = "<think>"
	reasoningClose = "</think>"
)

// Segment classifies a streamed span of model output.
type Segment string

const (
	SegmentReasoning Segment = "reasoning"
	SegmentContent   Segment = "content"
)

type span struct {
	segment Segment
	text    string
}

// segmenter splits a raw delta stream into reasoning and content spans.
// Markers may arrive split across chunk boundaries, so a suffix that could
// be the start of a marker is held back until the next feed.
type segmenter struct {
	inReasoning bool
	carry       string
}

func newSegmenter() *segmenter {
	return &segmenter{}
}

func (s *segmenter) current() Segment {
	if s.inReasoning {
		return SegmentReasoning
	}
	return SegmentContent
}

func (s *segmenter) marker() string {
	if s.inReasoning {
		return reasoningClose
	}
	return reasoningOpen
}

func (s *segmenter) feed(chunk string) []span {
	buf := s.carry + chunk
	s.carry = ""

	var spans []span
	for {
		marker := s.marker()
		idx := strings.Index(buf, marker)
		if idx < 0 {
			break
		}
		if idx > 0 {
			spans = append(spans, span{segment: s.current(), text: buf[:idx]})
		}
		s.inReasoning = !s.inReasoning
		buf = buf[idx+len(marker):]
	}

	// Hold back a trailing partial marker
	if n := partialMarkerSuffix(buf, s.marker()); n > 0 {
		s.carry = buf[len(buf)-n:]
		buf = buf[:len(buf)-n]
	}
	if buf != "" {
		spans = append(spans, span{segment: s.current(), text: buf})
	}
	return spans
}

// flush releases anything still held back. Called once the stream ends.
func (s *segmenter) flush() []span {
	if s.carry == "" {
		return nil
	}
	out := []span{{segment: s.current(), text: s.carry}}
	s.carry = ""
	return out
}

// partialMarkerSuffix returns the length of the longest suffix of s that is
// a proper prefix of marker.
func partialMarkerSuffix(s, marker string) int {
	max := len(marker) - 1
	if max > len(s) {
		max = len(s)
	}
	for n := max; n > 0; n-- {
		if strings.HasSuffix(s, marker[:n]) {
			return n
		}
	}
	return 0
}
