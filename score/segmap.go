package score

import (
	"strings"

	"github.com/nirmaan-labs/intro-coach/transcribe"
)

// boundarySlack lets an offset reported just past a segment's end still map
// into that segment, absorbing join-boundary drift from the grammar checker.
const boundarySlack = 5

type segRange struct {
	startChar int
	endChar   int
	seg       transcribe.Segment
}

// SegmentMapper projects character offsets in the flattened transcript onto
// the recording's time axis. The flattened transcript is assumed to be the
// in-order concatenation of segment texts with no separators.
type SegmentMapper struct {
	ranges []segRange
}

func NewSegmentMapper(segs []transcribe.Segment) *SegmentMapper {
	m := &SegmentMapper{ranges: make([]segRange, 0, len(segs))}
	cursor := 0
	for _, s := range segs {
		m.ranges = append(m.ranges, segRange{
			startChar: cursor,
			endChar:   cursor + len(s.Text),
			seg:       s,
		})
		cursor += len(s.Text)
	}
	return m
}

// Matches reports whether the concatenated segment texts reproduce the
// flattened transcript the offsets were computed against. A mismatch means
// event timestamps may drift and is worth a warning upstream.
func (m *SegmentMapper) Matches(fullText string) bool {
	var b strings.Builder
	for _, r := range m.ranges {
		b.WriteString(r.seg.Text)
	}
	return b.String() == fullText
}

// Locate returns the interpolated timestamp and segment text for a character
// offset. ok is false when no segment range (with slack) contains the offset;
// such findings simply produce no time-anchored event.
func (m *SegmentMapper) Locate(offset int) (float64, string, bool) {
	for _, r := range m.ranges {
		if offset < r.startChar || offset > r.endChar+boundarySlack {
			continue
		}
		local := offset - r.startChar
		if local < 0 {
			local = 0
		}
		span := r.endChar - r.startChar
		ratio := 0.0
		if span > 0 {
			ratio = float64(local) / float64(span)
			if ratio > 1 {
				ratio = 1
			}
		}
		t := r.seg.Start + ratio*(r.seg.End-r.seg.Start)
		return t, r.seg.Text, true
	}
	return 0, "", false
}
