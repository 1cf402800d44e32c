package diarize

import (
	"github.com/codebuildervaibhav/meeting-pipeline/internal/types"
)

// AlignSegments maps each transcript segment onto the speaker label of the
// window containing its start time: index floor(start / windowSec), clamped
// to [0, len(labels)-1]. A segment spanning multiple windows is attributed
// entirely to the window its start falls in. Output preserves input order;
// empty input yields empty output.
//
// Segments are clamped independently, so out-of-order or overlapping
// timestamps from the ASR backend degrade gracefully instead of failing.
func AlignSegments(segments []types.TranscriptSegment, labels []int, windowSec float64) []types.SpeakerLine {
	if len(labels) == 0 || windowSec <= 0 {
		return nil
	}

	lines := make([]types.SpeakerLine, 0, len(segments))
	for _, seg := range segments {
		idx := int(seg.Start / windowSec)
		if idx < 0 {
			idx = 0
		}
		if idx >= len(labels) {
			idx = len(labels) - 1
		}
		lines = append(lines, types.SpeakerLine{
			Speaker: labels[idx],
			Text:    seg.Text,
		})
	}
	return lines
}
