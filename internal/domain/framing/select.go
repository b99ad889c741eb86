// Package framing derives vertical-crop framing plans from transcript
// segments and coarse speaker positions.
package framing

import "github.com/dmelnik/verticut/internal/types"

// Select returns the segments fully contained in [clipStart, clipEnd].
// A segment straddling a clip boundary is dropped entirely, not truncated:
// partial segments would attribute framing to a speaker who is only on
// screen for part of the window. Input order is preserved. An empty result
// is a valid state and must be handled by callers.
func Select(segments []types.TranscriptSegment, clipStart, clipEnd float64) []types.TranscriptSegment {
	var out []types.TranscriptSegment
	for _, s := range segments {
		if s.Start >= clipStart && s.End <= clipEnd {
			out = append(out, s)
		}
	}
	return out
}
