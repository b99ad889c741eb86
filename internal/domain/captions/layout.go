// Package captions lays out word-timed subtitles and computes per-frame
// visual state for each word.
package captions

import (
	"strings"

	"github.com/dmelnik/verticut/internal/types"
)

// WordsPerLine is the fixed display-line size. Three words keeps each line
// readable at vertical-video font sizes.
const WordsPerLine = 3

// Line is one display group of up to WordsPerLine words.
type Line struct {
	Words []types.Word
	Start float64
	End   float64
}

// Layout flattens words across segments in segment order and partitions
// them into fixed-size lines. A trailing partial line of 1-2 words is kept
// as a short line rather than merged or dropped. Deterministic and
// stateless: identical input yields identical output.
func Layout(segments []types.TranscriptSegment) []Line {
	words := flattenWords(segments)
	if len(words) == 0 {
		return nil
	}
	lines := make([]Line, 0, (len(words)+WordsPerLine-1)/WordsPerLine)
	for i := 0; i < len(words); i += WordsPerLine {
		j := i + WordsPerLine
		if j > len(words) {
			j = len(words)
		}
		group := words[i:j]
		lines = append(lines, Line{
			Words: group,
			Start: group[0].Start,
			End:   group[len(group)-1].End,
		})
	}
	return lines
}

func flattenWords(segments []types.TranscriptSegment) []types.Word {
	var out []types.Word
	for _, s := range segments {
		for _, w := range s.Words {
			// ASR output may carry spacing tokens with empty text.
			if strings.TrimSpace(w.Text) == "" {
				continue
			}
			out = append(out, w)
		}
	}
	return out
}
