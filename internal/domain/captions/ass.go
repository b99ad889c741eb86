package captions

import (
	"fmt"
	"strings"
)

// RenderASS renders display lines into an ASS subtitle document targeting
// the vertical canvas. Event times are normalized to clip-local offsets
// because the renderer burns per-clip subtitle files, not full-timeline
// subtitles.
//
// Each line stays on screen until the next line appears (the growing-track
// aesthetic: words are never faded out, only replaced by the next line).
// Word emphasis is encoded with karaoke timing; the fade-in matches the
// frame-level animation constants.
func RenderASS(lines []Line, clipStart float64, fps int) string {
	var b strings.Builder
	b.WriteString(assHeader())
	b.WriteString("\n[Events]\n")
	b.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")

	fadeMS := int(float64(FadeInFrames) / float64(fps) * 1000)
	for i, ln := range lines {
		start := ln.Start - clipStart
		end := ln.End - clipStart
		if i+1 < len(lines) {
			end = lines[i+1].Start - clipStart
		}
		if end <= start {
			continue
		}
		b.WriteString("Dialogue: 0,")
		b.WriteString(assTime(start))
		b.WriteString(",")
		b.WriteString(assTime(end))
		b.WriteString(",Vertical,,0,0,0,,")
		fmt.Fprintf(&b, "{\\fad(%d,0)}", fadeMS)
		for _, w := range ln.Words {
			durCS := int((w.End - w.Start) * 100)
			if durCS < 1 {
				durCS = 1
			}
			fmt.Fprintf(&b, "{\\k%d}%s ", durCS, sanitizeASS(w.Text))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func assHeader() string {
	return strings.TrimSpace(`
[Script Info]
ScriptType: v4.00+
PlayResX: 1080
PlayResY: 1920
ScaledBorderAndShadow: yes

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Vertical, Inter, 96, &H00FFFFFF, &H00FFD200, &H00000000, &H64000000, 1,0,0,0,100,100,0,0,1,6,2,2, 80,80,340,1
`)
}

func assTime(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	total := int(sec * 100) // centiseconds
	cs := total % 100
	s := (total / 100) % 60
	m := (total / 6000) % 60
	h := total / 360000
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, cs)
}

func sanitizeASS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "{", "(")
	s = strings.ReplaceAll(s, "}", ")")
	return strings.TrimSpace(s)
}
