package types

// SpeakerPosition is the coarse horizontal placement of a speaker in the
// source frame, as detected by the upstream analysis stage.
type SpeakerPosition string

const (
	PositionLeft    SpeakerPosition = "left"
	PositionRight   SpeakerPosition = "right"
	PositionCenter  SpeakerPosition = "center"
	PositionUnknown SpeakerPosition = "unknown"
)

type Speaker struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Position    SpeakerPosition `json:"position"`
}

type Word struct {
	Text       string  `json:"text"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence,omitempty"`
}

type TranscriptSegment struct {
	SpeakerID string  `json:"speaker_id"`
	Text      string  `json:"text"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	Words     []Word  `json:"words,omitempty"`
}

type Transcript struct {
	Segments []TranscriptSegment `json:"segments"`
}

// ClipRequest is one render job: a bounded window of the source video.
type ClipRequest struct {
	ClipStart float64 `json:"clip_start"`
	ClipEnd   float64 `json:"clip_end"`
	Title     string  `json:"title,omitempty"`
}

type Manifest struct {
	Input string         `json:"input"`
	RunID string         `json:"run_id"`
	Clips []ManifestClip `json:"clips"`
}

type ManifestClip struct {
	ID        string  `json:"id"`
	StartSec  float64 `json:"start_sec"`
	EndSec    float64 `json:"end_sec"`
	Title     string  `json:"title,omitempty"`
	File      string  `json:"file"`
	Subtitles string  `json:"subtitles,omitempty"`
	// FilterProgram and Command are kept verbatim so a failed render can be
	// replayed by hand against the same ffmpeg build.
	FilterProgram string   `json:"filter_program"`
	Command       []string `json:"command,omitempty"`
	Segments      int      `json:"segments"`
}
