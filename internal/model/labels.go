package model

// Lexical variants emitted by the audio and visual analyzers, mapped to
// canonical labels. This table is presentation-only: fusion and insight rules
// operate on the literal labels and never consult it.
var labelSynonyms = map[string]string{
	"happy":     EmotionJoy,
	"joyful":    EmotionJoy,
	"sad":       EmotionSadness,
	"angry":     EmotionAnger,
	"mad":       EmotionAnger,
	"scared":    EmotionFear,
	"fearful":   EmotionFear,
	"surprised": EmotionSurprise,
	"disgusted": EmotionDisgust,
	"calm":      EmotionNeutral,
}

// CanonicalLabel folds a lexical variant onto its canonical label. Unknown
// labels are returned unchanged.
func CanonicalLabel(label string) string {
	if canonical, ok := labelSynonyms[label]; ok {
		return canonical
	}
	return label
}

var labelIcons = map[string]string{
	EmotionJoy:      "😊",
	EmotionSadness:  "😢",
	EmotionAnger:    "😠",
	EmotionFear:     "😨",
	EmotionSurprise: "😲",
	EmotionNeutral:  "😐",
	EmotionDisgust:  "🤢",
}

// LabelIcon returns a display icon for a label, folding lexical variants
// first. Labels without an icon get a neutral placeholder.
func LabelIcon(label string) string {
	if icon, ok := labelIcons[CanonicalLabel(label)]; ok {
		return icon
	}
	return "·"
}
