package tts

import "strings"

// Voices maps display names to Edge neural voice identifiers. These are
// also accepted by the Google engine as a preference hint; unknown names
// fall through to the engine default.
var Voices = map[string]string{
	"Jenny (US, Clear)":      "en-US-JennyNeural",
	"Aria (US, Warm)":        "en-US-AriaNeural",
	"Guy (US, Male)":         "en-US-GuyNeural",
	"Davis (US, Male Deep)":  "en-US-DavisNeural",
	"Sonia (UK, Expressive)": "en-GB-SoniaNeural",
	"Ryan (UK, Male)":        "en-GB-RyanNeural",
	"Natasha (AU, Female)":   "en-AU-NatashaNeural",
	"William (AU, Male)":     "en-AU-WilliamNeural",
	"Libby (UK, Warm)":       "en-GB-LibbyNeural",
	"Maisie (UK, Young)":     "en-GB-MaisieNeural",
	"Ana (US, Child)":        "en-US-AnaNeural",
	"Christopher (US, News)": "en-US-ChristopherNeural",
}

// Positive and negative word lists for the coarse polarity scan behind
// MoodVoice. Narration text is informal prose, so a small lexicon is
// enough to split warm tales from dark ones.
var (
	positiveWords = []string{
		"joy", "happy", "laugh", "love", "kind", "bright", "warm",
		"triumph", "celebrate", "beautiful", "hope", "gentle", "wonder",
	}
	negativeWords = []string{
		"dark", "fear", "death", "cruel", "storm", "war", "sorrow",
		"betray", "danger", "shadow", "grief", "curse", "vengeance",
	}
)

// Mood labels returned by AnalyzeMood.
const (
	MoodPositive = "positive"
	MoodDramatic = "dramatic"
	MoodNeutral  = "neutral"
)

const moodSampleLen = 1000

// AnalyzeMood scans the opening of the narration and classifies its
// tone. Only the first 1000 runes matter; openings set the voice.
func AnalyzeMood(text string) string {
	runes := []rune(strings.ToLower(text))
	if len(runes) > moodSampleLen {
		runes = runes[:moodSampleLen]
	}
	sample := string(runes)

	score := 0
	for _, w := range positiveWords {
		score += strings.Count(sample, w)
	}
	for _, w := range negativeWords {
		score -= strings.Count(sample, w)
	}

	switch {
	case score > 1:
		return MoodPositive
	case score < -1:
		return MoodDramatic
	default:
		return MoodNeutral
	}
}

// PickVoice resolves the narration voice for a synthesis call. An
// explicit request wins, accepting both display names from Voices and
// raw voice identifiers; otherwise the story's mood decides.
func PickVoice(requested, text string) (voice, rate string) {
	if requested != "" {
		if id, ok := Voices[requested]; ok {
			return id, ""
		}
		return requested, ""
	}
	return MoodVoice(text)
}

// MoodVoice picks a narration voice and speaking-rate adjustment from
// the story's mood: warm stories narrate a touch faster, dramatic ones
// slower and in a heavier voice.
func MoodVoice(text string) (voice, rate string) {
	switch AnalyzeMood(text) {
	case MoodPositive:
		return "en-US-AriaNeural", "+5%"
	case MoodDramatic:
		return "en-GB-SoniaNeural", "-10%"
	default:
		return "en-US-JennyNeural", "+0%"
	}
}
