package story

import "strings"

// DefaultLanguage is the target language used when none is requested.
const DefaultLanguage = "English"

// Record is a structured story recovered from generated text. It is
// produced once by the parser and read-only for the rest of the pipeline.
type Record struct {
	ID       string   `json:"id,omitempty"`
	Title    string   `json:"title"`
	Body     string   `json:"story"`
	Scenes   []string `json:"scenes"`
	Moral    string   `json:"moral"`
	Culture  string   `json:"culture"`
	Language string   `json:"language"`
	Failed   bool     `json:"error,omitempty"`
}

// Request describes one story-generation request.
type Request struct {
	Prompt    string `json:"prompt"`
	Culture   string `json:"culture"`
	StoryType string `json:"story_type"`
	Tone      string `json:"tone"`
	Language  string `json:"language"`
	Custom    string `json:"custom"`
}

// SafeFileName reduces a story title to a filesystem-safe stem: only
// letters, digits, spaces, dashes and underscores survive, spaces become
// underscores, and the result is capped at 30 runes.
func SafeFileName(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	name := strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "_")
	runes := []rune(name)
	if len(runes) > 30 {
		name = string(runes[:30])
	}
	if name == "" {
		name = "story"
	}
	return name
}
