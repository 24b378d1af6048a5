package parse

import (
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"storyweave/internal/story"
)

// FallbackTitle is the last-resort title when nothing usable is found.
const FallbackTitle = "A Unique Tale"

var (
	titleRe   = regexp.MustCompile(`(?mi)^\s*\*{0,2}TITLE\*{0,2}\s*:\s*(.+)$`)
	headingRe = regexp.MustCompile(`(?m)^#{1,3}\s+(.+)$`)
	boldRe    = regexp.MustCompile(`(?m)^\s*\*\*([^*\n]+)\*\*\s*$`)

	storyBlockRe  = regexp.MustCompile(`(?si)\*{0,2}STORY\*{0,2}\s*:\*{0,2}\s*(.*?)(?:\*{0,2}SCENES\*{0,2}\s*:|\*{0,2}MORAL\*{0,2}\s*:|$)`)
	scenesBlockRe = regexp.MustCompile(`(?si)\*{0,2}SCENES\*{0,2}\s*:\*{0,2}\s*(.*?)(?:\*{0,2}MORAL\*{0,2}\s*:|$)`)
	ordinalRe     = regexp.MustCompile(`^\s*(?:\d+[\.\)]|[-*])\s*`)
	labelLineRe   = regexp.MustCompile(`(?mi)^\s*\*{0,2}(?:TITLE|STORY|SCENES|MORAL)\*{0,2}\s*:\s*`)
)

// Moral labels in recovery order. Generators writing in other languages
// frequently translate the label even when told not to. moralLineRes
// are the matching whole-line forms used to scrub the labels out of the
// narration text.
var (
	moralRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\*{0,2}MORAL\*{0,2}\s*:\s*\*{0,2}([^\n]+)`),
		regexp.MustCompile(`\*{0,2}नीति\*{0,2}\s*:\s*\*{0,2}([^\n]+)`),
		regexp.MustCompile(`\*{0,2}নীতিকথা\*{0,2}\s*:\s*\*{0,2}([^\n]+)`),
		regexp.MustCompile(`(?i)\*{0,2}Moraleja\*{0,2}\s*:\s*\*{0,2}([^\n]+)`),
		regexp.MustCompile(`(?i)\*{0,2}Morale\*{0,2}\s*:\s*\*{0,2}([^\n]+)`),
		regexp.MustCompile(`(?i)the moral of (?:the|this) story (?:is|:)\s*([^\n]+)`),
		regexp.MustCompile(`(?i)moral of the story\s*:\s*([^\n]+)`),
		regexp.MustCompile(`(?i)\*{0,2}Lesson\*{0,2}\s*:\s*\*{0,2}([^\n]+)`),
		regexp.MustCompile(`(?i)\*{0,2}Teaching\*{0,2}\s*:\s*\*{0,2}([^\n]+)`),
	}

	moralLineRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\*{0,2}MORAL\*{0,2}\s*:[^\n]*\n?`),
		regexp.MustCompile(`\*{0,2}नीति\*{0,2}\s*:[^\n]*\n?`),
		regexp.MustCompile(`\*{0,2}নীতিকথা\*{0,2}\s*:[^\n]*\n?`),
		regexp.MustCompile(`(?i)\*{0,2}Moraleja\*{0,2}\s*:[^\n]*\n?`),
		regexp.MustCompile(`(?i)\*{0,2}Morale\*{0,2}\s*:[^\n]*\n?`),
		regexp.MustCompile(`(?i)the moral of (?:the|this) story (?:is|:)[^\n]*\n?`),
		regexp.MustCompile(`(?i)moral of the story\s*:[^\n]*\n?`),
		regexp.MustCompile(`(?i)\*{0,2}Lesson\*{0,2}\s*:[^\n]*\n?`),
		regexp.MustCompile(`(?i)\*{0,2}Teaching\*{0,2}\s*:[^\n]*\n?`),
	}
)

// Lines with these prefixes are never promoted to a title.
var titleRejectPrefixes = []string{"TITLE", "STORY", "SCENES", "MORAL", "IN THE", "ONCE", "LONG AGO"}

// MaxScenes is the default cap applied when none is configured.
const MaxScenes = 5

// Parse recovers a structured Record from raw generator output. It is a
// total function: any input, labelled or not, yields a usable Record.
// Culture and Language are copied through from the request.
func Parse(raw string, req story.Request) story.Record {
	title := extractTitle(raw)
	moral := extractMoral(raw)

	body := extractBody(raw)
	body = stripMoralLines(body)
	body = strings.ReplaceAll(body, "**", "")
	body = strings.TrimSpace(strings.ReplaceAll(body, "*", ""))
	body = dropLeadingTitle(body, title)

	if title == "" {
		title, body = promoteLine(body)
	}
	if title == "" {
		title = firstSentenceTitle(body)
	}
	if title == "" {
		title = FallbackTitle
	}
	if body == "" {
		body = strings.TrimSpace(raw)
	}

	rec := story.Record{
		Title:    title,
		Body:     body,
		Scenes:   extractScenes(raw, body, MaxScenes),
		Moral:    moral,
		Culture:  req.Culture,
		Language: req.Language,
	}
	if rec.Culture == "" {
		rec.Culture = "indian"
	}
	if rec.Language == "" {
		rec.Language = story.DefaultLanguage
	}
	logrus.WithFields(logrus.Fields{
		"title":  rec.Title,
		"scenes": len(rec.Scenes),
	}).Debug("parsed story response")
	return rec
}

// extractTitle tries the labelled, heading and bold-line forms in order.
// Candidates that are too short or that start with a section keyword
// are skipped so a stray "STORY OF ..." heading never becomes the title.
func extractTitle(raw string) string {
	for _, re := range []*regexp.Regexp{titleRe, headingRe, boldRe} {
		if m := re.FindStringSubmatch(raw); m != nil {
			if t := cleanTitle(m[1]); validTitle(t) {
				return t
			}
		}
	}
	return ""
}

func validTitle(t string) bool {
	if len([]rune(t)) <= 3 {
		return false
	}
	upper := strings.ToUpper(t)
	for _, p := range []string{"STORY", "MORAL", "SCENES"} {
		if strings.HasPrefix(upper, p) {
			return false
		}
	}
	return true
}

// promoteLine picks the first short standalone line of the body that
// does not look like a label or a narrative opening, and removes it
// from the body so the title is not narrated as prose.
func promoteLine(body string) (title, rest string) {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		clean := cleanTitle(line)
		n := len([]rune(clean))
		if n < 4 || n >= 200 {
			continue
		}
		upper := strings.ToUpper(clean)
		rejected := strings.HasSuffix(clean, ":")
		for _, p := range titleRejectPrefixes {
			if strings.HasPrefix(upper, p) {
				rejected = true
				break
			}
		}
		if rejected {
			continue
		}
		rest = strings.TrimSpace(strings.Join(append(lines[:i:i], lines[i+1:]...), "\n"))
		return clean, rest
	}
	return "", body
}

// dropLeadingTitle removes the body's first line when it repeats the
// extracted title, in plain, heading or bold form.
func dropLeadingTitle(body, title string) string {
	if title == "" || body == "" {
		return body
	}
	lines := strings.SplitN(body, "\n", 2)
	first := strings.ReplaceAll(lines[0], "*", "")
	first = strings.TrimSpace(strings.TrimLeft(first, "# "))
	if first != title {
		return body
	}
	if len(lines) == 2 {
		return strings.TrimSpace(lines[1])
	}
	return ""
}

// firstSentenceTitle synthesizes a title from the opening sentence.
// Sentences of 100 runes or more are not usable as titles; longer-than-
// sixty-rune ones are truncated with an ellipsis.
func firstSentenceTitle(body string) string {
	s := strings.TrimSpace(body)
	if s == "" {
		return ""
	}
	if i := strings.IndexAny(s, ".!?"); i > 0 {
		s = s[:i]
	}
	runes := []rune(strings.TrimSpace(s))
	if len(runes) == 0 || len(runes) >= 100 {
		return ""
	}
	if len(runes) > 60 {
		return string(runes[:60]) + "..."
	}
	return string(runes)
}

func cleanTitle(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "*", "")
	s = strings.Trim(s, "[]")
	return strings.TrimSpace(s)
}

func extractBody(raw string) string {
	if m := storyBlockRe.FindStringSubmatch(raw); m != nil {
		if b := strings.TrimSpace(m[1]); b != "" {
			return b
		}
	}
	// No STORY label. Strip the other labelled sections and keep the rest.
	b := raw
	if loc := scenesBlockRe.FindStringIndex(b); loc != nil {
		b = b[:loc[0]] + b[loc[1]:]
	}
	if loc := titleRe.FindStringIndex(b); loc != nil {
		b = b[:loc[0]] + b[loc[1]:]
	}
	b = labelLineRe.ReplaceAllString(b, "")
	return strings.TrimSpace(b)
}

// stripMoralLines removes every moral-label line from the narration
// text, whichever extraction path produced it. Translated labels and
// prose forms count too, or the moral gets narrated twice.
func stripMoralLines(body string) string {
	for _, re := range moralLineRes {
		body = re.ReplaceAllString(body, "")
	}
	return strings.TrimSpace(body)
}

func extractScenes(raw, body string, max int) []string {
	if m := scenesBlockRe.FindStringSubmatch(raw); m != nil {
		var scenes []string
		for _, line := range strings.Split(m[1], "\n") {
			line = strings.TrimSpace(ordinalRe.ReplaceAllString(line, ""))
			line = cleanTitle(line)
			if line == "" {
				continue
			}
			scenes = append(scenes, line)
			if len(scenes) == max {
				break
			}
		}
		if len(scenes) > 0 {
			return scenes
		}
	}
	return PartitionScenes(body, max)
}

// extractMoral returns the first moral the label table recovers, or
// empty when the text carries none.
func extractMoral(raw string) string {
	for _, re := range moralRes {
		if m := re.FindStringSubmatch(raw); m != nil {
			if moral := cleanTitle(m[1]); moral != "" {
				return moral
			}
		}
	}
	return ""
}
