package timing

import (
	"strings"
	"time"
)

// Cue is a single caption interval on the narration timeline.
type Cue struct {
	Index int
	Start time.Duration
	End   time.Duration
	Text  string
}

const (
	// DefaultSecondsPerWord paces captions when the true narration
	// duration is unknown.
	DefaultSecondsPerWord = 0.4

	// cueGap keeps consecutive cues from touching so players do not
	// flash two captions at once.
	cueGap = 50 * time.Millisecond

	minTotal = time.Second
)

// SplitSentences breaks narration prose into caption-sized units on
// sentence punctuation followed by whitespace.
func SplitSentences(text string) []string {
	var units []string
	var cur strings.Builder
	runes := []rune(strings.TrimSpace(text))
	for i, r := range runes {
		cur.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') &&
			(i+1 == len(runes) || runes[i+1] == ' ' || runes[i+1] == '\n' || runes[i+1] == '\t') {
			if u := strings.TrimSpace(cur.String()); u != "" {
				units = append(units, u)
			}
			cur.Reset()
		}
	}
	if u := strings.TrimSpace(cur.String()); u != "" {
		units = append(units, u)
	}
	return units
}

// ComputeCues distributes a total narration duration across caption
// units in proportion to their word counts. A non-positive total is
// clamped to one second; no units yields nil.
func ComputeCues(units []string, total time.Duration) []Cue {
	var counted []string
	words := 0
	for _, u := range units {
		n := len(strings.Fields(u))
		if n == 0 {
			continue
		}
		counted = append(counted, u)
		words += n
	}
	if len(counted) == 0 {
		return nil
	}
	if total <= 0 {
		total = minTotal
	}

	perWord := time.Duration(float64(total) / float64(words))

	cues := make([]Cue, 0, len(counted))
	start := time.Duration(0)
	for i, u := range counted {
		dur := time.Duration(len(strings.Fields(u))) * perWord
		end := start + dur - cueGap
		if end <= start {
			end = start + dur
		}
		cues = append(cues, Cue{Index: i + 1, Start: start, End: end, Text: u})
		start += dur
	}
	return cues
}

// EstimateTotal returns a word-paced total for narration whose real
// audio length is not known yet.
func EstimateTotal(units []string) time.Duration {
	words := 0
	for _, u := range units {
		words += len(strings.Fields(u))
	}
	return time.Duration(float64(words) * DefaultSecondsPerWord * float64(time.Second))
}

// SceneDurations slices a total duration evenly across n scenes for the
// visual track. The caption track is paced separately by word count.
func SceneDurations(n int, total time.Duration) []time.Duration {
	if n <= 0 {
		return nil
	}
	if total <= 0 {
		total = minTotal
	}
	each := total / time.Duration(n)
	out := make([]time.Duration, n)
	for i := range out {
		out[i] = each
	}
	return out
}
