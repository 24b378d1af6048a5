package parse

import "strings"

const sceneSnippetLen = 100

// PartitionScenes derives up to max visual scene descriptions from story
// prose when the generator did not supply a SCENES section. Paragraphs
// are the unit; a single-paragraph story is a single scene. Sentences
// are only split when no paragraph survives at all.
func PartitionScenes(body string, max int) []string {
	if max <= 0 {
		max = MaxScenes
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil
	}

	units := splitParagraphs(body)
	if len(units) == 0 {
		units = splitSentences(body)
	}

	var scenes []string
	for _, u := range units {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		scenes = append(scenes, snippet(u))
		if len(scenes) == max {
			break
		}
	}
	return scenes
}

func splitParagraphs(s string) []string {
	var out []string
	for _, p := range strings.Split(s, "\n\n") {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

func splitSentences(s string) []string {
	var out []string
	var cur strings.Builder
	for _, r := range s {
		cur.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if sent := strings.TrimSpace(cur.String()); sent != "" {
				out = append(out, sent)
			}
			cur.Reset()
		}
	}
	if sent := strings.TrimSpace(cur.String()); sent != "" {
		out = append(out, sent)
	}
	return out
}

// snippet trims a prose unit to a short description, cutting on a word
// boundary where possible.
func snippet(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= sceneSnippetLen {
		return s
	}
	cut := string(runes[:sceneSnippetLen])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut + "..."
}
