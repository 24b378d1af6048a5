package prompt

import (
	"fmt"
	"strings"

	"storyweave/internal/culture"
	"storyweave/internal/story"
)

// Sampling carries the generation parameters selected for a composed
// prompt. Fact-sensitive story types get conservative values to reduce
// hallucination; creative types get freer ones.
type Sampling struct {
	Temperature float64
	TopP        float64
	MaxTokens   int
}

const (
	factualTemperature  = 0.5
	factualTopP         = 0.7
	creativeTemperature = 0.95
	creativeTopP        = 0.9
	maxTokens           = 2048
)

// Story types that must stay faithful to known sources.
var factSensitive = map[string]bool{
	"mythology":        true,
	"legend":           true,
	"historical story": true,
}

var toneGuides = map[string]string{
	"simple & easy":   "Use clear, flowing language that a child could understand, but with hidden depth. Short sentences that paint vivid pictures.",
	"dramatic & epic": "Use powerful, sweeping prose with intense imagery. Build tension with long, flowing sentences that crescendo at key moments.",
	"child-friendly":  "Use warm, gentle language with wonder and magic. Include friendly characters and reassuring moments. End with comfort and hope.",
	"mysterious":      "Use atmospheric, shadowy descriptions. Create suspense with pauses and unanswered questions. Let secrets unfold slowly.",
	"humorous":        "Weave wit and clever observations throughout. Include amusing misunderstandings, playful dialogue, and situations that make readers smile.",
}

// outputContract is the fixed format the generator is instructed to emit.
// The parser is built around these labels.
const outputContract = `FORMAT your response EXACTLY as follows:
TITLE: [An evocative title for the story]

STORY:
[The complete story text, multiple paragraphs with natural breaks]

SCENES:
1. [Brief visual description of scene 1]
2. [Brief visual description of scene 2]
3. [Brief visual description of scene 3]
4. [Brief visual description of scene 4]
5. [Brief visual description of scene 5]

MORAL: [The lesson or moral of the story, stated beautifully - not preachy, but wise]`

// IsFactSensitive reports whether a story type requires factual fidelity.
func IsFactSensitive(storyType string) bool {
	return factSensitive[strings.ToLower(strings.TrimSpace(storyType))]
}

// Compose builds the system prompt, the user prompt and the sampling
// parameters for one generation request. Pure function, no I/O.
func Compose(req story.Request) (system, user string, s Sampling) {
	cultureName := req.Culture
	if cultureName == "" {
		cultureName = culture.DefaultKey
	}
	ctx := culture.Lookup(cultureName)

	storyType := req.StoryType
	if storyType == "" {
		storyType = "folk tale"
	}
	factual := IsFactSensitive(storyType)

	s = Sampling{Temperature: creativeTemperature, TopP: creativeTopP, MaxTokens: maxTokens}
	if factual {
		s.Temperature = factualTemperature
		s.TopP = factualTopP
	}

	system = composeSystem(cultureName, factual)

	var b strings.Builder
	fmt.Fprintf(&b, "You are a legendary storyteller whose tales have been passed down through generations.\n\n")
	fmt.Fprintf(&b, "CREATE A %s from the %s tradition.\n\n", strings.ToUpper(storyType), displayName(cultureName))

	if req.Tone != "" {
		fmt.Fprintf(&b, "TONE: %s\n", req.Tone)
		if guide, ok := toneGuides[strings.ToLower(req.Tone)]; ok {
			b.WriteString(guide + "\n")
		} else {
			fmt.Fprintf(&b, "Write with a %s style that matches the mood described.\n", req.Tone)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "CULTURAL GUIDELINES:\n- %s\n- %s\n- Draw inspiration from: %s\n\n", ctx.Elements, ctx.Style, ctx.Examples)

	if req.Prompt != "" {
		fmt.Fprintf(&b, "The user's story idea: %s\n\n", req.Prompt)
	}
	if req.Custom != "" {
		fmt.Fprintf(&b, "Special request: %s\n\n", req.Custom)
	}

	if factual {
		b.WriteString(factualConstraint(storyType))
		b.WriteString("\n\n")
	} else {
		b.WriteString("The story must be ORIGINAL - not a retelling of a famous tale. Create something fresh that feels timeless.\n\n")
	}

	if lang := req.Language; lang != "" && !strings.EqualFold(lang, story.DefaultLanguage) {
		fmt.Fprintf(&b, "IMPORTANT: Write the ENTIRE output in %s. The title, story, scenes and moral must all be in %s.\n\n", lang, lang)
	}

	b.WriteString("Write 400-500 words of rich, immersive storytelling suitable for all ages.\n\n")
	b.WriteString(outputContract)

	return system, b.String(), s
}

func composeSystem(cultureName string, factual bool) string {
	name := displayName(cultureName)
	if factual {
		return fmt.Sprintf("You are a scholar-storyteller from the %s tradition. "+
			"You have spent your life studying authentic texts, historical records, and traditional narratives. "+
			"Your stories are always factually accurate - you never invent or modify established facts. "+
			"You retell known stories with beautiful language while preserving complete historical and mythological accuracy.", name)
	}
	return fmt.Sprintf("You are a master storyteller from the %s tradition. "+
		"You have spent your life collecting and telling tales that make people laugh, cry, and think. "+
		"Every story you tell is unique - never the same tale twice.", name)
}

func factualConstraint(storyType string) string {
	return fmt.Sprintf(`ACCURACY REQUIREMENT: this is a %s, so you must not hallucinate.
- DO NOT create fictional characters, events, or places.
- DO NOT modify established facts, relationships, timelines, or outcomes.
- Base the story on real, well-documented figures and events.
- Follow the actual narrative as it exists in traditional texts and historical records.
- You may add emotional depth and sensory detail, but keep all facts true to the tradition as it is widely known.`, strings.ToUpper(storyType))
}

// displayName turns a registry key like "native_american" into
// "Native American" for use inside prompt text.
func displayName(name string) string {
	words := strings.Split(strings.ReplaceAll(culture.Normalize(name), "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
