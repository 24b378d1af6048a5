package culture

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Context holds the storytelling guidance injected into generation prompts
// for one cultural tradition.
type Context struct {
	Elements string `yaml:"elements"`
	Style    string `yaml:"style"`
	Examples string `yaml:"examples"`
}

// DefaultKey is the registry entry used when a culture is unknown.
const DefaultKey = "indian"

var registry = map[string]Context{
	"indian": {
		Elements: "Include elements like dharma, karma, ancient wisdom, moral lessons, festivals, deities, or village life.",
		Style:    "Use poetic language with metaphors from nature, rivers, and mountains.",
		Examples: "Panchatantra, Jataka Tales, Ramayana, Mahabharata stories",
	},
	"japanese": {
		Elements: "Include elements like honor, nature spirits (kami), seasonal beauty, zen philosophy, or yokai.",
		Style:    "Use concise, contemplative language with references to cherry blossoms, moon, and mountains.",
		Examples: "Momotaro, Urashima Taro, Kaguya-hime, Tanuki tales",
	},
	"african": {
		Elements: "Include elements like community wisdom, animal tricksters (Anansi), ancestral spirits, and nature.",
		Style:    "Use vibrant, rhythmic storytelling with proverbs and call-and-response patterns.",
		Examples: "Anansi stories, Why the Sun and Moon Live in the Sky, The Tortoise tales",
	},
	"celtic": {
		Elements: "Include elements like faeries, druids, ancient magic, heroic quests, and sacred groves.",
		Style:    "Use mystical, lyrical language with references to mist, standing stones, and otherworldly realms.",
		Examples: "Cu Chulainn, The Morrigan, Selkie tales, Leprechaun legends",
	},
	"chinese": {
		Elements: "Include elements like dragons, filial piety, yin-yang balance, immortals, and the Jade Emperor.",
		Style:    "Use elegant prose with references to mountains, rivers, and celestial beings.",
		Examples: "Journey to the West, White Snake, Monkey King, Moon Goddess",
	},
	"greek": {
		Elements: "Include elements like gods of Olympus, heroes, quests, hubris, and fate.",
		Style:    "Use epic, dramatic language with references to mythology and ancient wisdom.",
		Examples: "Odyssey, Hercules' labors, Perseus, Theseus and the Minotaur",
	},
	"arabian": {
		Elements: "Include elements like djinn, magic lamps, desert wisdom, merchants, and caliphs.",
		Style:    "Use rich, ornate language with references to stars, oases, and ancient cities.",
		Examples: "One Thousand and One Nights, Aladdin, Sinbad, Ali Baba",
	},
	"native_american": {
		Elements: "Include elements like animal spirits, creation stories, harmony with nature, and vision quests.",
		Style:    "Use reverent language honoring earth, sky, and all living beings.",
		Examples: "Coyote tales, Raven stories, The Rainbow Crow, How the Earth Was Made",
	},
}

// Normalize converts a user-supplied culture name into a registry key.
func Normalize(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// Lookup returns the context for a culture, falling back to the default
// entry for unknown names. It never fails.
func Lookup(name string) Context {
	if ctx, ok := registry[Normalize(name)]; ok {
		return ctx
	}
	return registry[DefaultKey]
}

// Known reports whether a culture has its own registry entry.
func Known(name string) bool {
	_, ok := registry[Normalize(name)]
	return ok
}

// Names returns the registered culture keys in no particular order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	return names
}

// LoadFile merges additional culture entries from a YAML file, so adding a
// tradition is a data change rather than a code change. Existing entries
// with the same key are replaced.
func LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read cultures file: %w", err)
	}

	var extra map[string]Context
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return fmt.Errorf("failed to parse cultures file: %w", err)
	}

	for name, ctx := range extra {
		registry[Normalize(name)] = ctx
	}

	logrus.WithFields(logrus.Fields{
		"file":    path,
		"entries": len(extra),
	}).Info("Loaded extra culture entries")
	return nil
}
