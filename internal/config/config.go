package config

import "github.com/spf13/viper"

// SetDefaults installs the default configuration used when no
// storyweave.yaml overrides are present.
func SetDefaults() {
	viper.SetDefault("generation.base_url", "https://api.groq.com/openai/v1")
	viper.SetDefault("generation.model", "llama-3.3-70b-versatile")
	viper.SetDefault("generation.max_tokens", 2048)
	viper.SetDefault("generation.timeout_seconds", 60)

	viper.SetDefault("tts.engine", "auto")
	viper.SetDefault("tts.voice", "en-US-JennyNeural")
	viper.SetDefault("tts.speed", 1.0)
	viper.SetDefault("tts.cache_path", "cache/tts")

	viper.SetDefault("media.output_dir", "outputs")
	viper.SetDefault("media.max_scenes", 5)
	viper.SetDefault("media.image_width", 1280)
	viper.SetDefault("media.image_height", 720)
	viper.SetDefault("media.image_timeout_seconds", 60)
	viper.SetDefault("media.default_duration_seconds", 30)
	viper.SetDefault("media.fps", 24)

	viper.SetDefault("server.addr", ":5001")
	viper.SetDefault("library.path", "outputs/stories.json")
	viper.SetDefault("cultures.file", "")
}
