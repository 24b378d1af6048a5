package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"storyweave/internal/cli/scheme/colours"
	"storyweave/internal/config"
	"storyweave/internal/studio"
)

func main() {

	config.SetDefaults()

	app := studio.NewStudio()

	// Graceful shutdown on Ctrl+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		app.Cancel()
		fmt.Println("\n" + colours.Warning.Sprint("👋 The loom rests. Goodbye! 🌙"))
		os.Exit(0)
	}()

	rootCmd := &cobra.Command{
		Use:   "storyweave",
		Short: "🌍 A loom for the world's stories",
		Long: `
┌──────────────────────────────────────┐
│  🌍 Welcome to StoryWeave! 🪡        │
│  Cultural tales, woven on demand     │
│  with narration and video ✨         │
└──────────────────────────────────────┘

StoryWeave generates original stories in the world's storytelling
traditions and turns them into narrated, captioned videos.
		`,
		Run: func(cmd *cobra.Command, args []string) {
			app.ShowWelcome()
		},
	}

	generateCmd := &cobra.Command{
		Use:   "generate [story idea]",
		Short: "🪡 Weave a new cultural story",
		Long:  "Generate an original story in a chosen cultural tradition",
		Run:   app.GenerateStory,
	}

	mediaCmd := &cobra.Command{
		Use:   "media [story-id]",
		Short: "🎬 Turn a saved story into audio and video",
		Long:  "Produce narration, captions and a scene video for a library story",
		Run:   app.MakeMedia,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "📋 Browse your story library",
		Long:  "Display the stories saved in your local library",
		Run:   app.ListStories,
	}

	culturesCmd := &cobra.Command{
		Use:   "cultures",
		Short: "🌍 Show storytelling traditions",
		Long:  "List the cultural traditions stories can draw from",
		Run:   app.ListCultures,
	}

	voicesCmd := &cobra.Command{
		Use:   "voices",
		Short: "🎙️ Show narration voices",
		Long:  "List narration voices and the speech engines on this machine",
		Run:   app.ListVoices,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "🌐 Start the HTTP API",
		Long:  "Serve the story and media pipeline over HTTP",
		Run:   app.Serve,
	}

	generateCmd.Flags().StringP("culture", "c", "indian", "Cultural tradition to draw from")
	generateCmd.Flags().StringP("type", "t", "folk tale", "Story type (folk tale, mythology, legend, ...)")
	generateCmd.Flags().String("tone", "", "Narrative tone (dramatic & epic, child-friendly, ...)")
	generateCmd.Flags().StringP("language", "l", "English", "Output language")
	generateCmd.Flags().String("custom", "", "Extra instructions for the storyteller")
	generateCmd.Flags().BoolP("media", "m", false, "Also produce audio and video")
	listCmd.Flags().StringP("culture", "c", "", "Filter by culture")
	serveCmd.Flags().String("addr", "", "Listen address (overrides config)")

	rootCmd.AddCommand(generateCmd, mediaCmd, listCmd, culturesCmd, voicesCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		colours.Error.Printf("❌ Error: %v\n", err)
		os.Exit(1)
	}
}

// Configuration management with Viper
func init() {
	// .env carries GROQ_API_KEY and friends in development
	godotenv.Load()

	viper.SetConfigName("storyweave")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.storyweave")
	viper.AddConfigPath(".")

	viper.ReadInConfig()
}
