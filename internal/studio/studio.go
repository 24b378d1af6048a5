package studio

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"storyweave/internal/cli/scheme/colours"
	"storyweave/internal/culture"
	"storyweave/internal/media/assemble"
	"storyweave/internal/media/images"
	"storyweave/internal/media/probe"
	"storyweave/internal/media/tts"
	"storyweave/internal/media/video"
	"storyweave/internal/server"
	"storyweave/internal/story"
	"storyweave/internal/story/generate"
	"storyweave/internal/story/library"
)

// Studio is the main application: one wired instance of the story and
// media pipelines shared by every CLI command.
type Studio struct {
	Generator *generate.Generator
	Store     *library.Store
	Tts       tts.Engine
	Assembler *assemble.Assembler

	ctx    context.Context
	Cancel context.CancelFunc
}

// NewStudio wires the application from viper configuration.
func NewStudio() *Studio {
	engine, err := tts.NewEngine(tts.ConfigFromViper())
	if err != nil {
		logrus.WithError(err).Warn("tts engine unavailable, narration will use the mock engine")
		engine, _ = tts.NewEngine(tts.Config{Type: tts.EngineTypeMock.String(), Speed: 1.0})
	}

	store, err := library.NewStore(viper.GetString("library.path"))
	if err != nil {
		logrus.WithError(err).Fatal("failed to open story library")
	}

	if cultureFile := viper.GetString("cultures.file"); cultureFile != "" {
		if err := culture.LoadFile(cultureFile); err != nil {
			logrus.WithError(err).Warn("could not load extra cultures")
		}
	}

	fetcher := images.NewFetcher(
		viper.GetInt("media.image_width"),
		viper.GetInt("media.image_height"),
		time.Duration(viper.GetInt("media.image_timeout_seconds"))*time.Second,
	)
	prober := probe.NewChain(time.Duration(viper.GetInt("media.default_duration_seconds")) * time.Second)
	assembler := assemble.New(engine, prober, fetcher, video.NewChain(), assemble.Options{
		OutputDir:       viper.GetString("media.output_dir"),
		Width:           viper.GetInt("media.image_width"),
		Height:          viper.GetInt("media.image_height"),
		FPS:             viper.GetInt("media.fps"),
		MaxScenes:       viper.GetInt("media.max_scenes"),
		DefaultDuration: time.Duration(viper.GetInt("media.default_duration_seconds")) * time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	return &Studio{
		Generator: generate.Default(),
		Store:     store,
		Tts:       engine,
		Assembler: assembler,
		ctx:       ctx,
		Cancel:    cancel,
	}
}

func (s *Studio) ShowWelcome() {
	fmt.Println()
	colours.Title.Println("🌍 Welcome to StoryWeave! 🌍")
	fmt.Println()
	colours.Info.Println("📚 Available commands:")
	fmt.Println("  • storyweave generate  - Weave a new cultural story")
	fmt.Println("  • storyweave media     - Turn a saved story into audio and video")
	fmt.Println("  • storyweave list      - Browse your story library")
	fmt.Println("  • storyweave cultures  - Show storytelling traditions")
	fmt.Println("  • storyweave voices    - Show narration voices")
	fmt.Println("  • storyweave serve     - Start the HTTP API")
	fmt.Println()
	colours.Prompt.Println("✨ Every culture has a tale to tell ✨")
}

// GenerateStory handles `storyweave generate`.
func (s *Studio) GenerateStory(cmd *cobra.Command, args []string) {
	cultureName, _ := cmd.Flags().GetString("culture")
	storyType, _ := cmd.Flags().GetString("type")
	tone, _ := cmd.Flags().GetString("tone")
	language, _ := cmd.Flags().GetString("language")
	custom, _ := cmd.Flags().GetString("custom")
	withMedia, _ := cmd.Flags().GetBool("media")

	prompt := strings.TrimSpace(strings.Join(args, " "))
	if prompt == "" {
		colours.Error.Println("❌ Please describe your story idea, e.g. storyweave generate \"a clever crow\"")
		return
	}

	colours.Info.Printf("🪡 Weaving a %s from the %s tradition...\n", storyType, cultureName)
	rec := s.Generator.Generate(s.ctx, story.Request{
		Prompt:    prompt,
		Culture:   cultureName,
		StoryType: storyType,
		Tone:      tone,
		Language:  language,
		Custom:    custom,
	})
	if rec.Failed {
		colours.Error.Printf("❌ %s\n", rec.Body)
		return
	}

	entry, err := s.Store.Save(rec)
	if err != nil {
		colours.Warning.Printf("⚠️ Story not saved: %v\n", err)
		entry = library.Entry{Record: rec}
	}

	s.printStory(entry.Record)

	if withMedia {
		s.assembleAndReport(entry.Record)
	} else if entry.ID != "" {
		colours.Prompt.Printf("🎬 Make it a video: storyweave media %s\n", entry.ID)
	}
}

// MakeMedia handles `storyweave media <story-id>`.
func (s *Studio) MakeMedia(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		colours.Error.Println("❌ Which story? Run 'storyweave list' and pass an ID.")
		return
	}

	entry, ok, err := s.Store.Get(args[0])
	if err != nil {
		colours.Error.Printf("❌ %v\n", err)
		return
	}
	if !ok {
		colours.Error.Printf("❌ Story with ID '%s' not found!\n", args[0])
		return
	}

	s.assembleAndReport(entry.Record)
}

func (s *Studio) assembleAndReport(rec story.Record) {
	colours.Info.Printf("🎬 Assembling media for \"%s\"...\n", rec.Title)
	res, err := s.Assembler.Assemble(s.ctx, rec)
	if err != nil {
		colours.Error.Printf("❌ %v\n", err)
		return
	}

	if res.AudioPath != "" {
		colours.Success.Printf("🔊 Narration: %s (%s)\n", res.AudioPath, res.Duration.Round(time.Second))
	} else if res.AudioErr != nil {
		colours.Warning.Printf("⚠️ No narration: %v\n", res.AudioErr)
	}
	if res.SRTPath != "" {
		colours.Success.Printf("💬 Captions: %s and %s\n", res.SRTPath, res.VTTPath)
	}
	if res.VideoPath != "" {
		colours.Success.Printf("🎞️ Video: %s\n", res.VideoPath)
	} else if res.VideoErr != nil {
		colours.Warning.Printf("⚠️ No video: %v\n", res.VideoErr)
	}
}

// ListStories handles `storyweave list`.
func (s *Studio) ListStories(cmd *cobra.Command, args []string) {
	cultureFilter, _ := cmd.Flags().GetString("culture")

	entries, err := s.Store.All()
	if err != nil {
		colours.Error.Printf("❌ %v\n", err)
		return
	}

	fmt.Println()
	colours.Title.Println("📚 Your Story Library 📚")
	fmt.Println()

	count := 0
	for _, e := range entries {
		if cultureFilter != "" && culture.Normalize(e.Culture) != culture.Normalize(cultureFilter) {
			continue
		}
		count++
		fmt.Printf("  %d. ", count)
		colours.Title.Printf("%s", e.Title)
		fmt.Printf(" (%s, %s)\n", e.Culture, e.Language)
		colours.Moral.Printf("     🪶 %s\n", e.Moral)
		colours.Info.Printf("     ID: %s | saved %s\n", e.ID, e.SavedAt.Format("2006-01-02 15:04"))
		fmt.Println()
	}

	if count == 0 {
		colours.Warning.Println("🔍 No stories yet. Try: storyweave generate \"a clever crow\"")
	} else {
		colours.Success.Printf("✨ %d stories woven so far ✨\n", count)
	}
}

// ListCultures handles `storyweave cultures`.
func (s *Studio) ListCultures(cmd *cobra.Command, args []string) {
	fmt.Println()
	colours.Title.Println("🌍 Storytelling Traditions 🌍")
	fmt.Println()
	for _, name := range culture.Names() {
		ctx := culture.Lookup(name)
		colours.Title.Printf("  %s\n", name)
		colours.Info.Printf("     %s\n", ctx.Examples)
		fmt.Println()
	}
}

// ListVoices handles `storyweave voices`.
func (s *Studio) ListVoices(cmd *cobra.Command, args []string) {
	fmt.Println()
	colours.Title.Println("🎙️ Narration Voices 🎙️")
	fmt.Println()

	names := make([]string, 0, len(tts.Voices))
	for name := range tts.Voices {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  • %s ", name)
		colours.Info.Printf("(%s)\n", tts.Voices[name])
	}

	fmt.Println()
	colours.Info.Printf("Engines on this machine: ")
	engineNames := make([]string, 0)
	for _, e := range tts.AvailableEngines() {
		engineNames = append(engineNames, e.String())
	}
	fmt.Println(strings.Join(engineNames, ", "))
	colours.Success.Printf("Active engine: %s\n", s.Tts.Name())
}

// Serve handles `storyweave serve`.
func (s *Studio) Serve(cmd *cobra.Command, args []string) {
	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = viper.GetString("server.addr")
	}

	srv := server.New(s.Generator, s.Tts, s.Assembler, s.Store, viper.GetString("media.output_dir"))
	colours.Info.Printf("🌐 StoryWeave API listening on %s\n", addr)
	if err := srv.Run(addr); err != nil {
		colours.Error.Printf("❌ Server error: %v\n", err)
	}
}

func (s *Studio) printStory(rec story.Record) {
	fmt.Println()
	colours.Title.Printf("📖 %s\n", rec.Title)
	colours.Info.Printf("🌍 %s tradition | %s\n", rec.Culture, rec.Language)
	fmt.Println()
	fmt.Println(rec.Body)
	fmt.Println()
	if len(rec.Scenes) > 0 {
		colours.Prompt.Println("🎬 Scenes:")
		for i, scene := range rec.Scenes {
			fmt.Printf("  %d. %s\n", i+1, scene)
		}
		fmt.Println()
	}
	if rec.Moral != "" {
		colours.Moral.Printf("🪶 Moral: %s\n", rec.Moral)
	}
}
