package server

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storyweave/internal/culture"
	"storyweave/internal/media/assemble"
	"storyweave/internal/media/tts"
	"storyweave/internal/story"
	"storyweave/internal/story/library"
)

// StoryGenerator produces a Record for a request. Failures are records
// with the Failed flag, not errors.
type StoryGenerator interface {
	Generate(ctx context.Context, req story.Request) story.Record
	Configured() bool
}

// AudioSynthesizer writes narration audio to a file.
type AudioSynthesizer interface {
	OutputExt() string
	SynthesizeFile(ctx context.Context, text, outPath string) error
}

// MediaAssembler runs the full audio/captions/video pipeline.
type MediaAssembler interface {
	Assemble(ctx context.Context, rec story.Record) (assemble.Result, error)
}

// Server is the HTTP API over the story pipeline.
type Server struct {
	gen       StoryGenerator
	tts       AudioSynthesizer
	assembler MediaAssembler
	store     *library.Store
	outputDir string
	log       *logrus.Entry
}

// New assembles the server from its collaborators.
func New(gen StoryGenerator, tts AudioSynthesizer, assembler MediaAssembler, store *library.Store, outputDir string) *Server {
	return &Server{
		gen:       gen,
		tts:       tts,
		assembler: assembler,
		store:     store,
		outputDir: outputDir,
		log:       logrus.WithField("component", "server"),
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	api := r.Group("/api")
	{
		api.GET("/cultures", s.handleCultures)
		api.GET("/check-config", s.handleCheckConfig)
		api.POST("/generate-story", s.handleGenerateStory)
		api.POST("/generate-audio", s.handleGenerateAudio)
		api.POST("/generate-video", s.handleGenerateVideo)
		api.GET("/stories", s.handleListStories)
		api.GET("/stories/:id", s.handleGetStory)
	}
	r.GET("/outputs/:filename", s.handleOutput)
	return r
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	s.log.WithField("addr", addr).Info("http server listening")
	return s.Router().Run(addr)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).Round(time.Millisecond),
		}).Info("request")
	}
}

func (s *Server) handleCultures(c *gin.Context) {
	names := culture.Names()
	themes := make(map[string]culture.Theme, len(names))
	for _, name := range names {
		themes[name] = culture.LookupTheme(name)
	}
	c.JSON(http.StatusOK, gin.H{"cultures": names, "themes": themes})
}

func (s *Server) handleCheckConfig(c *gin.Context) {
	configured := s.gen.Configured()
	message := "Ready to generate stories!"
	if !configured {
		message = "Please set GROQ_API_KEY environment variable"
	}
	c.JSON(http.StatusOK, gin.H{
		"configured": configured,
		"message":    message,
	})
}

func (s *Server) handleGenerateStory(c *gin.Context) {
	var req story.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Prompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide a story prompt"})
		return
	}

	rec := s.gen.Generate(c.Request.Context(), req)
	if rec.Failed {
		c.JSON(http.StatusBadGateway, gin.H{"error": rec.Body})
		return
	}

	if s.store != nil {
		entry, err := s.store.Save(rec)
		if err != nil {
			s.log.WithError(err).Warn("could not save story to library")
		} else {
			rec.ID = entry.ID
		}
	}
	c.JSON(http.StatusOK, rec)
}

type audioRequest struct {
	Text  string `json:"text"`
	Title string `json:"title"`
	Voice string `json:"voice"`
}

func (s *Server) handleGenerateAudio(c *gin.Context) {
	var req audioRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No text provided for audio generation"})
		return
	}
	if req.Title == "" {
		req.Title = "story"
	}

	// Requested voice wins; without one the text's mood picks.
	if vs, ok := s.tts.(tts.VoiceSetter); ok {
		vs.SetVoice(tts.PickVoice(req.Voice, req.Text))
	}

	filename := story.SafeFileName(req.Title) + "_audio" + s.tts.OutputExt()
	outPath := filepath.Join(s.outputDir, filename)
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := s.tts.SynthesizeFile(c.Request.Context(), req.Text, outPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"audio_url": "/outputs/" + filename,
	})
}

func (s *Server) handleGenerateVideo(c *gin.Context) {
	var rec story.Record
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	for field, v := range map[string]bool{
		"title":   rec.Title != "",
		"story":   rec.Body != "",
		"culture": rec.Culture != "",
	} {
		if !v {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: " + field})
			return
		}
	}

	res, err := s.assembler.Assemble(c.Request.Context(), rec)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{"success": true}
	if res.AudioPath != "" {
		resp["audio_url"] = "/outputs/" + filepath.Base(res.AudioPath)
	}
	if res.VideoPath != "" {
		resp["video_url"] = "/outputs/" + filepath.Base(res.VideoPath)
	}
	if res.SRTPath != "" {
		resp["captions_url"] = "/outputs/" + filepath.Base(res.SRTPath)
	}
	if res.VideoErr != nil {
		resp["video_error"] = res.VideoErr.Error()
	}
	if res.AudioErr != nil {
		resp["audio_error"] = res.AudioErr.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleListStories(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusOK, gin.H{"stories": []library.Entry{}})
		return
	}
	entries, err := s.store.All()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stories": entries})
}

func (s *Server) handleGetStory(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Story not found"})
		return
	}
	entry, ok, err := s.store.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Story not found"})
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (s *Server) handleOutput(c *gin.Context) {
	// Base strips any traversal segments from the request.
	filename := filepath.Base(c.Param("filename"))
	if filename == "." || strings.HasPrefix(filename, "..") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filename"})
		return
	}
	path := filepath.Join(s.outputDir, filename)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	c.File(path)
}
