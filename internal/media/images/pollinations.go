package images

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultBaseURL = "https://image.pollinations.ai/prompt/"

	// Responses smaller than this are error pages, not images.
	minImageBytes = 1024

	fetchAttempts = 3
)

// Fetcher downloads scene illustrations from the pollinations.ai
// prompt-to-image endpoint, falling back to a locally rendered gradient
// placeholder when the service misbehaves.
type Fetcher struct {
	client  *http.Client
	baseURL string
	width   int
	height  int
	log     *logrus.Entry
}

// NewFetcher builds a Fetcher producing width x height images.
func NewFetcher(width, height int, timeout time.Duration) *Fetcher {
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		baseURL: defaultBaseURL,
		width:   width,
		height:  height,
		log:     logrus.WithField("component", "images"),
	}
}

// Fetch writes one scene illustration to outPath. The remote service is
// tried fetchAttempts times with a seed varied per attempt; exhaustion
// falls back to a gradient placeholder keyed by culture, so the returned
// error is only ever an I/O failure writing the placeholder.
func (f *Fetcher) Fetch(ctx context.Context, scene, cultureName string, seed int, outPath string) error {
	prompt := fmt.Sprintf("%s, %s cultural art style, storybook illustration, rich colors, detailed",
		scene, cultureName)

	for attempt := 0; attempt < fetchAttempts; attempt++ {
		err := f.fetchOnce(ctx, prompt, seed+attempt, outPath)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			break
		}
		f.log.WithError(err).WithFields(logrus.Fields{
			"attempt": attempt + 1,
			"scene":   scene,
		}).Warn("scene image fetch failed")
	}

	f.log.WithField("culture", cultureName).Info("using gradient placeholder")
	return WritePlaceholder(outPath, cultureName, f.width, f.height)
}

func (f *Fetcher) fetchOnce(ctx context.Context, prompt string, seed int, outPath string) error {
	u := fmt.Sprintf("%s%s?width=%d&height=%d&seed=%d&nologo=true",
		f.baseURL, url.PathEscape(prompt), f.width, f.height, seed)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("image service status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	if len(body) < minImageBytes {
		return fmt.Errorf("image too small (%d bytes)", len(body))
	}
	if err := os.WriteFile(outPath, body, 0644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	return nil
}
