package timing

import (
	"fmt"
	"io"
	"time"
)

// WriteSRT serializes cues as SubRip, one numbered block per cue.
func WriteSRT(w io.Writer, cues []Cue) error {
	for _, c := range cues {
		_, err := fmt.Fprintf(w, "%d\n%s --> %s\n%s\n\n",
			c.Index, stamp(c.Start, ','), stamp(c.End, ','), c.Text)
		if err != nil {
			return fmt.Errorf("write srt cue %d: %w", c.Index, err)
		}
	}
	return nil
}

// WriteVTT serializes cues as WebVTT.
func WriteVTT(w io.Writer, cues []Cue) error {
	if _, err := fmt.Fprint(w, "WEBVTT\n\n"); err != nil {
		return fmt.Errorf("write vtt header: %w", err)
	}
	for _, c := range cues {
		_, err := fmt.Fprintf(w, "%s --> %s\n%s\n\n",
			stamp(c.Start, '.'), stamp(c.End, '.'), c.Text)
		if err != nil {
			return fmt.Errorf("write vtt cue %d: %w", c.Index, err)
		}
	}
	return nil
}

// stamp formats a duration as HH:MM:SS with millisecond precision. SRT
// separates milliseconds with a comma, WebVTT with a dot.
func stamp(d time.Duration, sep byte) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	h := ms / 3_600_000
	m := ms / 60_000 % 60
	s := ms / 1_000 % 60
	return fmt.Sprintf("%02d:%02d:%02d%c%03d", h, m, s, sep, ms%1_000)
}
