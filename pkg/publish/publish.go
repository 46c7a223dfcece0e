// Package publish writes the rendered chart into a static site checkout and
// derives its public URL.
//
// The output directory is expected to be a GitHub Pages working tree; an
// external job commits and pushes whatever lands there. Writes go through a
// temp file and rename so a half-written chart is never picked up.
package publish

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/arice/trmnl-astro/pkg/errors"
)

// FileName is the fixed name the chart is published under. Keeping it stable
// lets the display point at one URL forever; the cache buster in [URL] keys
// each refresh.
const FileName = "chart.png"

// Publisher places chart images into a Pages checkout.
type Publisher struct {
	// Dir is the site working tree root.
	Dir string

	// User and Repo name the GitHub Pages site serving Dir.
	User string
	Repo string
}

// New validates the site coordinates and returns a Publisher.
func New(dir, user, repo string) (*Publisher, error) {
	if dir == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "output directory is required")
	}
	if user == "" || repo == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "github user and repo are required")
	}
	return &Publisher{Dir: dir, User: user, Repo: repo}, nil
}

// Publish writes png bytes to the chart file atomically and returns the
// written path. The directory is created if missing.
func (p *Publisher) Publish(png []byte) (string, error) {
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", p.Dir, err)
	}

	dst := filepath.Join(p.Dir, FileName)
	tmp, err := os.CreateTemp(p.Dir, FileName+".*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(png); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", fmt.Errorf("rename to %s: %w", dst, err)
	}
	return dst, nil
}

// URL returns the public Pages URL for the chart. The t query parameter
// defeats the display's image cache; pass the publish time.
func (p *Publisher) URL(t time.Time) string {
	return fmt.Sprintf("https://%s.github.io/%s/%s?t=%d", p.User, p.Repo, FileName, t.Unix())
}
