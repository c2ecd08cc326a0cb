package speech

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const remoteRequestTimeout = 10 * time.Second

// RemoteEngine fetches an MP3 for the phrase from the Google Translate TTS
// endpoint into a local cache and plays it with a configured player command.
// It covers hosts without a narrator command.
type RemoteEngine struct {
	cacheDir string
	player   string
	client   *http.Client
	run      func(name string, args ...string) error
}

// NewRemoteEngine creates a remote engine caching audio under cacheDir and
// playing files with the given player command.
func NewRemoteEngine(cacheDir, player string) *RemoteEngine {
	return &RemoteEngine{
		cacheDir: cacheDir,
		player:   player,
		client:   &http.Client{Timeout: remoteRequestTimeout},
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

func (e *RemoteEngine) Name() string {
	return "remote"
}

func (e *RemoteEngine) Available() bool {
	_, err := exec.LookPath(e.player)
	return err == nil
}

// Speak fetches (or reuses) the cached clip for the phrase and plays it.
func (e *RemoteEngine) Speak(text, language string) error {
	path, err := e.cachedClip(text, language)
	if err != nil {
		return err
	}
	return e.run(e.player, path)
}

// cachedClip returns the path of the MP3 for (text, language), fetching it on
// a cache miss.
func (e *RemoteEngine) cachedClip(text, language string) (string, error) {
	filename := fmt.Sprintf("%s_%s.mp3", language, sanitizeFilename(text))
	path := filepath.Join(e.cacheDir, filename)

	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.MkdirAll(e.cacheDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create audio cache: %w", err)
	}

	if err := e.fetchClip(text, language, path); err != nil {
		return "", fmt.Errorf("failed to fetch audio: %w", err)
	}

	return path, nil
}

// fetchClip downloads the spoken phrase from the Google Translate TTS
// endpoint, which needs no API key.
func (e *RemoteEngine) fetchClip(text, language, outputPath string) error {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("q", text)
	params.Set("tl", language)
	params.Set("client", "tw-ob")
	params.Set("textlen", fmt.Sprintf("%d", len(text)))

	fullURL := "https://translate.google.com/translate_tts?" + params.Encode()

	ctx, cancel := context.WithTimeout(context.Background(), remoteRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	// Set user agent (required by Google)
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, resp.Body); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}

	return nil
}

// sanitizeFilename turns phrase text into a safe cache filename.
func sanitizeFilename(text string) string {
	sanitized := strings.ToLower(strings.TrimSpace(text))
	sanitized = strings.ReplaceAll(sanitized, " ", "_")

	var b strings.Builder
	for _, r := range sanitized {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('x')
		}
	}

	name := b.String()
	if len(name) > 64 {
		name = name[:64]
	}
	return name
}
