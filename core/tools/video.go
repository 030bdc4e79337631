package tools

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/menschrobotics/ruby-core/core/llms"
)

// NewVideoPlayerTool searches for a video and plays it fullscreen through an
// external player. Only one playback runs at a time; a new request stops the
// previous one first.
func NewVideoPlayerTool() Spec {
	var (
		mu     sync.Mutex
		cancel context.CancelFunc
	)

	return Spec{
		Stateful: true,
		Tool: llms.NewTool(
			"youtube_video_player",
			"Search for a video by title or topic and play it on the screen. Use this when the user asks to watch or see a video.",
			func(parameters struct {
				Query string `json:"query" jsonschema:"required,description=Search phrase for the video, e.g. a song or topic name"`
			}) (string, error) {
				url, title, err := resolveVideoURL(parameters.Query)
				if err != nil {
					return "", err
				}

				mu.Lock()
				if cancel != nil {
					cancel()
				}
				ctx, stop := context.WithCancel(context.Background())
				cancel = stop
				mu.Unlock()

				player := exec.CommandContext(ctx, "mpv", "--fullscreen", "--really-quiet", url)
				if err := player.Start(); err != nil {
					return "", fmt.Errorf("could not start video player: %w", err)
				}
				go func() { _ = player.Wait() }()

				return fmt.Sprintf("now playing %q", title), nil
			},
		),
	}
}

// resolveVideoURL asks yt-dlp for the top search hit without downloading
// anything.
func resolveVideoURL(query string) (url string, title string, err error) {
	lookup := exec.Command("yt-dlp",
		"--quiet", "--no-warnings",
		"--default-search", "ytsearch1",
		"--no-playlist", "--skip-download",
		"--print", "title",
		"--print", "webpage_url",
		query,
	)

	output, err := lookup.Output()
	if err != nil {
		return "", "", fmt.Errorf("video search failed for %q: %w", query, err)
	}

	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	if len(lines) < 2 {
		return "", "", fmt.Errorf("no video found for %q", query)
	}

	return strings.TrimSpace(lines[1]), strings.TrimSpace(lines[0]), nil
}
