package audio

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// ErrNoPlayer means no known audio player is installed and
// HARFIZ_AUDIO_PLAYER is unset.
var ErrNoPlayer = errors.New("no audio player found")

// Player plays cached clips through an external player command.
// Starting a new clip stops the one still playing.
type Player struct {
	bin  string
	args []string

	mu  sync.Mutex
	cmd *exec.Cmd // currently playing, nil when idle
}

var knownPlayers = [][]string{
	{"mpv", "--no-video", "--really-quiet"},
	{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
	{"afplay"},
	{"mpg123", "-q"},
}

// NewPlayer locates a player command. HARFIZ_AUDIO_PLAYER overrides
// discovery; its value is split on whitespace, first field the binary.
func NewPlayer() (*Player, error) {
	if custom := os.Getenv("HARFIZ_AUDIO_PLAYER"); custom != "" {
		fields := strings.Fields(custom)
		if _, err := exec.LookPath(fields[0]); err != nil {
			return nil, fmt.Errorf("HARFIZ_AUDIO_PLAYER: %w", err)
		}
		return &Player{bin: fields[0], args: fields[1:]}, nil
	}

	for _, candidate := range knownPlayers {
		if _, err := exec.LookPath(candidate[0]); err == nil {
			return &Player{bin: candidate[0], args: candidate[1:]}, nil
		}
	}
	return nil, ErrNoPlayer
}

// Play starts playback of the clip at path and returns immediately.
func (p *Player) Play(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()

	args := append(append([]string{}, p.args...), path)
	cmd := exec.Command(p.bin, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", p.bin, err)
	}
	p.cmd = cmd

	// Reap the process so finished players don't linger as zombies.
	go func() { _ = cmd.Wait() }()
	return nil
}

// Stop interrupts the clip currently playing, if any.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Player) stopLocked() {
	if p.cmd != nil && p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	p.cmd = nil
}
