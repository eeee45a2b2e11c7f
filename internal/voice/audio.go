package voice

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// placeholderWAV is a minimal valid empty wav file, written when no
// recording tool is available so downstream code still has a file to work
// with.
var placeholderWAV = []byte{
	'R', 'I', 'F', 'F', 0x24, 0, 0, 0, 'W', 'A', 'V', 'E',
	'f', 'm', 't', ' ', 0x10, 0, 0, 0, 0x01, 0, 0x01, 0,
	0x00, 0x3e, 0, 0, 0x00, 0x3e, 0, 0, 0x01, 0, 0x08, 0,
	'd', 'a', 't', 'a', 0, 0, 0, 0,
}

// Recorder captures microphone audio by shelling out to whichever
// recording tool the host has.
type Recorder struct {
	logger zerolog.Logger
}

// NewRecorder creates a Recorder.
func NewRecorder(logger zerolog.Logger) *Recorder {
	return &Recorder{logger: logger.With().Str("component", "audio").Logger()}
}

// Record captures the given number of seconds and returns the wav path.
// When no recording tool exists, a placeholder file is returned so voice
// flows degrade instead of failing.
func (r *Recorder) Record(ctx context.Context, seconds int) (string, error) {
	if seconds <= 0 {
		seconds = 5
	}
	outPath := filepath.Join(os.TempDir(), fmt.Sprintf("rin_recording_%d.wav", time.Now().UnixNano()))

	cmd := r.recordCommand(ctx, seconds, outPath)
	if cmd == nil {
		r.logger.Warn().Msg("no recording tool available, writing placeholder audio")
		if err := os.WriteFile(outPath, placeholderWAV, 0o644); err != nil {
			return "", fmt.Errorf("write placeholder audio: %w", err)
		}
		return outPath, nil
	}

	if out, err := cmd.CombinedOutput(); err != nil {
		r.logger.Error().Err(err).Bytes("output", out).Msg("recording failed, writing placeholder audio")
		if werr := os.WriteFile(outPath, placeholderWAV, 0o644); werr != nil {
			return "", fmt.Errorf("write placeholder audio: %w", werr)
		}
		return outPath, nil
	}

	r.logger.Info().Int("seconds", seconds).Str("path", outPath).Msg("recording saved")
	return outPath, nil
}

// recordCommand picks the first available microphone capture tool.
func (r *Recorder) recordCommand(ctx context.Context, seconds int, outPath string) *exec.Cmd {
	dur := strconv.Itoa(seconds)
	if _, err := exec.LookPath("arecord"); err == nil {
		return exec.CommandContext(ctx, "arecord", "-f", "S16_LE", "-r", "16000", "-c", "1", "-d", dur, outPath)
	}
	if _, err := exec.LookPath("rec"); err == nil {
		return exec.CommandContext(ctx, "rec", "-r", "16000", "-c", "1", outPath, "trim", "0", dur)
	}
	if _, err := exec.LookPath("ffmpeg"); err == nil {
		return exec.CommandContext(ctx, "ffmpeg", "-y", "-f", "alsa", "-i", "default", "-t", dur, "-ar", "16000", "-ac", "1", outPath)
	}
	return nil
}

// Player plays an audio file through whichever playback tool the host has.
type Player struct {
	logger zerolog.Logger
}

// NewPlayer creates a Player.
func NewPlayer(logger zerolog.Logger) *Player {
	return &Player{logger: logger.With().Str("component", "audio").Logger()}
}

// Play blocks until playback finishes. A missing playback tool is logged
// and skipped, not an error.
func (p *Player) Play(ctx context.Context, path string) error {
	for _, tool := range []string{"afplay", "ffplay", "aplay", "mpg123"} {
		if _, err := exec.LookPath(tool); err != nil {
			continue
		}
		args := []string{path}
		if tool == "ffplay" {
			args = []string{"-nodisp", "-autoexit", "-loglevel", "quiet", path}
		}
		cmd := exec.CommandContext(ctx, tool, args...)
		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("%s failed: %w: %s", tool, err, out)
		}
		p.logger.Debug().Str("tool", tool).Str("path", path).Msg("audio played")
		return nil
	}

	p.logger.Warn().Str("path", path).Msg("no playback tool available, skipping audio")
	return nil
}
