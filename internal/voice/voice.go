// Package voice provides text-to-speech, speech-to-text, and audio record
// and playback collaborators.
package voice

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/PSkinnerTech/rin-v0-extended/internal/config"
)

// ErrUnsupportedEngine is returned for an unknown TTS or STT engine name.
var ErrUnsupportedEngine = errors.New("unsupported voice engine")

// Synthesizer converts text to a spoken audio file. The "none" variant
// returns an empty path, which callers treat as no audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (string, error)
	Name() string
	Available() bool
}

// Transcriber converts recorded audio to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
	TranscribeFromMic(ctx context.Context, seconds int) (string, error)
	Name() string
}

// NewSynthesizer creates the configured TTS engine. Unknown names fail fast.
func NewSynthesizer(cfg config.VoiceConfig, logger zerolog.Logger) (Synthesizer, error) {
	switch cfg.TTSEngine {
	case "openai":
		return NewOpenAISynthesizer(cfg.AudioDir, logger), nil
	case "say":
		return NewSaySynthesizer(cfg.AudioDir, logger), nil
	case "none", "":
		return NewNoneSynthesizer(), nil
	default:
		return nil, fmt.Errorf("%w: tts %q", ErrUnsupportedEngine, cfg.TTSEngine)
	}
}

// NewTranscriber creates the configured STT engine. An engine that cannot
// run in this environment falls back to the "none" variant with a warning,
// so voice input degrades instead of blocking startup.
func NewTranscriber(cfg config.VoiceConfig, recorder *Recorder, logger zerolog.Logger) (Transcriber, error) {
	switch cfg.STTEngine {
	case "whisper":
		w := NewWhisperTranscriber(recorder, logger)
		if !w.Available() {
			logger.Warn().Msg("whisper STT unavailable (no OPENAI_API_KEY), falling back to none")
			return NewNoneTranscriber(recorder, logger), nil
		}
		return w, nil
	case "none", "":
		return NewNoneTranscriber(recorder, logger), nil
	default:
		return nil, fmt.Errorf("%w: stt %q", ErrUnsupportedEngine, cfg.STTEngine)
	}
}

// Speaker couples a synthesizer with playback so callers can voice a
// message in one call.
type Speaker struct {
	synth  Synthesizer
	player *Player
}

// NewSpeaker creates a Speaker.
func NewSpeaker(synth Synthesizer, player *Player) *Speaker {
	return &Speaker{synth: synth, player: player}
}

// Speak synthesizes and plays the text. A synthesizer that produced no
// audio is not an error.
func (s *Speaker) Speak(ctx context.Context, text string) error {
	path, err := s.synth.Synthesize(ctx, text)
	if err != nil {
		return err
	}
	if path == "" {
		return nil
	}
	return s.player.Play(ctx, path)
}
