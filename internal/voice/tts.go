package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// ═══════════════════════════════════════════════════════════════════════════════
// OPENAI TTS
// ═══════════════════════════════════════════════════════════════════════════════

const openAITTSEndpoint = "https://api.openai.com/v1/audio/speech"

// OpenAISynthesizer uses the OpenAI speech API and writes mp3 files into
// the audio directory.
type OpenAISynthesizer struct {
	apiKey   string
	endpoint string
	model    string
	voice    string
	audioDir string
	client   *http.Client
	logger   zerolog.Logger
}

// OpenAISynthesizerOption configures the OpenAI synthesizer.
type OpenAISynthesizerOption func(*OpenAISynthesizer)

// WithTTSEndpoint overrides the API endpoint. Used in tests.
func WithTTSEndpoint(endpoint string) OpenAISynthesizerOption {
	return func(s *OpenAISynthesizer) {
		s.endpoint = endpoint
	}
}

// WithTTSAPIKey sets the API key instead of reading the environment.
func WithTTSAPIKey(key string) OpenAISynthesizerOption {
	return func(s *OpenAISynthesizer) {
		s.apiKey = key
	}
}

// NewOpenAISynthesizer creates an OpenAI TTS engine.
func NewOpenAISynthesizer(audioDir string, logger zerolog.Logger, opts ...OpenAISynthesizerOption) *OpenAISynthesizer {
	s := &OpenAISynthesizer{
		apiKey:   os.Getenv("OPENAI_API_KEY"),
		endpoint: openAITTSEndpoint,
		model:    "tts-1",
		voice:    "nova",
		audioDir: audioDir,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logger.With().Str("provider", "openai-tts").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the engine identifier.
func (s *OpenAISynthesizer) Name() string { return "openai" }

// Available checks if the API key is configured.
func (s *OpenAISynthesizer) Available() bool { return s.apiKey != "" }

type openAITTSRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	Voice          string `json:"voice"`
	ResponseFormat string `json:"response_format,omitempty"`
}

// Synthesize converts text to an mp3 file and returns its path.
func (s *OpenAISynthesizer) Synthesize(ctx context.Context, text string) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("OpenAI API key not configured")
	}

	body, err := json.Marshal(openAITTSRequest{
		Model:          s.model,
		Input:          text,
		Voice:          s.voice,
		ResponseFormat: "mp3",
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OpenAI TTS error (status %d)", resp.StatusCode)
	}

	if err := os.MkdirAll(s.audioDir, 0o755); err != nil {
		return "", fmt.Errorf("create audio dir: %w", err)
	}
	outPath := filepath.Join(s.audioDir, fmt.Sprintf("rin_tts_%d.mp3", time.Now().UnixNano()))

	out, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("create audio file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", fmt.Errorf("write audio file: %w", err)
	}

	s.logger.Debug().Str("path", outPath).Msg("audio synthesized")
	return outPath, nil
}

// ═══════════════════════════════════════════════════════════════════════════════
// SAY (macOS native)
// ═══════════════════════════════════════════════════════════════════════════════

// SaySynthesizer shells out to the macOS 'say' command.
type SaySynthesizer struct {
	audioDir string
	voice    string
	logger   zerolog.Logger
}

// NewSaySynthesizer creates a 'say'-backed TTS engine.
func NewSaySynthesizer(audioDir string, logger zerolog.Logger) *SaySynthesizer {
	return &SaySynthesizer{
		audioDir: audioDir,
		voice:    "Samantha",
		logger:   logger.With().Str("provider", "say-tts").Logger(),
	}
}

// Name returns the engine identifier.
func (s *SaySynthesizer) Name() string { return "say" }

// Available checks that the 'say' command exists.
func (s *SaySynthesizer) Available() bool {
	_, err := exec.LookPath("say")
	return err == nil
}

// Synthesize writes an aiff file through the 'say' command.
func (s *SaySynthesizer) Synthesize(ctx context.Context, text string) (string, error) {
	if !s.Available() {
		return "", fmt.Errorf("'say' command not available")
	}

	if err := os.MkdirAll(s.audioDir, 0o755); err != nil {
		return "", fmt.Errorf("create audio dir: %w", err)
	}
	outPath := filepath.Join(s.audioDir, fmt.Sprintf("rin_tts_%d.aiff", time.Now().UnixNano()))

	cmd := exec.CommandContext(ctx, "say", "-v", s.voice, "-o", outPath, text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("say failed: %w: %s", err, out)
	}

	s.logger.Debug().Str("path", outPath).Msg("audio synthesized")
	return outPath, nil
}

// ═══════════════════════════════════════════════════════════════════════════════
// NONE
// ═══════════════════════════════════════════════════════════════════════════════

// NoneSynthesizer produces no audio. Callers treat the empty path as
// text-only output.
type NoneSynthesizer struct{}

// NewNoneSynthesizer creates the no-op TTS engine.
func NewNoneSynthesizer() *NoneSynthesizer {
	return &NoneSynthesizer{}
}

func (s *NoneSynthesizer) Synthesize(context.Context, string) (string, error) { return "", nil }
func (s *NoneSynthesizer) Name() string                                       { return "none" }
func (s *NoneSynthesizer) Available() bool                                    { return true }
