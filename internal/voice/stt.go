package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// dummyTranscript is what the no-op STT engine returns, so the voice
// round-trip remains testable without a microphone or model.
const dummyTranscript = "This is dummy transcription text for testing purposes."

// ═══════════════════════════════════════════════════════════════════════════════
// WHISPER (OpenAI transcription API)
// ═══════════════════════════════════════════════════════════════════════════════

const whisperEndpoint = "https://api.openai.com/v1/audio/transcriptions"

// WhisperTranscriber transcribes audio through the OpenAI API.
type WhisperTranscriber struct {
	apiKey   string
	endpoint string
	model    string
	recorder *Recorder
	client   *http.Client
	logger   zerolog.Logger
}

// WhisperOption configures the whisper transcriber.
type WhisperOption func(*WhisperTranscriber)

// WithWhisperEndpoint overrides the API endpoint. Used in tests.
func WithWhisperEndpoint(endpoint string) WhisperOption {
	return func(w *WhisperTranscriber) {
		w.endpoint = endpoint
	}
}

// WithWhisperAPIKey sets the API key instead of reading the environment.
func WithWhisperAPIKey(key string) WhisperOption {
	return func(w *WhisperTranscriber) {
		w.apiKey = key
	}
}

// NewWhisperTranscriber creates a whisper STT engine.
func NewWhisperTranscriber(recorder *Recorder, logger zerolog.Logger, opts ...WhisperOption) *WhisperTranscriber {
	w := &WhisperTranscriber{
		apiKey:   os.Getenv("OPENAI_API_KEY"),
		endpoint: whisperEndpoint,
		model:    "whisper-1",
		recorder: recorder,
		client:   &http.Client{Timeout: 60 * time.Second},
		logger:   logger.With().Str("provider", "whisper-stt").Logger(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Name returns the engine identifier.
func (w *WhisperTranscriber) Name() string { return "whisper" }

// Available checks if the API key is configured.
func (w *WhisperTranscriber) Available() bool { return w.apiKey != "" }

// Transcribe uploads the audio file and returns the recognized text.
func (w *WhisperTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if w.apiKey == "" {
		return "", fmt.Errorf("OpenAI API key not configured")
	}

	audio, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("open audio file: %w", err)
	}
	defer audio.Close()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("copy audio: %w", err)
	}
	if err := form.WriteField("model", w.model); err != nil {
		return "", fmt.Errorf("write model field: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", w.endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+w.apiKey)

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcription error (status %d)", resp.StatusCode)
	}

	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	text := strings.TrimSpace(payload.Text)
	w.logger.Debug().Str("text", text).Msg("audio transcribed")
	return text, nil
}

// TranscribeFromMic records from the microphone, then transcribes.
func (w *WhisperTranscriber) TranscribeFromMic(ctx context.Context, seconds int) (string, error) {
	audioPath, err := w.recorder.Record(ctx, seconds)
	if err != nil {
		return "", fmt.Errorf("record audio: %w", err)
	}
	return w.Transcribe(ctx, audioPath)
}

// ═══════════════════════════════════════════════════════════════════════════════
// NONE
// ═══════════════════════════════════════════════════════════════════════════════

// NoneTranscriber returns fixed text instead of real recognition. Recording
// still runs so the audio path stays exercised.
type NoneTranscriber struct {
	recorder *Recorder
	logger   zerolog.Logger
}

// NewNoneTranscriber creates the no-op STT engine.
func NewNoneTranscriber(recorder *Recorder, logger zerolog.Logger) *NoneTranscriber {
	return &NoneTranscriber{
		recorder: recorder,
		logger:   logger.With().Str("provider", "none-stt").Logger(),
	}
}

// Name returns the engine identifier.
func (n *NoneTranscriber) Name() string { return "none" }

// Transcribe returns the fixed transcript.
func (n *NoneTranscriber) Transcribe(_ context.Context, audioPath string) (string, error) {
	n.logger.Info().Str("path", audioPath).Msg("dummy transcription")
	return dummyTranscript, nil
}

// TranscribeFromMic records (when possible) and returns the fixed
// transcript.
func (n *NoneTranscriber) TranscribeFromMic(ctx context.Context, seconds int) (string, error) {
	if _, err := n.recorder.Record(ctx, seconds); err != nil {
		n.logger.Error().Err(err).Msg("recording failed")
	}
	return dummyTranscript, nil
}
