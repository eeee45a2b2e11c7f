package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "openai", cfg.LLM.DefaultProvider)
	assert.Equal(t, "serpapi", cfg.Search.Provider)
	assert.Equal(t, 5, cfg.Search.MaxResults)
	assert.Equal(t, "none", cfg.Voice.TTSEngine)
	assert.Contains(t, cfg.LLM.SystemPrompt, "Rin")
	assert.NotEmpty(t, cfg.Data.Dir)
	assert.Equal(t, filepath.Join(cfg.Data.Dir, "rin.db"), cfg.Data.DBPath())
}

func TestLoadFromPath_CreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	// The file should now exist and round-trip to the same values.
	_, err = os.Stat(path)
	require.NoError(t, err)

	assert.Equal(t, Default().LLM.DefaultProvider, cfg.LLM.DefaultProvider)
	assert.Equal(t, Default().Search.MaxResults, cfg.Search.MaxResults)
}

func TestLoadFromPath_ReadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	contents := []byte(`
llm:
  default_provider: ollama
search:
  provider: tavily
  max_results: 3
voice:
  tts_engine: say
`)
	require.NoError(t, os.WriteFile(path, contents, 0o644))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "ollama", cfg.LLM.DefaultProvider)
	assert.Equal(t, "tavily", cfg.Search.Provider)
	assert.Equal(t, 3, cfg.Search.MaxResults)
	assert.Equal(t, "say", cfg.Voice.TTSEngine)

	// Missing values fall back to defaults.
	assert.Equal(t, "none", cfg.Voice.STTEngine)
	assert.NotEmpty(t, cfg.LLM.SystemPrompt)
}

func TestSaveToPath_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.LLM.DefaultProvider = "echo"
	cfg.Search.MaxResults = 7
	require.NoError(t, cfg.SaveToPath(path))

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "echo", loaded.LLM.DefaultProvider)
	assert.Equal(t, 7, loaded.Search.MaxResults)
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()

	cfg := Default()
	cfg.Data.Dir = filepath.Join(base, "data")
	cfg.Voice.AudioDir = filepath.Join(base, "data", "audio")
	cfg.Logging.File = filepath.Join(base, "logs", "rin.log")

	require.NoError(t, cfg.EnsureDirectories())

	for _, dir := range []string{cfg.Data.Dir, cfg.Voice.AudioDir, filepath.Dir(cfg.Logging.File)} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}
