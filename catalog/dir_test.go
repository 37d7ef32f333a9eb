package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skosovsky/unifai"
)

func TestDirFetcher(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "openai.yaml"), []byte(openaiYAML), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "anthropic.yml"), []byte(anthropicYAML), 0o600))

	r := NewRemote(NewDirFetcher(dir), WithTTL(0))
	ctx := context.Background()

	m, err := r.GetModel(ctx, "openai", "gpt-4o")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", m.ID)

	m, err = r.GetModel(ctx, "anthropic", "claude-sonnet")
	require.NoError(t, err)
	assert.Equal(t, "anthropic", m.Provider)

	_, err = r.GetModel(ctx, "google", "gemini")
	require.ErrorIs(t, err, unifai.ErrModelNotFound)
}

func TestDirFetcher_ReloadAfterEvict(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "anthropic.yaml")
	require.NoError(t, os.WriteFile(path, []byte(anthropicYAML), 0o600))

	r := NewRemote(NewDirFetcher(dir), WithTTL(0))
	ctx := context.Background()
	_, err := r.GetModel(ctx, "anthropic", "claude-sonnet")
	require.NoError(t, err)

	updated := anthropicYAML + "  - id: claude-haiku\n    capabilities: [text_generation]\n"
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o600))
	_, err = r.GetModel(ctx, "anthropic", "claude-haiku")
	require.ErrorIs(t, err, unifai.ErrModelNotFound, "cached manifest is still served")

	r.EvictAll()
	m, err := r.GetModel(ctx, "anthropic", "claude-haiku")
	require.NoError(t, err)
	assert.Equal(t, "claude-haiku", m.ID)
}

func TestDirFetcher_InvalidName(t *testing.T) {
	t.Parallel()
	_, err := NewDirFetcher(t.TempDir()).Fetch(context.Background(), "../etc/passwd")
	require.ErrorIs(t, err, ErrInvalidName)
}
