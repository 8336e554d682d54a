package services

import (
	"os"
	"path/filepath"
	"testing"

	"stampbook/internal/assets"
	"stampbook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDrawConfig(t *testing.T) {
	t.Run("embedded", func(t *testing.T) {
		config, err := ParseDrawConfig(assets.DrawConfig)
		require.NoError(t, err)
		assert.Equal(t, 1, config.AffectionMin)
		assert.Equal(t, 10, config.AffectionMax)
		assert.NotEmpty(t, config.Todos)
	})

	tests := []struct {
		name string
		yaml string
	}{
		{"empty todo", "affection: {min: 1, max: 10}\ntodo: []\n"},
		{"blank todo", "affection: {min: 1, max: 10}\ntodo: ['  ']\n"},
		{"zero min", "affection: {min: 0, max: 10}\ntodo: [a]\n"},
		{"inverted range", "affection: {min: 5, max: 4}\ntodo: [a]\n"},
		{"malformed", "affection: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDrawConfig([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadStamps(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.webp", "c.JPG", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0o755))

	stamps, err := LoadStamps(dir)
	require.NoError(t, err)
	require.Len(t, stamps, 3)
	assert.Equal(t, "a", stamps[0].ID)
	assert.Equal(t, "b", stamps[1].ID)
	assert.Equal(t, "c", stamps[2].ID)
	assert.Equal(t, []byte("b.png"), stamps[1].Data)

	config := &DrawConfig{Stamps: stamps}
	stamp, ok := config.Stamp("b")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "b.png"), stamp.Path)
	_, ok = config.Stamp("z")
	assert.False(t, ok)
}

func TestLoadStamps_Errors(t *testing.T) {
	_, err := LoadStamps(t.TempDir())
	assert.Error(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.gif"), nil, 0o644))
	_, err = LoadStamps(dir)
	assert.Error(t, err)

	_, err = LoadStamps(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestServiceDraw_Draw(t *testing.T) {
	config := &DrawConfig{
		Todos:        []string{"read", "walk"},
		AffectionMin: 1,
		AffectionMax: 10,
		Stamps:       testPool,
	}
	drawer, err := NewDrawer(config)
	require.NoError(t, err)

	stampIDs := map[string]bool{}
	for _, stamp := range testPool {
		stampIDs[stamp.ID] = true
	}

	seen := map[int]bool{}
	for i := 0; i < 500; i++ {
		draw := drawer.Draw()
		assert.GreaterOrEqual(t, draw.Affection, 1)
		assert.LessOrEqual(t, draw.Affection, 10)
		assert.True(t, stampIDs[draw.Stamp.ID])
		assert.Contains(t, config.Todos, draw.Todo)
		seen[draw.Affection] = true
	}
	// 500 uniform draws over 10 values
	assert.Len(t, seen, 10)
}

func TestNewDrawer_EmptyPool(t *testing.T) {
	_, err := NewDrawer(&DrawConfig{Todos: []string{"a"}, AffectionMin: 1, AffectionMax: 1, Stamps: []models.Stamp{}})
	assert.Error(t, err)
}
