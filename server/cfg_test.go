package server

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zucenko/treasurerun/model"
)

func TestLoadDefaultMatchesBuiltInTrack(t *testing.T) {
	b, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultBoard(), b)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.txt")
	layout := "# all safe but one trap\n. . . . . T . . . .\n..........\n.........G\n"
	require.NoError(t, os.WriteFile(path, []byte(layout), 0o644))

	b, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []int{5}, b.Indices(model.TILE_TRAP))
	assert.Empty(t, b.Indices(model.TILE_TREASURE))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestReadRejectsBadLayouts(t *testing.T) {
	cases := map[string]string{
		"short":        "...$.T.$.S\n.........G\n",
		"no goal":      strings.Repeat(".", model.TileCount),
		"after goal":   strings.Repeat(".", model.Goal) + "G.",
		"unknown tile": "...$.X.$.S.T$?.$..T$.S$.T$?$.G",
	}
	for name, layout := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := read(strings.NewReader(layout))
			assert.ErrorIs(t, err, model.ErrBoard)
		})
	}
}
