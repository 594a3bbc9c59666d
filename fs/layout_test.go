package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/visreg/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLayout(t *testing.T) {
	t.Parallel()

	t.Run("creates the root directory", func(t *testing.T) {
		t.Parallel()

		root := filepath.Join(t.TempDir(), "report")
		layout, err := fs.NewLayout(root)

		require.NoError(t, err)
		assert.Equal(t, root, layout.Root())
		assert.DirExists(t, root)
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()

		root := filepath.Join(t.TempDir(), "report")
		_, err := fs.NewLayout(root)
		require.NoError(t, err)
		_, err = fs.NewLayout(root)
		require.NoError(t, err)
	})
}

func TestLayout_SaveImage(t *testing.T) {
	t.Parallel()

	t.Run("writes under the slug directory", func(t *testing.T) {
		t.Parallel()

		layout, err := fs.NewLayout(t.TempDir())
		require.NoError(t, err)

		rel, err := layout.SaveImage("about_team", "source.png", []byte("png-bytes"))

		require.NoError(t, err)
		assert.Equal(t, "about_team/source.png", rel)

		data, err := os.ReadFile(filepath.Join(layout.Root(), "about_team", "source.png"))
		require.NoError(t, err)
		assert.Equal(t, []byte("png-bytes"), data)
	})

	t.Run("both sides share one directory", func(t *testing.T) {
		t.Parallel()

		layout, err := fs.NewLayout(t.TempDir())
		require.NoError(t, err)

		_, err = layout.SaveImage("home", "source.png", []byte("a"))
		require.NoError(t, err)
		_, err = layout.SaveImage("home", "target.png", []byte("b"))
		require.NoError(t, err)

		entries, err := os.ReadDir(filepath.Join(layout.Root(), "home"))
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("overwrites a previous capture", func(t *testing.T) {
		t.Parallel()

		layout, err := fs.NewLayout(t.TempDir())
		require.NoError(t, err)

		_, err = layout.SaveImage("home", "source.png", []byte("old"))
		require.NoError(t, err)
		rel, err := layout.SaveImage("home", "source.png", []byte("new"))
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(layout.Root(), rel))
		require.NoError(t, err)
		assert.Equal(t, []byte("new"), data)
	})
}

func TestLayout_OpenLog(t *testing.T) {
	t.Parallel()

	layout, err := fs.NewLayout(t.TempDir())
	require.NoError(t, err)

	f, err := layout.OpenLog()
	require.NoError(t, err)
	_, err = f.WriteString("line one\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	// Reopening appends rather than truncating.
	f, err = layout.OpenLog()
	require.NoError(t, err)
	_, err = f.WriteString("line two\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(layout.LogPath())
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", string(data))
}
