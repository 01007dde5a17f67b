package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalArchiveRoundTrip(t *testing.T) {
	archive, err := NewLocalArchive(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	path, err := archive.Save(ctx, "3f2a1b9c-doc", []byte("conteúdo original"))
	require.NoError(t, err)
	assert.Equal(t, filepath.ToSlash("3f/3f2a1b9c-doc.txt"), path)

	content, err := archive.Load(ctx, "3f2a1b9c-doc")
	require.NoError(t, err)
	assert.Equal(t, "conteúdo original", string(content))
}

func TestLocalArchiveLoadMissing(t *testing.T) {
	archive, err := NewLocalArchive(t.TempDir())
	require.NoError(t, err)

	_, err = archive.Load(context.Background(), "nunca-salvo")
	assert.ErrorIs(t, err, ErrNotArchived)
}

func TestLocalArchiveSaveOverwrites(t *testing.T) {
	archive, err := NewLocalArchive(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = archive.Save(ctx, "doc", []byte("v1"))
	require.NoError(t, err)
	_, err = archive.Save(ctx, "doc", []byte("v2"))
	require.NoError(t, err)

	content, err := archive.Load(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(content))
}

func TestLocalArchiveEmptyBasePath(t *testing.T) {
	_, err := NewLocalArchive("")
	assert.Error(t, err)
}

func TestArchivePathShortID(t *testing.T) {
	assert.Equal(t, "ab/ab.txt", archivePath("ab"))
	assert.Equal(t, "ab/abcdef.txt", archivePath("abcdef"))
}
