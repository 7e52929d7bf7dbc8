package storage

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalArchiveRoundTrip(t *testing.T) {
	archive, err := NewLocalArchive(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	key := PayslipKey("JAN-2026", "EMP001")

	stored, err := archive.Store(ctx, key, bytes.NewReader([]byte("%PDF-1.4 test")))
	require.NoError(t, err)
	assert.Equal(t, "payslips/JAN-2026/EMP001.pdf", stored)

	ok, err := archive.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	doc, err := archive.Open(ctx, key)
	require.NoError(t, err)
	defer doc.Close()

	content, err := io.ReadAll(doc)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 test"), content)
}

func TestLocalArchiveMissingKey(t *testing.T) {
	archive, err := NewLocalArchive(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	ok, err := archive.Exists(ctx, "payslips/JAN-2026/NOPE.pdf")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = archive.Open(ctx, "payslips/JAN-2026/NOPE.pdf")
	assert.Error(t, err)

	// Deleting something that was never stored is fine.
	assert.NoError(t, archive.Delete(ctx, "payslips/JAN-2026/NOPE.pdf"))
}

func TestLocalArchiveRejectsTraversal(t *testing.T) {
	archive, err := NewLocalArchive(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	_, err = archive.Store(ctx, "../outside.pdf", bytes.NewReader([]byte("x")))
	assert.Error(t, err)

	_, err = archive.Open(ctx, "../../etc/passwd")
	assert.Error(t, err)
}

func TestLocalArchiveDelete(t *testing.T) {
	archive, err := NewLocalArchive(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	key := PayslipKey("FEB-2026", "EMP002")

	_, err = archive.Store(ctx, key, bytes.NewReader([]byte("doc")))
	require.NoError(t, err)

	require.NoError(t, archive.Delete(ctx, key))

	ok, err := archive.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}
