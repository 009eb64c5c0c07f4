package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	now := time.UnixMilli(1756500000000)

	assert.Equal(t, "RA9012/1756500000000_report.pdf", ObjectKey("RA9012", "report.pdf", now))
}

func TestObjectKeySanitizesSeparators(t *testing.T) {
	now := time.UnixMilli(1756500000000)

	assert.Equal(t, "RA9012/1756500000000_.._etc_passwd", ObjectKey("RA9012", "../etc/passwd", now))
	assert.Equal(t, "RA9012/1756500000000_a_b_c", ObjectKey("RA9012", `a/b\c`, now))
}

func TestMemStoreRoundTrip(t *testing.T) {
	store := NewMemStore()

	path, err := store.Save("RA9012", "report.pdf", []byte("%PDF content"))
	require.NoError(t, err)
	assert.Contains(t, path, "RA9012/")

	data, err := store.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF content"), data)

	require.NoError(t, store.Delete(path))
	_, err = store.Load(path)
	assert.Error(t, err)
}

func TestMemStoreLoadMissing(t *testing.T) {
	store := NewMemStore()

	_, err := store.Load("RA9012/does-not-exist.pdf")
	assert.Error(t, err)
}
