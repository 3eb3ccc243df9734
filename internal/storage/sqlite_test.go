package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	store, err := OpenSQLiteStore(path)
	require.NoError(t, err)

	_, err = store.Get("missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, store.Put("greeting", []byte("hello")))
	got, err := store.Get("greeting")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)

	// Put replaces on the same key.
	require.NoError(t, store.Put("greeting", []byte("goodbye")))
	got, err = store.Get("greeting")
	require.NoError(t, err)
	assert.Equal(t, []byte("goodbye"), got)

	require.NoError(t, store.Delete("greeting"))
	_, err = store.Get("greeting")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestSQLiteStorePersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	store, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	s := NewInvoiceStorage(store, DefaultInvoiceStorageConfig())
	inv := sampleInvoice("INV-001", "John Smith")
	_, err = s.Save(inv)
	require.NoError(t, err)

	reopened, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	reloaded := NewInvoiceStorage(reopened, DefaultInvoiceStorageConfig())
	got, ok := reloaded.Find(inv.ID)
	require.True(t, ok)
	assert.Equal(t, "INV-001", got.Number)
}
