package internal

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogStoreSaveAndRead(t *testing.T) {
	store, err := NewFileLogStore(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save("M0000001", []byte("boot ok"))
	require.NoError(t, err)
	assert.Equal(t, time.Now().Format("20060102")+".txt", name)

	content, err := store.Read("M0000001", name)
	require.NoError(t, err)
	assert.Equal(t, "boot ok", string(content))
}

func TestLogStoreOverwritesSameDay(t *testing.T) {
	store, err := NewFileLogStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("M0000001", []byte("first"))
	require.NoError(t, err)
	name, err := store.Save("M0000001", []byte("second"))
	require.NoError(t, err)

	content, err := store.Read("M0000001", name)
	require.NoError(t, err)
	assert.Equal(t, "second", string(content))
}

func TestLogStoreReadMissing(t *testing.T) {
	store, err := NewFileLogStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Read("M0000001", "20200101.txt")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLogStoreLatest(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileLogStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(dir+"/M0000001", 0o755))
	require.NoError(t, os.WriteFile(dir+"/M0000001/20250101.txt", []byte("old"), 0o644))
	require.NoError(t, os.WriteFile(dir+"/M0000001/20250102.txt", []byte("new"), 0o644))

	name, content, err := store.Latest("M0000001")
	require.NoError(t, err)
	assert.Equal(t, "20250102.txt", name)
	assert.Equal(t, "new", string(content))
}

func TestLogStoreLatestNoFiles(t *testing.T) {
	store, err := NewFileLogStore(t.TempDir())
	require.NoError(t, err)

	_, _, err = store.Latest("M0000001")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLogStoreMachines(t *testing.T) {
	store, err := NewFileLogStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("M0000001", []byte("a"))
	require.NoError(t, err)
	_, err = store.Save("M0000002", []byte("b"))
	require.NoError(t, err)

	machines, err := store.Machines()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"M0000001", "M0000002"}, machines)
}

func TestLogStoreRejectsPathEscapes(t *testing.T) {
	store, err := NewFileLogStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("../outside", []byte("x"))
	assert.Error(t, err)
	_, err = store.Read("M0000001", "../../etc/passwd")
	assert.Error(t, err)
	_, err = store.Read("", "20250101.txt")
	assert.Error(t, err)
}
