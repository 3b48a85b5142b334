package corpus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dupscan-labs/dupscan-cli/internal/core/services"
)

// fileExtractor reads the managed copy verbatim, recording which paths
// it saw.
type fileExtractor struct {
	exts  []string
	fail  map[string]error
	empty map[string]bool
	paths []string
}

func (f *fileExtractor) Extensions() []string { return f.exts }

func (f *fileExtractor) Extract(_ context.Context, path string) (string, error) {
	f.paths = append(f.paths, path)
	name := filepath.Base(path)
	if err, ok := f.fail[name]; ok {
		return "", err
	}
	if f.empty[name] {
		return "", nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0600))
	}
}

func TestLoadFolderCopiesAndLoads(t *testing.T) {
	src := t.TempDir()
	storage := filepath.Join(t.TempDir(), "managed")
	writeFiles(t, src, map[string]string{
		"a.txt":    "content of a",
		"b.txt":    "content of b",
		"skip.png": "binary",
	})

	extractor := &fileExtractor{exts: []string{".txt"}}
	loader, err := NewLoader(storage, extractor)
	require.NoError(t, err)

	sess := services.NewSession()
	loaded, err := loader.LoadFolder(context.Background(), sess, src)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded)
	assert.Equal(t, []string{"a.txt", "b.txt"}, sess.Documents())
	assert.True(t, sess.Dirty())

	// Unsupported extensions never reach the extractor or storage.
	assert.NoFileExists(t, filepath.Join(storage, "skip.png"))

	// Text is extracted from the managed copy, not the source.
	for _, p := range extractor.paths {
		assert.Equal(t, storage, filepath.Dir(p))
	}
	assert.FileExists(t, filepath.Join(storage, "a.txt"))
	assert.FileExists(t, filepath.Join(storage, "b.txt"))
}

func TestLoadFolderKeepsExistingManagedCopy(t *testing.T) {
	src := t.TempDir()
	storage := t.TempDir()
	writeFiles(t, src, map[string]string{"a.txt": "fresh source content"})
	writeFiles(t, storage, map[string]string{"a.txt": "managed copy wins"})

	loader, err := NewLoader(storage, &fileExtractor{exts: []string{".txt"}})
	require.NoError(t, err)

	sess := services.NewSession()
	loaded, err := loader.LoadFolder(context.Background(), sess, src)
	require.NoError(t, err)
	require.Equal(t, 1, loaded)

	text, ok := sess.Text("a.txt")
	require.True(t, ok)
	assert.Equal(t, "managed copy wins", text)
}

func TestLoadFolderExcludesFailedAndEmptyDocuments(t *testing.T) {
	src := t.TempDir()
	writeFiles(t, src, map[string]string{
		"good.txt":   "usable content",
		"broken.txt": "never returned",
		"blank.txt":  "never returned either",
	})

	extractor := &fileExtractor{
		exts:  []string{".txt"},
		fail:  map[string]error{"broken.txt": errors.New("parse error")},
		empty: map[string]bool{"blank.txt": true},
	}
	loader, err := NewLoader(filepath.Join(t.TempDir(), "managed"), extractor)
	require.NoError(t, err)

	sess := services.NewSession()
	loaded, err := loader.LoadFolder(context.Background(), sess, src)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded)
	assert.Equal(t, []string{"good.txt"}, sess.Documents())
}

func TestLoadFolderResetsPreviousWorkingSet(t *testing.T) {
	src1, src2 := t.TempDir(), t.TempDir()
	writeFiles(t, src1, map[string]string{"old.txt": "old"})
	writeFiles(t, src2, map[string]string{"new.txt": "new"})

	loader, err := NewLoader(filepath.Join(t.TempDir(), "managed"), &fileExtractor{exts: []string{".txt"}})
	require.NoError(t, err)

	sess := services.NewSession()
	_, err = loader.LoadFolder(context.Background(), sess, src1)
	require.NoError(t, err)
	_, err = loader.LoadFolder(context.Background(), sess, src2)
	require.NoError(t, err)

	assert.Equal(t, []string{"new.txt"}, sess.Documents())
}

func TestLoadFolderMissingSource(t *testing.T) {
	loader, err := NewLoader(t.TempDir(), &fileExtractor{exts: []string{".txt"}})
	require.NoError(t, err)

	_, err = loader.LoadFolder(context.Background(), services.NewSession(), filepath.Join(t.TempDir(), "ghost"))
	assert.Error(t, err)
}

func TestWatcherMarksSessionDirty(t *testing.T) {
	dir := t.TempDir()
	sess := services.NewSession()
	sess.Add("a.txt", "text")
	sess.MarkAnalyzed()

	w, err := NewWatcher(dir, sess)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "dropped.txt"), []byte("x"), 0600))

	assert.Eventually(t, sess.Dirty, 2*time.Second, 10*time.Millisecond)
}
