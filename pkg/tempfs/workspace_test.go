package tempfs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "report.pdf", want: "report.pdf"},
		{in: "../../etc/passwd", want: "passwd"},
		{in: `C:\Users\me\my file (1).pdf`, want: "my_file_1_.pdf"},
		{in: "گزارش.pdf", want: "گزارش.pdf"},
		{in: "...", want: "file"},
		{in: "", want: "file"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeFilename(tt.in))
		})
	}
}

func TestDownloadAndCleanup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("%PDF-1.4 test"))
	}))
	defer srv.Close()

	ws, err := New(t.TempDir(), 1024)
	require.NoError(t, err)

	path, n, err := ws.Download(context.Background(), srv.URL+"/file", "in put.pdf")
	require.NoError(t, err)
	assert.Equal(t, int64(13), n)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "in_put_"))
	assert.Equal(t, ".pdf", filepath.Ext(path))

	_, _, err = ws.Download(context.Background(), srv.URL+"/missing", "x.pdf")
	assert.Error(t, err)

	outside := filepath.Join(t.TempDir(), "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	ws.Cleanup(path, outside, "")
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(outside)
	assert.NoError(t, err)
}

func TestWriteRespectsLimit(t *testing.T) {
	dir := t.TempDir()
	ws, err := New(dir, 4)
	require.NoError(t, err)

	_, _, err = ws.Write(strings.NewReader("too long"), "big.bin")
	assert.ErrorIs(t, err, ErrTooLarge)
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestSweep(t *testing.T) {
	dir := t.TempDir()
	ws, err := New(dir, 0)
	require.NoError(t, err)

	oldPath, _, err := ws.Write(strings.NewReader("old"), "old.pdf")
	require.NoError(t, err)
	newPath, _, err := ws.Write(strings.NewReader("new"), "new.pdf")
	require.NoError(t, err)
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(oldPath, past, past))

	removed, err := ws.Sweep(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	_, err = os.Stat(newPath)
	assert.NoError(t, err)
}
