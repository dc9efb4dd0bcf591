// Package tempfs manages the scratch directory holding downloads and
// conversion outputs.
package tempfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrTooLarge = errors.New("file exceeds size limit")

var unsafeChars = regexp.MustCompile(`[^\p{L}\p{N}._-]+`)

// SafeFilename strips path parts and characters that are unsafe on disk.
func SafeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "file"
	}
	if len(name) > 120 {
		ext := filepath.Ext(name)
		if len(ext) > 10 {
			ext = ""
		}
		name = name[:120-len(ext)] + ext
	}
	return name
}

type Workspace struct {
	dir     string
	client  *http.Client
	maxSize int64
}

// New creates dir if needed. maxSize caps downloads; zero disables the cap.
func New(dir string, maxSize int64) (*Workspace, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	return &Workspace{
		dir:     dir,
		client:  &http.Client{Timeout: 5 * time.Minute},
		maxSize: maxSize,
	}, nil
}

func (w *Workspace) Dir() string { return w.dir }

// Path returns a fresh unique path for name inside the workspace.
func (w *Workspace) Path(name string) string {
	safe := SafeFilename(name)
	ext := filepath.Ext(safe)
	stem := strings.TrimSuffix(safe, ext)
	return filepath.Join(w.dir, fmt.Sprintf("%s_%s%s", stem, uuid.NewString()[:8], ext))
}

// Mkdir creates a fresh unique directory for multi-file outputs.
func (w *Workspace) Mkdir(prefix string) (string, error) {
	dir := filepath.Join(w.dir, SafeFilename(prefix)+"_"+uuid.NewString()[:8])
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// Download fetches url into a new file named after name.
func (w *Workspace) Download(ctx context.Context, url, name string) (string, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", 0, err
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("download %s: %w", name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("download %s: status %d", name, resp.StatusCode)
	}
	return w.Write(resp.Body, name)
}

// Write copies r into a new file named after name.
func (w *Workspace) Write(r io.Reader, name string) (string, int64, error) {
	path := w.Path(name)
	f, err := os.Create(path)
	if err != nil {
		return "", 0, err
	}
	src := r
	if w.maxSize > 0 {
		src = io.LimitReader(r, w.maxSize+1)
	}
	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && w.maxSize > 0 && n > w.maxSize {
		err = ErrTooLarge
	}
	if err != nil {
		os.Remove(path)
		return "", 0, err
	}
	return path, n, nil
}

// Cleanup removes files and directories, ignoring ones already gone.
// Paths outside the workspace are left alone.
func (w *Workspace) Cleanup(paths ...string) {
	for _, p := range paths {
		if p == "" || !w.contains(p) {
			continue
		}
		os.RemoveAll(p)
	}
}

func (w *Workspace) contains(p string) bool {
	rel, err := filepath.Rel(w.dir, p)
	return err == nil && rel != "." && !strings.HasPrefix(rel, "..")
}

// Sweep deletes top-level entries older than maxAge and returns how many
// were removed.
func (w *Workspace) Sweep(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return 0, err
	}
	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.RemoveAll(filepath.Join(w.dir, e.Name())); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}

// RunSweeper calls Sweep every interval until ctx ends.
func (w *Workspace) RunSweeper(ctx context.Context, interval, maxAge time.Duration, onSweep func(removed int, err error)) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := w.Sweep(maxAge)
			if onSweep != nil {
				onSweep(n, err)
			}
		}
	}
}
