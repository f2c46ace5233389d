// Package emaillog loads the classified email log from a delimited file.
package emaillog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/verte-zerg/maildash/internal/model"
)

type fileStamp struct {
	modTime time.Time
	size    int64
}

// CachedReader reuses the last snapshot while the file's modification time
// and size are unchanged. A rewrite that keeps the same size within one
// modification-time tick of the filesystem is not detected and serves the
// previous snapshot until the file changes again.
type CachedReader struct {
	reader *Reader

	mu       sync.Mutex
	stamp    fileStamp
	snapshot model.EmailLog
	valid    bool
}

// NewCachedReader wraps r with a modification-time cache.
func NewCachedReader(r *Reader) *CachedReader {
	return &CachedReader{reader: r}
}

// Path returns the file the reader loads.
func (c *CachedReader) Path() string {
	return c.reader.Path()
}

// Load returns the cached snapshot or reads the file when it changed.
func (c *CachedReader) Load(ctx context.Context) (model.EmailLog, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	info, err := os.Stat(c.reader.Path())
	if err != nil {
		c.valid = false
		if errors.Is(err, os.ErrNotExist) {
			return c.reader.Load(ctx)
		}
		return model.EmailLog{}, fmt.Errorf("failed to stat log: %w", err)
	}
	stamp := fileStamp{modTime: info.ModTime(), size: info.Size()}
	if c.valid && stamp.modTime.Equal(c.stamp.modTime) && stamp.size == c.stamp.size {
		return copyLog(c.snapshot), nil
	}

	log, err := c.reader.Load(ctx)
	if err != nil {
		c.valid = false
		return model.EmailLog{}, err
	}
	c.stamp = stamp
	c.snapshot = log
	c.valid = true
	return copyLog(log), nil
}

func copyLog(l model.EmailLog) model.EmailLog {
	out := model.EmailLog{
		Columns: append([]string(nil), l.Columns...),
		Skipped: l.Skipped,
	}
	if l.Records != nil {
		out.Records = append([]model.EmailRecord(nil), l.Records...)
	}
	return out
}
