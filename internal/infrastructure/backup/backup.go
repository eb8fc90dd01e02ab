// Package backup copies a month of records off the terminal, either into a
// directory (a mounted share) or into an S3 bucket.
package backup

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Target receives backup files. name is slash-separated and relative.
type Target interface {
	Put(ctx context.Context, name string, data []byte) error
	String() string
}

// Result lists what a backup run copied.
type Result struct {
	Target string   `json:"target"`
	Month  string   `json:"month"`
	Files  []string `json:"files"`
}

// Month copies every record of month (YYYYMM) under dataDir to target:
// sales still in the month directory, sales of that month already moved to
// pending or success, and the month's cash flow records. Names keep their
// place relative to dataDir.
func Month(ctx context.Context, target Target, dataDir, month string, logger *slog.Logger) (*Result, error) {
	res := &Result{Target: target.String(), Month: month}

	sources := []struct {
		dir    string
		prefix string
	}{
		{filepath.Join(dataDir, month), ""},
		{filepath.Join(dataDir, "pending"), "sales_" + month},
		{filepath.Join(dataDir, "success"), "sales_" + month},
		{filepath.Join(dataDir, "cashflow", month), ""},
	}

	for _, src := range sources {
		entries, err := os.ReadDir(src.dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return res, fmt.Errorf("backup: list %s: %w", src.dir, err)
		}
		for _, e := range entries {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			if e.IsDir() || strings.HasPrefix(e.Name(), ".") || !strings.HasPrefix(e.Name(), src.prefix) {
				continue
			}
			path := filepath.Join(src.dir, e.Name())
			data, err := os.ReadFile(path)
			if err != nil {
				return res, fmt.Errorf("backup: read %s: %w", path, err)
			}
			rel, err := filepath.Rel(dataDir, path)
			if err != nil {
				return res, fmt.Errorf("backup: %w", err)
			}
			name := filepath.ToSlash(rel)
			if err := target.Put(ctx, name, data); err != nil {
				return res, fmt.Errorf("backup: put %s: %w", name, err)
			}
			res.Files = append(res.Files, name)
		}
	}

	if len(res.Files) == 0 {
		logger.Warn("nothing to back up", "month", month, "data_dir", dataDir)
	} else {
		logger.Info("backup finished", "month", month, "target", res.Target, "files", len(res.Files))
	}
	return res, nil
}

// DirTarget writes files below a root directory.
type DirTarget struct {
	root string
}

// NewDirTarget creates a directory target.
func NewDirTarget(root string) *DirTarget {
	return &DirTarget{root: root}
}

func (t *DirTarget) Put(_ context.Context, name string, data []byte) error {
	dst := filepath.Join(t.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

func (t *DirTarget) String() string {
	return t.root
}
