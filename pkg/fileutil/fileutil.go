// Package fileutil holds the small file primitives the record stores are
// built on: exclusive publish, atomic replace and same-volume moves.
package fileutil

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// maxSuffix bounds how many "_n" variants are tried for a taken name.
const maxSuffix = 1000

// EnsureDir creates path and its parents. It is a no-op when path exists.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", path, err)
	}
	return nil
}

// MarshalJSON renders v the way records are kept on disk: two-space indent,
// non-ASCII left as is, no HTML escaping, trailing newline.
func MarshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadJSON decodes the file at path into v.
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

// WriteJSONExclusive writes v to dir/<stem><ext> without ever replacing an
// existing file. When the name is taken, "_1", "_2", ... is appended to the
// stem. The content is written to a temporary file first and published with
// a hard link, so readers never see a partial record.
func WriteJSONExclusive(dir, stem, ext string, v any) (string, error) {
	data, err := MarshalJSON(v)
	if err != nil {
		return "", fmt.Errorf("encode record: %w", err)
	}
	if err := EnsureDir(dir); err != nil {
		return "", err
	}

	tmp, err := writeTemp(dir, data)
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp)

	for n := 0; n < maxSuffix; n++ {
		name := stem + ext
		if n > 0 {
			name = stem + "_" + strconv.Itoa(n) + ext
		}
		path := filepath.Join(dir, name)
		err := os.Link(tmp, path)
		if err == nil {
			return path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("publish %s: %w", path, err)
		}
	}
	return "", fmt.Errorf("publish %s%s: too many records with the same name", stem, ext)
}

// WriteFileAtomic replaces path with data via a temporary file and rename.
// The previous file mode is kept when the file already exists.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return err
	}
	mode := fs.FileMode(0o600)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := writeTemp(dir, data)
	if err != nil {
		return err
	}
	if err := os.Chmod(tmp, mode); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("chmod %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// MoveInto renames src into dir, keeping its base name. If the destination is
// taken the name gets a "_n" suffix before the extension. Both paths must be
// on the same volume; the move is a single rename.
func MoveInto(src, dir string) (string, error) {
	if err := EnsureDir(dir); err != nil {
		return "", err
	}
	base := filepath.Base(src)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for n := 0; n < maxSuffix; n++ {
		name := base
		if n > 0 {
			name = stem + "_" + strconv.Itoa(n) + ext
		}
		dst := filepath.Join(dir, name)
		if _, err := os.Lstat(dst); err == nil {
			continue
		}
		if err := os.Rename(src, dst); err != nil {
			return "", fmt.Errorf("move %s to %s: %w", src, dir, err)
		}
		return dst, nil
	}
	return "", fmt.Errorf("move %s: too many files with the same name in %s", src, dir)
}

// EncodeCSV renders rows as CSV text with LF line endings.
func EncodeCSV(rows [][]string) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteCSV writes rows to path, creating parent directories.
func WriteCSV(path string, rows [][]string) error {
	text, err := EncodeCSV(rows)
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return WriteFileAtomic(path, []byte(text))
}

func writeTemp(dir string, data []byte) (string, error) {
	tmp := filepath.Join(dir, ".tmp-"+uuid.NewString())
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return tmp, nil
}
