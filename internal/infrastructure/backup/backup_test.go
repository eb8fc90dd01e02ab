package backup

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/sangkips/shopfront-pos/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestMonthCopiesEveryStateOfTheMonth(t *testing.T) {
	dataDir := t.TempDir()
	write(t, filepath.Join(dataDir, "202506", "sales_20250601_090000.json"), "a")
	write(t, filepath.Join(dataDir, "success", "sales_20250602_090000.json"), "b")
	write(t, filepath.Join(dataDir, "pending", "sales_20250603_090000.json"), "c")
	write(t, filepath.Join(dataDir, "success", "sales_20250501_090000.json"), "old")
	write(t, filepath.Join(dataDir, "cashflow", "202506", "deposit_20250601_080000.json"), "d")
	write(t, filepath.Join(dataDir, "202506", ".tmp-123"), "partial")

	root := t.TempDir()
	res, err := Month(context.Background(), NewDirTarget(root), dataDir, "202506", logger.Discard())
	require.NoError(t, err)

	files := append([]string(nil), res.Files...)
	sort.Strings(files)
	assert.Equal(t, []string{
		"202506/sales_20250601_090000.json",
		"cashflow/202506/deposit_20250601_080000.json",
		"pending/sales_20250603_090000.json",
		"success/sales_20250602_090000.json",
	}, files)

	data, err := os.ReadFile(filepath.Join(root, "success", "sales_20250602_090000.json"))
	require.NoError(t, err)
	assert.Equal(t, "b", string(data))
}

func TestMonthWithNothingToCopy(t *testing.T) {
	res, err := Month(context.Background(), NewDirTarget(t.TempDir()), t.TempDir(), "202506", logger.Discard())
	require.NoError(t, err)
	assert.Empty(t, res.Files)
}

func TestS3KeyAndContentType(t *testing.T) {
	target := &S3Target{bucket: "pos-backup", prefix: "store-1/"}
	assert.Equal(t, "store-1/202506/sales_x.json", target.key("202506/sales_x.json"))
	assert.Equal(t, "s3://pos-backup/store-1/", target.String())
	assert.Equal(t, "application/json", contentType("a/b.json"))
	assert.Equal(t, "text/csv", contentType("r.csv"))
}
