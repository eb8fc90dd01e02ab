package printer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLayout = `
header:
  - text: "ショップフロント"
    align: center
    weight: bold
    size: large
  - text: "東京都千代田区1-1"
    align: center
body:
  datetime:
    label: "日時"
footer:
  - text: "お預り {pay_method_name} ¥{pay_amount}"
    align: right
`

func TestLoadLayoutFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "receipt_layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleLayout), 0o644))

	l, err := LoadLayout(path)
	require.NoError(t, err)
	require.Len(t, l.Header, 2)
	assert.Equal(t, "bold", l.Header[0].Weight)
	assert.Equal(t, "large", l.Header[0].Size)
	assert.Equal(t, "日時", l.Body.DateTime.Label)
	assert.Equal(t, "2006/01/02 15:04:05", l.Body.DateTime.Format)
	assert.Len(t, l.Body.Columns, 4)
	assert.Len(t, l.Footer, 1)
}

func TestParseLayoutRejectsBadYAML(t *testing.T) {
	_, err := ParseLayout([]byte("header: [unclosed"))
	assert.Error(t, err)
}

func TestDefaultLayoutColumnsFitWidth(t *testing.T) {
	for _, w := range []int{32, 48} {
		total := 0
		for _, c := range DefaultLayout(w).Body.Columns {
			total += c.Width
		}
		assert.Equal(t, w, total)
	}
}

func TestExpand(t *testing.T) {
	got := Expand("合計 ¥{total} / お釣り ¥{change} {unknown}", map[string]string{
		"total":  "1,200",
		"change": "300",
	})
	assert.Equal(t, "合計 ¥1,200 / お釣り ¥300 {unknown}", got)
}

func TestGoLayoutTranslatesStrftime(t *testing.T) {
	assert.Equal(t, "2006/01/02 15:04:05", LayoutDateTime{Format: "%Y/%m/%d %H:%M:%S"}.GoLayout())
	assert.Equal(t, "2006-01-02", LayoutDateTime{Format: "2006-01-02"}.GoLayout())
}
