package printer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextWidth(t *testing.T) {
	assert.Equal(t, 5, TextWidth("hello"))
	assert.Equal(t, 4, TextWidth("緑茶"))
	assert.Equal(t, 6, TextWidth("¥1,200"))
	assert.Equal(t, 7, TextWidth("お茶abc"))
}

func TestFitTruncatesAndPads(t *testing.T) {
	assert.Equal(t, "緑茶  ", Fit("緑茶", 6))
	assert.Equal(t, "緑茶", Fit("緑茶ペットボトル", 5)[:len("緑茶")])
	assert.Equal(t, 5, TextWidth(Fit("緑茶ペットボトル", 5)))
	assert.Equal(t, "   42", PadLeft("42", 5))
	assert.Equal(t, "123456", PadLeft("123456", 3))
}

func TestDocumentEncodesShiftJIS(t *testing.T) {
	doc := NewDocument(32)
	doc.Text("合計")

	// 合 = 0x8D87, 計 = 0x8C76 in Shift_JIS
	assert.True(t, bytes.Contains(doc.Bytes(), []byte{0x8D, 0x87, 0x8C, 0x76, LF}))
	assert.True(t, bytes.HasPrefix(doc.Bytes(), []byte{ESC, '@', ESC, 't', CodePageKanji}))
}

func TestDocumentReplacesUnsupportedRunes(t *testing.T) {
	doc := NewDocument(32)
	doc.Text("ok😀")
	assert.True(t, bytes.Contains(doc.Bytes(), []byte("ok")))
}

func TestKickDrawer(t *testing.T) {
	doc := NewDocument(32)
	doc.KickDrawer()
	assert.True(t, bytes.HasSuffix(doc.Bytes(), []byte{ESC, 'p', 0x00, 0x32, 0xFA}))
}

func TestKeyValueUsesDisplayWidth(t *testing.T) {
	doc := NewDocument(10)
	doc.Reset()
	start := len(doc.Bytes())
	doc.KeyValue("合計", "100")

	line := doc.Bytes()[start:]
	// 2 kanji (4 bytes, 4 columns) + 3 spaces + "100" + LF
	assert.Equal(t, 4+3+3+1, len(line))
}
