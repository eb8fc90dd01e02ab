package printer

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Layout is the shop-editable receipt layout, read from YAML.
//
//	header:
//	  - {text: "Shopfront", align: center, weight: bold, size: large}
//	body:
//	  datetime: {label: "日時", format: "2006/01/02 15:04:05"}
//	  separator: "------------------------------------------------"
//	  columns:
//	    - {name: 商品名, width: 24}
//	    - {name: 数量, width: 4, align: right}
//	footer:
//	  - {text: "お預り ¥{pay_amount}", align: right}
type Layout struct {
	Header []LayoutLine `yaml:"header"`
	Body   LayoutBody   `yaml:"body"`
	Footer []LayoutLine `yaml:"footer"`
}

// LayoutLine is one header or footer line.
type LayoutLine struct {
	Text   string `yaml:"text"`
	Image  string `yaml:"image"`
	Align  string `yaml:"align"`
	Weight string `yaml:"weight"`
	Size   string `yaml:"size"`
}

// LayoutBody configures the item table.
type LayoutBody struct {
	DateTime  LayoutDateTime `yaml:"datetime"`
	Separator string         `yaml:"separator"`
	Columns   []LayoutColumn `yaml:"columns"`
}

// LayoutDateTime is the sale time line. Format is a Go time layout.
type LayoutDateTime struct {
	Label  string `yaml:"label"`
	Format string `yaml:"format"`
}

// LayoutColumn is one column of the item table.
type LayoutColumn struct {
	Name  string `yaml:"name"`
	Width int    `yaml:"width"`
	Align string `yaml:"align"`
}

// Item table column names.
const (
	ColumnName      = "商品名"
	ColumnQuantity  = "数量"
	ColumnUnitPrice = "単価"
	ColumnAmount    = "金額"
)

// LoadLayout reads a layout file and fills unset fields from DefaultLayout.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("printer: read layout %s: %w", path, err)
	}
	return ParseLayout(data)
}

// ParseLayout decodes layout YAML.
func ParseLayout(data []byte) (*Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("printer: parse layout: %w", err)
	}
	def := DefaultLayout(48)
	if l.Body.DateTime.Format == "" {
		l.Body.DateTime.Format = def.Body.DateTime.Format
	}
	if l.Body.Separator == "" {
		l.Body.Separator = def.Body.Separator
	}
	if len(l.Body.Columns) == 0 {
		l.Body.Columns = def.Body.Columns
	}
	return &l, nil
}

// DefaultLayout is used when no layout file is configured. Column widths add
// up to charWidth.
func DefaultLayout(charWidth int) *Layout {
	if charWidth <= 0 {
		charWidth = 48
	}
	nameWidth := charWidth - 4 - 10 - 10
	if nameWidth < 8 {
		nameWidth = 8
	}
	return &Layout{
		Body: LayoutBody{
			DateTime:  LayoutDateTime{Label: "日時", Format: "2006/01/02 15:04:05"},
			Separator: strings.Repeat("-", charWidth),
			Columns: []LayoutColumn{
				{Name: ColumnName, Width: nameWidth},
				{Name: ColumnQuantity, Width: 4, Align: "right"},
				{Name: ColumnUnitPrice, Width: 10, Align: "right"},
				{Name: ColumnAmount, Width: 10, Align: "right"},
			},
		},
		Footer: []LayoutLine{
			{Text: "お預り {pay_method_name} ¥{pay_amount}", Align: "right"},
			{Text: "お釣り ¥{change}", Align: "right"},
			{Text: "ありがとうございました", Align: "center"},
		},
	}
}

// AlignCode maps a layout alignment name onto an ESC/POS alignment.
func AlignCode(name string) int {
	switch strings.ToLower(name) {
	case "center":
		return AlignCenter
	case "right":
		return AlignRight
	}
	return AlignLeft
}

// Expand replaces {name} placeholders in s with values. Unknown
// placeholders are left as they are.
func Expand(s string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(s)
}

var strftime = strings.NewReplacer(
	"%Y", "2006", "%y", "06", "%m", "01", "%d", "02",
	"%H", "15", "%M", "04", "%S", "05", "%%", "%",
)

// GoLayout returns Format as a Go time layout. Layout files written for the
// old terminal use strftime directives, which are translated.
func (d LayoutDateTime) GoLayout() string {
	if strings.Contains(d.Format, "%") {
		return strftime.Replace(d.Format)
	}
	return d.Format
}
