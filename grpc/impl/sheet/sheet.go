// Package sheet turns the rows of a menu spreadsheet into text placements.
package sheet

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/xuri/excelize/v2"

	"github.com/cardapio-project/cardapio/grpc/impl/menu"
	"github.com/cardapio-project/cardapio/grpc/impl/render"
	"github.com/cardapio-project/cardapio/pkg/common"
)

// Column names, matched case-insensitively against the header row.
const (
	ColumnText       = "text"
	ColumnFontFamily = "font_family"
	ColumnFontSize   = "font_size"
	ColumnColor      = "color"
	ColumnPositionX  = "position_x"
	ColumnPositionY  = "position_y"
)

// Defaults for blank cells.
const (
	DefaultFontFamily = "arial"
	DefaultFontSize   = 20
	DefaultColor      = "#000000"
	DefaultPositionX  = 100
	// Rows without position_y are stacked from here downwards.
	FirstLineY = 50
)

// Placements reads the first sheet of an .xlsx document. The first row is the
// header. Rows are returned in sheet order; rows with blank text are skipped
// but still move the running line position.
func Placements(data []byte) ([]render.Placement, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, common.InputError("spreadsheet could not be read", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, common.InputErrorf("spreadsheet has no sheets")
	}
	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, common.InputError("spreadsheet rows could not be read", err)
	}
	if len(rows) == 0 {
		return nil, common.InputErrorf("spreadsheet has no header row")
	}

	header := map[string]int{}
	for i, name := range rows[0] {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}

	placements := []render.Placement{}
	y := FirstLineY
	for i, cells := range rows[1:] {
		line := row{header: header, cells: cells, number: i + 2}

		fontSize, err := line.intOr(ColumnFontSize, DefaultFontSize)
		if err != nil {
			return nil, err
		}
		x, err := line.intOr(ColumnPositionX, DefaultPositionX)
		if err != nil {
			return nil, err
		}
		explicitY, hasY, err := line.optionalInt(ColumnPositionY)
		if err != nil {
			return nil, err
		}

		text := line.cell(ColumnText)
		if strings.TrimSpace(text) == "" {
			if !hasY {
				y += fontSize / 2
			}
			continue
		}

		placement := render.Placement{
			Text:     text,
			FontName: strings.ToLower(strings.TrimSpace(line.cellOr(ColumnFontFamily, DefaultFontFamily))),
			FontSize: float64(fontSize),
			Color:    parseColor(line.cellOr(ColumnColor, DefaultColor)),
			X:        x,
			Y:        y,
		}
		if hasY {
			placement.Y = explicitY
		} else {
			y += int(float64(fontSize) * 1.5)
		}
		placements = append(placements, placement)
	}
	return placements, nil
}

// parseColor accepts #rrggbb or #rgb, with or without the '#'. Anything else is black.
func parseColor(value string) menu.RGB {
	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, "#") {
		value = "#" + value
	}
	c, err := colorful.Hex(value)
	if err != nil {
		return menu.Black
	}
	r, g, b := c.RGB255()
	return menu.RGB{R: r, G: g, B: b}
}

type row struct {
	header map[string]int
	cells  []string
	number int
}

// cell returns the raw cell, or "" when the column or cell is absent.
func (r row) cell(column string) string {
	i, ok := r.header[column]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return r.cells[i]
}

func (r row) cellOr(column string, fallback string) string {
	if value := strings.TrimSpace(r.cell(column)); value != "" {
		return value
	}
	return fallback
}

func (r row) intOr(column string, fallback int) (int, error) {
	value, ok, err := r.optionalInt(column)
	if err != nil || !ok {
		return fallback, err
	}
	return value, nil
}

// Numeric cells may be formatted as decimals, e.g. "20.0"; the fraction is dropped.
func (r row) optionalInt(column string) (int, bool, error) {
	value := strings.TrimSpace(r.cell(column))
	if value == "" {
		return 0, false, nil
	}
	number, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false, common.InputError("row "+strconv.Itoa(r.number)+": "+column+" is not a number", err)
	}
	return int(number), true, nil
}
