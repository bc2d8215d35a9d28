package report

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/kundix7-sys/product-testing-app/internal/domain"
)

// SheetName is the single worksheet carrying the whole report.
const SheetName = "Test Report"

const (
	colName   = "A"
	colStatus = "B"
	colNotes  = "C"
	colTested = "D"
)

// EncodeXLSX serializes the document model into a self-contained xlsx
// workbook: title block, components table, photos section and, when
// present, the screenshot section — in that order.
func EncodeXLSX(doc *Document) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, errors.Wrap(err, "rename sheet")
	}
	if err := setColumnWidths(f); err != nil {
		return nil, err
	}

	styles, err := newSheetStyles(f)
	if err != nil {
		return nil, err
	}

	row := 1
	row, err = writeTitleBlock(f, styles, doc, row)
	if err != nil {
		return nil, err
	}
	row, err = writeComponents(f, styles, doc.Components, row)
	if err != nil {
		return nil, err
	}
	row, err = writeImageSection(f, styles, "Photos", doc.Photos, row)
	if err != nil {
		return nil, err
	}
	if doc.Screenshot != nil {
		if _, err = writeImageSection(f, styles, "Screenshot", []PhotoEntry{*doc.Screenshot}, row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "write workbook")
	}
	return buf.Bytes(), nil
}

type sheetStyles struct {
	title   int
	label   int
	section int
	header  int
	status  map[string]int
}

func newSheetStyles(f *excelize.File) (*sheetStyles, error) {
	s := &sheetStyles{status: make(map[string]int)}

	var err error
	s.title, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}})
	if err != nil {
		return nil, errors.Wrap(err, "title style")
	}
	s.label, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, errors.Wrap(err, "label style")
	}
	s.section, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 13},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return nil, errors.Wrap(err, "section style")
	}
	s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"F2F2F2"}, Pattern: 1},
	})
	if err != nil {
		return nil, errors.Wrap(err, "header style")
	}

	// Distinct fills keep the three status states tellable apart even
	// without the marker glyphs.
	fills := map[string]string{
		domain.StatusWorking:    "C6EFCE",
		domain.StatusNotWorking: "FFC7CE",
		domain.StatusUntested:   "D9D9D9",
	}
	for status, color := range fills {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return nil, errors.Wrap(err, "status style")
		}
		s.status[status] = id
	}
	return s, nil
}

func setColumnWidths(f *excelize.File) error {
	widths := map[string]float64{
		colName:   32,
		colStatus: 16,
		colNotes:  48,
		colTested: 22,
	}
	for col, width := range widths {
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return errors.Wrap(err, "set column width")
		}
	}
	return nil
}

func writeTitleBlock(f *excelize.File, styles *sheetStyles, doc *Document, row int) (int, error) {
	if err := f.MergeCell(SheetName, cell(colName, row), cell(colTested, row)); err != nil {
		return row, errors.Wrap(err, "merge title")
	}
	setCell(f, colName, row, doc.Title.Name)
	_ = f.SetCellStyle(SheetName, cell(colName, row), cell(colName, row), styles.title)
	row++

	labeled := []struct {
		label string
		value interface{}
	}{
		{"Inventory ID", doc.Title.InventoryID},
		{"Description", doc.Title.Description},
		{"Price", fmt.Sprintf("%.2f", doc.Title.Price)},
		{"Generated", doc.GeneratedAt.Format(time.RFC3339)},
	}
	for _, item := range labeled {
		setCell(f, colName, row, item.label)
		_ = f.SetCellStyle(SheetName, cell(colName, row), cell(colName, row), styles.label)
		setCell(f, colStatus, row, item.value)
		row++
	}
	return row + 1, nil
}

func writeComponents(f *excelize.File, styles *sheetStyles, components []ComponentEntry, row int) (int, error) {
	row = writeSectionHeader(f, styles, "Components", row)

	headers := map[string]string{
		colName:   "Component",
		colStatus: "Status",
		colNotes:  "Notes",
		colTested: "Last Tested",
	}
	for col, label := range headers {
		setCell(f, col, row, label)
		_ = f.SetCellStyle(SheetName, cell(col, row), cell(col, row), styles.header)
	}
	row++

	for _, entry := range components {
		setCell(f, colName, row, entry.Name)
		setCell(f, colStatus, row, entry.Marker)
		if id, ok := styles.status[entry.Status]; ok {
			_ = f.SetCellStyle(SheetName, cell(colStatus, row), cell(colStatus, row), id)
		}
		setCell(f, colNotes, row, entry.Notes)
		if entry.TestedAt != nil {
			setCell(f, colTested, row, entry.TestedAt.Format("2006-01-02 15:04"))
		}
		row++
	}
	return row + 1, nil
}

func writeImageSection(f *excelize.File, styles *sheetStyles, title string, entries []PhotoEntry, row int) (int, error) {
	row = writeSectionHeader(f, styles, title, row)

	for _, entry := range entries {
		if entry.Unavailable {
			setCell(f, colName, row, "[ "+entry.Reason+" ]")
			row++
			continue
		}
		if err := f.SetRowHeight(SheetName, row, 140); err != nil {
			return row, errors.Wrap(err, "set image row height")
		}
		err := f.AddPictureFromBytes(SheetName, cell(colName, row), &excelize.Picture{
			Extension: entry.Image.Ext,
			File:      entry.Image.Data,
			Format:    &excelize.GraphicOptions{AutoFit: true},
		})
		if err != nil {
			// Degrade this one image, keep the document whole.
			setCell(f, colName, row, "[ image unavailable ]")
		}
		row++
	}
	return row + 1, nil
}

func writeSectionHeader(f *excelize.File, styles *sheetStyles, title string, row int) int {
	_ = f.MergeCell(SheetName, cell(colName, row), cell(colTested, row))
	setCell(f, colName, row, title)
	_ = f.SetCellStyle(SheetName, cell(colName, row), cell(colTested, row), styles.section)
	return row + 1
}

func setCell(f *excelize.File, col string, row int, value interface{}) {
	_ = f.SetCellValue(SheetName, cell(col, row), value)
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
