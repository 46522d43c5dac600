// Package spreadsheet reads uploaded tables and writes XLSX workbooks.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrEmpty is returned for uploads without a header row.
var ErrEmpty = errors.New("spreadsheet: no rows")

// xlsxMagic is the zip signature every XLSX file starts with.
var xlsxMagic = []byte("PK\x03\x04")

// ReadRows returns all rows of an XLSX (first sheet) or CSV upload.
// The format is chosen by file extension, falling back to content sniffing.
// PRE: r yields the whole file
// POST: Returns ErrEmpty when the file has no rows; cells are trimmed
func ReadRows(r io.Reader, filename string) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	var rows [][]string
	if isXLSX(filename, data) {
		rows, err = readXLSX(data)
	} else {
		rows, err = readCSV(data)
	}
	if err != nil {
		return nil, err
	}
	for i := range rows {
		for j := range rows[i] {
			rows[i][j] = strings.TrimSpace(rows[i][j])
		}
	}
	if len(rows) == 0 {
		return nil, ErrEmpty
	}
	return rows, nil
}

func isXLSX(filename string, data []byte) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return true
	case ".csv":
		return false
	}
	return bytes.HasPrefix(data, xlsxMagic)
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()
	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrEmpty
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	if bytes.Count(firstLine(data), []byte(";")) > bytes.Count(firstLine(data), []byte(",")) {
		cr.Comma = ';'
	}
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return rows, nil
}

func firstLine(data []byte) []byte {
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return data[:i]
	}
	return data
}

// Sheet is one worksheet of an exported workbook.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]any
}

// Write renders sheets into one XLSX workbook in the given order.
// PRE: at least one sheet; sheet names are unique
// POST: the default "Sheet1" is replaced by the first sheet
func Write(w io.Writer, sheets []Sheet) error {
	if len(sheets) == 0 {
		return ErrEmpty
	}
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.Name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sh.Name); err != nil {
			return fmt.Errorf("add sheet %s: %w", sh.Name, err)
		}
		if err := writeRow(f, sh.Name, 1, toAny(sh.Header)); err != nil {
			return err
		}
		if len(sh.Header) > 0 {
			end, _ := excelize.CoordinatesToCellName(len(sh.Header), 1)
			if err := f.SetCellStyle(sh.Name, "A1", end, bold); err != nil {
				return fmt.Errorf("style header: %w", err)
			}
		}
		for r, row := range sh.Rows {
			if err := writeRow(f, sh.Name, r+2, row); err != nil {
				return err
			}
		}
	}
	f.SetActiveSheet(0)
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
	}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
