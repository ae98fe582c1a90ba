package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"
	"github.com/yamitzky/opj-go/opj"
)

const maxSheetTitle = 31

func newXLSXCmd(g *globals) *cobra.Command {
	var output string
	var formatted bool
	cmd := &cobra.Command{
		Use:   "xlsx FILE",
		Short: "Export spreadsheets, workbooks and matrices to an .xlsx file",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usagef("xlsx takes exactly one file argument")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			doc, err := g.open(cmd, path, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if output == "" {
				if path == "-" {
					return usagef("--output is required when reading stdin")
				}
				output = strings.TrimSuffix(path, filepath.Ext(path)) + ".xlsx"
			}
			f, err := exportWorkbook(doc, formatted)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := f.SaveAs(output); err != nil {
				return fmt.Errorf("save %s: %w", output, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default: input with .xlsx extension)")
	cmd.Flags().BoolVarP(&formatted, "formatted", "f", false, "store values as displayed text")
	return cmd
}

// exportWorkbook builds one worksheet per spreadsheet, workbook sheet and
// matrix of doc. A project without tables yields the default empty sheet.
func exportWorkbook(doc *opj.Document, formatted bool) (*excelize.File, error) {
	f := excelize.NewFile()
	titles := make(map[string]bool)
	first := true
	addSheet := func(name string) (string, error) {
		title := uniqueTitle(sheetTitle(name), titles)
		if first {
			first = false
			return title, f.SetSheetName("Sheet1", title)
		}
		_, err := f.NewSheet(title)
		return title, err
	}

	for _, s := range doc.Spreadsheets() {
		title, err := addSheet(s.Name)
		if err != nil {
			return nil, err
		}
		if err := writeColumns(f, title, s.Columns, formatted); err != nil {
			return nil, err
		}
	}
	for _, wb := range doc.Workbooks() {
		for k, sheet := range wb.Sheets {
			name := wb.Name
			if k > 0 {
				name = fmt.Sprintf("%s.%d", wb.Name, k+1)
			}
			title, err := addSheet(name)
			if err != nil {
				return nil, err
			}
			if err := writeColumns(f, title, sheet.Columns, formatted); err != nil {
				return nil, err
			}
		}
	}
	for _, m := range doc.Matrices() {
		title, err := addSheet(m.Name)
		if err != nil {
			return nil, err
		}
		if err := writeMatrix(f, title, m); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func writeColumns(f *excelize.File, sheet string, columns []*opj.Column, formatted bool) error {
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	for i, c := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, c.Name); err != nil {
			return err
		}
		if c.Comment != "" {
			if err := f.AddComment(sheet, excelize.Comment{Cell: cell, Text: c.Comment}); err != nil {
				return err
			}
		}
		for r, v := range c.Cells {
			if v.IsEmpty() {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			if err := f.SetCellValue(sheet, cell, cellValue(c, r, v, formatted)); err != nil {
				return err
			}
		}
	}
	if len(columns) > 0 {
		return f.SetRowStyle(sheet, 1, 1, headerStyle)
	}
	return nil
}

func cellValue(c *opj.Column, r int, v opj.Cell, formatted bool) interface{} {
	if formatted {
		return c.Display(r)
	}
	if s, ok := v.Text(); ok {
		return s
	}
	return v.Num
}

func writeMatrix(f *excelize.File, sheet string, m *opj.Matrix) error {
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			v, ok := m.At(r, c)
			if !ok {
				return nil
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// sheetTitle turns a window name into a valid worksheet title.
func sheetTitle(name string) string {
	clean := strings.TrimSpace(strings.NewReplacer(
		":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_",
	).Replace(name))
	clean = strings.Trim(clean, "'")
	if clean == "" {
		clean = "Sheet"
	}
	return truncateRunes(clean, maxSheetTitle)
}

// uniqueTitle appends " (n)" until title is unused. Titles compare case
// insensitively.
func uniqueTitle(title string, used map[string]bool) string {
	candidate := title
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate = truncateRunes(title, maxSheetTitle-len(suffix)) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
