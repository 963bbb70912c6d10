package seed

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/xuri/excelize/v2"
)

// Catalog column names, matched case-insensitively against the header row.
const (
	ColTitle           = "title"
	ColDescription     = "description"
	ColPrice           = "price"
	ColDiscountedPrice = "discounted_price"
	ColSizes           = "sizes"
	ColCategory        = "category"
	ColImages          = "images"
	ColStock           = "stock"
)

var requiredColumns = []string{ColTitle, ColPrice, ColCategory}

// Entry is a parsed product together with its spreadsheet row.
type Entry struct {
	Row     int
	Product model.Product
}

// RowError describes a spreadsheet row that could not be imported.
type RowError struct {
	Row    int // 1-based, as shown by spreadsheet applications
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// ReadProductsFile parses the first sheet of the workbook at path.
func ReadProductsFile(path string) ([]Entry, []RowError, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()
	return readProducts(f)
}

// ReadProducts parses the first sheet of a workbook read from r.
func ReadProducts(r io.Reader) ([]Entry, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()
	return readProducts(f)
}

func readProducts(f *excelize.File) ([]Entry, []RowError, error) {
	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("no data found in XLSX file")
	}

	columns := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, nil, fmt.Errorf("missing required column %q", name)
		}
	}

	var (
		entries []Entry
		skipped []RowError
	)
	for i, row := range rows[1:] {
		rowNum := i + 2
		cell := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		if isBlank(row) {
			continue
		}

		product, reason := parseRow(cell)
		if reason != "" {
			skipped = append(skipped, RowError{Row: rowNum, Reason: reason})
			continue
		}
		entries = append(entries, Entry{Row: rowNum, Product: product})
	}

	return entries, skipped, nil
}

func parseRow(cell func(string) string) (model.Product, string) {
	product := model.Product{
		Title:       cell(ColTitle),
		Description: cell(ColDescription),
		Sizes:       cell(ColSizes),
		Category:    cell(ColCategory),
		Images:      splitList(cell(ColImages)),
	}
	if product.Title == "" || product.Category == "" {
		return product, "title and category are required"
	}

	price, err := strconv.ParseFloat(cell(ColPrice), 64)
	if err != nil || price <= 0 {
		return product, fmt.Sprintf("invalid price %q", cell(ColPrice))
	}
	product.Price = price

	if raw := cell(ColDiscountedPrice); raw != "" {
		discounted, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return product, fmt.Sprintf("invalid discounted_price %q", raw)
		}
		product.DiscountedPrice = &discounted
	}

	if raw := cell(ColStock); raw != "" {
		stock, err := strconv.Atoi(raw)
		if err != nil || stock < 0 {
			return product, fmt.Sprintf("invalid stock %q", raw)
		}
		product.Stock = stock
	}

	return product, ""
}

// splitList splits a cell holding several values separated by commas, pipes or newlines.
func splitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '|' || r == '\n'
	})
	var out []string
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
