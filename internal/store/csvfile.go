package store

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Karthik-guddanti/product-client/internal/inventory"
)

// csvfile.go parses the bulk-import file format: a CSV with the columns
// name, price, stock, category. Headers are case-insensitive and may appear
// in any order; extra columns are ignored. Every bad row is reported, not
// just the first, so the user can fix the whole file in one pass.

var requiredColumns = []string{"name", "price", "stock", "category"}

// headerIndex maps lowercase column names to their position in a row.
type headerIndex map[string]int

// ParseProductsCSV validates the header and every row of the file and
// returns the typed rows. Row failures come back as inventory.FieldErrors
// scoped to "row N: column"; a malformed file (bad CSV framing, missing
// required columns, no data rows) fails as a single validation error.
func ParseProductsCSV(data []byte) ([]inventory.ProductInput, error) {
	reader := csv.NewReader(bytes.NewReader(stripBOM(data)))
	reader.FieldsPerRecord = -1 // ragged rows are caught per row below

	header, err := reader.Read()
	if err == io.EOF {
		return nil, inventory.ValidationError{Message: "empty file"}
	}
	if err != nil {
		return nil, inventory.ValidationError{Message: fmt.Sprintf("invalid csv: %v", err)}
	}

	idx, err := indexHeader(header)
	if err != nil {
		return nil, err
	}

	var (
		rows []inventory.ProductInput
		errs inventory.FieldErrors
		line = 1
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			errs = append(errs, inventory.ValidationError{
				Field:   fmt.Sprintf("row %d", line),
				Message: fmt.Sprintf("invalid csv: %v", err),
			})
			continue
		}

		in, rowErrs := parseRow(record, idx, line)
		if len(rowErrs) > 0 {
			errs = append(errs, rowErrs...)
			continue
		}
		rows = append(rows, in)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	if len(rows) == 0 {
		return nil, inventory.ValidationError{Message: "file has no data rows"}
	}
	return rows, nil
}

// indexHeader builds the column index and checks the required columns exist.
func indexHeader(header []string) (headerIndex, error) {
	idx := make(headerIndex, len(header))
	for i, col := range header {
		idx[strings.ToLower(cleanCell(col))] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, inventory.ValidationError{
			Message: "missing required columns: " + strings.Join(missing, ", "),
		}
	}
	return idx, nil
}

// parseRow converts one record to a typed input, reporting every bad field.
func parseRow(record []string, idx headerIndex, line int) (inventory.ProductInput, inventory.FieldErrors) {
	cell := func(col string) string {
		pos := idx[col]
		if pos >= len(record) {
			return ""
		}
		return cleanCell(record[pos])
	}

	var errs inventory.FieldErrors
	rowField := func(col string) string { return fmt.Sprintf("row %d: %s", line, col) }

	in := inventory.ProductInput{
		Name:     cell("name"),
		Category: cell("category"),
	}
	if in.Name == "" {
		errs = append(errs, inventory.ValidationError{Field: rowField("name"), Message: "name is required"})
	}
	if in.Category == "" {
		errs = append(errs, inventory.ValidationError{Field: rowField("category"), Message: "category is required"})
	}

	rawPrice := cell("price")
	price, err := strconv.ParseFloat(rawPrice, 64)
	if err != nil || price <= 0 {
		errs = append(errs, inventory.ValidationError{Field: rowField("price"), Value: rawPrice, Message: "price must be > 0"})
	} else {
		in.Price = price
	}

	rawStock := cell("stock")
	stock, err := strconv.Atoi(rawStock)
	if err != nil || stock < 0 {
		errs = append(errs, inventory.ValidationError{Field: rowField("stock"), Value: rawStock, Message: "stock must be >= 0"})
	} else {
		in.Stock = stock
	}

	return in, errs
}

// cleanCell normalizes a raw CSV cell: trims whitespace and unwraps the
// Excel formula prefix (="value") some exports add.
func cleanCell(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) && len(s) >= 3 {
		s = s[2 : len(s)-1]
	}
	return strings.TrimSpace(s)
}

// stripBOM drops a UTF-8 byte order mark if present.
func stripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
}
