package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CatalogWriter is what the importer needs from storage: category
// resolution and product upserts keyed by (category, name).
type CatalogWriter interface {
	EnsureCategory(ctx context.Context, name string) (string, error)
	UpsertProduct(ctx context.Context, categoryID string, row ProductRow) error
}

// ProductRow is one parsed CSV line.
type ProductRow struct {
	Category    string
	Name        string
	Description string
	PriceCents  int64
	Stock       int
}

// CSVImporter reads bulk product exports and inserts/updates the catalog.
// Expected headers: category, name, description, price_cents, stock.
type CSVImporter struct {
	reader *csv.Reader
	writer CatalogWriter
}

func NewCSVImporter(r io.Reader, writer CatalogWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader: csvr,
		writer: writer,
	}
}

// Run parses CSV rows and upserts products, resolving each category once.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	categoryIDs := map[string]string{}
	imported := 0

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		row, err := parseRow(record, index)
		if err != nil {
			return imported, err
		}
		if row == nil {
			continue
		}

		categoryID, ok := categoryIDs[row.Category]
		if !ok {
			categoryID, err = i.writer.EnsureCategory(ctx, row.Category)
			if err != nil {
				return imported, fmt.Errorf("ensure category %q: %w", row.Category, err)
			}
			categoryIDs[row.Category] = categoryID
		}

		if err := i.writer.UpsertProduct(ctx, categoryID, *row); err != nil {
			return imported, fmt.Errorf("upsert product %q: %w", row.Name, err)
		}
		imported++
	}

	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(strings.ToLower(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (*ProductRow, error) {
	name := pick(record, index, "name")
	category := pick(record, index, "category")
	if name == "" && category == "" {
		return nil, nil
	}
	if name == "" || category == "" {
		return nil, fmt.Errorf("invalid product row (missing name or category): %v", record)
	}

	priceStr := pick(record, index, "price_cents")
	price, err := strconv.ParseInt(priceStr, 10, 64)
	if err != nil || price <= 0 {
		return nil, fmt.Errorf("invalid price %q for product %q", priceStr, name)
	}

	stock := 0
	if stockStr := pick(record, index, "stock"); stockStr != "" {
		stock, err = strconv.Atoi(stockStr)
		if err != nil || stock < 0 {
			return nil, fmt.Errorf("invalid stock %q for product %q", stockStr, name)
		}
	}

	return &ProductRow{
		Category:    category,
		Name:        name,
		Description: pick(record, index, "description"),
		PriceCents:  price,
		Stock:       stock,
	}, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
