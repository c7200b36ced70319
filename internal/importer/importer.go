package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"chocostore/internal/domain"
	adminsvc "chocostore/internal/service/admin"
)

// ProductSink stores parsed products, skipping ids that already exist.
type ProductSink interface {
	ImportProducts(ctx context.Context, products []domain.Product) (adminsvc.ImportReport, error)
}

// CSVImporter reads a product spreadsheet export. A row with an empty id and
// only image columns adds pictures to the product above it.
type CSVImporter struct {
	reader *csv.Reader
	sink   ProductSink
}

func NewCSVImporter(r io.Reader, sink ProductSink) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{reader: csvr, sink: sink}
}

// Run parses every row and hands the products to the sink. Rows that cannot
// be parsed are reported in the result and skipped.
func (i *CSVImporter) Run(ctx context.Context) (adminsvc.ImportReport, error) {
	products, rowErrs, err := i.parse()
	if err != nil {
		return adminsvc.ImportReport{}, err
	}
	report, err := i.sink.ImportProducts(ctx, products)
	report.Total += len(rowErrs)
	report.Errors = append(rowErrs, report.Errors...)
	return report, err
}

func (i *CSVImporter) parse() ([]domain.Product, []string, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["id"]; !ok {
		return nil, nil, errors.New("read headers: missing id column")
	}

	var (
		products []domain.Product
		rowErrs  []string
		current  = -1
		line     = 1
	)
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, nil, fmt.Errorf("read row %d: %w", line, err)
		}

		id := pick(record, index, "id")
		images := imageList(record, index)
		if id == "" {
			if len(images) == 0 {
				continue
			}
			if current >= 0 {
				products[current].Images = append(products[current].Images, images...)
			}
			continue
		}

		p, err := parseProduct(id, record, index)
		if err != nil {
			rowErrs = append(rowErrs, fmt.Sprintf("line %d (%s): %v", line, id, err))
			current = -1
			continue
		}
		p.Images = images
		products = append(products, p)
		current = len(products) - 1
	}
	return products, rowErrs, nil
}

func parseProduct(id string, record []string, index map[string]int) (domain.Product, error) {
	p := domain.Product{
		ID:           id,
		Name:         pick(record, index, "name"),
		MainCategory: domain.MainCategory(pick(record, index, "mainCategory", "main_category")),
		Category:     pick(record, index, "category"),
		Description:  pick(record, index, "description"),
		Image:        pick(record, index, "image"),
		InStock:      true,
	}

	price := strings.ReplaceAll(pick(record, index, "price"), " ", "")
	if price != "" {
		v, err := strconv.ParseInt(price, 10, 64)
		if err != nil {
			return p, fmt.Errorf("invalid price %q", price)
		}
		p.Price = v
	}
	if raw := pick(record, index, "inStock", "in_stock"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return p, fmt.Errorf("invalid inStock %q", raw)
		}
		p.InStock = v
	}
	if raw := pick(record, index, "featured"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return p, fmt.Errorf("invalid featured %q", raw)
		}
		p.Featured = v
	}
	return p, nil
}

func imageList(record []string, index map[string]int) []string {
	var out []string
	for _, part := range strings.Split(pick(record, index, "images"), ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	return idx
}

// pick returns the first non-empty value among the given column names.
func pick(record []string, index map[string]int, keys ...string) string {
	for _, key := range keys {
		pos, ok := index[key]
		if !ok || pos >= len(record) {
			continue
		}
		if v := strings.TrimSpace(record[pos]); v != "" {
			return v
		}
	}
	return ""
}
