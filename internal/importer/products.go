package importer

import (
	"strings"

	"github.com/Angeloac12/siigo-cotizador/internal/catalog"
	"github.com/Angeloac12/siigo-cotizador/internal/parser"
	"github.com/Angeloac12/siigo-cotizador/internal/textfold"
)

// ImportError reports a price-list row that could not be imported.
type ImportError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// Price-list header vocabulary, folded. Spanish forms first since that is
// what providers actually send.
var (
	codeHeaders  = []string{"codigo", "code", "referencia", "ref", "sku"}
	nameHeaders  = []string{"nombre", "producto", "articulo", "name", "item"}
	descHeaders  = []string{"descripcion", "detalle", "description"}
	brandHeaders = []string{"marca", "brand"}
	modelHeaders = []string{"modelo", "model"}
	priceHeaders = []string{"precio", "valor", "price"}
	unitHeaders  = []string{"unidad", "unit", "um", "u.m."}
)

type productColumns struct {
	code, name, desc, brand, model, price, unit int
}

func mapProductColumns(headers []string) productColumns {
	cols := productColumns{code: -1, name: -1, desc: -1, brand: -1, model: -1, price: -1, unit: -1}
	for i, h := range headers {
		folded := textfold.Fold(strings.TrimSpace(h))
		switch {
		case cols.code < 0 && matchesHeader(folded, codeHeaders):
			cols.code = i
		case cols.name < 0 && matchesHeader(folded, nameHeaders):
			cols.name = i
		case cols.desc < 0 && matchesHeader(folded, descHeaders):
			cols.desc = i
		case cols.brand < 0 && matchesHeader(folded, brandHeaders):
			cols.brand = i
		case cols.model < 0 && matchesHeader(folded, modelHeaders):
			cols.model = i
		case cols.price < 0 && matchesHeader(folded, priceHeaders):
			cols.price = i
		case cols.unit < 0 && matchesHeader(folded, unitHeaders):
			cols.unit = i
		}
	}
	return cols
}

func matchesHeader(folded string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(folded, kw) {
			return true
		}
	}
	return false
}

// ReadProducts maps a price-list table into catalog products. Rows missing a
// code or name are reported, not fatal; a file without code and name columns
// is.
func ReadProducts(table *parser.Table) ([]catalog.Product, []ImportError, error) {
	cols := mapProductColumns(table.Headers)
	if cols.code < 0 || cols.name < 0 {
		return nil, nil, ErrMissingColumns
	}

	var (
		products []catalog.Product
		errs     []ImportError
	)
	for i, row := range table.Rows {
		rowNum := i + 2 // 1-based, after the header row

		p := catalog.Product{
			Code:        cell(row, cols.code),
			Name:        cell(row, cols.name),
			Description: cell(row, cols.desc),
			Brand:       cell(row, cols.brand),
			Model:       cell(row, cols.model),
			Unit:        cell(row, cols.unit),
		}
		switch {
		case p.Code == "" && p.Name == "":
			continue // blank row
		case p.Code == "":
			errs = append(errs, ImportError{Row: rowNum, Error: "code is required"})
			continue
		case p.Name == "":
			errs = append(errs, ImportError{Row: rowNum, Error: "name is required"})
			continue
		}

		if raw := cell(row, cols.price); raw != "" {
			if v, ok := parser.ParseQuantity(raw); ok {
				p.Price = v
			} else {
				errs = append(errs, ImportError{Row: rowNum, Error: "price is not a number"})
				continue
			}
		}

		products = append(products, p)
	}
	return products, errs, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
