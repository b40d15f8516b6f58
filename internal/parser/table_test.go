package parser_test

import (
	"testing"

	"github.com/Angeloac12/siigo-cotizador/internal/domain"
	"github.com/Angeloac12/siigo-cotizador/internal/parser"
)

func TestParseTable_ColumnsDetected(t *testing.T) {
	p := parser.New(nil)

	table := parser.Table{
		Headers: []string{"No.", "Descripción", "Cantidad", "Unidad"},
		Rows: [][]string{
			{"1", "Cable THHN 12 rojo", "100", "mts"},
			{"2", "Breaker 20A", "3", "und"},
		},
	}

	result := p.ParseTable(table, 0)
	if len(result.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(result.Items))
	}

	first := result.Items[0]
	if first.Description != "Cable THHN 12 rojo" {
		t.Errorf("description = %q", first.Description)
	}
	if first.Quantity != 100 {
		t.Errorf("quantity = %v, want 100", first.Quantity)
	}
	if first.UOM != domain.UOMMeter {
		t.Errorf("uom = %s, want M", first.UOM)
	}
	if first.Confidence != 0.7 {
		t.Errorf("confidence = %v, want 0.7", first.Confidence)
	}
	if len(first.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", first.Warnings)
	}
}

func TestParseTable_BackfillFromDescription(t *testing.T) {
	p := parser.New(nil)

	// Quantity column unusable: the row's quantity must be recovered from
	// the description cell by the line strategies.
	table := parser.Table{
		Headers: []string{"descripcion", "cantidad"},
		Rows: [][]string{
			{"10 mts cable #8", ""},
		},
	}

	result := p.ParseTable(table, 0)
	if len(result.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(result.Items))
	}

	item := result.Items[0]
	if item.Quantity != 10 {
		t.Errorf("quantity = %v, want 10 (backfilled)", item.Quantity)
	}
	if item.UOM != domain.UOMMeter {
		t.Errorf("uom = %s, want M (backfilled)", item.UOM)
	}
	if item.UOMRaw != "mts" {
		t.Errorf("uom_raw = %q, want mts", item.UOMRaw)
	}
}

func TestParseTable_NoUsableColumns(t *testing.T) {
	p := parser.New(nil)

	table := parser.Table{
		Headers: []string{"a", "b"},
		Rows: [][]string{
			{"2 rollos", "alambre galvanizado"},
		},
	}

	result := p.ParseTable(table, 0)

	found := false
	for _, w := range result.Warnings {
		if w == domain.WarnNoTableColumns {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %v, want %s", result.Warnings, domain.WarnNoTableColumns)
	}

	if len(result.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(result.Items))
	}
	// Description falls back to the joined row, and the row still parses.
	if result.Items[0].Quantity != 2 {
		t.Errorf("quantity = %v, want 2", result.Items[0].Quantity)
	}
	if result.Items[0].UOM != domain.UOMRoll {
		t.Errorf("uom = %s, want ROL", result.Items[0].UOM)
	}
}

func TestParseTable_Empty(t *testing.T) {
	p := parser.New(nil)

	result := p.ParseTable(parser.Table{}, 0)
	if len(result.Items) != 0 {
		t.Fatalf("items = %d, want 0", len(result.Items))
	}
	if len(result.Warnings) != 1 || result.Warnings[0] != domain.WarnEmptyTable {
		t.Errorf("warnings = %v, want empty-table warning", result.Warnings)
	}
}
