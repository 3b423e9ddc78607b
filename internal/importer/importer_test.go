package importer

import (
	"context"
	"strings"
	"testing"
)

type stubWriter struct {
	categories map[string]string
	ensured    int
	upserts    []ProductRow
}

func newStubWriter() *stubWriter {
	return &stubWriter{categories: map[string]string{}}
}

func (s *stubWriter) EnsureCategory(_ context.Context, name string) (string, error) {
	s.ensured++
	id, ok := s.categories[name]
	if !ok {
		id = "cat-" + name
		s.categories[name] = id
	}
	return id, nil
}

func (s *stubWriter) UpsertProduct(_ context.Context, _ string, row ProductRow) error {
	s.upserts = append(s.upserts, row)
	return nil
}

func TestRun_ImportsRows(t *testing.T) {
	csv := strings.Join([]string{
		"category,name,description,price_cents,stock",
		"Books,Go in Practice,Second edition,45000,12",
		"Books,SQL Basics,,30000,5",
		"Electronics,USB Hub,4 ports,150000,30",
	}, "\n")

	w := newStubWriter()
	imp := NewCSVImporter(strings.NewReader(csv), w)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 imported, got %d", count)
	}
	if w.ensured != 2 {
		t.Fatalf("expected category cache to dedupe, got %d lookups", w.ensured)
	}
	if w.upserts[1].Name != "SQL Basics" || w.upserts[1].Stock != 5 {
		t.Fatalf("unexpected row %+v", w.upserts[1])
	}
}

func TestRun_SkipsBlankRows(t *testing.T) {
	csv := "category,name,description,price_cents,stock\n,,,,\nBooks,Go in Practice,,45000,1\n"

	w := newStubWriter()
	imp := NewCSVImporter(strings.NewReader(csv), w)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 imported, got %d", count)
	}
}

func TestRun_RejectsBadPrice(t *testing.T) {
	csv := "category,name,description,price_cents,stock\nBooks,Broken,,notanumber,1\n"

	imp := NewCSVImporter(strings.NewReader(csv), newStubWriter())
	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatalf("expected error for invalid price")
	}
}
