package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kailas-cloud/storefront/internal/domain"
	"github.com/kailas-cloud/storefront/internal/domain/catalog"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func decodeLines[T any](t *testing.T, out string) (string, []T) {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	items := make([]T, 0, len(lines)-1)
	for _, l := range lines[1:] {
		var it T
		if err := json.Unmarshal([]byte(l), &it); err != nil {
			t.Fatalf("decode %q: %v", l, err)
		}
		items = append(items, it)
	}
	return lines[0], items
}

func TestProducts_Default(t *testing.T) {
	out, err := execute(t, "", "products")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	header, items := decodeLines[catalog.Product](t, out)
	if header != "products: page 1 of 2, 10 matched" {
		t.Errorf("header = %q", header)
	}
	if len(items) != 9 || items[0].ID != "1" {
		t.Errorf("items = %d, first %q", len(items), items[0].ID)
	}
}

func TestProducts_Filters(t *testing.T) {
	out, err := execute(t, "", "products",
		"--min-price", "100", "--max-price", "200", "--sort", "price-high", "--page-size", "3", "--page", "2")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	header, items := decodeLines[catalog.Product](t, out)
	if header != "products: page 2 of 2, 6 matched" {
		t.Errorf("header = %q", header)
	}
	var ids []string
	for _, p := range items {
		ids = append(ids, p.ID)
	}
	if strings.Join(ids, ",") != "8,6,3" {
		t.Errorf("ids = %v, want [8 6 3]", ids)
	}
}

func TestTable_Orders(t *testing.T) {
	out, err := execute(t, "", "table", "orders", "--status", "pending")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	header, items := decodeLines[catalog.Order](t, out)
	if header != "orders: page 1 of 1, 2 matched" {
		t.Errorf("header = %q", header)
	}
	if len(items) != 2 || items[0].ID != "ORD-1006" || items[1].ID != "ORD-1010" {
		t.Errorf("items = %+v", items)
	}
}

func TestTable_Unknown(t *testing.T) {
	_, err := execute(t, "", "table", "invoices")
	if !errors.Is(err, domain.ErrUnknownTable) {
		t.Errorf("expected ErrUnknownTable, got %v", err)
	}
}

func TestSearch(t *testing.T) {
	out, err := execute(t, "", "search", "wool", "--limit", "2")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	if f := strings.Fields(lines[0]); f[0] != "product" || f[1] != "4" {
		t.Errorf("first hit = %q", lines[0])
	}
}

func TestLive_DebouncesInput(t *testing.T) {
	out, err := execute(t, "w\nwo\nwool\n", "live")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if strings.Count(out, "> ") != 1 {
		t.Fatalf("expected one evaluation, got output:\n%s", out)
	}
	if !strings.HasPrefix(out, "> wool (") {
		t.Errorf("output = %q", out)
	}
}

func TestLive_BlankLastLine(t *testing.T) {
	out, err := execute(t, "wool\n\n", "live")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out != "" {
		t.Errorf("blank final input should print nothing, got %q", out)
	}
}

func TestSeedFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	seed := "products:\n  - id: \"1\"\n    name: Tee\n    category: t-shirts\n    price: 20\n"
	if err := os.WriteFile(path, []byte(seed), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := execute(t, "", "--seed", path, "products")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.HasPrefix(out, "products: page 1 of 1, 1 matched") {
		t.Errorf("output = %q", out)
	}

	if _, err := execute(t, "", "--seed", filepath.Join(t.TempDir(), "missing.yaml"), "products"); err == nil {
		t.Error("expected error for missing seed")
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "--version")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "dev (commit unknown") {
		t.Errorf("output = %q", out)
	}
}
