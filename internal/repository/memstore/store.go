// Package memstore is the read-only record store populated once at start.
package memstore

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/storefront/internal/domain"
	"github.com/kailas-cloud/storefront/internal/domain/catalog"
	"github.com/kailas-cloud/storefront/internal/domain/record"
)

// Collection names.
const (
	Products  = "products"
	Orders    = "orders"
	Customers = "customers"
	Users     = "users"
)

//go:embed seed.yaml
var defaultSeed []byte

// seed is the on-disk layout of the record store.
type seed struct {
	Products  []catalog.Product  `yaml:"products"`
	Orders    []catalog.Order    `yaml:"orders"`
	Customers []catalog.Customer `yaml:"customers"`
	Users     []catalog.User     `yaml:"users"`
	Reviews   []catalog.Review   `yaml:"reviews"`
	Shortcuts []catalog.Shortcut `yaml:"shortcuts"`
}

// Store holds every collection. It is never mutated after Load, so it is
// safe for concurrent readers.
type Store struct {
	products  *Collection[catalog.Product]
	orders    *Collection[catalog.Order]
	customers *Collection[catalog.Customer]
	users     *Collection[catalog.User]
	shortcuts *Collection[catalog.Shortcut]
	reviews   map[string][]catalog.Review
	all       []record.Record
}

// Default loads the embedded seed data.
func Default() (*Store, error) {
	return Load(defaultSeed)
}

// LoadFile loads seed data from a YAML file.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", path, err)
	}
	return Load(data)
}

// Load parses YAML seed data and builds the store.
func Load(data []byte) (*Store, error) {
	var s seed
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidSeed, err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidSeed, err)
	}

	st := &Store{
		products:  NewCollection(Products, s.Products),
		orders:    NewCollection(Orders, s.Orders),
		customers: NewCollection(Customers, s.Customers),
		users:     NewCollection(Users, s.Users),
		shortcuts: NewCollection("shortcuts", s.Shortcuts),
		reviews:   make(map[string][]catalog.Review),
	}
	for _, r := range s.Reviews {
		st.reviews[r.ProductID] = append(st.reviews[r.ProductID], r)
	}

	st.all = make([]record.Record, 0,
		st.products.Len()+st.orders.Len()+st.customers.Len()+st.users.Len()+st.shortcuts.Len())
	st.all = append(st.all, st.products.Records()...)
	st.all = append(st.all, st.orders.Records()...)
	st.all = append(st.all, st.customers.Records()...)
	st.all = append(st.all, st.users.Records()...)
	st.all = append(st.all, st.shortcuts.Records()...)

	return st, nil
}

// Products returns the product collection.
func (s *Store) Products() *Collection[catalog.Product] { return s.products }

// Orders returns the order collection.
func (s *Store) Orders() *Collection[catalog.Order] { return s.orders }

// Customers returns the customer collection.
func (s *Store) Customers() *Collection[catalog.Customer] { return s.customers }

// Users returns the user collection.
func (s *Store) Users() *Collection[catalog.User] { return s.users }

// Shortcuts returns the static settings and report entries.
func (s *Store) Shortcuts() *Collection[catalog.Shortcut] { return s.shortcuts }

// Records returns every record across all collections, products first.
func (s *Store) Records() []record.Record { return s.all }

// Product returns a product by id.
func (s *Store) Product(_ context.Context, id string) (catalog.Product, error) {
	p, ok := s.products.Get(id)
	if !ok {
		return catalog.Product{}, domain.NewRecordNotFound(string(record.KindProduct), id)
	}
	return p, nil
}

// Reviews returns the reviews of a product in seed order.
func (s *Store) Reviews(_ context.Context, productID string) ([]catalog.Review, error) {
	if _, ok := s.products.Get(productID); !ok {
		return nil, domain.NewRecordNotFound(string(record.KindProduct), productID)
	}
	return s.reviews[productID], nil
}

// Ping reports whether the store holds any records.
func (s *Store) Ping(_ context.Context) error {
	if len(s.all) == 0 {
		return fmt.Errorf("record store is empty")
	}
	return nil
}

func (s *seed) validate() error {
	if err := uniqueIDs(Products, s.Products); err != nil {
		return err
	}
	if err := uniqueIDs(Orders, s.Orders); err != nil {
		return err
	}
	if err := uniqueIDs(Customers, s.Customers); err != nil {
		return err
	}
	if err := uniqueIDs(Users, s.Users); err != nil {
		return err
	}
	if err := uniqueIDs("shortcuts", s.Shortcuts); err != nil {
		return err
	}
	for _, sc := range s.Shortcuts {
		if sc.Kind != record.KindSetting && sc.Kind != record.KindReport {
			return fmt.Errorf("shortcut %q: kind must be setting or report, got %q", sc.ID, sc.Kind)
		}
	}
	return nil
}

func uniqueIDs[T record.Projector](name string, items []T) error {
	seen := make(map[string]struct{}, len(items))
	for i, it := range items {
		r := it.Record()
		id := r.ID()
		if id == "" {
			return fmt.Errorf("%s[%d]: id is required", name, i)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%s: duplicate id %q", name, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// Href returns the dashboard path of a record.
func (s *Store) Href(r *record.Record) string {
	if r.Kind() == record.KindSetting || r.Kind() == record.KindReport {
		if sc, ok := s.shortcuts.Get(r.ID()); ok {
			return sc.Href
		}
	}
	return catalog.Href(r.Kind(), r.ID())
}
