package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/storefront/internal/domain"
	"github.com/kailas-cloud/storefront/internal/domain/catalog"
	"github.com/kailas-cloud/storefront/internal/domain/query/request"
	"github.com/kailas-cloud/storefront/internal/repository/memstore"
	cataloguc "github.com/kailas-cloud/storefront/internal/usecase/catalog"
)

const adminPageSize = 10

// queryFlags mirrors the HTTP query parameters.
type queryFlags struct {
	term     string
	category string
	style    string
	status   string
	role     string
	brand    string
	colors   string
	minPrice string
	maxPrice string
	sort     string
	page     string
}

func (f *queryFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.term, "query", "q", "", "free-text search term")
	fs.StringVar(&f.category, "category", "", "exact category")
	fs.StringVar(&f.style, "style", "", "exact style")
	fs.StringVar(&f.status, "status", "", "exact status")
	fs.StringVar(&f.role, "role", "", "exact role")
	fs.StringVar(&f.brand, "brand", "", "comma-separated brands")
	fs.StringVar(&f.colors, "colors", "", "comma-separated colors")
	fs.StringVar(&f.minPrice, "min-price", "", "inclusive lower price bound")
	fs.StringVar(&f.maxPrice, "max-price", "", "inclusive upper price bound")
	fs.StringVar(&f.sort, "sort", "", "featured, newest, price-low, price-high, rating")
	fs.StringVar(&f.page, "page", "", "1-based page number")
}

func (f *queryFlags) values() url.Values {
	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set(request.ParamTerm, f.term)
	set(request.ParamCategory, f.category)
	set(request.ParamStyle, f.style)
	set(request.ParamStatus, f.status)
	set(request.ParamRole, f.role)
	set(request.ParamBrand, f.brand)
	set(request.ParamColors, f.colors)
	set(request.ParamMinPrice, f.minPrice)
	set(request.ParamMaxPrice, f.maxPrice)
	set(request.ParamSort, f.sort)
	set(request.ParamPage, f.page)
	return v
}

func newProductsCmd(a *app) *cobra.Command {
	var f queryFlags
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List one page of the storefront catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := request.FromValues(f.values(), a.size(request.DefaultPageSize))
			return runQuery[catalog.Product](cmd.Context(), a.out, a.store.Products(), &q)
		},
	}
	f.register(cmd)
	return cmd
}

func newTableCmd(a *app) *cobra.Command {
	var f queryFlags
	cmd := &cobra.Command{
		Use:       "table <name>",
		Short:     "List one page of a dashboard table",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{memstore.Orders, memstore.Customers, memstore.Users, memstore.Products},
		RunE: func(cmd *cobra.Command, args []string) error {
			q := request.FromValues(f.values(), a.size(adminPageSize))
			ctx := cmd.Context()
			switch args[0] {
			case memstore.Orders:
				return runQuery[catalog.Order](ctx, a.out, a.store.Orders(), &q)
			case memstore.Customers:
				return runQuery[catalog.Customer](ctx, a.out, a.store.Customers(), &q)
			case memstore.Users:
				return runQuery[catalog.User](ctx, a.out, a.store.Users(), &q)
			case memstore.Products:
				return runQuery[catalog.Product](ctx, a.out, a.store.Products(), &q)
			default:
				return fmt.Errorf("%w: %s", domain.ErrUnknownTable, args[0])
			}
		},
	}
	f.register(cmd)
	return cmd
}

// runQuery evaluates q and prints a page header followed by one JSON object per item.
func runQuery[T any](ctx context.Context, out io.Writer, src cataloguc.Source[T], q *request.Query) error {
	svc := cataloguc.NewInstrumented[T](cataloguc.New[T](src), src.Name())
	p, err := svc.Query(ctx, q)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "%s: page %d of %d, %d matched\n",
		src.Name(), p.PageIndex()+1, p.PageCount(), p.TotalMatched())

	enc := json.NewEncoder(out)
	for _, it := range p.Items() {
		if err := enc.Encode(it); err != nil {
			return fmt.Errorf("encode item: %w", err)
		}
	}
	return nil
}
