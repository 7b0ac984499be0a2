// Package catalog holds the storefront and dashboard entities and their
// record projections.
package catalog

import (
	"math"

	"github.com/kailas-cloud/storefront/internal/domain/record"
)

// Product is a storefront item.
type Product struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Category    string   `json:"category" yaml:"category"`
	Style       string   `json:"style,omitempty" yaml:"style"`
	Brand       string   `json:"brand" yaml:"brand"`
	Colors      []string `json:"colors,omitempty" yaml:"colors"`
	Sizes       []string `json:"sizes,omitempty" yaml:"sizes"`
	Price       float64  `json:"price" yaml:"price"`
	Rating      float64  `json:"rating" yaml:"rating"`
	ReviewCount int      `json:"review_count" yaml:"review_count"`
	Image       string   `json:"image,omitempty" yaml:"image"`
}

// Record projects the product for filtering and search.
func (p Product) Record() record.Record {
	tags := map[string]string{record.FieldCategory: p.Category}
	if p.Style != "" {
		tags[record.FieldStyle] = p.Style
	}
	sets := map[string][]string{record.FieldColors: p.Colors}
	if p.Brand != "" {
		sets[record.FieldBrand] = []string{p.Brand}
	}
	return record.New(p.ID, record.KindProduct, p.Name,
		[]string{p.Description},
		tags,
		map[string]float64{record.FieldPrice: p.Price, record.FieldRating: p.Rating},
		sets,
	)
}

// Order is a customer purchase shown in the dashboard.
type Order struct {
	ID       string  `json:"id" yaml:"id"`
	Customer string  `json:"customer" yaml:"customer"`
	Email    string  `json:"email" yaml:"email"`
	Status   string  `json:"status" yaml:"status"`
	Total    float64 `json:"total" yaml:"total"`
	Items    int     `json:"items" yaml:"items"`
	Date     string  `json:"date" yaml:"date"`
}

// Record projects the order. The total is exposed as the price field so the
// price sort keys apply to orders too.
func (o Order) Record() record.Record {
	return record.New(o.ID, record.KindOrder, o.ID,
		[]string{o.Customer, o.Email},
		map[string]string{record.FieldStatus: o.Status},
		map[string]float64{record.FieldPrice: o.Total, "items": float64(o.Items)},
		nil,
	)
}

// Customer is a storefront shopper.
type Customer struct {
	ID       string  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Email    string  `json:"email" yaml:"email"`
	Location string  `json:"location" yaml:"location"`
	Orders   int     `json:"orders" yaml:"orders"`
	Spent    float64 `json:"spent" yaml:"spent"`
	Status   string  `json:"status" yaml:"status"`
}

// Record projects the customer.
func (c Customer) Record() record.Record {
	return record.New(c.ID, record.KindCustomer, c.Name,
		[]string{c.Email, c.Location},
		map[string]string{record.FieldStatus: c.Status},
		map[string]float64{record.FieldPrice: c.Spent, "orders": float64(c.Orders)},
		nil,
	)
}

// User is a dashboard operator account.
type User struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Email  string `json:"email" yaml:"email"`
	Role   string `json:"role" yaml:"role"`
	Status string `json:"status" yaml:"status"`
}

// Record projects the user.
func (u User) Record() record.Record {
	return record.New(u.ID, record.KindUser, u.Name,
		[]string{u.Email},
		map[string]string{record.FieldRole: u.Role, record.FieldStatus: u.Status},
		nil, nil,
	)
}

// Review is a customer review of a product.
type Review struct {
	ID        string  `json:"id" yaml:"id"`
	ProductID string  `json:"product_id" yaml:"product_id"`
	Author    string  `json:"author" yaml:"author"`
	Rating    float64 `json:"rating" yaml:"rating"`
	Title     string  `json:"title" yaml:"title"`
	Body      string  `json:"body" yaml:"body"`
	Date      string  `json:"date" yaml:"date"`
}

// Shortcut is a static dashboard destination (a settings page or a report)
// that only appears in the global search.
type Shortcut struct {
	ID          string      `json:"id" yaml:"id"`
	Kind        record.Kind `json:"kind" yaml:"kind"`
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description" yaml:"description"`
	Href        string      `json:"href" yaml:"href"`
}

// Record projects the shortcut.
func (s Shortcut) Record() record.Record {
	return record.New(s.ID, s.Kind, s.Title, []string{s.Description}, nil, nil, nil)
}

// Href returns the dashboard path for a record of the given kind.
func Href(kind record.Kind, id string) string {
	switch kind {
	case record.KindProduct:
		return "/dashboard/products/" + id
	case record.KindOrder:
		return "/dashboard/orders/" + id
	case record.KindCustomer:
		return "/dashboard/customers/" + id
	case record.KindUser:
		return "/dashboard/users/" + id
	default:
		return "/dashboard"
	}
}

// AverageRating returns the mean rating of the reviews, rounded to one decimal.
// Zero reviews yield zero.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum float64
	for _, r := range reviews {
		sum += r.Rating
	}
	return math.Round(sum/float64(len(reviews))*10) / 10
}
