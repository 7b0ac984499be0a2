package globalsearch

import "github.com/kailas-cloud/storefront/internal/domain/record"

// Index is the set of records searched by the dashboard.
type Index interface {
	Records() []record.Record
	Href(r *record.Record) string
}
