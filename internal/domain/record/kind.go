package record

// Kind is the entity type a record was projected from.
type Kind string

// Record kinds.
const (
	KindProduct  Kind = "product"
	KindOrder    Kind = "order"
	KindCustomer Kind = "customer"
	KindUser     Kind = "user"
	KindSetting  Kind = "setting"
	KindReport   Kind = "report"
)

var priorities = map[Kind]int{
	KindProduct:  1,
	KindOrder:    2,
	KindCustomer: 3,
	KindUser:     4,
	KindSetting:  5,
	KindReport:   6,
}

// Priority returns the global search rank of the kind (lower ranks first).
// Unknown kinds rank last.
func (k Kind) Priority() int {
	if p, ok := priorities[k]; ok {
		return p
	}
	return len(priorities) + 1
}

// IsValid checks if the kind is one of the supported values.
func (k Kind) IsValid() bool {
	_, ok := priorities[k]
	return ok
}
