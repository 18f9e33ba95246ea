package domain

// EntityType discriminates the four kinds of records whose lifecycle the
// engine governs. Each (store, entity type) pair owns one status catalog.
type EntityType string

const (
	EntityTransaction EntityType = "transaction"
	EntityOrder       EntityType = "order"
	EntityRepair      EntityType = "repair"
	EntityMemo        EntityType = "memo"
)

// EntityTypes lists every entity type, in migration order.
var EntityTypes = []EntityType{EntityTransaction, EntityOrder, EntityRepair, EntityMemo}

// Valid reports whether t is one of the known entity types.
func (t EntityType) Valid() bool {
	switch t {
	case EntityTransaction, EntityOrder, EntityRepair, EntityMemo:
		return true
	}
	return false
}

// NumberField returns the business-identifier key used when an entity of this
// type is serialized into a webhook payload.
func (t EntityType) NumberField() string {
	switch t {
	case EntityTransaction:
		return "transaction_number"
	case EntityOrder:
		return "invoice_number"
	case EntityRepair:
		return "repair_number"
	case EntityMemo:
		return "memo_number"
	}
	return ""
}

// Behavior is an open bag of named boolean flags configured per status
// (allows_cancellation, allows_payment, ...). The engine never interprets
// these; surrounding business services consult them through HasBehavior.
type Behavior map[string]bool

// Status is a named, store-scoped lifecycle stage for one entity type.
type Status struct {
	ID          int64
	StoreID     int64
	EntityType  EntityType
	Slug        string
	Name        string
	Color       string
	Icon        string
	Description string
	IsDefault   bool
	IsFinal     bool
	IsSystem    bool
	SortOrder   int
	Behavior    Behavior
}

// HasBehavior reports whether the named flag is set on this status.
// Unknown flags are simply false.
func (s Status) HasBehavior(flag string) bool {
	return s.Behavior[flag]
}
