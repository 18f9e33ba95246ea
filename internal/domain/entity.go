package domain

// Entity is the engine's view of a transitionable record (a transaction,
// order, repair, or memo). It is a snapshot: the engine reads it, decides,
// and persists the status change through EntityRepository, which updates the
// snapshot's StatusID and LegacyStatus on success.
//
// The two status fields must always agree after a successful transition:
// StatusID points at the catalog row and LegacyStatus carries its slug for
// backward compatibility with pre-catalog consumers.
type Entity struct {
	ID      int64
	StoreID int64
	Type    EntityType

	StatusID     *int64
	LegacyStatus *string

	// Number is the type-specific business identifier (transaction_number,
	// invoice_number, repair_number, memo_number). Used only to enrich
	// webhook payloads.
	Number string

	// Optional contacts used for symbolic notification recipients.
	CustomerEmail string
	VendorEmail   string
	AssignedEmail string
}

// WebhookData builds the payload enrichment map: the entity id plus the
// business identifier when present.
func (e Entity) WebhookData() map[string]any {
	data := map[string]any{"id": e.ID}
	if e.Number != "" {
		if field := e.Type.NumberField(); field != "" {
			data[field] = e.Number
		}
	}
	return data
}
