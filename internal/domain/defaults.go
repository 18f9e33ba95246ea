package domain

// StatusDef describes one status in a predefined graph. Seeded statuses are
// is_system: tenants can restyle them but not delete them.
type StatusDef struct {
	Slug      string
	Name      string
	Color     string
	Icon      string
	IsDefault bool
	IsFinal   bool
	Behavior  Behavior
}

// EdgeDef describes one directed transition in a predefined graph, by slug.
type EdgeDef struct {
	From string
	To   string
	Name string
}

// Graph is a predefined status catalog plus its transition edges.
type Graph struct {
	Statuses []StatusDef
	Edges    []EdgeDef
}

// DefaultGraph returns the predefined graph for the given entity type.
func DefaultGraph(t EntityType) (Graph, bool) {
	g, ok := defaultGraphs[t]
	return g, ok
}

// defaultGraphs holds the four fixed per-entity-type catalogs seeded for a new
// store. These are domain knowledge consumed by the catalog service; changing
// a slug or an edge here changes the behavior of every freshly seeded store.
var defaultGraphs = map[EntityType]Graph{
	EntityTransaction: {
		Statuses: []StatusDef{
			{Slug: "pending", Name: "Pending", Color: "#f59e0b", Icon: "clock", IsDefault: true,
				Behavior: Behavior{"allows_cancellation": true, "allows_editing": true}},
			{Slug: "kit_requested", Name: "Kit Requested", Color: "#3b82f6", Icon: "package",
				Behavior: Behavior{"allows_cancellation": true}},
			{Slug: "kit_request_rejected", Name: "Kit Request Rejected", Color: "#6b7280", Icon: "x-circle", IsFinal: true},
			{Slug: "kit_sent", Name: "Kit Sent", Color: "#3b82f6", Icon: "truck"},
			{Slug: "kit_delivered", Name: "Kit Delivered", Color: "#3b82f6", Icon: "home"},
			{Slug: "kit_returned", Name: "Kit Returned", Color: "#3b82f6", Icon: "rotate-ccw"},
			{Slug: "items_received", Name: "Items Received", Color: "#8b5cf6", Icon: "inbox"},
			{Slug: "items_reviewed", Name: "Items Reviewed", Color: "#8b5cf6", Icon: "search",
				Behavior: Behavior{"allows_offer": true}},
			{Slug: "offer_given", Name: "Offer Given", Color: "#ec4899", Icon: "tag",
				Behavior: Behavior{"allows_offer": true, "allows_cancellation": true}},
			{Slug: "offer_accepted", Name: "Offer Accepted", Color: "#10b981", Icon: "thumbs-up",
				Behavior: Behavior{"allows_payment": true}},
			{Slug: "offer_declined", Name: "Offer Declined", Color: "#ef4444", Icon: "thumbs-down",
				Behavior: Behavior{"allows_offer": true}},
			{Slug: "payment_pending", Name: "Payment Pending", Color: "#f59e0b", Icon: "credit-card",
				Behavior: Behavior{"allows_payment": true}},
			{Slug: "payment_processing", Name: "Payment Processing", Color: "#f59e0b", Icon: "loader",
				Behavior: Behavior{"allows_payment": true}},
			{Slug: "payment_processed", Name: "Payment Processed", Color: "#10b981", Icon: "check-circle", IsFinal: true},
			{Slug: "return_requested", Name: "Return Requested", Color: "#ef4444", Icon: "corner-up-left"},
			{Slug: "items_returned", Name: "Items Returned", Color: "#6b7280", Icon: "archive", IsFinal: true},
			{Slug: "cancelled", Name: "Cancelled", Color: "#6b7280", Icon: "slash", IsFinal: true},
		},
		Edges: []EdgeDef{
			{From: "pending", To: "kit_requested", Name: "Request Kit"},
			{From: "pending", To: "offer_given", Name: "Direct Offer"},
			{From: "pending", To: "cancelled", Name: "Cancel"},
			{From: "kit_requested", To: "kit_sent", Name: "Approve & Ship Kit"},
			{From: "kit_requested", To: "kit_request_rejected", Name: "Reject Kit Request"},
			{From: "kit_requested", To: "cancelled", Name: "Cancel"},
			{From: "kit_sent", To: "kit_delivered", Name: "Kit Delivered"},
			{From: "kit_delivered", To: "kit_returned", Name: "Customer Ships Kit Back"},
			{From: "kit_delivered", To: "return_requested", Name: "Customer Opts Out"},
			{From: "kit_returned", To: "items_received", Name: "Receive Items"},
			{From: "items_received", To: "items_reviewed", Name: "Review Items"},
			{From: "items_received", To: "return_requested", Name: "Request Return"},
			{From: "items_reviewed", To: "offer_given", Name: "Give Offer"},
			{From: "items_reviewed", To: "return_requested", Name: "Request Return"},
			{From: "offer_given", To: "offer_accepted", Name: "Accept Offer"},
			{From: "offer_given", To: "offer_declined", Name: "Decline Offer"},
			{From: "offer_given", To: "cancelled", Name: "Cancel"},
			{From: "offer_declined", To: "offer_given", Name: "Counter Offer"},
			{From: "offer_declined", To: "return_requested", Name: "Request Return"},
			{From: "offer_accepted", To: "payment_pending", Name: "Queue Payment"},
			{From: "offer_accepted", To: "payment_processed", Name: "Pay Immediately"},
			{From: "payment_pending", To: "payment_processing", Name: "Process Payment"},
			{From: "payment_pending", To: "cancelled", Name: "Cancel"},
			{From: "payment_processing", To: "payment_processed", Name: "Payment Settled"},
			{From: "return_requested", To: "items_returned", Name: "Items Shipped Back"},
		},
	},
	EntityOrder: {
		Statuses: []StatusDef{
			{Slug: "draft", Name: "Draft", Color: "#6b7280", Icon: "edit-3", IsDefault: true,
				Behavior: Behavior{"allows_editing": true, "allows_cancellation": true}},
			{Slug: "pending", Name: "Pending", Color: "#f59e0b", Icon: "clock",
				Behavior: Behavior{"allows_payment": true, "allows_cancellation": true}},
			{Slug: "partial_payment", Name: "Partial Payment", Color: "#f59e0b", Icon: "credit-card",
				Behavior: Behavior{"allows_payment": true, "allows_cancellation": true}},
			{Slug: "confirmed", Name: "Confirmed", Color: "#3b82f6", Icon: "check"},
			{Slug: "processing", Name: "Processing", Color: "#3b82f6", Icon: "loader"},
			{Slug: "shipped", Name: "Shipped", Color: "#8b5cf6", Icon: "truck"},
			{Slug: "delivered", Name: "Delivered", Color: "#10b981", Icon: "home"},
			{Slug: "completed", Name: "Completed", Color: "#10b981", Icon: "check-circle"},
			{Slug: "cancelled", Name: "Cancelled", Color: "#6b7280", Icon: "slash", IsFinal: true},
			{Slug: "refunded", Name: "Refunded", Color: "#ef4444", Icon: "corner-up-left", IsFinal: true},
		},
		Edges: []EdgeDef{
			{From: "draft", To: "pending", Name: "Submit"},
			{From: "draft", To: "cancelled", Name: "Cancel"},
			{From: "pending", To: "partial_payment", Name: "Partial Payment Received"},
			{From: "pending", To: "confirmed", Name: "Payment Received"},
			{From: "pending", To: "cancelled", Name: "Cancel"},
			{From: "partial_payment", To: "confirmed", Name: "Balance Paid"},
			{From: "partial_payment", To: "cancelled", Name: "Cancel"},
			{From: "confirmed", To: "processing", Name: "Start Fulfillment"},
			{From: "confirmed", To: "refunded", Name: "Refund"},
			{From: "processing", To: "shipped", Name: "Ship"},
			{From: "processing", To: "refunded", Name: "Refund"},
			{From: "shipped", To: "delivered", Name: "Delivered"},
			{From: "shipped", To: "refunded", Name: "Refund"},
			{From: "delivered", To: "completed", Name: "Complete"},
			{From: "delivered", To: "refunded", Name: "Refund"},
		},
	},
	EntityRepair: {
		Statuses: []StatusDef{
			{Slug: "pending", Name: "Pending", Color: "#f59e0b", Icon: "clock", IsDefault: true,
				Behavior: Behavior{"allows_cancellation": true, "allows_editing": true}},
			{Slug: "sent_to_vendor", Name: "Sent to Vendor", Color: "#3b82f6", Icon: "truck",
				Behavior: Behavior{"allows_cancellation": true}},
			{Slug: "received_by_vendor", Name: "Received by Vendor", Color: "#3b82f6", Icon: "inbox"},
			{Slug: "completed", Name: "Completed", Color: "#10b981", Icon: "check",
				Behavior: Behavior{"allows_payment": true}},
			{Slug: "payment_received", Name: "Payment Received", Color: "#10b981", Icon: "credit-card"},
			{Slug: "refunded", Name: "Refunded", Color: "#ef4444", Icon: "corner-up-left", IsFinal: true},
			{Slug: "archived", Name: "Archived", Color: "#6b7280", Icon: "archive", IsFinal: true},
			{Slug: "cancelled", Name: "Cancelled", Color: "#6b7280", Icon: "slash", IsFinal: true},
		},
		Edges: []EdgeDef{
			{From: "pending", To: "sent_to_vendor", Name: "Send to Vendor"},
			{From: "pending", To: "cancelled", Name: "Cancel"},
			{From: "sent_to_vendor", To: "received_by_vendor", Name: "Vendor Received"},
			{From: "sent_to_vendor", To: "cancelled", Name: "Cancel"},
			{From: "received_by_vendor", To: "completed", Name: "Repair Completed"},
			{From: "completed", To: "payment_received", Name: "Payment Received"},
			{From: "completed", To: "refunded", Name: "Refund"},
			{From: "payment_received", To: "archived", Name: "Archive"},
		},
	},
	EntityMemo: {
		Statuses: []StatusDef{
			{Slug: "pending", Name: "Pending", Color: "#f59e0b", Icon: "clock", IsDefault: true,
				Behavior: Behavior{"allows_cancellation": true, "allows_editing": true}},
			{Slug: "sent_to_vendor", Name: "Sent to Vendor", Color: "#3b82f6", Icon: "truck",
				Behavior: Behavior{"allows_cancellation": true}},
			{Slug: "vendor_received", Name: "Vendor Received", Color: "#3b82f6", Icon: "inbox"},
			{Slug: "vendor_returned", Name: "Vendor Returned", Color: "#8b5cf6", Icon: "rotate-ccw", IsFinal: true},
			{Slug: "payment_received", Name: "Payment Received", Color: "#10b981", Icon: "credit-card", IsFinal: true},
			{Slug: "archived", Name: "Archived", Color: "#6b7280", Icon: "archive", IsFinal: true},
			{Slug: "cancelled", Name: "Cancelled", Color: "#6b7280", Icon: "slash", IsFinal: true},
		},
		Edges: []EdgeDef{
			{From: "pending", To: "sent_to_vendor", Name: "Send to Vendor"},
			{From: "pending", To: "cancelled", Name: "Cancel"},
			{From: "sent_to_vendor", To: "vendor_received", Name: "Vendor Received"},
			{From: "vendor_received", To: "vendor_returned", Name: "Vendor Returned"},
			{From: "vendor_received", To: "payment_received", Name: "Payment Received"},
			{From: "vendor_returned", To: "archived", Name: "Archive"},
			{From: "payment_received", To: "archived", Name: "Archive"},
		},
	},
}
