package notification

// EventKind identifies which commerce webhook produced an event.
type EventKind string

const (
	KindCheckoutUpdated EventKind = "checkout.updated"
	KindOrderCreated    EventKind = "order.created"
)

// validKinds is the set of all recognized event kinds.
var validKinds = map[EventKind]bool{
	KindCheckoutUpdated: true,
	KindOrderCreated:    true,
}

// IsValidKind checks whether an event kind is recognized.
func IsValidKind(k EventKind) bool {
	return validKinds[k]
}

// Event is the normalized form of an inbound checkout or order payload.
// It is built once per webhook delivery and never persisted — only the
// log entry derived from dispatching it is.
type Event struct {
	// ID is the source-assigned event identifier, unique within the source.
	ID string

	Kind EventKind

	// RawPhone is the first non-empty phone across customer, shipping and
	// billing contacts, before canonicalization. Empty when none was present.
	RawPhone string

	// DisplayName is the best-effort recipient name, falling back to
	// "Unknown User" when no contact carries one.
	DisplayName string

	// Completed reports whether the checkout already completed, in which
	// case no abandonment notification is owed.
	Completed bool

	// TotalAmount is the order total as a decimal string, empty when absent.
	TotalAmount string
}

// TemplateSpec is the externally configured template addressing for one
// event kind: which provider-side template to use, the header image it
// expects, and (for checkout abandonment) the discount code offered.
type TemplateSpec struct {
	Name           string
	HeaderImageURL string
	DiscountCode   string
}
