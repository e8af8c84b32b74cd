package notification

import "context"

// TemplateMessage is a provider-agnostic templated message ready for sending.
// The template itself lives provider-side; this carries only its addressing
// and positional parameters.
type TemplateMessage struct {
	// To is the canonical E.164 recipient phone.
	To string

	// Template is the provider-side template name.
	Template string

	// HeaderImageURL fills the template's image header parameter.
	HeaderImageURL string

	// BodyParams fill the template's positional body text parameters.
	BodyParams []string

	// CopyCode, when non-empty, appends an interactive copy-code button
	// carrying the value (checkout abandonment only).
	CopyCode string
}

// MessageSender defines the contract for the outbound messaging provider.
// Implementations live in infra/ (e.g., the WhatsApp Cloud API client).
type MessageSender interface {
	// Send delivers a templated message and returns the provider's message ID.
	Send(ctx context.Context, msg *TemplateMessage) (string, error)
}
