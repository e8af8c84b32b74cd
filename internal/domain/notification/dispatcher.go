package notification

import (
	"context"
	"fmt"
	"time"

	"orderping/internal/common"
)

// Dispatcher builds the templated message for an event, invokes the
// outbound sender, and records the outcome. Exactly one log entry is
// written per dispatch, success or failure, and no retry is attempted:
// a failed attempt is terminal for the event within this pipeline.
type Dispatcher struct {
	store     NotificationStore
	sender    MessageSender
	templates map[EventKind]TemplateSpec
	now       func() time.Time
}

// NewDispatcher creates a dispatcher with per-kind template addressing.
func NewDispatcher(store NotificationStore, sender MessageSender, templates map[EventKind]TemplateSpec) *Dispatcher {
	return &Dispatcher{
		store:     store,
		sender:    sender,
		templates: templates,
		now:       time.Now,
	}
}

// Dispatch sends the notification for an event to the canonical phone and
// appends the resulting log entry. The returned entry reports the outcome;
// a non-nil error means the entry could not be recorded (or no template is
// configured for the kind, in which case nothing was sent).
func (d *Dispatcher) Dispatch(ctx context.Context, ev *Event, phone string) (*LogEntry, error) {
	tmpl, ok := d.templates[ev.Kind]
	if !ok || tmpl.Name == "" {
		return nil, common.NewValidationError(fmt.Sprintf("no template configured for kind: %s", ev.Kind))
	}

	msg := buildMessage(ev, phone, tmpl)

	entry := &LogEntry{
		EventID:   ev.ID,
		Recipient: phone,
		Kind:      string(ev.Kind),
		CreatedAt: d.now().UTC(),
	}

	providerID, err := d.sender.Send(ctx, msg)
	if err != nil {
		entry.Status = StatusFailed
		entry.ErrorDetail = err.Error()
	} else {
		entry.Status = StatusSent
		entry.ProviderMessageID = providerID
	}

	if err := d.store.Insert(ctx, entry); err != nil {
		return entry, fmt.Errorf("recording dispatch outcome for event %s: %w", ev.ID, err)
	}

	return entry, nil
}

// buildMessage assembles the provider message for an event. Checkout
// abandonment carries the recipient name, the discount code and the
// template name, plus a copy-code button for the code; order confirmation
// carries the recipient name, the order id and the total amount.
func buildMessage(ev *Event, phone string, tmpl TemplateSpec) *TemplateMessage {
	msg := &TemplateMessage{
		To:             phone,
		Template:       tmpl.Name,
		HeaderImageURL: tmpl.HeaderImageURL,
	}

	switch ev.Kind {
	case KindCheckoutUpdated:
		msg.BodyParams = []string{ev.DisplayName, tmpl.DiscountCode, tmpl.Name}
		msg.CopyCode = tmpl.DiscountCode
	case KindOrderCreated:
		msg.BodyParams = []string{ev.DisplayName, ev.ID, ev.TotalAmount}
	}

	return msg
}
