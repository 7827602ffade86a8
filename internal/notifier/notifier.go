package notifier

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/materes/reservations/internal/domain"
	"github.com/materes/reservations/internal/platform/mailer"
	"github.com/materes/reservations/pkg/logger"
)

// EventKind selects which notification template is sent and to whom.
type EventKind string

const (
	// EventNewRequest goes to the staff inbox when a customer submits.
	EventNewRequest EventKind = "new_request"
	// EventConfirmed and EventDenied go to the customer.
	EventConfirmed EventKind = "confirmed"
	EventDenied    EventKind = "denied"
)

// Notifier sends reservation emails. Notify never fails the caller:
// transport errors are logged and reported only as a boolean.
type Notifier interface {
	Notify(ctx context.Context, kind EventKind, res *domain.Reservation) bool
}

type EmailNotifier struct {
	mailer     mailer.Service
	staffInbox string
	adminURL   string
}

func NewEmailNotifier(m mailer.Service, staffInbox, adminURL string) *EmailNotifier {
	return &EmailNotifier{
		mailer:     m,
		staffInbox: staffInbox,
		adminURL:   adminURL,
	}
}

func (n *EmailNotifier) Notify(ctx context.Context, kind EventKind, res *domain.Reservation) bool {
	var to, toName, subject, text string

	switch kind {
	case EventNewRequest:
		if n.staffInbox == "" {
			logger.WarnContext(ctx, "Skipping staff notification: no staff inbox configured",
				"reservation_id", res.ID)
			return false
		}
		to, toName = n.staffInbox, "Manager"
		subject, text = n.newRequestMail(res)

	case EventConfirmed:
		if !res.HasEmail() {
			logger.WarnContext(ctx, "Skipping confirmation email: no recipient address",
				"reservation_id", res.ID)
			return false
		}
		to, toName = res.Email, res.Name
		subject, text = n.confirmedMail(res)

	case EventDenied:
		if !res.HasEmail() {
			logger.WarnContext(ctx, "Skipping denial email: no recipient address",
				"reservation_id", res.ID)
			return false
		}
		to, toName = res.Email, res.Name
		subject, text = n.deniedMail(res)

	default:
		logger.ErrorContext(ctx, "Unknown notification kind", "kind", string(kind))
		return false
	}

	if _, err := n.mailer.Send(to, toName, subject, text, textToHTML(text)); err != nil {
		logger.ErrorContext(ctx, "Failed to send notification email",
			"kind", string(kind),
			"reservation_id", res.ID,
			"error", err,
		)
		return false
	}

	logger.InfoContext(ctx, "Notification email sent",
		"kind", string(kind),
		"reservation_id", res.ID,
		"to", to,
	)
	return true
}

func (n *EmailNotifier) newRequestMail(res *domain.Reservation) (subject, text string) {
	subject = fmt.Sprintf("NEW RESERVATION PENDING #%d - %s", res.ID, res.Name)
	text = fmt.Sprintf(`Dear Manager,

You have a new booking request that needs to be processed:
Booking ID: %d
Customer Name: %s
Phone: %s
Email: %s
Date/Time: %s at %s
Number of Guests: %d
Dietary Restrictions: %s
Special Requests: %s
Status: PENDING

Please visit the admin page to confirm: %s
`,
		res.ID, res.Name, res.Phone, res.Email,
		res.Date, res.Time, res.Guests,
		orNone(res.DietaryRestrictions), orNone(res.SpecialRequest),
		n.adminURL)
	return subject, text
}

func (n *EmailNotifier) confirmedMail(res *domain.Reservation) (subject, text string) {
	subject = fmt.Sprintf("BOOKING CONFIRMED #%d AT THE RESTAURANT", res.ID)
	text = fmt.Sprintf(`Dear %s,

Your reservation has been SUCCESSFULLY CONFIRMED!

Booking Details:
--------------------------------------------------
Booking ID: %d
Date: %s
Time: %s
Number of Guests: %d
Dietary Restrictions: %s
Special Requests: %s
Status: CONFIRMED
--------------------------------------------------
We look forward to welcoming you.
`,
		res.Name, res.ID, res.Date, res.Time, res.Guests,
		orNone(res.DietaryRestrictions), orNone(res.SpecialRequest))
	return subject, text
}

func (n *EmailNotifier) deniedMail(res *domain.Reservation) (subject, text string) {
	subject = fmt.Sprintf("IMPORTANT: RESERVATION #%d UPDATE", res.ID)
	text = fmt.Sprintf(`Dear %s,

We regret to inform you that your reservation request (ID: #%d)
for %s at %s has been DENIED.

This may be due to the restaurant being fully booked at that specific time,
or issues with the submitted details.

You are welcome to submit a new reservation request for a different date or time.

Thank you for your understanding.
`,
		res.Name, res.ID, res.Date, res.Time)
	return subject, text
}

func textToHTML(text string) string {
	return "<p>" + strings.ReplaceAll(html.EscapeString(text), "\n", "<br>\n") + "</p>"
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
