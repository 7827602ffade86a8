package domain

// Action is a staff moderation operation on a reservation.
type Action string

const (
	ActionConfirm Action = "confirm"
	ActionDeny    Action = "deny"
)

// blockedFor lists, per action, the statuses the action refuses to
// leave. Confirm only refuses an already-confirmed record, so a denied
// reservation may still be confirmed; deny refuses both terminal
// statuses. Strict mode closes the Denied -> Confirmed edge too.
var blockedFor = map[Action][]Status{
	ActionConfirm: {StatusConfirmed},
	ActionDeny:    {StatusConfirmed, StatusDenied},
}

// CheckTransition reports whether the action may be applied to the
// reservation in its current status. A nil return means the transition
// is legal.
func (r *Reservation) CheckTransition(action Action, strict bool) error {
	blocked := blockedFor[action]
	if strict && action == ActionConfirm {
		blocked = append(blocked, StatusDenied)
	}

	for _, s := range blocked {
		if r.Status != s {
			continue
		}
		if action == ActionConfirm && r.Status == StatusConfirmed {
			return &AlreadyConfirmedError{ID: r.ID}
		}
		return &InvalidTransitionError{ID: r.ID, Action: action, Current: r.Status}
	}
	return nil
}
