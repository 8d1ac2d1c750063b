package application

import (
	"loan-origination/internal/domain/apperr"
)

type Action string

const (
	ActionApprove     Action = "approve"
	ActionReject      Action = "reject"
	ActionRequestInfo Action = "request_info"
	ActionWithdraw    Action = "withdraw"
)

type transition struct {
	from map[Status]bool
	to   Status
}

// The review machine is permissive on approve: a rejected application may be
// approved later, and approving an approved one is a no-op re-approval.
var transitions = map[Action]transition{
	ActionApprove: {
		from: map[Status]bool{StatusPending: true, StatusUnderReview: true, StatusRejected: true, StatusApproved: true},
		to:   StatusApproved,
	},
	ActionReject: {
		from: map[Status]bool{StatusPending: true, StatusUnderReview: true},
		to:   StatusRejected,
	},
	ActionRequestInfo: {
		from: map[Status]bool{StatusPending: true, StatusUnderReview: true},
		to:   StatusUnderReview,
	},
	ActionWithdraw: {
		from: map[Status]bool{StatusPending: true, StatusUnderReview: true},
		to:   StatusWithdrawn,
	},
}

// Next returns the status reached by applying action to from, or a Conflict
// error when the table has no such edge.
func Next(action Action, from Status) (Status, error) {
	t, ok := transitions[action]
	if !ok {
		return "", apperr.Validation("action", "unknown action %q", action)
	}
	if !t.from[from] {
		return "", apperr.Conflict("cannot %s an application in status %s", action, from)
	}
	return t.to, nil
}
