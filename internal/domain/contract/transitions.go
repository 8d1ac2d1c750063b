package contract

import (
	"loan-origination/internal/domain/apperr"
)

type Action string

const (
	ActionSend   Action = "send"
	ActionSign   Action = "sign"
	ActionVerify Action = "verify"
	ActionReject Action = "reject"
)

type transition struct {
	from map[Status]bool
	to   Status
}

// rejected is not terminal: the borrower signs again from there. Reject is
// the negative outcome of verify, so it only applies to a signed contract;
// generated and sent contracts have no signed copy to turn down.
var transitions = map[Action]transition{
	ActionSend:   {from: map[Status]bool{StatusGenerated: true, StatusSent: true}, to: StatusSent},
	ActionSign:   {from: map[Status]bool{StatusGenerated: true, StatusSent: true, StatusRejected: true}, to: StatusSigned},
	ActionVerify: {from: map[Status]bool{StatusSigned: true}, to: StatusVerified},
	ActionReject: {from: map[Status]bool{StatusSigned: true}, to: StatusRejected},
}

func Next(action Action, from Status) (Status, error) {
	t, ok := transitions[action]
	if !ok {
		return "", apperr.Validation("action", "unknown contract action %q", action)
	}
	if !t.from[from] {
		return "", apperr.Conflict("cannot %s a contract in status %s", action, from)
	}
	return t.to, nil
}
