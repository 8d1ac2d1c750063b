// Package events is the in-process fan-out used after every successful
// write. An Event names the read models it made stale so subscribers
// (cache, notifications, mail) never guess from the event kind alone.
package events

import (
	"context"
	"sync"
	"time"

	"loan-origination/internal/infrastructure/logger"
)

type ReadModel string

const (
	ReadApplication          ReadModel = "application"
	ReadApplicationList      ReadModel = "application_list"
	ReadAdminApplicationList ReadModel = "admin_application_list"
	ReadDocuments            ReadModel = "documents"
	ReadContract             ReadModel = "contract"
)

type Kind string

const (
	ApplicationSubmitted Kind = "application.submitted"
	ApplicationWithdrawn Kind = "application.withdrawn"
	ApplicationApproved  Kind = "application.approved"
	ApplicationRejected  Kind = "application.rejected"
	InfoRequested        Kind = "application.info_requested"
	DocumentUploaded     Kind = "document.uploaded"
	DocumentDeleted      Kind = "document.deleted"
	DocumentReviewed     Kind = "document.reviewed"
	ContractGenerated    Kind = "contract.generated"
	ContractSent         Kind = "contract.sent"
	ContractSigned       Kind = "contract.signed"
	ContractVerified     Kind = "contract.verified"
	ContractRejected     Kind = "contract.rejected"
)

// Event is published after commit. IDs are public ids; empty when the
// event does not concern that entity.
type Event struct {
	Kind          Kind
	UserID        string
	ActorID       string
	ApplicationID string
	DocumentID    string
	ContractID    string
	Message       string
	Affects       []ReadModel
	At            time.Time
}

func (e Event) Touches(rm ReadModel) bool {
	for _, a := range e.Affects {
		if a == rm {
			return true
		}
	}
	return false
}

type Handler func(ctx context.Context, e Event) error

type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// Nop drops everything.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}

type subscriber struct {
	name string
	fn   Handler
}

// Bus delivers synchronously, in subscription order. A failing handler
// is logged and does not stop the others nor reach the publisher: the
// write it reports on is already committed.
type Bus struct {
	mu   sync.RWMutex
	subs []subscriber
	now  func() time.Time
}

func NewBus() *Bus { return &Bus{now: time.Now} }

func (b *Bus) Subscribe(name string, fn Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, subscriber{name: name, fn: fn})
}

func (b *Bus) Publish(ctx context.Context, e Event) {
	if e.At.IsZero() {
		e.At = b.now().UTC()
	}
	b.mu.RLock()
	subs := make([]subscriber, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, s := range subs {
		if err := s.fn(ctx, e); err != nil {
			logger.Warn(ctx, "events: subscriber %s failed on %s: %v", s.name, e.Kind, err)
		}
	}
}

// Default affected read models per kind.
var affects = map[Kind][]ReadModel{
	ApplicationSubmitted: {ReadApplicationList, ReadAdminApplicationList},
	ApplicationWithdrawn: {ReadApplication, ReadApplicationList, ReadAdminApplicationList},
	ApplicationApproved:  {ReadApplication, ReadApplicationList, ReadAdminApplicationList, ReadContract},
	ApplicationRejected:  {ReadApplication, ReadApplicationList, ReadAdminApplicationList},
	InfoRequested:        {ReadApplication, ReadApplicationList, ReadAdminApplicationList},
	DocumentUploaded:     {ReadDocuments},
	DocumentDeleted:      {ReadDocuments},
	DocumentReviewed:     {ReadDocuments},
	ContractGenerated:    {ReadContract, ReadApplication},
	ContractSent:         {ReadContract},
	ContractSigned:       {ReadContract, ReadDocuments},
	ContractVerified:     {ReadContract, ReadApplication},
	ContractRejected:     {ReadContract},
}

// New fills Affects from the kind's defaults.
func New(kind Kind) Event {
	rm := affects[kind]
	out := make([]ReadModel, len(rm))
	copy(out, rm)
	return Event{Kind: kind, Affects: out}
}
