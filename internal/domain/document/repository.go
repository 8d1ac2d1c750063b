package document

import "context"

// Scope selects documents of one user, optionally narrowed to an application.
type Scope struct {
	UserID        string
	ApplicationID *uint64
}

type Repository interface {
	Create(ctx context.Context, d *Document) error
	Save(ctx context.Context, d *Document) error
	Delete(ctx context.Context, d *Document) error
	GetByDocumentID(ctx context.Context, documentID string) (*Document, error)
	// ListByScope with a nil ApplicationID returns only unscoped documents.
	ListByScope(ctx context.Context, s Scope) ([]Document, error)
	ListByScopeAndType(ctx context.Context, s Scope, t Type) ([]Document, error)
	ListByApplication(ctx context.Context, applicationID uint64) ([]Document, error)
	// Attach moves the user's unscoped documents of the given types onto an
	// application and reports how many rows moved.
	Attach(ctx context.Context, userID string, applicationID uint64, types []Type) (int64, error)
}
