// Package entries is the session-bound client for the journal entry table.
//
// Every mutation is expected to be followed by a fresh List of the affected
// scope; the client never patches cached lists locally.
package entries

import (
	"context"
	"errors"
	"fmt"
	"time"

	journal "io.winapps.traveljournal/internal/models/journal"
)

// Store is the remote entry table. An empty ownerID on List means every
// owner. Update and Delete only touch rows owned by ownerID and return
// journal.ErrNotFound when no such row exists.
type Store interface {
	List(ctx context.Context, ownerID string) ([]journal.Entry, error)
	Get(ctx context.Context, id string) (journal.Entry, error)
	Insert(ctx context.Context, e journal.Entry) (journal.Entry, error)
	Update(ctx context.Context, id, ownerID string, p journal.Patch) (journal.Entry, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// Client issues entry table calls on behalf of one session identity.
type Client struct {
	store   Store
	userID  string
	timeout time.Duration
}

// NewClient binds store to the signed-in user. userID may be empty for
// anonymous read-only use (explore).
func NewClient(store Store, userID string, timeout time.Duration) *Client {
	return &Client{store: store, userID: userID, timeout: timeout}
}

// UserID returns the identity the client acts for.
func (c *Client) UserID() string {
	return c.userID
}

// List returns entries newest first. ScopeMine filters by the session
// identity; ScopeAll returns every user's entries.
func (c *Client) List(ctx context.Context, scope journal.Scope) ([]journal.Entry, error) {
	owner := ""
	switch scope {
	case journal.ScopeMine:
		if c.userID == "" {
			return nil, fmt.Errorf("%w: sign in to list your entries", journal.ErrValidation)
		}
		owner = c.userID
	case journal.ScopeAll:
	default:
		return nil, fmt.Errorf("%w: unknown scope %q", journal.ErrValidation, scope)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	list, err := c.store.List(ctx, owner)
	if err != nil {
		return nil, remote("list entries", err)
	}
	return list, nil
}

// Get returns a single entry by id.
func (c *Client) Get(ctx context.Context, id string) (journal.Entry, error) {
	if id == "" {
		return journal.Entry{}, fmt.Errorf("%w: entry id is required", journal.ErrValidation)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	e, err := c.store.Get(ctx, id)
	if err != nil {
		return journal.Entry{}, remote("get entry", err)
	}
	return e, nil
}

// Create persists a new entry owned by the session identity. The draft is
// validated before any store call.
func (c *Client) Create(ctx context.Context, d journal.Draft, cover *string, gallery []string) (journal.Entry, error) {
	if err := d.Validate(); err != nil {
		return journal.Entry{}, err
	}
	if c.userID == "" {
		return journal.Entry{}, fmt.Errorf("%w: sign in to create entries", journal.ErrValidation)
	}
	if gallery == nil {
		gallery = []string{}
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	created, err := c.store.Insert(ctx, journal.Entry{
		OwnerID:     c.userID,
		Title:       d.Title,
		Location:    d.Location,
		Description: d.Description,
		CoverImage:  cover,
		Gallery:     gallery,
	})
	if err != nil {
		return journal.Entry{}, remote("create entry", err)
	}
	return created, nil
}

// Update replaces the supplied fields of the entry identified by id.
func (c *Client) Update(ctx context.Context, id string, p journal.Patch) (journal.Entry, error) {
	if id == "" {
		return journal.Entry{}, fmt.Errorf("%w: entry id is required", journal.ErrValidation)
	}
	if p.Title != nil && *p.Title == "" {
		return journal.Entry{}, fmt.Errorf("%w: title cannot be empty", journal.ErrValidation)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	updated, err := c.store.Update(ctx, id, c.userID, p)
	if err != nil {
		return journal.Entry{}, remote("update entry", err)
	}
	return updated, nil
}

// Delete removes the entry identified by id. Confirmation is the caller's job.
func (c *Client) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: entry id is required", journal.ErrValidation)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := c.store.Delete(ctx, id, c.userID); err != nil {
		return remote("delete entry", err)
	}
	return nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// remote keeps ErrNotFound as is and classifies everything else as
// ErrRemoteUnavailable.
func remote(op string, err error) error {
	if errors.Is(err, journal.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, journal.ErrRemoteUnavailable, err)
}
