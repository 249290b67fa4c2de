package match

import (
	"context"
	"errors"
	"time"

	"github.com/matchdayhq/matchday/internal/domain/venue"
)

// ErrSlotTaken is returned by Tx.InsertMatch when a store-level overlap
// guard fires under concurrency, after HasOverlap reported the slot free.
var ErrSlotTaken = errors.New("venue slot already booked")

// ErrTxContention is returned by Store.InTx when the transaction keeps
// losing to concurrent writers after retries; the request can be retried.
var ErrTxContention = errors.New("transaction contention")

// Store coordinates all match writes through serializable transactions.
// InTx runs fn inside one transaction; returning an error rolls every
// write back. Reads outside InTx run at read-committed.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error

	List(ctx context.Context) ([]Summary, error)
	Get(ctx context.Context, matchID string) (Summary, bool, error)
	Roster(ctx context.Context, matchID string) ([]RosterEntry, error)
	TeamHasUpcoming(ctx context.Context, teamID string, from time.Time) (bool, error)
}

// Tx is the transactional handle passed to Store.InTx callbacks.
// VenueForUpdate locks the venue row so the conflict check and insert
// serialize per venue.
type Tx interface {
	VenueForUpdate(ctx context.Context, venueID string) (venue.Venue, bool, error)
	VenueException(ctx context.Context, venueID string, date time.Time) (*venue.Exception, error)
	TeamCaptain(ctx context.Context, teamID string) (string, bool, error)
	HasOverlap(ctx context.Context, venueID string, start, end time.Time) (bool, error)
	InsertMatch(ctx context.Context, m Match, assignments []Assignment) error

	MatchForUpdate(ctx context.Context, matchID string) (Match, bool, error)
	DeleteMatch(ctx context.Context, matchID string) error

	IsParticipant(ctx context.Context, matchID, userID string) (bool, error)
	UpsertPresence(ctx context.Context, p Presence) error
}
