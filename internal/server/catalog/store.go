// Package catalog keeps the temples, artifacts, tickets and purchases of
// the development backend in memory.
package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/artefacto/internal/common"
	"github.com/dmitrijs2005/artefacto/internal/server/models"
	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

var (
	ErrUnknownTemple = errors.New("temple does not exist")
	ErrUnknownTicket = errors.New("ticket does not exist")
	ErrPastDate      = errors.New("validDate cannot be in the past")
	ErrBadDate       = errors.New("validDate must be YYYY-MM-DD")
	ErrBadQuantity   = errors.New("ticketQuantity must be at least 1")
)

// Store is safe for concurrent use. Values handed out are copies.
type Store struct {
	mu           sync.RWMutex
	temples      *table[models.Temple]
	artifacts    *table[models.Artifact]
	tickets      *table[models.Ticket]
	transactions *table[models.Transaction]
	owned        *table[models.OwnedTicket]
	bookmarks    map[int64]map[int64]bool
	reads        map[int64]map[int64]bool
	now          func() time.Time
}

func NewStore() *Store {
	return &Store{
		temples:      newTable[models.Temple](),
		artifacts:    newTable[models.Artifact](),
		tickets:      newTable[models.Ticket](),
		transactions: newTable[models.Transaction](),
		owned:        newTable[models.OwnedTicket](),
		bookmarks:    make(map[int64]map[int64]bool),
		reads:        make(map[int64]map[int64]bool),
		now:          time.Now,
	}
}

// WithClock replaces the time source used for purchases.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Temples

func (s *Store) Temples(ctx context.Context) []models.Temple {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.temples.list(nil)
}

func (s *Store) Temple(ctx context.Context, id int64) (*models.Temple, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.temples.get(id)
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &t, nil
}

func (s *Store) CreateTemple(ctx context.Context, t models.Temple) models.Temple {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.temples.insert(func(id int64) models.Temple {
		t.TempleID = id
		return t
	})
}

// UpdateTemple applies patch to the stored temple.
func (s *Store) UpdateTemple(ctx context.Context, id int64, patch func(*models.Temple)) (*models.Temple, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.temples.get(id)
	if !ok {
		return nil, common.ErrorNotFound
	}
	patch(&t)
	t.TempleID = id
	s.temples.put(id, t)
	return &t, nil
}

// DeleteTemple removes the temple together with its artifacts and tickets.
func (s *Store) DeleteTemple(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.temples.remove(id) {
		return common.ErrorNotFound
	}
	for _, a := range s.artifacts.list(func(a models.Artifact) bool { return a.TempleID == id }) {
		s.artifacts.remove(a.ArtifactID)
	}
	for _, t := range s.tickets.list(func(t models.Ticket) bool { return t.TempleID == id }) {
		s.tickets.remove(t.TicketID)
	}
	return nil
}

// Artifacts

func (s *Store) Artifacts(ctx context.Context) []models.Artifact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.artifacts.list(nil)
}

func (s *Store) Artifact(ctx context.Context, id int64) (*models.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.artifacts.get(id)
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &a, nil
}

func (s *Store) CreateArtifact(ctx context.Context, a models.Artifact) (*models.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.temples.get(a.TempleID); !ok {
		return nil, ErrUnknownTemple
	}
	a = s.artifacts.insert(func(id int64) models.Artifact {
		a.ArtifactID = id
		return a
	})
	return &a, nil
}

func (s *Store) UpdateArtifact(ctx context.Context, id int64, patch func(*models.Artifact)) (*models.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.artifacts.get(id)
	if !ok {
		return nil, common.ErrorNotFound
	}
	patch(&a)
	a.ArtifactID = id
	if _, ok := s.temples.get(a.TempleID); !ok {
		return nil, ErrUnknownTemple
	}
	s.artifacts.put(id, a)
	return &a, nil
}

func (s *Store) DeleteArtifact(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.artifacts.remove(id) {
		return common.ErrorNotFound
	}
	return nil
}

// Bookmark records that userID bookmarked artifact id.
func (s *Store) Bookmark(ctx context.Context, userID, id int64) error {
	return s.mark(s.bookmarks, userID, id)
}

// MarkRead records that userID has read artifact id.
func (s *Store) MarkRead(ctx context.Context, userID, id int64) error {
	return s.mark(s.reads, userID, id)
}

func (s *Store) mark(set map[int64]map[int64]bool, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.artifacts.get(id); !ok {
		return common.ErrorNotFound
	}
	if set[userID] == nil {
		set[userID] = make(map[int64]bool)
	}
	set[userID][id] = true
	return nil
}

// Tickets

// withTemple expects s.mu to be held.
func (s *Store) withTemple(t models.Ticket) models.Ticket {
	if temple, ok := s.temples.get(t.TempleID); ok {
		t.Temple = &temple
	}
	return t
}

func (s *Store) Tickets(ctx context.Context) []models.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.tickets.list(nil)
	for i := range out {
		out[i] = s.withTemple(out[i])
	}
	return out
}

func (s *Store) Ticket(ctx context.Context, id int64) (*models.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tickets.get(id)
	if !ok {
		return nil, common.ErrorNotFound
	}
	t = s.withTemple(t)
	return &t, nil
}

func (s *Store) CreateTicket(ctx context.Context, t models.Ticket) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.temples.get(t.TempleID); !ok {
		return nil, ErrUnknownTemple
	}
	t.Temple = nil
	t = s.tickets.insert(func(id int64) models.Ticket {
		t.TicketID = id
		return t
	})
	t = s.withTemple(t)
	return &t, nil
}

func (s *Store) UpdateTicket(ctx context.Context, id int64, patch func(*models.Ticket)) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tickets.get(id)
	if !ok {
		return nil, common.ErrorNotFound
	}
	patch(&t)
	t.TicketID = id
	t.Temple = nil
	if _, ok := s.temples.get(t.TempleID); !ok {
		return nil, ErrUnknownTemple
	}
	s.tickets.put(id, t)
	t = s.withTemple(t)
	return &t, nil
}

func (s *Store) DeleteTicket(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.tickets.remove(id) {
		return common.ErrorNotFound
	}
	return nil
}

// Purchases

// Purchase pays for quantity tickets valid on validDate and issues one
// owned ticket per unit, each with its own code.
func (s *Store) Purchase(ctx context.Context, userID, ticketID int64, quantity int, validDate string) (*models.Transaction, error) {
	if quantity < 1 {
		return nil, ErrBadQuantity
	}

	now := s.now()
	day, err := time.ParseInLocation(DateLayout, validDate, now.Location())
	if err != nil {
		return nil, ErrBadDate
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if day.Before(today) {
		return nil, ErrPastDate
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets.get(ticketID)
	if !ok {
		return nil, ErrUnknownTicket
	}
	ticket = s.withTemple(ticket)

	tx := s.transactions.insert(func(id int64) models.Transaction {
		return models.Transaction{
			TransactionID:  id,
			UserID:         userID,
			TicketID:       ticketID,
			TicketQuantity: quantity,
			ValidDate:      validDate,
			TotalAmount:    ticket.Price * float64(quantity),
			Status:         models.TransactionPaid,
			CreatedAt:      now.UTC(),
		}
	})

	for range quantity {
		s.owned.insert(func(id int64) models.OwnedTicket {
			return models.OwnedTicket{
				OwnedTicketID: id,
				UserID:        userID,
				TransactionID: tx.TransactionID,
				UniqueCode:    uuid.NewString(),
				UsageStatus:   models.TicketUnused,
				ValidDate:     validDate,
			}
		})
	}

	tx.Ticket = &ticket
	return &tx, nil
}

// Transactions returns the purchases of userID, or all purchases when
// userID is zero.
func (s *Store) Transactions(ctx context.Context, userID int64) []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.transactions.list(func(t models.Transaction) bool {
		return userID == 0 || t.UserID == userID
	})
	for i := range out {
		out[i].Ticket = s.ticketOf(out[i].TicketID)
	}
	return out
}

// Transaction returns purchase id when it belongs to userID. A zero userID
// matches any owner.
func (s *Store) Transaction(ctx context.Context, userID, id int64) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.transactions.get(id)
	if !ok || (userID != 0 && t.UserID != userID) {
		return nil, common.ErrorNotFound
	}
	t.Ticket = s.ticketOf(t.TicketID)
	return &t, nil
}

func (s *Store) OwnedTickets(ctx context.Context, userID int64) []models.OwnedTicket {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.owned.list(func(o models.OwnedTicket) bool { return o.UserID == userID })
	for i := range out {
		out[i].Ticket = s.ownedTicketOf(out[i])
	}
	return out
}

func (s *Store) OwnedTicket(ctx context.Context, userID, id int64) (*models.OwnedTicket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.owned.get(id)
	if !ok || o.UserID != userID {
		return nil, common.ErrorNotFound
	}
	o.Ticket = s.ownedTicketOf(o)
	return &o, nil
}

// ticketOf expects s.mu to be held. Deleted tickets yield nil.
func (s *Store) ticketOf(id int64) *models.Ticket {
	t, ok := s.tickets.get(id)
	if !ok {
		return nil
	}
	t = s.withTemple(t)
	return &t
}

func (s *Store) ownedTicketOf(o models.OwnedTicket) *models.Ticket {
	tx, ok := s.transactions.get(o.TransactionID)
	if !ok {
		return nil
	}
	return s.ticketOf(tx.TicketID)
}
