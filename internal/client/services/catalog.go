package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/artefacto/internal/client/client"
	"github.com/dmitrijs2005/artefacto/internal/client/models"
	"github.com/dmitrijs2005/artefacto/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/artefacto/internal/logging"
)

// TempleDetail is a temple with the artifacts found there.
type TempleDetail struct {
	Temple    *models.Temple
	Artifacts []models.Artifact
}

// CatalogService is what a signed-in visitor can browse and buy.
type CatalogService interface {
	Temples(ctx context.Context) ([]models.Temple, error)
	Temple(ctx context.Context, id models.ID) (*TempleDetail, error)

	Artifacts(ctx context.Context) ([]models.Artifact, error)
	Artifact(ctx context.Context, id models.ID) (*models.Artifact, error)
	Bookmarks(ctx context.Context) ([]models.Artifact, error)
	// ToggleBookmark flips the bookmark and returns the new state.
	ToggleBookmark(ctx context.Context, id models.ID) (bool, error)
	MarkRead(ctx context.Context, id models.ID) error

	Tickets(ctx context.Context) ([]models.Ticket, error)
	Ticket(ctx context.Context, id models.ID) (*models.Ticket, error)
	Purchase(ctx context.Context, in PurchaseInput) (*models.Transaction, error)
	OwnedTickets(ctx context.Context) ([]models.OwnedTicket, error)
	OwnedTicket(ctx context.Context, id models.ID) (*models.OwnedTicket, error)
}

type catalogService struct {
	api     client.CatalogAPI
	reading readingLog
	logger  logging.Logger
	now     func() time.Time
}

// NewCatalogService keeps reading state in repo; repo may be nil.
func NewCatalogService(api client.CatalogAPI, repo metadata.Repository, logger logging.Logger) CatalogService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &catalogService{
		api:     api,
		reading: readingLog{repo: repo},
		logger:  logger.With("component", "catalog"),
		now:     time.Now,
	}
}

func (s *catalogService) Temples(ctx context.Context) ([]models.Temple, error) {
	return s.api.ListTemples(ctx)
}

func (s *catalogService) Temple(ctx context.Context, id models.ID) (*TempleDetail, error) {
	temple, err := s.api.GetTemple(ctx, id)
	if err != nil {
		return nil, err
	}

	all, err := s.Artifacts(ctx)
	if err != nil {
		return nil, err
	}

	detail := &TempleDetail{Temple: temple}
	for _, a := range all {
		if a.TempleID == temple.TempleID {
			detail.Artifacts = append(detail.Artifacts, a)
		}
	}
	return detail, nil
}

func (s *catalogService) Artifacts(ctx context.Context) ([]models.Artifact, error) {
	artifacts, err := s.api.ListArtifacts(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.reading.annotate(ctx, artifacts); err != nil {
		s.logger.Warn(ctx, "reading state unavailable", "error", err)
	}
	return artifacts, nil
}

func (s *catalogService) Artifact(ctx context.Context, id models.ID) (*models.Artifact, error) {
	a, err := s.api.GetArtifact(ctx, id)
	if err != nil {
		return nil, err
	}
	list := []models.Artifact{*a}
	if err := s.reading.annotate(ctx, list); err != nil {
		s.logger.Warn(ctx, "reading state unavailable", "error", err)
	}
	return &list[0], nil
}

func (s *catalogService) Bookmarks(ctx context.Context) ([]models.Artifact, error) {
	all, err := s.Artifacts(ctx)
	if err != nil {
		return nil, err
	}

	var out []models.Artifact
	for _, a := range all {
		if a.Bookmarked {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *catalogService) ToggleBookmark(ctx context.Context, id models.ID) (bool, error) {
	on, err := s.reading.has(ctx, bookmarkPrefix, id)
	if err != nil {
		return false, fmt.Errorf("read bookmark: %w", err)
	}
	on = !on

	if err := s.reading.set(ctx, bookmarkPrefix, id, on); err != nil {
		return !on, fmt.Errorf("save bookmark: %w", err)
	}

	if on {
		if err := s.api.BookmarkArtifact(ctx, id); err != nil {
			s.logger.Warn(ctx, "bookmark not synced to server", "artifact", id, "error", err)
		}
	}
	return on, nil
}

func (s *catalogService) MarkRead(ctx context.Context, id models.ID) error {
	if err := s.reading.set(ctx, readPrefix, id, true); err != nil {
		return fmt.Errorf("save read mark: %w", err)
	}
	if err := s.api.MarkArtifactRead(ctx, id); err != nil {
		s.logger.Warn(ctx, "read mark not synced to server", "artifact", id, "error", err)
	}
	return nil
}

func (s *catalogService) Tickets(ctx context.Context) ([]models.Ticket, error) {
	return s.api.ListTickets(ctx)
}

func (s *catalogService) Ticket(ctx context.Context, id models.ID) (*models.Ticket, error) {
	return s.api.GetTicket(ctx, id)
}

// Purchase buys tickets for a visit. The visit date may be today but not
// earlier.
func (s *catalogService) Purchase(ctx context.Context, in PurchaseInput) (*models.Transaction, error) {
	in.TicketID = strings.TrimSpace(in.TicketID)
	in.ValidDate = strings.TrimSpace(in.ValidDate)
	if err := check(in); err != nil {
		return nil, err
	}

	visit, _ := time.ParseInLocation(time.DateOnly, in.ValidDate, time.Local)
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if visit.Before(today) {
		return nil, invalid("validDate", "validDate cannot be in the past")
	}

	tx, err := s.api.CreateTransaction(ctx, models.Purchase{
		TicketID:       models.ID(in.TicketID),
		TicketQuantity: in.Quantity,
		ValidDate:      in.ValidDate,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "tickets purchased", "ticket", in.TicketID, "quantity", in.Quantity)
	return tx, nil
}

func (s *catalogService) OwnedTickets(ctx context.Context) ([]models.OwnedTicket, error) {
	return s.api.ListOwnedTickets(ctx)
}

func (s *catalogService) OwnedTicket(ctx context.Context, id models.ID) (*models.OwnedTicket, error) {
	return s.api.GetOwnedTicket(ctx, id)
}
