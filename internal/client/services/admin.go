package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/artefacto/internal/client/client"
	"github.com/dmitrijs2005/artefacto/internal/client/models"
	"github.com/dmitrijs2005/artefacto/internal/logging"
)

// AdminService manages the catalog. The server enforces the administrator
// role; pages reach this service only through admin routes.
type AdminService interface {
	CreateTemple(ctx context.Context, fields map[string]string) (*models.Temple, error)
	UpdateTemple(ctx context.Context, id models.ID, fields map[string]string) (*models.Temple, error)
	DeleteTemple(ctx context.Context, id models.ID) error

	CreateArtifact(ctx context.Context, fields map[string]string) (*models.Artifact, error)
	UpdateArtifact(ctx context.Context, id models.ID, fields map[string]string) (*models.Artifact, error)
	DeleteArtifact(ctx context.Context, id models.ID) error

	CreateTicket(ctx context.Context, t models.Ticket) (*models.Ticket, error)
	UpdateTicket(ctx context.Context, id models.ID, t models.Ticket) (*models.Ticket, error)
	DeleteTicket(ctx context.Context, id models.ID) error

	Transactions(ctx context.Context) ([]models.Transaction, error)
}

type adminService struct {
	api    client.CatalogAPI
	logger logging.Logger
}

func NewAdminService(api client.CatalogAPI, logger logging.Logger) AdminService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &adminService{api: api, logger: logger.With("component", "admin")}
}

// compact drops blank form fields so an update only carries what was
// typed.
func compact(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		if v = strings.TrimSpace(v); v != "" {
			out[k] = v
		}
	}
	return out
}

func (s *adminService) done(ctx context.Context, what string, id models.ID, err error) {
	if err != nil {
		s.logger.Warn(ctx, what+" failed", "id", id, "error", err)
		return
	}
	s.logger.Info(ctx, what, "id", id)
}

func (s *adminService) CreateTemple(ctx context.Context, fields map[string]string) (*models.Temple, error) {
	t, err := s.api.CreateTemple(ctx, compact(fields))
	s.done(ctx, "temple created", "", err)
	return t, err
}

func (s *adminService) UpdateTemple(ctx context.Context, id models.ID, fields map[string]string) (*models.Temple, error) {
	fields = compact(fields)
	if len(fields) == 0 {
		return nil, ErrNothingToUpdate
	}
	t, err := s.api.UpdateTemple(ctx, id, fields)
	s.done(ctx, "temple updated", id, err)
	return t, err
}

func (s *adminService) DeleteTemple(ctx context.Context, id models.ID) error {
	err := s.api.DeleteTemple(ctx, id)
	s.done(ctx, "temple deleted", id, err)
	return err
}

func (s *adminService) CreateArtifact(ctx context.Context, fields map[string]string) (*models.Artifact, error) {
	a, err := s.api.CreateArtifact(ctx, compact(fields))
	s.done(ctx, "artifact created", "", err)
	return a, err
}

func (s *adminService) UpdateArtifact(ctx context.Context, id models.ID, fields map[string]string) (*models.Artifact, error) {
	fields = compact(fields)
	if len(fields) == 0 {
		return nil, ErrNothingToUpdate
	}
	a, err := s.api.UpdateArtifact(ctx, id, fields)
	s.done(ctx, "artifact updated", id, err)
	return a, err
}

func (s *adminService) DeleteArtifact(ctx context.Context, id models.ID) error {
	err := s.api.DeleteArtifact(ctx, id)
	s.done(ctx, "artifact deleted", id, err)
	return err
}

func (s *adminService) CreateTicket(ctx context.Context, t models.Ticket) (*models.Ticket, error) {
	created, err := s.api.CreateTicket(ctx, t)
	s.done(ctx, "ticket created", "", err)
	return created, err
}

func (s *adminService) UpdateTicket(ctx context.Context, id models.ID, t models.Ticket) (*models.Ticket, error) {
	updated, err := s.api.UpdateTicket(ctx, id, t)
	s.done(ctx, "ticket updated", id, err)
	return updated, err
}

func (s *adminService) DeleteTicket(ctx context.Context, id models.ID) error {
	err := s.api.DeleteTicket(ctx, id)
	s.done(ctx, "ticket deleted", id, err)
	return err
}

func (s *adminService) Transactions(ctx context.Context) ([]models.Transaction, error) {
	return s.api.ListTransactions(ctx)
}
