package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/artefacto/internal/client/models"
)

// AuthAPI covers the account endpoints under /auth.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*AuthPayload, error)
	Register(ctx context.Context, req RegisterRequest) (*AuthPayload, error)
	UpdateProfile(ctx context.Context, fields map[string]string, picture *FilePart) (*models.UserProfile, error)
	DeleteAccount(ctx context.Context) error
}

// CatalogAPI covers temples, artifacts, tickets and purchases. Create and
// update calls return nil when the server does not echo the resource.
type CatalogAPI interface {
	ListTemples(ctx context.Context) ([]models.Temple, error)
	GetTemple(ctx context.Context, id models.ID) (*models.Temple, error)
	CreateTemple(ctx context.Context, fields map[string]string) (*models.Temple, error)
	UpdateTemple(ctx context.Context, id models.ID, fields map[string]string) (*models.Temple, error)
	DeleteTemple(ctx context.Context, id models.ID) error

	ListArtifacts(ctx context.Context) ([]models.Artifact, error)
	GetArtifact(ctx context.Context, id models.ID) (*models.Artifact, error)
	CreateArtifact(ctx context.Context, fields map[string]string) (*models.Artifact, error)
	UpdateArtifact(ctx context.Context, id models.ID, fields map[string]string) (*models.Artifact, error)
	DeleteArtifact(ctx context.Context, id models.ID) error
	BookmarkArtifact(ctx context.Context, id models.ID) error
	MarkArtifactRead(ctx context.Context, id models.ID) error

	ListTickets(ctx context.Context) ([]models.Ticket, error)
	GetTicket(ctx context.Context, id models.ID) (*models.Ticket, error)
	CreateTicket(ctx context.Context, t models.Ticket) (*models.Ticket, error)
	UpdateTicket(ctx context.Context, id models.ID, t models.Ticket) (*models.Ticket, error)
	DeleteTicket(ctx context.Context, id models.ID) error

	ListTransactions(ctx context.Context) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, id models.ID) (*models.Transaction, error)
	CreateTransaction(ctx context.Context, p models.Purchase) (*models.Transaction, error)

	ListOwnedTickets(ctx context.Context) ([]models.OwnedTicket, error)
	GetOwnedTicket(ctx context.Context, id models.ID) (*models.OwnedTicket, error)
}

// Predictor sends a photo to the recognition service.
type Predictor interface {
	Predict(ctx context.Context, filename string, image io.Reader) (*models.Prediction, error)
}

// Client is everything HTTPClient offers.
type Client interface {
	AuthAPI
	CatalogAPI
	Predictor
	OnUnauthorized(h UnauthorizedHandler)
}

var _ Client = (*HTTPClient)(nil)
