package services

import (
	"context"
	"database/sql"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/artefacto/internal/client/client"
	"github.com/dmitrijs2005/artefacto/internal/client/models"
	"github.com/dmitrijs2005/artefacto/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/artefacto/internal/client/session"
	"github.com/dmitrijs2005/artefacto/internal/client/tokenstore"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type fixture struct {
	api   *fakeAuthAPI
	store *tokenstore.Store
	state *session.State
	db    *sql.DB
	clock *clock
	svc   AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newDB(t)
	c := &clock{t: time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)}
	f := &fixture{
		api:   &fakeAuthAPI{},
		store: tokenstore.New(db, nil).WithClock(c.now),
		state: session.NewState(),
		db:    db,
		clock: c,
	}
	f.svc = NewAuthService(f.api, f.store, f.state, nil)
	return f
}

// fakeAuthAPI records what it was asked and answers from its fields.
type fakeAuthAPI struct {
	mu sync.Mutex

	LoginRet    *client.AuthPayload
	LoginErr    error
	RegisterRet *client.AuthPayload
	RegisterErr error
	UpdateRet   *models.UserProfile
	UpdateErr   error
	DeleteErr   error

	LoginCalls    int
	LastEmail     string
	LastPassword  string
	LastRegister  client.RegisterRequest
	LastFields    map[string]string
	LastPicture   string
	UpdateCalls   int
	DeleteCalls   int
	RegisterCalls int
}

func (f *fakeAuthAPI) Login(_ context.Context, email, password string) (*client.AuthPayload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LoginCalls++
	f.LastEmail, f.LastPassword = email, password
	return f.LoginRet, f.LoginErr
}

func (f *fakeAuthAPI) Register(_ context.Context, req client.RegisterRequest) (*client.AuthPayload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RegisterCalls++
	f.LastRegister = req
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeAuthAPI) UpdateProfile(_ context.Context, fields map[string]string, picture *client.FilePart) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++
	f.LastFields = fields
	if picture != nil {
		b, _ := io.ReadAll(picture.Content)
		f.LastPicture = picture.Name + ":" + string(b)
	}
	if f.UpdateErr != nil {
		return nil, f.UpdateErr
	}
	return f.UpdateRet.Clone(), nil
}

func (f *fakeAuthAPI) DeleteAccount(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls++
	return f.DeleteErr
}

// fakeCatalogAPI serves a fixed catalog and records mutations.
type fakeCatalogAPI struct {
	client.CatalogAPI

	temples   []models.Temple
	artifacts []models.Artifact
	tickets   []models.Ticket
	owned     []models.OwnedTicket
	txs       []models.Transaction

	listErr     error
	bookmarkErr error
	bookmarked  []models.ID
	read        []models.ID
	purchases   []models.Purchase
	lastFields  map[string]string
	lastTicket  models.Ticket
	deleted     []models.ID
}

func (f *fakeCatalogAPI) ListTemples(context.Context) ([]models.Temple, error) {
	return f.temples, f.listErr
}

func (f *fakeCatalogAPI) GetTemple(_ context.Context, id models.ID) (*models.Temple, error) {
	for _, t := range f.temples {
		if t.TempleID == id {
			return &t, nil
		}
	}
	return nil, &client.Error{Op: "GetTemple", Kind: client.KindServerRejected, Status: 404, Message: "Temple not found"}
}

func (f *fakeCatalogAPI) ListArtifacts(context.Context) ([]models.Artifact, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Artifact(nil), f.artifacts...), nil
}

func (f *fakeCatalogAPI) GetArtifact(_ context.Context, id models.ID) (*models.Artifact, error) {
	for _, a := range f.artifacts {
		if a.ArtifactID == id {
			return &a, nil
		}
	}
	return nil, &client.Error{Op: "GetArtifact", Kind: client.KindServerRejected, Status: 404, Message: "Artifact not found"}
}

func (f *fakeCatalogAPI) BookmarkArtifact(_ context.Context, id models.ID) error {
	f.bookmarked = append(f.bookmarked, id)
	return f.bookmarkErr
}

func (f *fakeCatalogAPI) MarkArtifactRead(_ context.Context, id models.ID) error {
	f.read = append(f.read, id)
	return nil
}

func (f *fakeCatalogAPI) ListTickets(context.Context) ([]models.Ticket, error) {
	return f.tickets, f.listErr
}

func (f *fakeCatalogAPI) CreateTransaction(_ context.Context, p models.Purchase) (*models.Transaction, error) {
	f.purchases = append(f.purchases, p)
	return &models.Transaction{TransactionID: "t1", TicketID: p.TicketID, TicketQuantity: p.TicketQuantity, Status: "paid"}, nil
}

func (f *fakeCatalogAPI) ListTransactions(context.Context) ([]models.Transaction, error) {
	return f.txs, f.listErr
}

func (f *fakeCatalogAPI) CreateTemple(_ context.Context, fields map[string]string) (*models.Temple, error) {
	f.lastFields = fields
	return &models.Temple{TempleID: "9", Title: fields["title"]}, nil
}

func (f *fakeCatalogAPI) UpdateTemple(_ context.Context, id models.ID, fields map[string]string) (*models.Temple, error) {
	f.lastFields = fields
	return &models.Temple{TempleID: id, Title: fields["title"]}, nil
}

func (f *fakeCatalogAPI) DeleteTemple(_ context.Context, id models.ID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeCatalogAPI) UpdateTicket(_ context.Context, id models.ID, t models.Ticket) (*models.Ticket, error) {
	f.lastTicket = t
	t.TicketID = id
	return &t, nil
}

func (f *fakeCatalogAPI) DeleteArtifact(_ context.Context, id models.ID) error {
	f.deleted = append(f.deleted, id)
	return &client.Error{Op: "DeleteArtifact", Kind: client.KindUnauthorized, Status: 401}
}

type fakePredictor struct {
	name    string
	content string
	ret     *models.Prediction
	err     error
}

func (f *fakePredictor) Predict(_ context.Context, filename string, image io.Reader) (*models.Prediction, error) {
	f.name = filename
	b, _ := io.ReadAll(image)
	f.content = string(b)
	return f.ret, f.err
}

func newReadingRepo(t *testing.T) metadata.Repository {
	t.Helper()
	return metadata.NewSQLiteRepository(newDB(t))
}
