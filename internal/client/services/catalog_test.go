package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/artefacto/internal/client/client"
	"github.com/dmitrijs2005/artefacto/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCatalog() *fakeCatalogAPI {
	return &fakeCatalogAPI{
		temples: []models.Temple{
			{TempleID: "1", Title: "Borobudur"},
			{TempleID: "2", Title: "Prambanan"},
		},
		artifacts: []models.Artifact{
			{ArtifactID: "10", TempleID: "1", Title: "Kalpataru relief"},
			{ArtifactID: "11", TempleID: "1", Title: "Stupa"},
			{ArtifactID: "20", TempleID: "2", Title: "Shiva statue"},
		},
		tickets: []models.Ticket{{TicketID: "5", TempleID: "1", Price: 50000}},
	}
}

func newCatalog(t *testing.T, api *fakeCatalogAPI) *catalogService {
	t.Helper()
	svc := NewCatalogService(api, newReadingRepo(t), nil).(*catalogService)
	svc.now = func() time.Time { return time.Date(2025, 3, 10, 15, 0, 0, 0, time.Local) }
	return svc
}

func TestTempleDetail(t *testing.T) {
	svc := newCatalog(t, sampleCatalog())
	ctx := context.Background()

	d, err := svc.Temple(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Borobudur", d.Temple.Title)
	require.Len(t, d.Artifacts, 2)
	assert.Equal(t, models.ID("10"), d.Artifacts[0].ArtifactID)
	assert.Equal(t, models.ID("11"), d.Artifacts[1].ArtifactID)

	_, err = svc.Temple(ctx, "404")
	require.ErrorIs(t, err, client.ErrServerRejected)
	assert.Equal(t, "Temple not found", UserMessage(err))
}

func TestBookmarksAndReadMarks(t *testing.T) {
	api := sampleCatalog()
	svc := newCatalog(t, api)
	ctx := context.Background()

	on, err := svc.ToggleBookmark(ctx, "11")
	require.NoError(t, err)
	assert.True(t, on)
	require.NoError(t, svc.MarkRead(ctx, "20"))

	all, err := svc.Artifacts(ctx)
	require.NoError(t, err)
	assert.False(t, all[0].Bookmarked)
	assert.True(t, all[1].Bookmarked)
	assert.True(t, all[2].Read)
	assert.False(t, all[1].Read)

	a, err := svc.Artifact(ctx, "11")
	require.NoError(t, err)
	assert.True(t, a.Bookmarked)

	bm, err := svc.Bookmarks(ctx)
	require.NoError(t, err)
	require.Len(t, bm, 1)
	assert.Equal(t, "Stupa", bm[0].Title)

	on, err = svc.ToggleBookmark(ctx, "11")
	require.NoError(t, err)
	assert.False(t, on)

	bm, err = svc.Bookmarks(ctx)
	require.NoError(t, err)
	assert.Empty(t, bm)

	assert.Equal(t, []models.ID{"11"}, api.bookmarked, "only adding a bookmark is synced")
	assert.Equal(t, []models.ID{"20"}, api.read)
}

func TestBookmark_ServerFailureKeepsLocalState(t *testing.T) {
	api := sampleCatalog()
	api.bookmarkErr = &client.Error{Op: "BookmarkArtifact", Kind: client.KindServerRejected, Status: 404}
	svc := newCatalog(t, api)
	ctx := context.Background()

	on, err := svc.ToggleBookmark(ctx, "10")
	require.NoError(t, err)
	assert.True(t, on)

	bm, err := svc.Bookmarks(ctx)
	require.NoError(t, err)
	assert.Len(t, bm, 1)
}

func TestReading_WithoutStorage(t *testing.T) {
	svc := NewCatalogService(sampleCatalog(), nil, nil)
	ctx := context.Background()

	on, err := svc.ToggleBookmark(ctx, "10")
	require.NoError(t, err)
	assert.True(t, on)

	bm, err := svc.Bookmarks(ctx)
	require.NoError(t, err)
	assert.Empty(t, bm)
}

func TestArtifacts_ListError(t *testing.T) {
	api := sampleCatalog()
	api.listErr = &client.Error{Op: "ListArtifacts", Kind: client.KindUnavailable, Err: errors.New("offline")}
	svc := newCatalog(t, api)

	_, err := svc.Artifacts(context.Background())
	assert.ErrorIs(t, err, client.ErrUnavailable)
}

func TestPurchase(t *testing.T) {
	tests := []struct {
		name    string
		in      PurchaseInput
		field   string
		wantErr bool
	}{
		{name: "today", in: PurchaseInput{TicketID: "5", Quantity: 2, ValidDate: "2025-03-10"}},
		{name: "future", in: PurchaseInput{TicketID: "5", Quantity: 1, ValidDate: "2025-04-01"}},
		{name: "past", in: PurchaseInput{TicketID: "5", Quantity: 1, ValidDate: "2025-03-09"}, field: "validDate", wantErr: true},
		{name: "bad date", in: PurchaseInput{TicketID: "5", Quantity: 1, ValidDate: "10/03/2025"}, field: "validDate", wantErr: true},
		{name: "zero quantity", in: PurchaseInput{TicketID: "5", ValidDate: "2025-03-10"}, field: "ticketQuantity", wantErr: true},
		{name: "no ticket", in: PurchaseInput{Quantity: 1, ValidDate: "2025-03-10"}, field: "ticketID", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := sampleCatalog()
			svc := newCatalog(t, api)

			tx, err := svc.Purchase(context.Background(), tt.in)
			if tt.wantErr {
				var ve *ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Contains(t, ve.Fields, tt.field)
				assert.Empty(t, api.purchases)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "paid", tx.Status)
			require.Len(t, api.purchases, 1)
			assert.Equal(t, models.Purchase{TicketID: "5", TicketQuantity: tt.in.Quantity, ValidDate: tt.in.ValidDate}, api.purchases[0])
		})
	}
}

func TestAdminService(t *testing.T) {
	api := sampleCatalog()
	svc := NewAdminService(api, nil)
	ctx := context.Background()

	temple, err := svc.CreateTemple(ctx, map[string]string{"title": " Mendut ", "description": ""})
	require.NoError(t, err)
	assert.Equal(t, "Mendut", temple.Title)
	assert.Equal(t, map[string]string{"title": "Mendut"}, api.lastFields)

	_, err = svc.UpdateTemple(ctx, "1", map[string]string{"title": "  "})
	assert.ErrorIs(t, err, ErrNothingToUpdate)

	updated, err := svc.UpdateTemple(ctx, "1", map[string]string{"title": "Borobudur Temple"})
	require.NoError(t, err)
	assert.Equal(t, models.ID("1"), updated.TempleID)

	tk, err := svc.UpdateTicket(ctx, "5", models.Ticket{TempleID: "1", Price: 75000})
	require.NoError(t, err)
	assert.Equal(t, models.ID("5"), tk.TicketID)
	assert.Equal(t, 75000.0, api.lastTicket.Price)

	require.NoError(t, svc.DeleteTemple(ctx, "2"))
	err = svc.DeleteArtifact(ctx, "10")
	assert.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Equal(t, []models.ID{"2", "10"}, api.deleted)
}

func TestScanService(t *testing.T) {
	dir := t.TempDir()
	photo := filepath.Join(dir, "relief.JPG")
	require.NoError(t, os.WriteFile(photo, []byte("jpeg-bytes"), 0o600))
	notes := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("x"), 0o600))

	ctx := context.Background()

	t.Run("recognised", func(t *testing.T) {
		p := &fakePredictor{ret: &models.Prediction{Name: "Kalpataru", Confidence: 0.93}}
		res, err := NewScanService(p, nil).Scan(ctx, photo)
		require.NoError(t, err)
		assert.Equal(t, "Kalpataru", res.Name)
		assert.Equal(t, "relief.JPG", p.name)
		assert.Equal(t, "jpeg-bytes", p.content)
	})

	for name, path := range map[string]string{
		"empty":     "",
		"not image": notes,
		"missing":   filepath.Join(dir, "gone.png"),
		"directory": dir + "/sub.png",
	} {
		t.Run(name, func(t *testing.T) {
			if name == "directory" {
				require.NoError(t, os.MkdirAll(path, 0o700))
			}
			p := &fakePredictor{}
			_, err := NewScanService(p, nil).Scan(ctx, path)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, p.name)
		})
	}

	t.Run("service down", func(t *testing.T) {
		p := &fakePredictor{err: &client.Error{Op: "Predict", Kind: client.KindUnavailable, Message: "recognition service is not configured"}}
		_, err := NewScanService(p, nil).Scan(ctx, photo)
		require.ErrorIs(t, err, client.ErrUnavailable)
		assert.Equal(t, "recognition service is not configured", UserMessage(err))
	})
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", invalid("email", "email is required"), "email is required"},
		{"network", &client.Error{Kind: client.KindUnavailable, Err: errors.New("x")}, "Cannot connect to the server. Check your internet connection and try again."},
		{"credentials", &client.Error{Kind: client.KindInvalidCredentials}, "Incorrect email or password."},
		{"malformed", &client.Error{Kind: client.KindMalformedResponse, Message: "ignored"}, "The server is not responding correctly. Please try again later."},
		{"unauthorized", &client.Error{Kind: client.KindUnauthorized}, "Your session has ended. Please log in again."},
		{"rejected with message", &client.Error{Kind: client.KindServerRejected, Message: "Email already registered"}, "Email already registered"},
		{"not signed in", ErrNotSignedIn, "Please log in first."},
		{"unknown", errors.New("boom"), "Something went wrong. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}
