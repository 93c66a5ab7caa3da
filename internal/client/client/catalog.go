package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/artefacto/internal/client/models"
)

func segment(id models.ID) string {
	return url.PathEscape(id.String())
}

// fetch sends r and decodes data.<key> from the response.
func fetch[T any](ctx context.Context, c *HTTPClient, r call, key string) (T, error) {
	var zero T

	body, err := c.send(ctx, r)
	if err != nil {
		return zero, err
	}

	v, err := decodeData[T](body, key)
	if err != nil {
		return zero, malformed(r.op, err)
	}
	return v, nil
}

// mutate is fetch for create and update calls, where an empty echo is
// acceptable.
func mutate[T any](ctx context.Context, c *HTTPClient, r call, key string) (*T, error) {
	body, err := c.send(ctx, r)
	if err != nil {
		return nil, err
	}

	v, err := decodeData[T](body, key)
	if err != nil {
		return nil, nil
	}
	return &v, nil
}

func get(op string, path ...string) call {
	return call{op: op, method: http.MethodGet, path: path, authenticated: true}
}

func formCall(op, method string, fields map[string]string, path ...string) (call, error) {
	body, contentType, err := multipartBody(fields)
	if err != nil {
		return call{}, &Error{Op: op, Kind: KindUnknown, Err: err}
	}
	return call{op: op, method: method, path: path, body: body, contentType: contentType, authenticated: true}, nil
}

func jsonCall(op, method string, v any, path ...string) (call, error) {
	body, err := jsonBody(v)
	if err != nil {
		return call{}, &Error{Op: op, Kind: KindUnknown, Err: err}
	}
	return call{op: op, method: method, path: path, body: body, contentType: "application/json", authenticated: true}, nil
}

func (c *HTTPClient) remove(ctx context.Context, op string, path ...string) error {
	_, err := c.send(ctx, call{op: op, method: http.MethodDelete, path: path, authenticated: true})
	return err
}

// Temples

func (c *HTTPClient) ListTemples(ctx context.Context) ([]models.Temple, error) {
	return fetch[[]models.Temple](ctx, c, get("ListTemples", "temples"), "temples")
}

func (c *HTTPClient) GetTemple(ctx context.Context, id models.ID) (*models.Temple, error) {
	return fetch[*models.Temple](ctx, c, get("GetTemple", "temples", segment(id)), "temple")
}

func (c *HTTPClient) CreateTemple(ctx context.Context, fields map[string]string) (*models.Temple, error) {
	r, err := formCall("CreateTemple", http.MethodPost, fields, "temples")
	if err != nil {
		return nil, err
	}
	return mutate[models.Temple](ctx, c, r, "temple")
}

func (c *HTTPClient) UpdateTemple(ctx context.Context, id models.ID, fields map[string]string) (*models.Temple, error) {
	r, err := formCall("UpdateTemple", http.MethodPut, fields, "temples", segment(id))
	if err != nil {
		return nil, err
	}
	return mutate[models.Temple](ctx, c, r, "temple")
}

func (c *HTTPClient) DeleteTemple(ctx context.Context, id models.ID) error {
	return c.remove(ctx, "DeleteTemple", "temples", segment(id))
}

// Artifacts

func (c *HTTPClient) ListArtifacts(ctx context.Context) ([]models.Artifact, error) {
	return fetch[[]models.Artifact](ctx, c, get("ListArtifacts", "artifacts"), "artifacts")
}

func (c *HTTPClient) GetArtifact(ctx context.Context, id models.ID) (*models.Artifact, error) {
	return fetch[*models.Artifact](ctx, c, get("GetArtifact", "artifacts", segment(id)), "artifact")
}

func (c *HTTPClient) CreateArtifact(ctx context.Context, fields map[string]string) (*models.Artifact, error) {
	r, err := formCall("CreateArtifact", http.MethodPost, fields, "artifacts")
	if err != nil {
		return nil, err
	}
	return mutate[models.Artifact](ctx, c, r, "artifact")
}

func (c *HTTPClient) UpdateArtifact(ctx context.Context, id models.ID, fields map[string]string) (*models.Artifact, error) {
	r, err := formCall("UpdateArtifact", http.MethodPut, fields, "artifacts", segment(id))
	if err != nil {
		return nil, err
	}
	return mutate[models.Artifact](ctx, c, r, "artifact")
}

func (c *HTTPClient) DeleteArtifact(ctx context.Context, id models.ID) error {
	return c.remove(ctx, "DeleteArtifact", "artifacts", segment(id))
}

func (c *HTTPClient) BookmarkArtifact(ctx context.Context, id models.ID) error {
	_, err := c.send(ctx, call{op: "BookmarkArtifact", method: http.MethodPost, path: []string{"artifacts", segment(id), "bookmark"}, authenticated: true})
	return err
}

func (c *HTTPClient) MarkArtifactRead(ctx context.Context, id models.ID) error {
	_, err := c.send(ctx, call{op: "MarkArtifactRead", method: http.MethodPost, path: []string{"artifacts", segment(id), "read"}, authenticated: true})
	return err
}

// Tickets

func (c *HTTPClient) ListTickets(ctx context.Context) ([]models.Ticket, error) {
	return fetch[[]models.Ticket](ctx, c, get("ListTickets", "tickets"), "tickets")
}

func (c *HTTPClient) GetTicket(ctx context.Context, id models.ID) (*models.Ticket, error) {
	return fetch[*models.Ticket](ctx, c, get("GetTicket", "tickets", segment(id)), "ticket")
}

func (c *HTTPClient) CreateTicket(ctx context.Context, t models.Ticket) (*models.Ticket, error) {
	r, err := jsonCall("CreateTicket", http.MethodPost, t, "tickets")
	if err != nil {
		return nil, err
	}
	return mutate[models.Ticket](ctx, c, r, "ticket")
}

func (c *HTTPClient) UpdateTicket(ctx context.Context, id models.ID, t models.Ticket) (*models.Ticket, error) {
	r, err := jsonCall("UpdateTicket", http.MethodPut, t, "tickets", segment(id))
	if err != nil {
		return nil, err
	}
	return mutate[models.Ticket](ctx, c, r, "ticket")
}

func (c *HTTPClient) DeleteTicket(ctx context.Context, id models.ID) error {
	return c.remove(ctx, "DeleteTicket", "tickets", segment(id))
}

// Transactions and owned tickets

func (c *HTTPClient) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	return fetch[[]models.Transaction](ctx, c, get("ListTransactions", "transactions"), "transactions")
}

func (c *HTTPClient) GetTransaction(ctx context.Context, id models.ID) (*models.Transaction, error) {
	return fetch[*models.Transaction](ctx, c, get("GetTransaction", "transactions", segment(id)), "transaction")
}

func (c *HTTPClient) CreateTransaction(ctx context.Context, p models.Purchase) (*models.Transaction, error) {
	r, err := jsonCall("CreateTransaction", http.MethodPost, p, "transactions")
	if err != nil {
		return nil, err
	}
	return mutate[models.Transaction](ctx, c, r, "transaction")
}

func (c *HTTPClient) ListOwnedTickets(ctx context.Context) ([]models.OwnedTicket, error) {
	return fetch[[]models.OwnedTicket](ctx, c, get("ListOwnedTickets", "owned-tickets"), "ownedTickets")
}

func (c *HTTPClient) GetOwnedTicket(ctx context.Context, id models.ID) (*models.OwnedTicket, error) {
	return fetch[*models.OwnedTicket](ctx, c, get("GetOwnedTicket", "owned-tickets", segment(id)), "ownedTicket")
}

// Recognition

type predictionResponse struct {
	Name           string  `json:"name"`
	PredictedClass string  `json:"predicted_class"`
	Confidence     float64 `json:"confidence"`
	Description    string  `json:"description"`
}

// Predict uploads image to the recognition service as the "file" field.
// The result is passed through as the service reported it.
func (c *HTTPClient) Predict(ctx context.Context, filename string, image io.Reader) (*models.Prediction, error) {
	const op = "Predict"

	if c.mlURL == nil {
		return nil, &Error{Op: op, Kind: KindUnavailable, Message: "recognition service is not configured"}
	}

	body, contentType, err := multipartBody(nil, FilePart{Field: "file", Name: filename, Content: image})
	if err != nil {
		return nil, &Error{Op: op, Kind: KindUnknown, Err: err}
	}

	resp, err := c.send(ctx, call{
		op:          op,
		method:      http.MethodPost,
		base:        c.mlURL,
		path:        []string{"predict"},
		body:        body,
		contentType: contentType,
	})
	if err != nil {
		return nil, err
	}

	var p predictionResponse
	if err := json.Unmarshal(resp, &p); err != nil {
		return nil, malformed(op, err)
	}

	name := p.Name
	if name == "" {
		name = p.PredictedClass
	}
	return &models.Prediction{Name: name, Confidence: p.Confidence, Description: p.Description}, nil
}
