package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/artefacto/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens struct {
	token string
}

func (s staticTokens) Get(context.Context) (string, bool) {
	return s.token, s.token != ""
}

type recorded struct {
	method      string
	path        string
	auth        string
	requestID   string
	contentType string
	body        []byte
}

// backend is a scripted test server that records what it received.
type backend struct {
	mu       sync.Mutex
	requests []recorded
	status   int
	body     string
}

func newBackend(t *testing.T, status int, body string) (*backend, *httptest.Server) {
	t.Helper()
	b := &backend{status: status, body: body}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		b.mu.Lock()
		b.requests = append(b.requests, recorded{
			method:      r.Method,
			path:        r.URL.EscapedPath(),
			auth:        r.Header.Get("Authorization"),
			requestID:   r.Header.Get("X-Request-ID"),
			contentType: r.Header.Get("Content-Type"),
			body:        raw,
		})
		b.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(b.status)
		_, _ = io.WriteString(w, b.body)
	}))
	t.Cleanup(srv.Close)
	return b, srv
}

func (b *backend) last(t *testing.T) recorded {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	require.NotEmpty(t, b.requests)
	return b.requests[len(b.requests)-1]
}

func newTestClient(t *testing.T, srv *httptest.Server, token string) *HTTPClient {
	t.Helper()
	c, err := New(srv.URL+"/api", Options{Tokens: staticTokens{token: token}, MLBaseURL: srv.URL + "/ml"})
	require.NoError(t, err)
	return c
}

func TestNew_Validation(t *testing.T) {
	_, err := New("", Options{})
	require.Error(t, err)

	_, err = New("ftp://example.com", Options{})
	require.Error(t, err)

	_, err = New("http://example.com/api", Options{MLBaseURL: "::bad"})
	require.Error(t, err)

	c, err := New("https://example.com/api", Options{Timeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, time.Second, c.httpClient.Timeout)
}

func TestLogin_Success(t *testing.T) {
	b, srv := newBackend(t, http.StatusOK, `{"data":{"token":"jwt-1","user":{"username":"ayu","role":"1"}}}`)
	c := newTestClient(t, srv, "stale")

	got, err := c.Login(context.Background(), "ayu@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "jwt-1", got.Token)
	assert.Equal(t, models.RoleAdministrator, got.Profile.Role)
	assert.Equal(t, ShapeEnveloped, got.Shape)

	req := b.last(t)
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/api/auth/login", req.path)
	assert.Empty(t, req.auth, "login is a public call")
	assert.NotEmpty(t, req.requestID)
	assert.Equal(t, "application/json", req.contentType)

	var sent map[string]string
	require.NoError(t, json.Unmarshal(req.body, &sent))
	assert.Equal(t, map[string]string{"email": "ayu@example.com", "password": "secret123"}, sent)
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		message  string
	}{
		{"wrong password", http.StatusUnauthorized, `{"message":"Invalid email or password"}`, ErrInvalidCredentials, "Invalid email or password"},
		{"forbidden", http.StatusForbidden, `{}`, ErrInvalidCredentials, "Forbidden"},
		{"bad request", http.StatusBadRequest, `{"message":"Email is required"}`, ErrServerRejected, "Email is required"},
		{"bad request without message", http.StatusBadRequest, `{}`, ErrServerRejected, "Bad Request"},
		{"server error", http.StatusInternalServerError, `{"message":"db down"}`, ErrUnknown, "db down"},
		{"malformed success", http.StatusOK, `{"status":"ok"}`, ErrMalformedResponse, ""},
		{"missing token", http.StatusOK, `{"user":{"username":"x"}}`, ErrMalformedResponse, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, srv := newBackend(t, tt.status, tt.body)
			c := newTestClient(t, srv, "")

			fired := false
			c.OnUnauthorized(func(context.Context, string) { fired = true })

			_, err := c.Login(context.Background(), "a@b.c", "pw")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.Equal(t, tt.message, MessageOf(err))
			assert.False(t, fired, "login failures never trigger the session-wide 401 handler")
		})
	}
}

func TestLogin_Unreachable(t *testing.T) {
	_, srv := newBackend(t, http.StatusOK, `{}`)
	c := newTestClient(t, srv, "")
	srv.Close()

	_, err := c.Login(context.Background(), "a@b.c", "pw")
	require.ErrorIs(t, err, ErrUnavailable)

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "Login", e.Op)
	assert.Equal(t, KindUnavailable, e.Kind)
}

func TestSend_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, Options{Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	_, err = c.ListTemples(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestSend_Cancelled(t *testing.T) {
	_, srv := newBackend(t, http.StatusOK, `{}`)
	c := newTestClient(t, srv, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListTemples(ctx)
	require.ErrorIs(t, err, ErrUnknown)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRegister(t *testing.T) {
	b, srv := newBackend(t, http.StatusCreated, `{"token":"jwt-2","user":{"username":"budi","role":0}}`)
	c := newTestClient(t, srv, "")

	got, err := c.Register(context.Background(), RegisterRequest{
		Username: "budi", Email: "budi@example.com", Password: "password1", PasswordConfirmation: "password1",
	})
	require.NoError(t, err)
	assert.Equal(t, ShapeFlat, got.Shape)
	assert.Equal(t, models.RoleRegular, got.Profile.Role)

	req := b.last(t)
	assert.Equal(t, "/api/auth/register", req.path)
	assert.JSONEq(t, `{"username":"budi","email":"budi@example.com","password":"password1","passwordConfirmation":"password1"}`, string(req.body))
}

func TestRegister_ValidationDetails(t *testing.T) {
	_, srv := newBackend(t, http.StatusUnprocessableEntity, `{"message":"Validation error","errors":["email must be unique"]}`)
	c := newTestClient(t, srv, "")

	_, err := c.Register(context.Background(), RegisterRequest{Username: "x"})
	require.ErrorIs(t, err, ErrServerRejected)
	assert.Equal(t, "Validation error: email must be unique", MessageOf(err))
	assert.Contains(t, err.Error(), "Register")
}

func TestUnauthorizedHook(t *testing.T) {
	_, srv := newBackend(t, http.StatusUnauthorized, `{"message":"jwt expired"}`)
	c := newTestClient(t, srv, "old-token")

	var ops []string
	c.OnUnauthorized(func(_ context.Context, op string) { ops = append(ops, op) })

	_, err := c.ListTickets(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)

	err = c.DeleteAccount(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)

	assert.Equal(t, []string{"ListTickets", "DeleteAccount"}, ops)
}

func TestAuthenticatedCallsCarryBearer(t *testing.T) {
	b, srv := newBackend(t, http.StatusOK, `{"data":{"temples":[]}}`)

	c := newTestClient(t, srv, "jwt-abc")
	_, err := c.ListTemples(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer jwt-abc", b.last(t).auth)

	anon := newTestClient(t, srv, "")
	_, err = anon.ListTemples(context.Background())
	require.NoError(t, err)
	assert.Empty(t, b.last(t).auth)
}

func TestRequestIDsAreUnique(t *testing.T) {
	b, srv := newBackend(t, http.StatusOK, `{"data":{"tickets":[]}}`)
	c := newTestClient(t, srv, "t")

	for i := 0; i < 3; i++ {
		_, err := c.ListTickets(context.Background())
		require.NoError(t, err)
	}

	seen := map[string]bool{}
	for _, r := range b.requests {
		assert.False(t, seen[r.requestID])
		seen[r.requestID] = true
	}
}

func TestUpdateProfile_Multipart(t *testing.T) {
	var gotFields map[string]string
	var gotFile string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/auth/profile", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotFields = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			gotFields[k] = v[0]
		}
		if f, _, err := r.FormFile("profilePicture"); err == nil {
			raw, _ := io.ReadAll(f)
			gotFile = string(raw)
		}
		_, _ = io.WriteString(w, `{"user":{"username":"ayu2","email":"new@example.com","role":0}}`)
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv, "t")
	p, err := c.UpdateProfile(context.Background(),
		map[string]string{"username": "ayu2", "currentPassword": "old"},
		&FilePart{Name: "me.png", Content: strings.NewReader("PNG")},
	)
	require.NoError(t, err)
	assert.Equal(t, "ayu2", p.Username)
	assert.Equal(t, map[string]string{"username": "ayu2", "currentPassword": "old"}, gotFields)
	assert.Equal(t, "PNG", gotFile)
}

func TestCatalog_Endpoints(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		call   func(c *HTTPClient) (any, error)
		method string
		path   string
		check  func(t *testing.T, v any)
	}{
		{
			name: "get temple",
			body: `{"data":{"temple":{"templeID":3,"title":"Mendut"}}}`,
			call: func(c *HTTPClient) (any, error) { return c.GetTemple(context.Background(), "3") },
			method: http.MethodGet, path: "/api/temples/3",
			check: func(t *testing.T, v any) { assert.Equal(t, "Mendut", v.(*models.Temple).Title) },
		},
		{
			name: "list artifacts",
			body: `{"data":{"artifacts":[{"artifactID":"a1","templeID":3,"title":"Relief"}]}}`,
			call: func(c *HTTPClient) (any, error) { return c.ListArtifacts(context.Background()) },
			method: http.MethodGet, path: "/api/artifacts",
			check: func(t *testing.T, v any) { assert.Len(t, v.([]models.Artifact), 1) },
		},
		{
			name: "owned tickets",
			body: `{"data":{"ownedTickets":[{"ownedTicketID":1,"uniqueCode":"ABC","usageStatus":"Belum Digunakan"}]}}`,
			call: func(c *HTTPClient) (any, error) { return c.ListOwnedTickets(context.Background()) },
			method: http.MethodGet, path: "/api/owned-tickets",
			check: func(t *testing.T, v any) { assert.Equal(t, "ABC", v.([]models.OwnedTicket)[0].UniqueCode) },
		},
		{
			name: "purchase",
			body: `{"data":{"transaction":{"transactionID":9,"status":"pending","totalAmount":50000}}}`,
			call: func(c *HTTPClient) (any, error) {
				return c.CreateTransaction(context.Background(), models.Purchase{TicketID: "2", TicketQuantity: 2, ValidDate: "2025-07-01"})
			},
			method: http.MethodPost, path: "/api/transactions",
			check: func(t *testing.T, v any) { assert.Equal(t, models.ID("9"), v.(*models.Transaction).TransactionID) },
		},
		{
			name: "create temple without echo",
			body: `{"message":"created"}`,
			call: func(c *HTTPClient) (any, error) {
				return c.CreateTemple(context.Background(), map[string]string{"title": "Sewu"})
			},
			method: http.MethodPost, path: "/api/temples",
			check: func(t *testing.T, v any) { assert.Nil(t, v.(*models.Temple)) },
		},
		{
			name: "bookmark",
			body: `{}`,
			call: func(c *HTTPClient) (any, error) { return nil, c.BookmarkArtifact(context.Background(), "7") },
			method: http.MethodPost, path: "/api/artifacts/7/bookmark",
		},
		{
			name: "id is escaped",
			body: `{}`,
			call: func(c *HTTPClient) (any, error) { return nil, c.DeleteTicket(context.Background(), "a/b") },
			method: http.MethodDelete, path: "/api/tickets/a%2Fb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, srv := newBackend(t, http.StatusOK, tt.body)
			c := newTestClient(t, srv, "t")

			v, err := tt.call(c)
			require.NoError(t, err)
			req := b.last(t)
			assert.Equal(t, tt.method, req.method)
			assert.Equal(t, tt.path, req.path)
			if tt.check != nil {
				tt.check(t, v)
			}
		})
	}
}

func TestCatalog_MalformedList(t *testing.T) {
	_, srv := newBackend(t, http.StatusOK, `{"data":{"temple":{}}}`)
	c := newTestClient(t, srv, "t")

	_, err := c.ListTemples(context.Background())
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func TestPredict(t *testing.T) {
	var field, filename, content string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ml/predict", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		f, h, err := r.FormFile("file")
		require.NoError(t, err)
		raw, _ := io.ReadAll(f)
		field, filename, content = "file", h.Filename, string(raw)
		_, _ = io.WriteString(w, `{"predicted_class":"Arca Buddha","confidence":0.93}`)
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv, "t")
	p, err := c.Predict(context.Background(), "photo.jpg", strings.NewReader("JPEG"))
	require.NoError(t, err)
	assert.Equal(t, "Arca Buddha", p.Name)
	assert.InDelta(t, 0.93, p.Confidence, 1e-9)
	assert.Equal(t, "file", field)
	assert.Equal(t, "photo.jpg", filename)
	assert.Equal(t, "JPEG", content)
}

func TestPredict_NotConfigured(t *testing.T) {
	c, err := New("http://localhost/api", Options{})
	require.NoError(t, err)

	_, err = c.Predict(context.Background(), "a.jpg", strings.NewReader(""))
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestError_Format(t *testing.T) {
	e := &Error{Op: "Login", Kind: KindUnavailable, Err: errors.New("dial tcp: refused")}
	assert.Equal(t, "Login: server unavailable: dial tcp: refused", e.Error())
	assert.ErrorIs(t, e, ErrUnavailable)

	e = &Error{Op: "Login", Kind: KindInvalidCredentials}
	assert.Equal(t, "Login: invalid credentials", e.Error())
	assert.NotErrorIs(t, e, ErrUnavailable)
}
