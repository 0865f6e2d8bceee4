package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"

	"github.com/square-key-labs/hostline-ai/src/knowledge"
	"github.com/square-key-labs/hostline-ai/src/logger"
	"github.com/square-key-labs/hostline-ai/src/menu"
)

// ErrUnavailable is returned by every operation once login has failed. The
// tool layer translates it into a spoken "unavailable" response; it never
// reaches the dialogue manager as a raw error.
var ErrUnavailable = errors.New("backend unavailable")

// Client wraps the restaurant backend's REST API. One client is created per
// call; Login authenticates the session cookie once and a failed login
// latches every later call to ErrUnavailable without touching the network.
//
// Every operation is safe to retry except SubmitOrder and SubmitReservation,
// which the tool layer must attempt at most once per invocation.
type Client struct {
	BaseURL string
	Email   string
	Pass    string
	HTTP    *http.Client

	log *logger.Logger

	mu            sync.Mutex
	loginDone     bool
	authenticated bool
}

// New creates a backend client with a cookie-backed HTTP session
func New(baseURL, email, password string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		BaseURL: baseURL,
		Email:   email,
		Pass:    password,
		HTTP:    &http.Client{Timeout: 10 * time.Second, Jar: jar},
		log:     logger.WithPrefix("backend"),
	}
}

// Login authenticates against the backend. Called lazily by the first
// operation; calling it again is a no-op.
func (c *Client) Login(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loginDone {
		if c.authenticated {
			return nil
		}
		return ErrUnavailable
	}
	c.loginDone = true

	body, _ := json.Marshal(map[string]string{"email": c.Email, "password": c.Pass})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/auth/login", bytes.NewReader(body))
	if err != nil {
		return ErrUnavailable
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		c.log.Error("Login failed: %v", err)
		return ErrUnavailable
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		c.log.Error("Login failed: status %d", res.StatusCode)
		return ErrUnavailable
	}

	c.authenticated = true
	return nil
}

// ResolveStoreByPhone looks up the store id serving a dialed number
func (c *Client) ResolveStoreByPhone(ctx context.Context, e164 string) (string, error) {
	var payload struct {
		ID    string `json:"id"`
		OldID string `json:"_id"`
	}
	if err := c.get(ctx, "/api/stores/by-phone/"+e164, &payload); err != nil {
		return "", err
	}
	if payload.ID != "" {
		return payload.ID, nil
	}
	return payload.OldID, nil
}

// GetStore fetches a store's details, including its notification and
// transfer phone numbers
func (c *Client) GetStore(ctx context.Context, storeID string) (*Store, error) {
	var store Store
	if err := c.get(ctx, "/api/stores/"+storeID, &store); err != nil {
		return nil, err
	}
	if store.ID == "" {
		store.ID = storeID
	}
	return &store, nil
}

// GetMenu fetches the store's menu as a catalog grouped by category. A
// failed fetch yields an empty catalog, never a partial one.
func (c *Client) GetMenu(ctx context.Context, storeID string) (menu.Catalog, error) {
	var rows []struct {
		Name      string  `json:"name"`
		Category  string  `json:"category"`
		BasePrice float64 `json:"basePrice"`
		ID        string  `json:"id"`
	}
	if err := c.get(ctx, "/api/menu/"+storeID, &rows); err != nil {
		return menu.Catalog{}, err
	}

	catalog := menu.Catalog{}
	for _, row := range rows {
		category := row.Category
		if category == "" {
			category = "Other"
		}
		catalog[category] = append(catalog[category], menu.Item{
			Name:  row.Name,
			Price: row.BasePrice,
			ID:    row.ID,
		})
	}
	return catalog, nil
}

// GetKnowledgeBase fetches the store's FAQ entries
func (c *Client) GetKnowledgeBase(ctx context.Context, storeID string) ([]knowledge.Entry, error) {
	var entries []knowledge.Entry
	if err := c.get(ctx, "/api/knowledge-base/"+storeID, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SubmitOrder places an order. Never retried: the caller-facing tool
// enforces at most one attempt per invocation.
func (c *Client) SubmitOrder(ctx context.Context, order OrderRequest) error {
	return c.post(ctx, "/api/orders", order)
}

// SubmitReservation books a table. Never retried.
func (c *Client) SubmitReservation(ctx context.Context, reservation ReservationRequest) error {
	return c.post(ctx, "/api/reservations", reservation)
}

// SaveConversation persists a finished call's transcript and metadata
func (c *Client) SaveConversation(ctx context.Context, record ConversationRecord) error {
	if record.CallStatus == "" {
		record.CallStatus = "completed"
	}
	return c.post(ctx, "/api/conversations", record)
}

// FetchStoreInfo combines login, by-phone store lookup and the store detail
// fetch. A missing or unresolvable store is not an error: the assistant
// still answers the call with generic framing.
func (c *Client) FetchStoreInfo(ctx context.Context, dialedNumber string) (*Store, error) {
	if err := c.Login(ctx); err != nil {
		return nil, err
	}

	storeID, err := c.ResolveStoreByPhone(ctx, dialedNumber)
	if err != nil || storeID == "" {
		c.log.Warn("No store resolved for %s", dialedNumber)
		return nil, err
	}

	store, err := c.GetStore(ctx, storeID)
	if err != nil {
		// The id is still usable for menu and knowledge base fetches
		return &Store{ID: storeID}, nil
	}
	c.log.Info("Store resolved: %s (%s)", store.Name, store.ID)
	return store, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	if err := c.Login(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		c.log.Error("GET %s: %v", path, err)
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		c.log.Warn("GET %s: status %d", path, res.StatusCode)
		return fmt.Errorf("GET %s: status %d", path, res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) error {
	if err := c.Login(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		c.log.Error("POST %s: %v", path, err)
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		c.log.Error("POST %s: status %d", path, res.StatusCode)
		return fmt.Errorf("POST %s: status %d", path, res.StatusCode)
	}
	return nil
}
