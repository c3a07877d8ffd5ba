package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/invmis/internal/config"
	"github.com/mamadbah2/invmis/internal/domain/models"
)

// ErrUpstream marks failures reported by the InvMIS backend itself, as
// opposed to transport failures.
var ErrUpstream = errors.New("inventory backend error")

// Client exposes the stock read used by the service.
type Client interface {
	ListStock(ctx context.Context) ([]models.InventoryItem, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
	stockPath  string
}

// NewClient builds an InvMIS API client from configuration.
func NewClient(cfg config.InventoryConfig) *APIClient {
	restyClient := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(cfg.Timeout)

	if cfg.Token != "" {
		restyClient.SetAuthToken(cfg.Token)
	}
	if cfg.SessionCookie != "" {
		restyClient.SetHeader("Cookie", cfg.SessionCookie)
	}

	path := cfg.StockPath
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return &APIClient{httpClient: restyClient, stockPath: path}
}

// stockEnvelope covers endpoints that wrap rows as {"success":..,"inventory":[..]}.
type stockEnvelope struct {
	Success   *bool                  `json:"success"`
	Inventory []models.InventoryItem `json:"inventory"`
	Data      []models.InventoryItem `json:"data"`
	Error     string                 `json:"error"`
	Details   string                 `json:"details"`
}

// ListStock fetches every stock row. Both the bare array returned by the
// stock-quantities endpoint and the enveloped current-stock shape are
// accepted.
func (c *APIClient) ListStock(ctx context.Context) ([]models.InventoryItem, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get(c.stockPath)
	if err != nil {
		return nil, fmt.Errorf("fetch stock from %s: %w", c.stockPath, err)
	}

	body := bytes.TrimSpace(resp.Body())

	if resp.StatusCode() >= http.StatusBadRequest {
		var env stockEnvelope
		_ = json.Unmarshal(body, &env)
		return nil, fmt.Errorf("%w: status=%d, message=%s", ErrUpstream, resp.StatusCode(), upstreamMessage(env))
	}

	return decodeStock(body)
}

func decodeStock(body []byte) ([]models.InventoryItem, error) {
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty response body", ErrUpstream)
	}

	if body[0] == '[' {
		var items []models.InventoryItem
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("decode stock rows: %w", err)
		}
		return items, nil
	}

	var env stockEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode stock envelope: %w", err)
	}
	if env.Success != nil && !*env.Success {
		return nil, fmt.Errorf("%w: %s", ErrUpstream, upstreamMessage(env))
	}
	if env.Inventory != nil {
		return env.Inventory, nil
	}
	return env.Data, nil
}

func upstreamMessage(env stockEnvelope) string {
	switch {
	case env.Error != "" && env.Details != "":
		return env.Error + ": " + env.Details
	case env.Error != "":
		return env.Error
	default:
		return "unknown error"
	}
}
