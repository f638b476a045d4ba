package monday

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/printforge/weightsync/internal/config"
	"github.com/printforge/weightsync/internal/errs"
)

// Item is one row of the job board, with its column values keyed by
// column ID.
type Item struct {
	ID      string
	Name    string
	Columns map[string]string
}

// Column returns the text of the column with the given ID, or an empty
// string when the board has no such column on this item.
func (it Item) Column(id string) string {
	return it.Columns[id]
}

// Client talks to the monday.com GraphQL API.
//
// Every call is bounded by the configured request timeout; an upstream
// hang surfaces as a fetch failure instead of blocking the request
// forever. No call is ever retried: each failure is terminal for the
// request that triggered it.
type Client struct {
	cfg        config.MondayConfig
	httpClient *http.Client
	cache      *BoardCache
	log        *zerolog.Logger
}

// NewClient constructs a Client. cache may be nil to disable board
// query caching.
func NewClient(cfg config.MondayConfig, cache *BoardCache, log *zerolog.Logger) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		cache: cache,
		log:   log,
	}
}

// graphqlRequest is the JSON body of every monday.com API call.
type graphqlRequest struct {
	Query string `json:"query"`
}

// BoardItems fetches all items of the configured board, with the text
// of every column the sync consumes.
//
// Both the HTTP exchange and the shape checks on the response body
// happen inside this one call, so a malformed payload surfaces as a
// MALFORMED_UPSTREAM_DATA error on the same path as a network failure
// rather than escaping as a panic further down.
func (c *Client) BoardItems(ctx context.Context) ([]Item, error) {
	query := fmt.Sprintf(
		`query { boards (ids: [%s]) { items { id name column_values { id text } } } }`,
		c.cfg.BoardID,
	)

	var raw []byte
	if cached, ok := c.cache.Get(ctx, c.cfg.BoardID); ok {
		raw = cached
	} else {
		fetched, err := c.do(ctx, query)
		if err != nil {
			return nil, err
		}
		raw = fetched
		c.cache.Set(ctx, c.cfg.BoardID, raw)
	}

	return c.parseBoardItems(raw)
}

// parseBoardItems validates the response shape and flattens the items'
// column values into maps keyed by column ID.
func (c *Client) parseBoardItems(raw []byte) ([]Item, error) {
	root := gjson.ParseBytes(raw)

	if graphqlErrs := root.Get("errors"); graphqlErrs.Exists() && len(graphqlErrs.Array()) > 0 {
		return nil, errs.NewUpstreamFetchError(fmt.Errorf("graphql error: %s", graphqlErrs.Array()[0].Get("message").String()))
	}

	boards := root.Get("data.boards")
	if !boards.Exists() || !boards.IsArray() {
		return nil, errs.NewMalformedUpstreamDataError("missing data.boards")
	}
	if len(boards.Array()) == 0 {
		return nil, errs.NewMalformedUpstreamDataError("board " + c.cfg.BoardID + " not found")
	}

	rawItems := root.Get("data.boards.0.items")
	if !rawItems.Exists() || !rawItems.IsArray() {
		return nil, errs.NewMalformedUpstreamDataError("missing data.boards.0.items")
	}

	items := make([]Item, 0, len(rawItems.Array()))
	for _, rawItem := range rawItems.Array() {
		item := Item{
			ID:      rawItem.Get("id").String(),
			Name:    rawItem.Get("name").String(),
			Columns: make(map[string]string),
		}
		rawItem.Get("column_values").ForEach(func(_, cv gjson.Result) bool {
			item.Columns[cv.Get("id").String()] = cv.Get("text").String()
			return true
		})
		items = append(items, item)
	}

	return items, nil
}

// SubtractWeight decrements the item's running filament total by
// amount. It reads the current total from the item's remaining column,
// then writes back the difference with a change_simple_column_value
// mutation.
func (c *Client) SubtractWeight(ctx context.Context, item Item, amount float64) error {
	remainingText := item.Column(c.cfg.RemainingColumnID)
	remaining, err := strconv.ParseFloat(strings.TrimSpace(remainingText), 64)
	if err != nil {
		return errs.NewInvalidNumericInputError("remaining", remainingText)
	}

	updated := remaining - amount

	mutation := fmt.Sprintf(
		`mutation { change_simple_column_value (board_id: %s, item_id: %s, column_id: %q, value: %q) { id } }`,
		c.cfg.BoardID,
		item.ID,
		c.cfg.RemainingColumnID,
		strconv.FormatFloat(updated, 'f', -1, 64),
	)

	raw, err := c.do(ctx, mutation)
	if err != nil {
		return errs.NewDownstreamAdjustmentError(err)
	}

	root := gjson.ParseBytes(raw)
	if graphqlErrs := root.Get("errors"); graphqlErrs.Exists() && len(graphqlErrs.Array()) > 0 {
		return errs.NewDownstreamAdjustmentError(fmt.Errorf("graphql error: %s", graphqlErrs.Array()[0].Get("message").String()))
	}
	if !root.Get("data.change_simple_column_value.id").Exists() {
		return errs.NewDownstreamAdjustmentError(fmt.Errorf("mutation returned no item id"))
	}

	c.log.Info().
		Str("item_id", item.ID).
		Float64("amount", amount).
		Float64("remaining", updated).
		Msg("subtracted weight from board item")

	// Invalidate so the next read sees the updated total rather than a
	// stale cached board.
	c.cache.Invalidate(ctx, c.cfg.BoardID)

	return nil
}

// Ping verifies the API is reachable and the credential is accepted,
// using the cheapest query the API offers so health checks do not eat
// into the complexity budget.
func (c *Client) Ping(ctx context.Context) error {
	raw, err := c.do(ctx, `query { complexity { before } }`)
	if err != nil {
		return err
	}

	root := gjson.ParseBytes(raw)
	if graphqlErrs := root.Get("errors"); graphqlErrs.Exists() && len(graphqlErrs.Array()) > 0 {
		return errs.NewUpstreamFetchError(fmt.Errorf("graphql error: %s", graphqlErrs.Array()[0].Get("message").String()))
	}

	return nil
}

// do executes one GraphQL call and returns the raw response body.
// Network errors and non-2xx statuses both map to fetch failures.
func (c *Client) do(ctx context.Context, query string) ([]byte, error) {
	body, err := json.Marshal(graphqlRequest{Query: query})
	if err != nil {
		return nil, errs.NewUpstreamFetchError(err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return nil, errs.NewUpstreamFetchError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.NewUpstreamFetchError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.NewUpstreamFetchError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn().
			Int("status", resp.StatusCode).
			Dur("latency", time.Since(start)).
			Msg("monday API returned non-OK status")
		return nil, errs.NewUpstreamFetchError(fmt.Errorf("monday API returned status %d", resp.StatusCode))
	}

	c.log.Debug().
		Dur("latency", time.Since(start)).
		Msg("monday API call completed")

	return raw, nil
}
