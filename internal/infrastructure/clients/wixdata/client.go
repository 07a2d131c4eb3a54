package wixdata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/medatlas/directory-api/pkg/errors"
)

// Record is a raw CMS item. Collections enforce no schema, so every field
// access goes through the resolver layer.
type Record = map[string]any

// QueryResult holds one page of raw records plus the collection total.
type QueryResult struct {
	Items      []Record `json:"dataItems"`
	TotalCount int      `json:"totalCount"`
}

// Client queries the hosted content API.
type Client interface {
	Collection(name string) *Query
	QueryReferenced(ctx context.Context, collection, itemID, referenceField string, limit, offset int) (*QueryResult, error)
}

// HTTPClient is the production Client over the Wix Data REST API.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	siteID     string
	timeout    time.Duration
	httpClient *http.Client
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithTimeout sets the per-request deadline applied to every upstream call.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient overrides the underlying http.Client (used in tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		c.httpClient = hc
	}
}

// NewClient creates a new content API client.
func NewClient(baseURL, apiKey, siteID string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		siteID:  siteID,
		timeout: 10 * time.Second,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Query is a fluent filter builder over one collection. Terminal call is Find.
type Query struct {
	client     *HTTPClient
	collection string
	filter     map[string]any
	sort       []map[string]string
	limit      int
	skip       int
}

// Collection starts a query against the named collection.
func (c *HTTPClient) Collection(name string) *Query {
	return &Query{
		client:     c,
		collection: name,
		filter:     map[string]any{},
	}
}

// Eq filters on exact field equality.
func (q *Query) Eq(field string, value any) *Query {
	q.filter[field] = map[string]any{"$eq": value}
	return q
}

// Contains filters on case-insensitive substring match.
func (q *Query) Contains(field, value string) *Query {
	q.filter[field] = map[string]any{"$contains": value}
	return q
}

// HasSome filters on array-field intersection with values.
func (q *Query) HasSome(field string, values []string) *Query {
	q.filter[field] = map[string]any{"$hasSome": values}
	return q
}

// Limit caps the number of returned items.
func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

// Skip offsets into the result set.
func (q *Query) Skip(n int) *Query {
	q.skip = n
	return q
}

// Descending sorts results by field, newest/highest first.
func (q *Query) Descending(field string) *Query {
	q.sort = append(q.sort, map[string]string{"fieldName": field, "order": "DESC"})
	return q
}

type queryRequest struct {
	DataCollectionID string    `json:"dataCollectionId"`
	Query            queryBody `json:"query"`
	ReturnTotalCount bool      `json:"returnTotalCount"`
}

type queryBody struct {
	Filter map[string]any      `json:"filter,omitempty"`
	Sort   []map[string]string `json:"sort,omitempty"`
	Paging *paging             `json:"paging,omitempty"`
}

type paging struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

type queryResponse struct {
	DataItems []struct {
		ID   string `json:"id"`
		Data Record `json:"data"`
	} `json:"dataItems"`
	PagingMetadata struct {
		Total int `json:"total"`
	} `json:"pagingMetadata"`
}

// Find executes the query.
func (q *Query) Find(ctx context.Context) (*QueryResult, error) {
	req := queryRequest{
		DataCollectionID: q.collection,
		Query:            queryBody{Sort: q.sort},
		ReturnTotalCount: true,
	}
	if len(q.filter) > 0 {
		req.Query.Filter = q.filter
	}
	if q.limit > 0 || q.skip > 0 {
		req.Query.Paging = &paging{Limit: q.limit, Offset: q.skip}
	}

	endpoint := fmt.Sprintf("%s/items/query", q.client.baseURL)
	var resp queryResponse
	if err := q.client.doJSON(ctx, http.MethodPost, endpoint, req, &resp); err != nil {
		return nil, err
	}
	return q.client.toResult(&resp), nil
}

// QueryReferenced resolves a one-to-many reference field of one item, for
// relations too large to arrive expanded on the owning record.
func (c *HTTPClient) QueryReferenced(ctx context.Context, collection, itemID, referenceField string, limit, offset int) (*QueryResult, error) {
	endpoint, err := url.Parse(fmt.Sprintf("%s/items/%s/references", c.baseURL, url.PathEscape(itemID)))
	if err != nil {
		return nil, apperrors.NewInternalError("invalid reference endpoint", err)
	}
	query := endpoint.Query()
	query.Set("dataCollectionId", collection)
	query.Set("referringPropertyName", referenceField)
	if limit > 0 {
		query.Set("paging.limit", fmt.Sprintf("%d", limit))
	}
	if offset > 0 {
		query.Set("paging.offset", fmt.Sprintf("%d", offset))
	}
	endpoint.RawQuery = query.Encode()

	var resp queryResponse
	if err := c.doJSON(ctx, http.MethodGet, endpoint.String(), nil, &resp); err != nil {
		return nil, err
	}
	return c.toResult(&resp), nil
}

func (c *HTTPClient) toResult(resp *queryResponse) *QueryResult {
	items := make([]Record, 0, len(resp.DataItems))
	for _, item := range resp.DataItems {
		rec := item.Data
		if rec == nil {
			rec = Record{}
		}
		// The envelope ID is authoritative; inline _id wins only when the
		// envelope carries none.
		if item.ID != "" {
			rec["_id"] = item.ID
		}
		items = append(items, rec)
	}
	total := resp.PagingMetadata.Total
	if total == 0 {
		total = len(items)
	}
	return &QueryResult{Items: items, TotalCount: total}
}

func (c *HTTPClient) doJSON(ctx context.Context, method, endpoint string, body any, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return apperrors.NewInternalError("failed to marshal CMS request", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return apperrors.NewInternalError("failed to create CMS request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", c.apiKey)
	}
	if c.siteID != "" {
		httpReq.Header.Set("wix-site-id", c.siteID)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return apperrors.NewTimeoutError("CMS request timed out", err)
		}
		return apperrors.NewExternalError("CMS request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.NewExternalError(fmt.Sprintf("CMS returned status %d", resp.StatusCode), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewExternalError("failed to decode CMS response", err)
	}
	return nil
}
