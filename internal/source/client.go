package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/five82/lister/internal/catalog"
	"github.com/five82/lister/internal/pager"
)

// Client talks to the lister HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	DefaultAPIBind   = "127.0.0.1:7488"
	DefaultPageSize  = 25
	MaxPageSize      = 100
	defaultUserAgent = "lister/0.1"
	requestTimeout   = 5 * time.Second
)

// NewClient builds a Client using the provided apiBind host:port value.
func NewClient(apiBind string) (*Client, error) {
	base, err := parseBaseURL(apiBind)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// Health checks that the API is reachable.
func (c *Client) Health(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	var payload HealthResponse
	if err := c.doURL(ctx, http.MethodGet, &url.URL{Path: "/api/health"}, &payload); err != nil {
		return err
	}
	if payload.Status != "ok" {
		return fmt.Errorf("api health status %q", payload.Status)
	}
	return nil
}

// FetchProducts retrieves one page of the product catalog.
func (c *Client) FetchProducts(ctx context.Context, page, limit int) (PageResponse[catalog.Product], error) {
	return fetchPage[catalog.Product](ctx, c, catalog.KindProducts, page, limit)
}

// FetchContacts retrieves one page of the contacts book.
func (c *Client) FetchContacts(ctx context.Context, page, limit int) (PageResponse[catalog.Contact], error) {
	return fetchPage[catalog.Contact](ctx, c, catalog.KindContacts, page, limit)
}

// NewHTTP returns a pager.Source reading kind through c, limit items per page.
func NewHTTP[T pager.Item](c *Client, kind catalog.Kind, limit int) pager.Source[T] {
	return pager.SourceFunc[T](func(ctx context.Context, page int) (pager.Page[T], error) {
		resp, err := fetchPage[T](ctx, c, kind, page, limit)
		if err != nil {
			return pager.Page[T]{}, err
		}
		return resp.AsPage(), nil
	})
}

func fetchPage[T pager.Item](ctx context.Context, c *Client, kind catalog.Kind, page, limit int) (PageResponse[T], error) {
	if c == nil {
		return PageResponse[T]{}, fmt.Errorf("client is nil")
	}
	if page < 1 {
		return PageResponse[T]{}, fmt.Errorf("invalid page %d", page)
	}
	values := url.Values{}
	values.Set("page", strconv.Itoa(page))
	if limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}
	rel := &url.URL{Path: "/api/" + string(kind), RawQuery: values.Encode()}
	var payload PageResponse[T]
	if err := c.doURL(ctx, http.MethodGet, rel, &payload); err != nil {
		return PageResponse[T]{}, err
	}
	return payload, nil
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d%s", rel.String(), resp.StatusCode, errorDetail(resp.Body))
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorDetail extracts the message from an ErrorResponse body, if any.
func errorDetail(body io.Reader) string {
	var payload ErrorResponse
	if err := json.NewDecoder(io.LimitReader(body, 4096)).Decode(&payload); err != nil {
		return ""
	}
	if msg := strings.TrimSpace(payload.Error); msg != "" {
		return ": " + msg
	}
	return ""
}

func parseBaseURL(apiBind string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBind)
	if trimmed == "" {
		trimmed = DefaultAPIBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_bind %q: %w", apiBind, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
