package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sergen67/4CodeApps/pkg/circuitbreaker"
)

// Client is a typed HTTP client for the POS backend. All calls go through an
// otel-instrumented transport and a circuit breaker shared across endpoints.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*http.Response]
}

type Options struct {
	BaseURL string
	Timeout time.Duration
	// HTTPClient overrides the default instrumented client, for tests.
	HTTPClient *http.Client
}

func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    hc,
		breaker: circuitbreaker.NewHTTP("pos-backend"),
	}
}

func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodPost, "/login", LoginRequest{Email: email, Password: password}, &u); err != nil {
		return nil, err
	}
	if err := validateUser(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodPost, "/register", req, &u); err != nil {
		return nil, err
	}
	if err := validateUser(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Users(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	for i := range users {
		if err := validateUser(&users[i]); err != nil {
			return nil, err
		}
	}
	return users, nil
}

func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	for i := range products {
		if err := validateProduct(&products[i]); err != nil {
			return nil, err
		}
	}
	return products, nil
}

func (c *Client) CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error) {
	var p Product
	if err := c.do(ctx, http.MethodPost, "/products", req, &p); err != nil {
		return nil, err
	}
	if err := validateProduct(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, req CreateProductRequest) (*Product, error) {
	var p Product
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/products/%d", id), req, &p); err != nil {
		return nil, err
	}
	if err := validateProduct(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProduct is admin-gated: the backend checks the caller's role.
func (c *Client) DeleteProduct(ctx context.Context, id int64, role string) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/products/%d?role=%s", id, role), nil, nil)
}

func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &categories); err != nil {
		return nil, err
	}
	for i := range categories {
		if err := validateCategory(&categories[i]); err != nil {
			return nil, err
		}
	}
	return categories, nil
}

func (c *Client) CreateCategory(ctx context.Context, name string) (*Category, error) {
	var cat Category
	if err := c.do(ctx, http.MethodPost, "/categories", CreateCategoryRequest{Name: name}, &cat); err != nil {
		return nil, err
	}
	if err := validateCategory(&cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *Client) CreateSale(ctx context.Context, req SaleRequest) (*Sale, error) {
	var s Sale
	if err := c.do(ctx, http.MethodPost, "/sales", req, &s); err != nil {
		return nil, err
	}
	if err := validateSale(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) Sales(ctx context.Context) ([]Sale, error) {
	var sales []Sale
	if err := c.do(ctx, http.MethodGet, "/sales", nil, &sales); err != nil {
		return nil, err
	}
	return sales, nil
}

func (c *Client) DailyRevenue(ctx context.Context) ([]DailyRevenue, error) {
	var rows []DailyRevenue
	if err := c.do(ctx, http.MethodGet, "/sales/daily", nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) WeeklyRevenue(ctx context.Context) (float64, error) {
	return c.revenueTotal(ctx, "/sales/weekly")
}

func (c *Client) MonthlyRevenue(ctx context.Context) (float64, error) {
	return c.revenueTotal(ctx, "/sales/monthly")
}

func (c *Client) revenueTotal(ctx context.Context, path string) (float64, error) {
	var rows []RevenueTotal
	if err := c.do(ctx, http.MethodGet, path, nil, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.breaker.Execute(func() (*http.Response, error) {
		return c.http.Do(req)
	})
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return decodeAPIError(res)
	}
	if out == nil {
		io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return &MalformedResponseError{Reason: "invalid JSON: " + err.Error()}
	}
	return nil
}

func decodeAPIError(res *http.Response) error {
	msg := http.StatusText(res.StatusCode)
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(res.Body, 1<<16)).Decode(&payload); err == nil && payload.Error != "" {
		msg = payload.Error
	}
	return &APIError{StatusCode: res.StatusCode, Message: msg}
}
