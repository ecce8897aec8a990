// Package api is a client for the linkfeed HTTP API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/linkfeed/internal/common"
)

// ErrUnavailable is returned when the server cannot be reached.
var ErrUnavailable = errors.New("server unavailable")

// Error is a non-2xx response.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
}

// Client talks to one server. The zero token sends no Authorization header.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// SetToken sets the bearer token sent with every request.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) Signup(ctx context.Context, email, password, name string) (*AuthPayload, error) {
	var out AuthPayload
	body := map[string]string{"email": email, "password": password, "name": name}
	if err := c.do(ctx, http.MethodPost, "/api/signup", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthPayload, error) {
	var out AuthPayload
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/login", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/api/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Feed(ctx context.Context, p FeedParams) (*Feed, error) {
	q := url.Values{}
	if p.Filter != nil {
		q.Set("filter", *p.Filter)
	}
	if p.Skip != nil {
		q.Set("skip", strconv.Itoa(*p.Skip))
	}
	if p.Take != nil {
		q.Set("take", strconv.Itoa(*p.Take))
	}
	for _, o := range p.OrderBy {
		q.Add("orderBy", o)
	}

	var out Feed
	if err := c.do(ctx, http.MethodGet, "/api/feed", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetLink(ctx context.Context, id int64) (*Link, error) {
	var out Link
	if err := c.do(ctx, http.MethodGet, linkPath(id, ""), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Post(ctx context.Context, description, link string) (*Link, error) {
	var out Link
	body := map[string]string{"description": description, "url": link}
	if err := c.do(ctx, http.MethodPost, "/api/links", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Refresh(ctx context.Context, id int64, description, link string) (*Link, error) {
	var out Link
	body := map[string]string{"description": description, "url": link}
	if err := c.do(ctx, http.MethodPut, linkPath(id, ""), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Delete(ctx context.Context, id int64) (*Link, error) {
	var out Link
	if err := c.do(ctx, http.MethodDelete, linkPath(id, ""), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Vote(ctx context.Context, id int64) (*Vote, error) {
	var out Vote
	if err := c.do(ctx, http.MethodPost, linkPath(id, "/vote"), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Voters(ctx context.Context, id int64) ([]User, error) {
	var out []User
	if err := c.do(ctx, http.MethodGet, linkPath(id, "/voters"), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func linkPath(id int64, suffix string) string {
	return "/api/links/" + strconv.FormatInt(id, 10) + suffix
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &Error{StatusCode: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
