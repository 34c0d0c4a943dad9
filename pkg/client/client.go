// Package client is a Go client for the checkin HTTP API.
package client

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
}

type Option func(*Client)

// WithAuthToken sets the bearer token sent with every request (admin routes, presenter sessions).
func WithAuthToken(token string) Option {
	return func(c *Client) {
		c.authToken = token
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a client for the server at baseURL. The default HTTP client keeps
// cookies, so a cookie-scoped session survives between IssueToken and Register.
func New(baseURL string, opts ...Option) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Jar:     jar,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type urlBuilder struct {
	base  string
	path  string
	query url.Values
}

func (c *Client) url() *urlBuilder {
	return &urlBuilder{base: c.baseURL, query: url.Values{}}
}

func (b *urlBuilder) setPath(path string) *urlBuilder {
	b.path = path
	return b
}

func (b *urlBuilder) addQueryParam(key string, value any) *urlBuilder {
	b.query.Add(key, fmt.Sprint(value))
	return b
}

func (b *urlBuilder) build() string {
	u := b.base + b.path
	if len(b.query) > 0 {
		u += "?" + b.query.Encode()
	}
	return u
}
