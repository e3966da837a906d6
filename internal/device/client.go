package device

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Command is a button the fireplace controller accepts on /No_content.
type Command string

const (
	CommandStart Command = "ButtonStart"
	CommandStop  Command = "ButtonStop"
	CommandPlus  Command = "ButtonPlus"  // one flame level up
	CommandMinus Command = "ButtonMinus" // one flame level down
)

const (
	statusPath  = "/state.xml"
	commandPath = "/No_content"
	commandKey  = "__SL_P_UBT"

	DefaultRequestTimeout = 3 * time.Second

	// state.xml is a few hundred bytes; anything larger is not the fireplace.
	maxStatusBytes = 64 << 10
)

// Client talks to a single fireplace over its local HTTP interface.
// It performs no retries; callers decide what a failure means.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient builds a client for the controller at address, which may be a
// bare host ("192.168.1.50"), host:port, or a full http(s) URL.
func NewClient(address string, timeout time.Duration) (*Client, error) {
	base, err := normalizeBaseURL(address)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &Client{
		baseURL: base,
		// also bounds body reads, which the request context alone does not
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
	}, nil
}

// BaseURL returns the normalized device address.
func (c *Client) BaseURL() string { return c.baseURL }

func normalizeBaseURL(address string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", fmt.Errorf("device address is empty")
	}
	if !strings.Contains(address, "://") {
		address = "http://" + address
	}
	u, err := url.Parse(address)
	if err != nil {
		return "", fmt.Errorf("parse device address %q: %w", address, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported device address scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("device address %q has no host", address)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

// FetchStatus downloads the raw state.xml document.
func (c *Client) FetchStatus(ctx context.Context) ([]byte, error) {
	const op = "fetch status"
	target := c.baseURL + statusPath

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &TransportError{Op: op, URL: target, Err: err}
	}
	req.Header.Set("Accept", "application/xml, text/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxStatusBytes))
		return nil, &TransportError{Op: op, URL: target, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxStatusBytes))
	if err != nil {
		return nil, &TransportError{Op: op, URL: target, Err: fmt.Errorf("read body: %w", err)}
	}
	return body, nil
}

// SendCommand presses one button on the controller. The device answers with
// no content and no acknowledgement of the resulting state.
func (c *Client) SendCommand(ctx context.Context, cmd Command) error {
	op := "send " + string(cmd)
	target := c.baseURL + commandPath

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	form := url.Values{}
	form.Set(commandKey, string(cmd))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return &TransportError{Op: op, URL: target, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, URL: target, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxStatusBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{Op: op, URL: target, StatusCode: resp.StatusCode}
	}
	return nil
}
