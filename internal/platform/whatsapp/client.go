package whatsapp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.ultramsg.com"

// Delivery methods reported in a Result.
const (
	MethodWhatsApp = "whatsapp"
	// MethodMock marks a degraded result: the message was composed but the
	// gateway did not accept it.
	MethodMock = "mock"
)

// Result captures the outcome of a single delivery attempt. Gateway failures
// are recorded here instead of being returned as errors so callers can decide
// whether to surface a degraded response.
type Result struct {
	Method   string `json:"method"`
	Body     string `json:"message"`
	Response string `json:"response,omitempty"`
	Err      error  `json:"-"`
}

// OK reports whether the gateway accepted the message.
func (r Result) OK() bool {
	return r.Err == nil
}

// Client sends text messages through an UltraMsg WhatsApp instance.
type Client struct {
	InstanceID string
	Token      string
	BaseURL    string
	httpClient *http.Client
}

func NewClient(instanceID, token string) *Client {
	return &Client{
		InstanceID: instanceID,
		Token:      token,
		BaseURL:    defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Send delivers body to the given phone number. A single attempt is made; any
// network or gateway error is captured in the returned Result.
func (c *Client) Send(ctx context.Context, to, body string) Result {
	endpoint := fmt.Sprintf("%s/%s/messages/chat", strings.TrimRight(c.BaseURL, "/"), c.InstanceID)

	form := url.Values{}
	form.Set("token", c.Token)
	form.Set("to", to)
	form.Set("body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Result{Method: MethodMock, Body: body, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{Method: MethodMock, Body: body, Err: fmt.Errorf("failed to send whatsapp message: %w", err)}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return Result{
			Method: MethodMock,
			Body:   body,
			Err:    fmt.Errorf("ultramsg api returned status: %s, body: %s", resp.Status, string(respBody)),
		}
	}

	return Result{Method: MethodWhatsApp, Body: body, Response: string(respBody)}
}
