// Package sms dispatches outbound text messages through the Twilio Messages
// API. It is a stateless utility with no relation to the order data model.
package sms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/craftline/orderdesk/internal/apperrors"
)

const defaultBaseURL = "https://api.twilio.com"

var ErrNotConfigured = errors.New("sms: carrier credentials not configured")

type Client struct {
	AccountSID string
	AuthToken  string
	From       string

	// BaseURL is overridable for tests.
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(accountSID, authToken, from string) *Client {
	return &Client{
		AccountSID: accountSID,
		AuthToken:  authToken,
		From:       from,
		BaseURL:    defaultBaseURL,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Configured() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.From != ""
}

// Send posts the message and returns the carrier's message identifier. A
// carrier rejection surfaces the carrier's own error text.
func (c *Client) Send(ctx context.Context, to, message string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	if strings.TrimSpace(to) == "" || strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("%w: recipient and message are required", apperrors.ErrValidation)
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", c.From)
	form.Set("Body", message)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.BaseURL, c.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.AccountSID, c.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrTransport, err)
	}
	defer resp.Body.Close()

	var result struct {
		SID     string `json:"sid"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: decode carrier response: %v", apperrors.ErrTransport, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if result.Message == "" {
			result.Message = resp.Status
		}
		return "", fmt.Errorf("sms: carrier rejected message: %s", result.Message)
	}
	return result.SID, nil
}
