package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ttacon/libphonenumber"
)

type Client struct {
	BaseURL    string
	Username   string
	Password   string
	Path       string
	Region     string
	HTTPClient *http.Client
}

type SendMessageRequest struct {
	Phone       string `json:"phone"`
	Message     string `json:"message"`
	IsForwarded bool   `json:"is_forwarded"`
	Duration    int    `json:"duration"`
}

type SendMessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		MessageID string `json:"message_id"`
		Status    string `json:"status"`
	} `json:"data"`
}

func NewClient(baseURL, username, password, path, region string) *Client {
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Username: username,
		Password: password,
		Path:     path,
		Region:   region,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// JID converts a local or international phone number into the gateway's chat id
// (E.164 digits without the plus, suffixed with @s.whatsapp.net).
func JID(phone, region string) (string, error) {
	num, err := libphonenumber.Parse(phone, region)
	if err != nil {
		return "", fmt.Errorf("invalid phone number %q: %w", phone, err)
	}
	if !libphonenumber.IsValidNumber(num) {
		return "", fmt.Errorf("invalid phone number %q", phone)
	}
	e164 := libphonenumber.Format(num, libphonenumber.E164)
	return strings.TrimPrefix(e164, "+") + "@s.whatsapp.net", nil
}

// SendTextMessage posts a plain text message through the gateway.
func (c *Client) SendTextMessage(ctx context.Context, phone, message string) (*SendMessageResponse, error) {
	jid, err := JID(phone, c.Region)
	if err != nil {
		return nil, err
	}

	var out SendMessageResponse
	if err := c.post(ctx, "send/message", SendMessageRequest{Phone: jid, Message: message}, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return &out, fmt.Errorf("gateway rejected message: %s", out.Message)
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload, out interface{}) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		return fmt.Errorf("encode %s payload: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/"+c.Path+"/"+endpoint, buf)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.Username, c.Password)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}
