package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"orderping/internal/domain/notification"
)

var _ notification.MessageSender = (*CloudSender)(nil)

// CloudSender sends template messages through the WhatsApp Cloud API.
type CloudSender struct {
	accessToken   string
	phoneNumberID string
	baseURL       string
	httpClient    *http.Client
}

// NewCloudSender creates a WhatsApp Cloud API sender. baseURL defaults to
// the Graph API endpoint when empty.
func NewCloudSender(accessToken, phoneNumberID, baseURL string) *CloudSender {
	if baseURL == "" {
		baseURL = "https://graph.facebook.com/v20.0"
	}
	return &CloudSender{
		accessToken:   accessToken,
		phoneNumberID: phoneNumberID,
		baseURL:       baseURL,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
	}
}

// component mirrors the Cloud API template component shape.
type component struct {
	Type       string      `json:"type"`
	SubType    string      `json:"sub_type,omitempty"`
	Index      string      `json:"index,omitempty"`
	Parameters []parameter `json:"parameters"`
}

type parameter struct {
	Type       string `json:"type"`
	Text       string `json:"text,omitempty"`
	Image      *media `json:"image,omitempty"`
	CouponCode string `json:"coupon_code,omitempty"`
}

type media struct {
	Link string `json:"link"`
}

// Send delivers a template message and returns the provider message ID.
func (s *CloudSender) Send(ctx context.Context, msg *notification.TemplateMessage) (string, error) {
	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                msg.To,
		"type":              "template",
		"template": map[string]any{
			"name":       msg.Template,
			"language":   map[string]any{"code": "en"},
			"components": buildComponents(msg),
		},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshaling message payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", s.baseURL, s.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error struct {
				Message string `json:"message"`
				Code    int    `json:"code"`
			} `json:"error"`
		}
		_ = json.Unmarshal(respBody, &errResp)

		detail := errResp.Error.Message
		if detail == "" {
			detail = fmt.Sprintf("cloud API error: status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("whatsapp: %s", detail)
	}

	var successResp struct {
		Messages []struct {
			ID string `json:"id"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(respBody, &successResp); err != nil {
		return "", fmt.Errorf("parsing send response: %w", err)
	}

	if len(successResp.Messages) == 0 {
		return "", fmt.Errorf("whatsapp: response carried no message descriptor")
	}

	return successResp.Messages[0].ID, nil
}

// buildComponents assembles the template components: an image header, the
// body text parameters, and a copy-code button when a code is attached.
func buildComponents(msg *notification.TemplateMessage) []component {
	var components []component

	if msg.HeaderImageURL != "" {
		components = append(components, component{
			Type: "header",
			Parameters: []parameter{
				{Type: "image", Image: &media{Link: msg.HeaderImageURL}},
			},
		})
	}

	if len(msg.BodyParams) > 0 {
		params := make([]parameter, len(msg.BodyParams))
		for i, p := range msg.BodyParams {
			params[i] = parameter{Type: "text", Text: p}
		}
		components = append(components, component{
			Type:       "body",
			Parameters: params,
		})
	}

	if msg.CopyCode != "" {
		components = append(components, component{
			Type:    "button",
			SubType: "copy_code",
			Index:   "0",
			Parameters: []parameter{
				{Type: "coupon_code", CouponCode: msg.CopyCode},
			},
		})
	}

	return components
}
