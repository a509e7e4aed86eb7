package shopapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yourusername/shelf-planogram/internal/domain/entity"
	"github.com/yourusername/shelf-planogram/internal/domain/repository"
	"go.uber.org/zap"
)

const defaultFailureReason = "Failed to add shop"

// ErrMissingToken no bearer token configured
var ErrMissingToken = errors.New("shop api token is not configured")

// Client shop creation endpoint over HTTP
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates the gateway. timeout <= 0 falls back to 30s.
func NewClient(baseURL, token string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

var _ repository.ShopGateway = (*Client)(nil)

type addShopResponse struct {
	Success bool            `json:"success"`
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

// CreateShop posts the payload as multipart form fields in payload order
func (c *Client) CreateShop(ctx context.Context, orgID string, payload *entity.ShopPayload) error {
	if c.token == "" {
		return ErrMissingToken
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, f := range payload.Fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return fmt.Errorf("failed to write form field %s: %w", f.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close form: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/org/%s/add-shop", c.baseURL, url.PathEscape(orgID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("shop api request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var result addShopResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		c.logger.Warn("shop api returned non-JSON body", zap.Int("status", resp.StatusCode))
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return &entity.SubmissionError{Reason: defaultFailureReason}
		}
		return &entity.SubmissionError{Reason: http.StatusText(resp.StatusCode)}
	}

	if !result.Success {
		reason := failureReason(result)
		c.logger.Info("shop api rejected shop",
			zap.String("org", orgID),
			zap.Int("status", resp.StatusCode),
			zap.String("reason", reason))
		return &entity.SubmissionError{Reason: reason}
	}

	return nil
}

// failureReason detail first, then message, then the generic text. A non-string
// detail (validation error lists) is passed through as its JSON text.
func failureReason(r addShopResponse) string {
	detail := bytes.TrimSpace(r.Detail)
	if len(detail) > 0 && !bytes.Equal(detail, []byte("null")) {
		var s string
		if err := json.Unmarshal(detail, &s); err == nil {
			if s != "" {
				return s
			}
		} else {
			return string(detail)
		}
	}
	if r.Message != "" {
		return r.Message
	}
	return defaultFailureReason
}
