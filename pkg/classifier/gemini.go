// Package classifier sends product label photos to Gemini and returns the raw
// audit payload. The payload is untrusted; callers validate it with pkg/audit.
package classifier

import (
	"Compliance-Shield/domain"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

const (
	DefaultModel      = "gemini-2.0-flash"
	DefaultBaseURL    = "https://generativelanguage.googleapis.com/v1beta"
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 2
	DefaultRetryDelay = 500 * time.Millisecond
)

var jsonPattern = regexp.MustCompile(`(?s)\{.*\}`)

var safetyFinishReasons = map[string]bool{
	"SAFETY":             true,
	"PROHIBITED_CONTENT": true,
	"BLOCKLIST":          true,
	"SPII":               true,
}

type (
	Classifier interface {
		// ClassifyLabel returns the decoded audit object for one label photo.
		ClassifyLabel(ctx context.Context, image []byte, mimeType string) (map[string]any, error)
	}

	Config struct {
		APIKey     string
		Model      string
		BaseURL    string
		Timeout    time.Duration
		MaxRetries int
		RetryDelay time.Duration
	}

	geminiClient struct {
		config     Config
		httpClient *http.Client
	}

	generateResponse struct {
		PromptFeedback struct {
			BlockReason string `json:"blockReason"`
		} `json:"promptFeedback"`
		Candidates []struct {
			FinishReason string `json:"finishReason"`
			Content      struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
)

func NewGeminiClient(cfg Config) (Classifier, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}

	return &geminiClient{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (c *geminiClient) ClassifyLabel(ctx context.Context, image []byte, mimeType string) (map[string]any, error) {
	requestJSON, err := json.Marshal(c.requestBody(image, mimeType))
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", strings.TrimSuffix(c.config.BaseURL, "/"), c.config.Model)

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		text, retry, err := c.generate(ctx, endpoint, requestJSON)
		if err == nil {
			return parseAudit(text)
		}
		lastErr = err

		if !retry || ctx.Err() != nil || attempt == c.config.MaxRetries {
			break
		}

		delay := time.Duration(attempt+1) * c.config.RetryDelay
		log.Warnw("gemini request failed, retrying",
			"attempt", attempt+1,
			"max_retries", c.config.MaxRetries,
			"delay_ms", delay.Milliseconds(),
			"error", err.Error())

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", domain.ErrClassificationFailure, ctx.Err())
		}
	}

	return nil, lastErr
}

func (c *geminiClient) requestBody(image []byte, mimeType string) map[string]any {
	return map[string]any{
		"systemInstruction": map[string]any{
			"parts": []map[string]any{{"text": auditorInstruction}},
		},
		"contents": []map[string]any{
			{
				"parts": []map[string]any{
					{
						"inline_data": map[string]any{
							"mime_type": mimeType,
							"data":      base64.StdEncoding.EncodeToString(image),
						},
					},
					{"text": auditorTask},
				},
			},
		},
		"generationConfig": map[string]any{
			"temperature":      0.1,
			"responseMimeType": "application/json",
			"responseSchema":   responseSchema(),
		},
	}
}

// generate performs one generateContent call. retry reports whether the
// failure is transient. Returned errors never carry the endpoint, the key or
// the upstream body.
func (c *geminiClient) generate(ctx context.Context, endpoint string, body []byte) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, fmt.Errorf("%w: %v", domain.ErrClassificationFailure, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", domain.ErrClassificationFailure, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return "", true, fmt.Errorf("%w: %v", domain.ErrClassificationFailure, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, fmt.Errorf("%w: reading response: %v", domain.ErrClassificationFailure, err)
	}

	if resp.StatusCode != http.StatusOK {
		if strings.Contains(strings.ToUpper(string(respBody)), "SAFETY") {
			return "", false, fmt.Errorf("%w: %s", domain.ErrContentSafetyRejection, resp.Status)
		}
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		log.Warnw("gemini API error", "status", resp.Status, "body", string(respBody))
		return "", retry, fmt.Errorf("%w: gemini API error: %s", domain.ErrClassificationFailure, resp.Status)
	}

	var gr generateResponse
	if err := json.Unmarshal(respBody, &gr); err != nil {
		return "", false, fmt.Errorf("%w: decoding gemini envelope: %v", domain.ErrClassificationFailure, err)
	}

	if gr.PromptFeedback.BlockReason != "" {
		return "", false, fmt.Errorf("%w: prompt blocked (%s)", domain.ErrContentSafetyRejection, gr.PromptFeedback.BlockReason)
	}
	if len(gr.Candidates) == 0 {
		return "", false, fmt.Errorf("%w: gemini returned no candidates", domain.ErrClassificationFailure)
	}

	candidate := gr.Candidates[0]
	if safetyFinishReasons[candidate.FinishReason] {
		return "", false, fmt.Errorf("%w: response blocked (%s)", domain.ErrContentSafetyRejection, candidate.FinishReason)
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		text.WriteString(part.Text)
	}
	return text.String(), false, nil
}

// parseAudit extracts the JSON object from the model text. Markdown fences
// and surrounding prose are tolerated.
func parseAudit(text string) (map[string]any, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	if match := jsonPattern.FindString(text); match != "" {
		text = match
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &payload); err != nil {
		return nil, fmt.Errorf("%w: classifier returned unparsable audit: %v", domain.ErrSchemaValidation, err)
	}
	return payload, nil
}
