package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/config"
	"github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/domain/model"
	"github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/infra/httpclient"
)

// RemoteClassifier calls the external content-safety service with a bounded
// wait. It never fails: an unconfigured service, timeout, transport error,
// non-2xx status or malformed payload all resolve to the fallback
// classifier's verdict for the same input.
type RemoteClassifier struct {
	cfg        config.RemoteClassifierConfig
	httpClient *http.Client
	fallback   *FallbackClassifier
	logger     *zap.Logger
}

type classifyRequest struct {
	Type    string                `json:"type"`
	URL     string                `json:"url,omitempty"`
	Content string                `json:"content,omitempty"`
	Config  classifyRequestConfig `json:"config"`
}

type classifyRequestConfig struct {
	Endpoint   string `json:"endpoint"`
	Credential string `json:"credential"`
	Region     string `json:"region"`
}

type classifyResponse struct {
	Success bool                    `json:"success"`
	Result  *model.ModerationResult `json:"result"`
}

func NewRemoteClassifier(cfg config.RemoteClassifierConfig, fallback *FallbackClassifier, logger *zap.Logger) *RemoteClassifier {
	if fallback == nil {
		fallback = NewFallbackClassifier()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &RemoteClassifier{
		cfg:        cfg,
		httpClient: httpclient.New(cfg.Timeout),
		fallback:   fallback,
		logger:     logger,
	}
}

// ClassifyImage evaluates a media object by URL.
func (c *RemoteClassifier) ClassifyImage(ctx context.Context, url string) model.ModerationResult {
	result, err := c.invoke(ctx, classifyRequest{Type: "image", URL: url})
	if err != nil {
		c.logger.Debug("remote image classification failed, using fallback", zap.Error(err))
		return c.fallback.ClassifyMediaURL(url)
	}
	return result
}

// ClassifyText evaluates a text fragment.
func (c *RemoteClassifier) ClassifyText(ctx context.Context, text string) model.ModerationResult {
	result, err := c.invoke(ctx, classifyRequest{Type: "text", Content: text})
	if err != nil {
		c.logger.Debug("remote text classification failed, using fallback", zap.Error(err))
		return c.fallback.ClassifyText(text)
	}
	return result
}

func (c *RemoteClassifier) invoke(ctx context.Context, req classifyRequest) (model.ModerationResult, error) {
	if !c.cfg.Configured() {
		return model.ModerationResult{}, fmt.Errorf("remote classifier is not configured")
	}

	req.Config = classifyRequestConfig{
		Endpoint:   c.cfg.Endpoint,
		Credential: c.cfg.APIKey,
		Region:     c.cfg.Region,
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return model.ModerationResult{}, fmt.Errorf("marshal classify request: %w", err)
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return model.ModerationResult{}, fmt.Errorf("build classify request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return model.ModerationResult{}, fmt.Errorf("call classify endpoint: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.ModerationResult{}, fmt.Errorf("classify endpoint returned status %d", resp.StatusCode)
	}

	var decoded classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return model.ModerationResult{}, fmt.Errorf("decode classify response: %w", err)
	}
	if !decoded.Success || decoded.Result == nil {
		return model.ModerationResult{}, fmt.Errorf("classify response is missing a successful result")
	}

	return *decoded.Result, nil
}
