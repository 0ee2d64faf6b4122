package publisher

import (
	"Autopost/internal/api/config"
	"Autopost/internal/pkg/logger"
	"Autopost/internal/pkg/platform"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/go-resty/resty/v2"
)

var ErrMissingAppCredentials = errors.New("twitter app credentials not configured")

// TwitterAdapter 使用 X API v2 发布，OAuth 1.0a 用户上下文签名
type TwitterAdapter struct {
	oauth   *oauth1.Config
	baseURL string
	timeout time.Duration
}

func NewTwitterAdapter(cfg config.TwitterConfig) *TwitterAdapter {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &TwitterAdapter{
		oauth:   oauth1.NewConfig(cfg.APIKey, cfg.APISecret),
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		timeout: timeout,
	}
}

type tweetRequest struct {
	Text string `json:"text"`
}

type tweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

type meResponse struct {
	Data struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"data"`
}

type apiError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Status int    `json:"status"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (e *apiError) reason(status int) string {
	switch {
	case e.Detail != "":
		return e.Detail
	case len(e.Errors) > 0 && e.Errors[0].Message != "":
		return e.Errors[0].Message
	case e.Title != "":
		return e.Title
	}
	return fmt.Sprintf("twitter api returned status %d", status)
}

func (a *TwitterAdapter) client(ctx context.Context, creds platform.Credentials) (*resty.Client, error) {
	if a.oauth.ConsumerKey == "" || a.oauth.ConsumerSecret == "" {
		return nil, ErrMissingAppCredentials
	}
	httpClient := a.oauth.Client(ctx, oauth1.NewToken(creds.AccessToken, creds.AccessSecret))
	client := resty.NewWithClient(httpClient).
		SetBaseURL(a.baseURL).
		SetTimeout(a.timeout).
		SetHeader("Content-Type", "application/json")
	return logger.AttachResty(client, "twitter"), nil
}

// Publish 发布推文，返回推文 ID
func (a *TwitterAdapter) Publish(ctx context.Context, text string, creds platform.Credentials) (string, error) {
	client, err := a.client(ctx, creds)
	if err != nil {
		return "", err
	}

	var result tweetResponse
	var failure apiError
	resp, err := client.R().
		SetContext(ctx).
		SetBody(tweetRequest{Text: text}).
		SetResult(&result).
		SetError(&failure).
		Post("/2/tweets")
	if err != nil {
		return "", fmt.Errorf("twitter request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusCreated && resp.StatusCode() != http.StatusOK {
		return "", errors.New(failure.reason(resp.StatusCode()))
	}
	if result.Data.ID == "" {
		return "", errors.New("twitter api returned no tweet id")
	}
	return result.Data.ID, nil
}

// VerifyCredentials 调用 /2/users/me 校验用户 token
func (a *TwitterAdapter) VerifyCredentials(ctx context.Context, creds platform.Credentials) error {
	client, err := a.client(ctx, creds)
	if err != nil {
		return err
	}

	var result meResponse
	var failure apiError
	resp, err := client.R().
		SetContext(ctx).
		SetResult(&result).
		SetError(&failure).
		Get("/2/users/me")
	if err != nil {
		return fmt.Errorf("twitter request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return errors.New(failure.reason(resp.StatusCode()))
	}
	if result.Data.ID == "" {
		return errors.New("twitter api returned no user")
	}
	return nil
}
