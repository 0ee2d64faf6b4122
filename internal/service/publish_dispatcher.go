package service

import (
	"Autopost/internal/model"
	"Autopost/internal/pkg/platform"
	"Autopost/internal/pkg/util"
	"Autopost/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
)

// PublishResult 一次发布尝试的结果，失败原因放在 Reason 而不是 error
type PublishResult struct {
	Success        bool
	ProviderPostID string
	Reason         string
}

type PublishDispatcher interface {
	Publish(ctx context.Context, post *model.GeneratedPost) (*PublishResult, error)
	VerifyCredentials(ctx context.Context, p model.Platform, token, secret string) error
}

type PublishDispatcherImpl struct {
	accountRepo repository.SocialAccountRepo
	platforms   *platform.Table
}

func NewPublishDispatcher(accountRepo repository.SocialAccountRepo, platforms *platform.Table) PublishDispatcher {
	return &PublishDispatcherImpl{
		accountRepo: accountRepo,
		platforms:   platforms,
	}
}

// Publish 不支持的平台或缺少凭据时在发起网络请求前返回错误
func (s *PublishDispatcherImpl) Publish(ctx context.Context, post *model.GeneratedPost) (*PublishResult, error) {
	account, err := s.accountRepo.GetAccount(ctx, post.UserID, post.SocialAccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}

	adapter, err := s.platforms.Adapter(account.Platform)
	if err != nil {
		return nil, ErrUnsupportedPlatform
	}
	if !account.HasCredentials() {
		return nil, ErrNotConfigured
	}

	providerPostID, err := adapter.Publish(ctx, post.Content, platform.Credentials{
		AccessToken:  util.Deref(account.AccessToken),
		AccessSecret: util.Deref(account.AccessSecret),
	})
	if err != nil {
		log.WarnContext(ctx, "publish to platform failed", "post_id", post.ID, "platform", account.Platform, "err", err)
		return &PublishResult{Success: false, Reason: err.Error()}, nil
	}

	log.InfoContext(ctx, "post published", "post_id", post.ID, "platform", account.Platform, "provider_post_id", providerPostID)
	return &PublishResult{Success: true, ProviderPostID: providerPostID}, nil
}

// VerifyCredentials 没有适配器的平台无法校验，直接放行
func (s *PublishDispatcherImpl) VerifyCredentials(ctx context.Context, p model.Platform, token, secret string) error {
	if token == "" && secret == "" {
		return nil
	}
	if token == "" || secret == "" {
		return fmt.Errorf("%w: access token and secret must be provided together", ErrInvalidCredentials)
	}

	adapter, err := s.platforms.Adapter(p)
	if err != nil {
		if errors.Is(err, platform.ErrUnsupported) {
			return nil
		}
		return ErrUnsupportedPlatform
	}

	if err = adapter.VerifyCredentials(ctx, platform.Credentials{AccessToken: token, AccessSecret: secret}); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	return nil
}
