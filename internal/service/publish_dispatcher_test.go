package service

import (
	"Autopost/internal/model"
	"Autopost/internal/pkg/platform"
	"Autopost/internal/pkg/util"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDispatcherFixture() (PublishDispatcher, *fakeAccountRepo, *fakeAdapter) {
	accounts := newFakeAccountRepo()
	adapter := &fakeAdapter{providerID: "1780000000000000000"}
	table := platform.NewTable(map[model.Platform]platform.Adapter{model.PlatformTwitter: adapter})
	return NewPublishDispatcher(accounts, table), accounts, adapter
}

func addAccount(t *testing.T, accounts *fakeAccountRepo, userID uint64, p model.Platform, withCreds bool) *model.SocialAccount {
	account := &model.SocialAccount{UserID: userID, Platform: p, AccountName: "@autopost", IsActive: true}
	if withCreds {
		account.AccessToken = util.Ptr("token")
		account.AccessSecret = util.Ptr("secret")
	}
	require.NoError(t, accounts.CreateAccount(context.Background(), account))
	return account
}

func TestDispatcherPublish_Success(t *testing.T) {
	dispatcher, accounts, adapter := newDispatcherFixture()
	account := addAccount(t, accounts, 1, model.PlatformTwitter, true)

	result, err := dispatcher.Publish(context.Background(), &model.GeneratedPost{ID: 9, UserID: 1, SocialAccountID: account.ID, Content: "hello"})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "1780000000000000000", result.ProviderPostID)
	assert.Equal(t, []string{"hello"}, adapter.published)
}

func TestDispatcherPublish_AdapterFailure(t *testing.T) {
	dispatcher, accounts, adapter := newDispatcherFixture()
	account := addAccount(t, accounts, 1, model.PlatformTwitter, true)
	adapter.publishErr = errors.New("403 duplicate content")

	result, err := dispatcher.Publish(context.Background(), &model.GeneratedPost{UserID: 1, SocialAccountID: account.ID, Content: "hello"})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "403 duplicate content", result.Reason)
}

func TestDispatcherPublish_Rejections(t *testing.T) {
	dispatcher, accounts, adapter := newDispatcherFixture()
	bare := addAccount(t, accounts, 1, model.PlatformTwitter, false)
	linkedin := addAccount(t, accounts, 1, model.PlatformLinkedIn, true)

	_, err := dispatcher.Publish(context.Background(), &model.GeneratedPost{UserID: 1, SocialAccountID: bare.ID})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = dispatcher.Publish(context.Background(), &model.GeneratedPost{UserID: 1, SocialAccountID: linkedin.ID})
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)

	_, err = dispatcher.Publish(context.Background(), &model.GeneratedPost{UserID: 2, SocialAccountID: bare.ID})
	assert.ErrorIs(t, err, ErrAccountNotFound)

	assert.Empty(t, adapter.published)
}

func TestDispatcherVerifyCredentials(t *testing.T) {
	dispatcher, _, adapter := newDispatcherFixture()
	ctx := context.Background()

	assert.NoError(t, dispatcher.VerifyCredentials(ctx, model.PlatformTwitter, "", ""))
	assert.ErrorIs(t, dispatcher.VerifyCredentials(ctx, model.PlatformTwitter, "token", ""), ErrInvalidCredentials)
	assert.NoError(t, dispatcher.VerifyCredentials(ctx, model.PlatformFacebook, "token", "secret"))
	assert.Zero(t, adapter.verifyCalls)

	assert.NoError(t, dispatcher.VerifyCredentials(ctx, model.PlatformTwitter, "token", "secret"))
	assert.Equal(t, 1, adapter.verifyCalls)

	adapter.verifyErr = errors.New("401 unauthorized")
	assert.ErrorIs(t, dispatcher.VerifyCredentials(ctx, model.PlatformTwitter, "token", "secret"), ErrInvalidCredentials)
}
