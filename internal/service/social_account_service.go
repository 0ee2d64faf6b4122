package service

import (
	"Autopost/internal/api/dto"
	"Autopost/internal/model"
	"Autopost/internal/pkg/util"
	"Autopost/internal/repository"
	"context"
	"errors"
	"strings"

	"github.com/jinzhu/copier"
)

type SocialAccountService interface {
	CreateAccount(ctx context.Context, userID uint64, createDTO *dto.CreateSocialAccountDTO) (*dto.SocialAccountDTO, error)
	GetAccount(ctx context.Context, userID, id uint64) (*dto.SocialAccountDTO, error)
	ListAccounts(ctx context.Context, userID uint64) ([]*dto.SocialAccountDTO, error)
	UpdateAccount(ctx context.Context, userID, id uint64, updateDTO *dto.UpdateSocialAccountDTO) (*dto.SocialAccountDTO, error)
	DeleteAccount(ctx context.Context, userID, id uint64) error
}

type SocialAccountServiceImpl struct {
	accountRepo repository.SocialAccountRepo
	dispatcher  PublishDispatcher
}

func NewSocialAccountService(accountRepo repository.SocialAccountRepo, dispatcher PublishDispatcher) SocialAccountService {
	return &SocialAccountServiceImpl{
		accountRepo: accountRepo,
		dispatcher:  dispatcher,
	}
}

// CreateAccount 凭据校验通过后才会入库
func (s *SocialAccountServiceImpl) CreateAccount(ctx context.Context, userID uint64, createDTO *dto.CreateSocialAccountDTO) (*dto.SocialAccountDTO, error) {
	p := model.Platform(createDTO.Platform)
	if !p.Valid() {
		return nil, ErrParamInvalid
	}

	token := trimOptional(createDTO.AccessToken)
	secret := trimOptional(createDTO.AccessSecret)
	if err := s.dispatcher.VerifyCredentials(ctx, p, util.Deref(token), util.Deref(secret)); err != nil {
		return nil, err
	}

	account := &model.SocialAccount{
		UserID:       userID,
		Platform:     p,
		AccountName:  strings.TrimSpace(createDTO.AccountName),
		AccessToken:  token,
		AccessSecret: secret,
		IsActive:     true,
	}
	if err := s.accountRepo.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAccountExist
		}
		return nil, err
	}
	return toAccountDTO(account)
}

func (s *SocialAccountServiceImpl) GetAccount(ctx context.Context, userID, id uint64) (*dto.SocialAccountDTO, error) {
	account, err := s.accountRepo.GetAccount(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return toAccountDTO(account)
}

func (s *SocialAccountServiceImpl) ListAccounts(ctx context.Context, userID uint64) ([]*dto.SocialAccountDTO, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := make([]*dto.SocialAccountDTO, 0, len(accounts))
	for _, account := range accounts {
		accountDTO, err := toAccountDTO(account)
		if err != nil {
			return nil, err
		}
		result = append(result, accountDTO)
	}
	return result, nil
}

// UpdateAccount 凭据有变化时按合并后的 token/secret 重新校验
func (s *SocialAccountServiceImpl) UpdateAccount(ctx context.Context, userID, id uint64, updateDTO *dto.UpdateSocialAccountDTO) (*dto.SocialAccountDTO, error) {
	account, err := s.accountRepo.GetAccount(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}

	fields := make(map[string]interface{})
	if updateDTO.AccountName != nil {
		fields["account_name"] = strings.TrimSpace(*updateDTO.AccountName)
	}
	if updateDTO.IsActive != nil {
		fields["is_active"] = *updateDTO.IsActive
	}

	if updateDTO.AccessToken != nil || updateDTO.AccessSecret != nil {
		token, secret := account.AccessToken, account.AccessSecret
		if updateDTO.AccessToken != nil {
			token = trimOptional(updateDTO.AccessToken)
		}
		if updateDTO.AccessSecret != nil {
			secret = trimOptional(updateDTO.AccessSecret)
		}
		if err = s.dispatcher.VerifyCredentials(ctx, account.Platform, util.Deref(token), util.Deref(secret)); err != nil {
			return nil, err
		}
		fields["access_token"] = token
		fields["access_secret"] = secret
	}

	if len(fields) > 0 {
		if _, err = s.accountRepo.UpdateAccount(ctx, userID, id, fields); err != nil {
			return nil, err
		}
	}
	return s.GetAccount(ctx, userID, id)
}

func (s *SocialAccountServiceImpl) DeleteAccount(ctx context.Context, userID, id uint64) error {
	deleted, err := s.accountRepo.DeleteAccount(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return ErrAccountReferenced
		}
		return err
	}
	if !deleted {
		return ErrAccountNotFound
	}
	return nil
}

// trimOptional 空串视为未设置
func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func toAccountDTO(account *model.SocialAccount) (*dto.SocialAccountDTO, error) {
	accountDTO := &dto.SocialAccountDTO{}
	if err := copier.Copy(accountDTO, account); err != nil {
		return nil, err
	}
	accountDTO.Platform = string(account.Platform)
	accountDTO.HasCredentials = account.HasCredentials()
	return accountDTO, nil
}
