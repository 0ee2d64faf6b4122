package repository

import (
	"Autopost/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SocialAccountRepo interface {
	CreateAccount(ctx context.Context, account *model.SocialAccount) error
	GetAccount(ctx context.Context, userID, id uint64) (*model.SocialAccount, error)
	ListAccounts(ctx context.Context, userID uint64) ([]*model.SocialAccount, error)
	UpdateAccount(ctx context.Context, userID, id uint64, fields map[string]interface{}) (int64, error)
	DeleteAccount(ctx context.Context, userID, id uint64) (bool, error)
}

type SocialAccountRepoImpl struct {
	db *gorm.DB
}

func NewSocialAccountRepo(db *gorm.DB) SocialAccountRepo {
	return &SocialAccountRepoImpl{db: db}
}

// CreateAccount 同一用户同一平台只能有一个账号，冲突返回 ErrDuplicate
func (s *SocialAccountRepoImpl) CreateAccount(ctx context.Context, account *model.SocialAccount) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		err := tx.Model(&model.SocialAccount{}).
			Where("user_id = ? AND platform = ?", account.UserID, account.Platform).
			Count(&exists).Error
		if err != nil {
			return err
		}
		if exists > 0 {
			return ErrDuplicate
		}
		return translate(tx.Omit(clause.Associations).Create(account).Error)
	})
}

func (s *SocialAccountRepoImpl) GetAccount(ctx context.Context, userID, id uint64) (*model.SocialAccount, error) {
	account := &model.SocialAccount{}
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return account, nil
}

func (s *SocialAccountRepoImpl) ListAccounts(ctx context.Context, userID uint64) ([]*model.SocialAccount, error) {
	accounts := make([]*model.SocialAccount, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (s *SocialAccountRepoImpl) UpdateAccount(ctx context.Context, userID, id uint64, fields map[string]interface{}) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&model.SocialAccount{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(fields)
	return result.RowsAffected, translate(result.Error)
}

// DeleteAccount 被帖子引用时返回 ErrReferenced
func (s *SocialAccountRepoImpl) DeleteAccount(ctx context.Context, userID, id uint64) (bool, error) {
	found := true
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var account model.SocialAccount
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", id, userID).
			First(&account).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				found = false
				return nil
			}
			return err
		}

		var referenced int64
		if err = tx.Model(&model.GeneratedPost{}).Where("social_account_id = ?", id).Count(&referenced).Error; err != nil {
			return err
		}
		if referenced > 0 {
			return ErrReferenced
		}
		return tx.Delete(&model.SocialAccount{}, id).Error
	})
	if err != nil {
		return false, err
	}
	return found, nil
}
