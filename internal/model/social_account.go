package model

import (
	"time"
)

// SocialAccount 发布目标账号，凭据永不序列化
type SocialAccount struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	UserID       uint64    `gorm:"not null;uniqueIndex:uk_user_platform,priority:1" json:"user_id"`
	Platform     Platform  `gorm:"type:varchar(16);not null;uniqueIndex:uk_user_platform,priority:2" json:"platform"`
	AccountName  string    `gorm:"type:varchar(255);not null" json:"account_name"`
	AccessToken  *string   `gorm:"type:varchar(1024)" json:"-"`
	AccessSecret *string   `gorm:"type:varchar(1024)" json:"-"`
	IsActive     bool      `gorm:"type:tinyint(1);not null;default:1" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// 关联关系
	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (SocialAccount) TableName() string {
	return "social_accounts"
}

// HasCredentials token 和 secret 均非空
func (a *SocialAccount) HasCredentials() bool {
	return a.AccessToken != nil && *a.AccessToken != "" &&
		a.AccessSecret != nil && *a.AccessSecret != ""
}
