package dto

import "time"

type CreateSocialAccountDTO struct {
	Platform     string  `json:"platform" binding:"required" validate:"oneof=TWITTER FACEBOOK LINKEDIN INSTAGRAM"`
	AccountName  string  `json:"account_name" binding:"required" validate:"min=1,max=255"`
	AccessToken  *string `json:"access_token,omitempty"`
	AccessSecret *string `json:"access_secret,omitempty"`
}

type UpdateSocialAccountDTO struct {
	AccountName  *string `json:"account_name,omitempty" validate:"omitempty,min=1,max=255"`
	AccessToken  *string `json:"access_token,omitempty"`
	AccessSecret *string `json:"access_secret,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

// SocialAccountDTO 不包含任何凭据
type SocialAccountDTO struct {
	ID             uint64    `json:"id"`
	Platform       string    `json:"platform"`
	AccountName    string    `json:"account_name"`
	IsActive       bool      `json:"is_active"`
	HasCredentials bool      `json:"has_credentials"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
