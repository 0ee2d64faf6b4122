package dto

import "time"

type RegisterDTO struct {
	Email    string  `json:"email" binding:"required" validate:"email,max=191"`
	Password string  `json:"password" binding:"required" validate:"min=6,max=72"`
	Name     *string `json:"name,omitempty" validate:"omitempty,max=100"`
}

type LoginDTO struct {
	Email    string `json:"email" binding:"required" validate:"email"`
	Password string `json:"password" binding:"required"`
}

type UserDTO struct {
	ID        uint64    `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type TokenDTO struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}
