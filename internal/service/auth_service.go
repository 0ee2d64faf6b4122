package service

import (
	"Autopost/internal/api/dto"
	"Autopost/internal/model"
	"Autopost/internal/pkg/consts"
	"Autopost/internal/pkg/security"
	"Autopost/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/copier"
)

type AuthService interface {
	Register(ctx context.Context, regDTO *dto.RegisterDTO) (*dto.UserDTO, error)
	Login(ctx context.Context, loginDTO *dto.LoginDTO) (*dto.TokenDTO, error)
	Logout(ctx context.Context, token string) error
	IsRevoked(ctx context.Context, token string) (bool, error)
	GetUser(ctx context.Context, id uint64) (*dto.UserDTO, error)
}

type AuthServiceImpl struct {
	userRepo repository.UserRepo
	jwt      *security.JWTManager
	cache    Cache
}

func NewAuthService(userRepo repository.UserRepo, jwt *security.JWTManager, cache Cache) AuthService {
	return &AuthServiceImpl{
		userRepo: userRepo,
		jwt:      jwt,
		cache:    cache,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, regDTO *dto.RegisterDTO) (*dto.UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(regDTO.Email))
	exist, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrUserExist
	}

	passwordHash, err := security.HashPassword(regDTO.Password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: %v", ErrParamInvalid, err)
		}
		return nil, err
	}

	user := &model.User{
		Email:    email,
		Password: passwordHash,
		Name:     regDTO.Name,
	}
	if err = s.userRepo.CreateUser(ctx, user); err != nil {
		// 并发注册同一邮箱
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExist
		}
		return nil, err
	}
	return toUserDTO(user)
}

func (s *AuthServiceImpl) Login(ctx context.Context, loginDTO *dto.LoginDTO) (*dto.TokenDTO, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(loginDTO.Email)))
	if err != nil {
		return nil, err
	}
	// 用户不存在与密码错误返回同一个错误
	if user == nil {
		return nil, ErrPasswordIncorrect
	}
	if err = security.CheckPasswordHash(loginDTO.Password, user.Password); err != nil {
		return nil, ErrPasswordIncorrect
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	userDTO, err := toUserDTO(user)
	if err != nil {
		return nil, err
	}
	return &dto.TokenDTO{Token: token, User: *userDTO}, nil
}

// Logout 把 Token 签名加入黑名单，过期时间与 Token 剩余有效期一致
func (s *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return UnauthorizedError
	}
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return UnauthorizedError
	}

	ttl := s.jwt.TTL()
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl <= 0 {
		return nil
	}
	return s.cache.SetWithExpiration(ctx, consts.TokenBlacklistKey+signature, 1, ttl)
}

func (s *AuthServiceImpl) IsRevoked(ctx context.Context, token string) (bool, error) {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return true, nil
	}
	return s.cache.Exists(ctx, consts.TokenBlacklistKey+signature)
}

func (s *AuthServiceImpl) GetUser(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return toUserDTO(user)
}

func toUserDTO(user *model.User) (*dto.UserDTO, error) {
	userDTO := &dto.UserDTO{}
	if err := copier.Copy(userDTO, user); err != nil {
		return nil, err
	}
	return userDTO, nil
}
