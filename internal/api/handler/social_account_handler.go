package handler

import (
	"Autopost/internal/api/dto"
	"Autopost/internal/pkg/response"
	"Autopost/internal/service"

	"github.com/gin-gonic/gin"
)

type SocialAccountHandler struct {
	accountSvc service.SocialAccountService
}

func NewSocialAccountHandler(accountSvc service.SocialAccountService) *SocialAccountHandler {
	return &SocialAccountHandler{
		accountSvc: accountSvc,
	}
}

func (s *SocialAccountHandler) ListAccounts(c *gin.Context) {
	accounts, err := s.accountSvc.ListAccounts(c.Request.Context(), c.GetUint64(userIDKey))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, accounts)
}

func (s *SocialAccountHandler) CreateAccount(c *gin.Context) {
	var createDTO dto.CreateSocialAccountDTO
	if !bindJSON(c, &createDTO) {
		return
	}
	account, err := s.accountSvc.CreateAccount(c.Request.Context(), c.GetUint64(userIDKey), &createDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, account)
}

func (s *SocialAccountHandler) GetAccount(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	account, err := s.accountSvc.GetAccount(c.Request.Context(), c.GetUint64(userIDKey), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, account)
}

func (s *SocialAccountHandler) UpdateAccount(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var updateDTO dto.UpdateSocialAccountDTO
	if !bindJSON(c, &updateDTO) {
		return
	}
	account, err := s.accountSvc.UpdateAccount(c.Request.Context(), c.GetUint64(userIDKey), id, &updateDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, account)
}

func (s *SocialAccountHandler) DeleteAccount(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.accountSvc.DeleteAccount(c.Request.Context(), c.GetUint64(userIDKey), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
