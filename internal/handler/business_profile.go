package handler

import (
	"net/http"

	"invoice-generator/internal/models"
	"invoice-generator/internal/service"
	"invoice-generator/internal/util"

	"github.com/gin-gonic/gin"
)

type BusinessProfileHandler struct {
	Profile *service.BusinessProfileService
}

func NewBusinessProfileHandler(profile *service.BusinessProfileService) *BusinessProfileHandler {
	return &BusinessProfileHandler{Profile: profile}
}

type bankAccountReq struct {
	BankName      string `json:"bankName" binding:"required"`
	AccountNumber string `json:"accountNumber" binding:"required"`
	AccountName   string `json:"accountName" binding:"required"`
}

type createProfileReq struct {
	BusinessName string           `json:"businessName" binding:"required,min=2,max=100"`
	Address      string           `json:"address" binding:"required,min=5"`
	Phone        string           `json:"phone" binding:"required"`
	Email        string           `json:"email" binding:"required,email"`
	Website      string           `json:"website" binding:"omitempty,url"`
	TaxID        string           `json:"taxId"`
	LogoURL      string           `json:"logoUrl" binding:"omitempty,url"`
	BankAccounts []bankAccountReq `json:"bankAccounts" binding:"omitempty,dive"`
}

type updateProfileReq struct {
	BusinessName *string          `json:"businessName" binding:"omitempty,min=2,max=100"`
	Address      *string          `json:"address" binding:"omitempty,min=5"`
	Phone        *string          `json:"phone"`
	Email        *string          `json:"email" binding:"omitempty,email"`
	Website      *string          `json:"website" binding:"omitempty,url"`
	TaxID        *string          `json:"taxId"`
	LogoURL      *string          `json:"logoUrl" binding:"omitempty,url"`
	BankAccounts []bankAccountReq `json:"bankAccounts" binding:"omitempty,dive"`
}

type logoReq struct {
	LogoURL string `json:"logoUrl" binding:"required,url"`
}

type bankAccountsReq struct {
	BankAccounts []bankAccountReq `json:"bankAccounts" binding:"dive"`
}

func toBankAccounts(in []bankAccountReq) []models.BankAccount {
	if in == nil {
		return nil
	}
	out := make([]models.BankAccount, len(in))
	for i, a := range in {
		out[i] = models.BankAccount(a)
	}
	return out
}

func (h *BusinessProfileHandler) Get(c *gin.Context) {
	p, err := h.Profile.Get(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *BusinessProfileHandler) Create(c *gin.Context) {
	var req createProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.Profile.Create(c.Request.Context(), service.ProfileInput{
		BusinessName: req.BusinessName,
		Address:      req.Address,
		Phone:        req.Phone,
		Email:        req.Email,
		Website:      req.Website,
		TaxID:        req.TaxID,
		LogoURL:      req.LogoURL,
		BankAccounts: toBankAccounts(req.BankAccounts),
	})
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, http.StatusCreated, "Business profile created", p)
}

func (h *BusinessProfileHandler) Update(c *gin.Context) {
	var req updateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.Profile.Update(c.Request.Context(), c.Param("id"), service.ProfilePatch{
		BusinessName: req.BusinessName,
		Address:      req.Address,
		Phone:        req.Phone,
		Email:        req.Email,
		Website:      req.Website,
		TaxID:        req.TaxID,
		LogoURL:      req.LogoURL,
		BankAccounts: toBankAccounts(req.BankAccounts),
	})
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, http.StatusOK, "Business profile updated", p)
}

func (h *BusinessProfileHandler) UpdateLogo(c *gin.Context) {
	var req logoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.Profile.UpdateLogo(c.Request.Context(), c.Param("id"), req.LogoURL)
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, http.StatusOK, "Logo updated", p)
}

func (h *BusinessProfileHandler) UpdateBankAccounts(c *gin.Context) {
	var req bankAccountsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	accounts := toBankAccounts(req.BankAccounts)
	if accounts == nil {
		accounts = []models.BankAccount{}
	}
	p, err := h.Profile.UpdateBankAccounts(c.Request.Context(), c.Param("id"), accounts)
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, http.StatusOK, "Bank accounts updated", p)
}
