package handlers

import (
	"net/http"

	"github.com/gartstein/companyemployees/internal/company/models"
	"github.com/gin-gonic/gin"
)

// AuthenticationHandler serves user registration, login and token refresh.
type AuthenticationHandler struct {
	base
	service AuthenticationController
}

// RegisterUser creates an account.
//
//	@Summary		Register a user
//	@Tags			Authentication
//	@Accept			json,xml
//	@Param			user	body	models.UserForRegistrationDto	true	"User"
//	@Success		201
//	@Failure		400	{object}	ErrorDetails
//	@Failure		422	{object}	ErrorDetails
//	@Router			/api/authentication [post]
func (h *AuthenticationHandler) RegisterUser(c *gin.Context) {
	dto, err := bindBody[models.UserForRegistrationDto](c)
	if err != nil {
		h.bodyError(c, "UserForRegistrationDto", err)
		return
	}

	if err := h.service.RegisterUser(c.Request.Context(), dto); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

// Authenticate exchanges credentials for an access and refresh token pair.
//
//	@Summary		Log in
//	@Tags			Authentication
//	@Accept			json,xml
//	@Produce		json,xml
//	@Param			credentials	body		models.UserForAuthenticationDto	true	"Credentials"
//	@Success		200			{object}	models.TokenDto
//	@Failure		401			{object}	ErrorDetails
//	@Failure		429			{string}	string
//	@Router			/api/authentication/login [post]
func (h *AuthenticationHandler) Authenticate(c *gin.Context) {
	dto, err := bindBody[models.UserForAuthenticationDto](c)
	if err != nil {
		h.bodyError(c, "UserForAuthenticationDto", err)
		return
	}

	user, err := h.service.ValidateUser(c.Request.Context(), dto)
	if err != nil {
		h.fail(c, err)
		return
	}
	token, err := h.service.CreateToken(c.Request.Context(), user, true)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, http.StatusOK, token)
}

//	@Summary		Refresh a token pair
//	@Tags			Token
//	@Accept			json,xml
//	@Produce		json,xml
//	@Param			token	body		models.TokenDto	true	"Expired access token and its refresh token"
//	@Success		200		{object}	models.TokenDto
//	@Failure		400		{object}	ErrorDetails
//	@Router			/api/token/refresh [post]
func (h *AuthenticationHandler) Refresh(c *gin.Context) {
	dto, err := bindBody[models.TokenDto](c)
	if err != nil {
		h.bodyError(c, "TokenDto", err)
		return
	}

	token, err := h.service.RefreshToken(c.Request.Context(), dto)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, http.StatusOK, token)
}
