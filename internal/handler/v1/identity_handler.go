package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/medremind/medremind/internal/domain"
	"github.com/medremind/medremind/internal/domain/user"
	"github.com/medremind/medremind/internal/service"
)

type IdentityHandler struct {
	identity *service.IdentityService
	log      *zap.Logger
}

func NewIdentityHandler(identity *service.IdentityService, log *zap.Logger) *IdentityHandler {
	return &IdentityHandler{identity: identity, log: log}
}

type signupRequest struct {
	LoginName  string `json:"login_name" binding:"required"`
	Credential string `json:"credential" binding:"required"`
	Role       string `json:"role" binding:"required"`
}

type userResponse struct {
	UserKey           string     `json:"user_key"`
	LoginName         string     `json:"login_name"`
	Role              string     `json:"role"`
	IsActive          bool       `json:"is_active"`
	VerificationState string     `json:"verification_state"`
	LastLogin         *time.Time `json:"last_login,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func toUserResponse(u *user.User) userResponse {
	return userResponse{
		UserKey:           u.UserKey,
		LoginName:         u.LoginName,
		Role:              string(u.Role),
		IsActive:          u.IsActive,
		VerificationState: string(u.VerificationState),
		LastLogin:         u.LastLogin,
		CreatedAt:         u.CreatedAt,
	}
}

func (h *IdentityHandler) Signup(c *gin.Context) {
	var req signupRequest
	if !bindJSON(c, &req) {
		return
	}

	u, err := h.identity.CreateUser(c.Request.Context(), &user.CreateUserCommand{
		LoginName:     req.LoginName,
		RawCredential: req.Credential,
		Role:          domain.Role(req.Role),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, toUserResponse(u))
}

type loginRequest struct {
	LoginName  string `json:"login_name" binding:"required"`
	Credential string `json:"credential" binding:"required"`
	Role       string `json:"role" binding:"required"`
}

type loginResponse struct {
	User   userResponse      `json:"user"`
	Tokens *domain.TokenPair `json:"tokens"`
}

func (h *IdentityHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	u, pair, err := h.identity.Authenticate(c.Request.Context(), req.LoginName, req.Credential, domain.Role(req.Role))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, loginResponse{User: toUserResponse(u), Tokens: pair})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *IdentityHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if !bindJSON(c, &req) {
		return
	}

	pair, err := h.identity.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, pair)
}

func (h *IdentityHandler) Me(c *gin.Context) {
	u, err := h.identity.GetUser(c.Request.Context(), actorKey(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toUserResponse(u))
}

type lookupRequest struct {
	LoginName string `json:"login_name" binding:"required"`
	Role      string `json:"role" binding:"required"`
}

// Lookup resolves a login name to a user key, for guardians binding to a
// patient and patients finding a doctor. Empty key means no such account.
func (h *IdentityHandler) Lookup(c *gin.Context) {
	var req lookupRequest
	if !bindJSON(c, &req) {
		return
	}

	key, err := h.identity.LookupByLogin(c.Request.Context(), req.LoginName, domain.Role(req.Role))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"user_key": key})
}

func (h *IdentityHandler) Deactivate(c *gin.Context) {
	if err := h.identity.Deactivate(c.Request.Context(), actorKey(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"deactivated": true})
}

// DeleteAccount removes the caller's account and everything it owns.
func (h *IdentityHandler) DeleteAccount(c *gin.Context) {
	if err := h.identity.DeleteUser(c.Request.Context(), actorKey(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
