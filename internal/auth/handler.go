package auth

import (
	"time"

	"github.com/gin-gonic/gin"

	"recruit-backend/internal/shared/metrics"
	"recruit-backend/internal/shared/server/middleware"
	"recruit-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the auth service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches auth routes. The refresh middleware guards renewal
// and sign-out; sign-up and sign-in are public.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, refreshAuth gin.HandlerFunc) {
	rg.POST("/auth/sign-up", h.signUp)
	rg.POST("/auth/sign-in", h.signIn)
	rg.PATCH("/auth/renew", refreshAuth, h.renew)
	rg.POST("/auth/sign-out", refreshAuth, h.signOut)
	rg.DELETE("/auth/sign-out", refreshAuth, h.signOut)
}

type signUpRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
	Name            string `json:"name"`
}

type signUpResponse struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (h *Handler) signUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, 400, "validation_error", "invalid request body", nil)
		return
	}

	user, err := h.Svc.SignUp(c.Request.Context(), req.Email, req.Password, req.PasswordConfirm, req.Name)
	if err != nil {
		respond.AppError(c, err)
		return
	}

	respond.Created(c, gin.H{"data": signUpResponse{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}})
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) signIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, 400, "validation_error", "invalid request body", nil)
		return
	}

	pair, err := h.Svc.SignIn(c.Request.Context(), req.Email, req.Password, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		metrics.IncSignInFailed()
		respond.AppError(c, err)
		return
	}
	metrics.IncSignIn()

	setTokenCookies(c, pair)
	respond.Created(c, gin.H{"data": pair})
}

func (h *Handler) renew(c *gin.Context) {
	account := middleware.CurrentAccount(c)
	raw := middleware.RawToken(c)

	pair, err := h.Svc.Renew(c.Request.Context(), account.ID, raw, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respond.AppError(c, err)
		return
	}
	metrics.IncSessionRenewal()

	setTokenCookies(c, pair)
	respond.OK(c, gin.H{"data": pair})
}

func (h *Handler) signOut(c *gin.Context) {
	account := middleware.CurrentAccount(c)
	raw := middleware.RawToken(c)

	if err := h.Svc.SignOut(c.Request.Context(), account.ID, raw); err != nil {
		respond.AppError(c, err)
		return
	}

	clearTokenCookies(c)
	respond.OK(c, gin.H{"data": gin.H{"userId": account.ID}})
}

func setTokenCookies(c *gin.Context, pair TokenPair) {
	c.SetCookie(middleware.AccessTokenCookie, "Bearer "+pair.AccessToken, int(accessTokenTTL.Seconds()), "/", "", false, true)
	c.SetCookie(middleware.RefreshTokenCookie, "Bearer "+pair.RefreshToken, int(refreshTokenTTL.Seconds()), "/", "", false, true)
}

func clearTokenCookies(c *gin.Context) {
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", false, true)
	c.SetCookie(middleware.RefreshTokenCookie, "", -1, "/", "", false, true)
}
