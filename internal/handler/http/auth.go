package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/islandhr/payroll-backend-go/internal/domain/audit"
	"github.com/islandhr/payroll-backend-go/internal/domain/auth"
	"github.com/islandhr/payroll-backend-go/internal/handler/http/middleware"
	"github.com/islandhr/payroll-backend-go/internal/handler/http/response"
	"github.com/islandhr/payroll-backend-go/internal/pkg/jwt"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	RefreshToken(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	jwtService   jwt.Service
	authService  auth.AuthService
	auditService audit.AuditService
}

func NewAuthHandler(jwtService jwt.Service, authService auth.AuthService, auditService audit.AuditService) AuthHandler {
	return &AuthHandlerImpl{
		jwtService:   jwtService,
		authService:  authService,
		auditService: auditService,
	}
}

// Register implements AuthHandler.
func (a *AuthHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := a.authService.Register(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "User registered successfully", result)
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, refreshToken, refreshExpiresAt, err := a.authService.Login(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	a.recordAuthEvent(r, audit.ActionLogin, result.User.ID, result.User.Email)

	http.SetCookie(w, a.jwtService.RefreshTokenCookie(refreshToken, refreshExpiresAt))
	response.SuccessWithMessage(w, "User logged in successfully", result)
}

// RefreshToken implements AuthHandler. The refresh token arrives via the
// HttpOnly cookie set at login.
func (a *AuthHandlerImpl) RefreshToken(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("refresh_token")
	if err != nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	result, err := a.authService.Refresh(r.Context(), cookie.Value)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Logout implements AuthHandler.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("refresh_token")
	if err != nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	if err := a.authService.Logout(r.Context(), cookie.Value); err != nil {
		response.HandleError(w, err)
		return
	}

	a.recordAuthEvent(r, audit.ActionLogout, "", "")

	// Expire the cookie
	expired := a.jwtService.RefreshTokenCookie("", time.Now().Add(-time.Hour).Unix())
	http.SetCookie(w, expired)
	response.SuccessWithMessage(w, "User logged out successfully", nil)
}

func (a *AuthHandlerImpl) recordAuthEvent(r *http.Request, action audit.Action, userID, email string) {
	log := audit.Log{
		Action: action,
		Entity: "auth",
	}
	if userID != "" {
		log.UserID = &userID
	}
	if email != "" {
		log.UserEmail = &email
	}
	log.IPAddress = middleware.ClientIP(r)
	_ = a.auditService.Record(r.Context(), log)
}
