package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MrKrzychu46/Blog-Backend/internal/auth"
	"github.com/MrKrzychu46/Blog-Backend/internal/users"
)

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Gender    string `json:"gender" binding:"required"`
}

// loginRequest accepts the address as either email or login.
type loginRequest struct {
	Email    string `json:"email"`
	Login    string `json:"login"`
	Password string `json:"password"`
}

type profileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Gender    string `json:"gender"`
}

type passwordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

type deleteAccountRequest struct {
	Password string `json:"password" binding:"required"`
}

type resendRequest struct {
	Email string `json:"email" binding:"required"`
}

func (h *Handler) register(c *gin.Context) {
	var body registerRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "a valid email, password, firstName, lastName and gender are required")
		return
	}
	u, err := h.Users.Register(c.Request.Context(), users.RegisterInput{
		Email:     body.Email,
		Password:  body.Password,
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Gender:    body.Gender,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"user":    u.Profile(),
		"message": "account created, check your email to activate it",
	})
}

func (h *Handler) login(c *gin.Context) {
	var body loginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	email := body.Email
	if email == "" {
		email = body.Login
	}
	if email == "" || body.Password == "" {
		badRequest(c, "email (or login) and password are required")
		return
	}

	token, err := h.Users.Authenticate(c.Request.Context(), email, body.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *Handler) verify(c *gin.Context) {
	if err := h.Users.VerifyAccount(c.Request.Context(), c.Query("token")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "account verified, you can sign in now"})
}

func (h *Handler) resendVerification(c *gin.Context) {
	var body resendRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "email is required")
		return
	}
	if err := h.Users.ResendVerification(c.Request.Context(), body.Email); err != nil {
		respondError(c, err)
		return
	}
	ok(c)
}

// logout revokes the presented token until it would have expired anyway.
func (h *Handler) logout(c *gin.Context) {
	claims := auth.CurrentClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	if err := h.Revoker.Revoke(c.Request.Context(), claims.ID, h.Issuer.Remaining(claims)); err != nil {
		respondError(c, err)
		return
	}
	ok(c)
}

func (h *Handler) me(c *gin.Context) {
	p, err := h.Users.GetMe(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) updateMe(c *gin.Context) {
	var body profileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	p, err := h.Users.UpdateProfile(c.Request.Context(), auth.UserID(c), users.ProfileUpdate{
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Gender:    body.Gender,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) changePassword(c *gin.Context) {
	var body passwordRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "oldPassword and newPassword are required")
		return
	}
	if err := h.Users.ChangePassword(c.Request.Context(), auth.UserID(c), body.OldPassword, body.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	ok(c)
}

func (h *Handler) deleteMe(c *gin.Context) {
	var body deleteAccountRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "password is required to delete the account")
		return
	}
	if err := h.Accounts.DeleteAccount(c.Request.Context(), auth.UserID(c), body.Password); err != nil {
		respondError(c, err)
		return
	}
	// not fatal: RequireAuth refuses tokens of missing accounts
	if claims := auth.CurrentClaims(c); claims != nil {
		if err := h.Revoker.Revoke(c.Request.Context(), claims.ID, h.Issuer.Remaining(claims)); err != nil {
			log.Printf("revoke token of deleted account %s: %v", claims.UserID, err)
		}
	}
	ok(c)
}

func (h *Handler) uploadAvatar(c *gin.Context) {
	fh, err := c.FormFile("avatar")
	if err != nil {
		badRequest(c, "avatar file is required")
		return
	}
	p, err := h.Users.UpdateAvatar(c.Request.Context(), auth.UserID(c), fh)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
