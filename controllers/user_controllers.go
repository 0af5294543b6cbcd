package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/beartracks/middlewares"
	"github.com/yeremiapane/beartracks/models"
	"github.com/yeremiapane/beartracks/services"
	"github.com/yeremiapane/beartracks/utils"
)

type UserController struct {
	Users *services.UserService
}

func NewUserController(svc *services.Services) *UserController {
	return &UserController{Users: svc.Users}
}

type authResponse struct {
	Token string             `json:"token"`
	User  models.UserProfile `json:"user"`
}

// Register creates an account and logs it in.
func (uc *UserController) Register(c *gin.Context) {
	var req services.SignupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	user, err := uc.Users.Signup(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "User registered", authResponse{Token: token, User: user.Profile()})
}

// Login checks credentials and returns a JWT.
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	user, err := uc.Users.Login(input.Email, input.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Login successful for user: %s, role: %s", user.Email, user.Role)
	utils.RespondJSON(c, http.StatusOK, "Login successful", authResponse{Token: token, User: user.Profile()})
}

// Logout revokes the presented token until it would have expired anyway.
func (uc *UserController) Logout(c *gin.Context) {
	var expiry time.Time
	if claims, ok := c.Get(middlewares.CtxClaims); ok {
		if cc, ok := claims.(*utils.CustomClaims); ok && cc.ExpiresAt != nil {
			expiry = cc.ExpiresAt.Time
		}
	}
	utils.BlacklistToken(c.GetString(middlewares.CtxToken), expiry)
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

func (uc *UserController) GetProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Profile data retrieved successfully", user.Profile())
}

// GetAllUsers lists every account without password hashes.
func (uc *UserController) GetAllUsers(c *gin.Context) {
	users := uc.Users.List()
	profiles := make([]models.UserProfile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.Profile())
	}
	utils.RespondJSON(c, http.StatusOK, "All users", profiles)
}

// DeleteUser removes an account. Admins cannot delete themselves.
func (uc *UserController) DeleteUser(c *gin.Context) {
	id := c.Param("user_id")
	if id == c.GetString(middlewares.CtxUserID) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("you cannot delete your own account"))
		return
	}
	if err := uc.Users.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "User deleted", nil)
}
