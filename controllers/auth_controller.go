// file: controllers/auth_controller.go
package controllers

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/JuanSign/iecom-itb/dto"
	"github.com/JuanSign/iecom-itb/middlewares"
	"github.com/JuanSign/iecom-itb/models"
	"github.com/JuanSign/iecom-itb/services"
	"github.com/JuanSign/iecom-itb/utils"
)

type AuthController struct {
	store    services.Store
	sessions *services.SessionService
}

func NewAuthController(store services.Store, sessions *services.SessionService) *AuthController {
	return &AuthController{store: store, sessions: sessions}
}

func (ac *AuthController) Register(c *gin.Context) {
	var req dto.AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "Invalid email or password (min 6 chars).")
		return
	}

	existing, err := ac.store.AccountByEmail(c.Request.Context(), req.Email)
	if err != nil {
		log.Printf("register lookup error: %v", err)
		utils.Error(c, 5000, "Failed to create account.")
		return
	}
	if existing != nil {
		utils.Error(c, 2001, "Email already in use.")
		return
	}

	account := &models.Account{
		Email:    req.Email,
		Password: req.Password,
		Events:   []string{},
	}
	if err := ac.store.CreateAccount(c.Request.Context(), account); err != nil {
		// The unique index can still fire between the lookup and the insert.
		if err == services.ErrEmailTaken {
			utils.Error(c, 2001, "Email already in use.")
			return
		}
		log.Printf("register error: %v", err)
		utils.Error(c, 5000, "Failed to create account.")
		return
	}

	utils.Success(c, "Account created! Please log in.", gin.H{
		"account_id": account.AccountID,
		"email":      account.Email,
	})
}

func (ac *AuthController) Login(c *gin.Context) {
	var req dto.AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "Invalid input.")
		return
	}

	account, err := ac.store.AccountByEmail(c.Request.Context(), req.Email)
	if err != nil {
		log.Printf("login lookup error: %v", err)
		utils.Error(c, 5000, "Something went wrong.")
		return
	}
	if account == nil || !account.CheckPassword(req.Password) {
		utils.Error(c, 2002, "Invalid credentials.")
		return
	}

	token, err := ac.sessions.Issue(account.AccountID, account.Email, account.Events)
	if err != nil {
		log.Printf("session issue error: %v", err)
		utils.Error(c, 5002, "Something went wrong.")
		return
	}
	ac.sessions.SetCookie(c, token)

	utils.Success(c, "Login success", gin.H{
		"redirect": "/dashboard",
		"account": gin.H{
			"account_id": account.AccountID,
			"email":      account.Email,
			"events":     account.Events,
		},
	})
}

func (ac *AuthController) Logout(c *gin.Context) {
	ac.sessions.ClearCookie(c)
	utils.Success(c, "Logged out", gin.H{"redirect": "/login"})
}

// Dashboard summarizes the session's competition membership, including the
// mutual lock between the two families.
func (ac *AuthController) Dashboard(c *gin.Context) {
	claims := middlewares.SessionClaims(c)

	joinedIECOM := false
	joinedNICE := false
	for _, e := range claims.Events {
		switch e {
		case models.FamilyIECOM.EventTag():
			joinedIECOM = true
		case models.FamilyNICE.EventTag():
			joinedNICE = true
		}
	}

	utils.Success(c, "success", gin.H{
		"email":        claims.Email,
		"joined_iecom": joinedIECOM,
		"joined_nice":  joinedNICE,
		"iecom_locked": joinedNICE,
		"nice_locked":  joinedIECOM,
		"lock_message": "You must choose one competition to join: IECOM or NICE.",
	})
}
