// file: controllers/competition_controller.go
package controllers

import (
	"errors"
	"log"
	"mime/multipart"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/JuanSign/iecom-itb/dto"
	"github.com/JuanSign/iecom-itb/middlewares"
	"github.com/JuanSign/iecom-itb/models"
	"github.com/JuanSign/iecom-itb/services"
	"github.com/JuanSign/iecom-itb/utils"
)

var teamCodePattern = regexp.MustCompile(`^[A-Z]{5}$`)

type CompetitionController struct {
	registries map[models.Family]*services.Registry
	sessions   *services.SessionService
}

func NewCompetitionController(registries map[models.Family]*services.Registry, sessions *services.SessionService) *CompetitionController {
	return &CompetitionController{registries: registries, sessions: sessions}
}

// registry resolves the :family path param. Writes the error response itself
// and returns nil when the family is unknown.
func (cc *CompetitionController) registry(c *gin.Context) *services.Registry {
	family, err := models.ParseFamily(c.Param("family"))
	if err != nil {
		utils.Error(c, 1002, "Unknown competition.")
		return nil
	}
	return cc.registries[family]
}

func (cc *CompetitionController) CreateTeam(c *gin.Context) {
	reg := cc.registry(c)
	if reg == nil {
		return
	}
	claims := middlewares.SessionClaims(c)

	var req dto.CreateTeamRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.Error(c, 1001, "Team name must be at least 3 characters")
		return
	}

	err := reg.CreateTeam(c.Request.Context(), claims.AccountID, claims.Email, req.TeamName)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrAlreadyJoined):
		utils.Error(c, 3001, "You must choose one competition to join: IECOM or NICE.")
		return
	case errors.Is(err, services.ErrNameTaken):
		utils.Error(c, 3002, "This team name is already taken. Please choose another.")
		return
	case errors.Is(err, services.ErrCodeExhausted):
		utils.Error(c, 5001, "Failed to generate a unique team code.")
		return
	default:
		log.Printf("create team error: %v", err)
		utils.Error(c, 5000, "An error occurred. Please try again.")
		return
	}

	cc.refreshSession(c, claims)
	utils.Success(c, "Team created successfully", gin.H{"redirect": reg.Family().DashboardPath()})
}

func (cc *CompetitionController) JoinTeam(c *gin.Context) {
	reg := cc.registry(c)
	if reg == nil {
		return
	}
	claims := middlewares.SessionClaims(c)

	var req dto.JoinTeamRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.Error(c, 1001, "Code must be 5 uppercase letters.")
		return
	}

	// Codes are upper-cased before validation; a malformed code never
	// reaches the database.
	code := strings.ToUpper(strings.TrimSpace(req.TeamCode))
	if !teamCodePattern.MatchString(code) {
		utils.Error(c, 1001, "Code must be 5 uppercase letters.")
		return
	}

	err := reg.JoinTeam(c.Request.Context(), claims.AccountID, claims.Email, code)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrCodeNotFound):
		utils.Error(c, 3004, "Invalid team code.")
		return
	case errors.Is(err, services.ErrTeamFull):
		utils.Error(c, 3003, "This team has reached the maximum of 3 members.")
		return
	case errors.Is(err, services.ErrAlreadyJoined):
		utils.Error(c, 3001, "You must choose one competition to join: IECOM or NICE.")
		return
	default:
		log.Printf("join team error: %v", err)
		utils.Error(c, 5000, "An error occurred while joining.")
		return
	}

	cc.refreshSession(c, claims)
	utils.Success(c, "Joined team successfully", gin.H{"redirect": reg.Family().DashboardPath()})
}

// LeaveTeam is best-effort: persistence failures are logged and the flow still
// lands the caller on the dashboard. The registry surfaces the error; the
// decision to proceed anyway is made here.
func (cc *CompetitionController) LeaveTeam(c *gin.Context) {
	reg := cc.registry(c)
	if reg == nil {
		return
	}
	claims := middlewares.SessionClaims(c)

	if err := reg.LeaveTeam(c.Request.Context(), claims.AccountID); err != nil {
		log.Printf("leave team error: %v", err)
	}

	cc.refreshSession(c, claims)
	utils.Success(c, "Left team", gin.H{"redirect": "/dashboard"})
}

func (cc *CompetitionController) TeamPage(c *gin.Context) {
	reg := cc.registry(c)
	if reg == nil {
		return
	}
	claims := middlewares.SessionClaims(c)

	data, err := reg.TeamPage(c.Request.Context(), claims.AccountID)
	if errors.Is(err, services.ErrNotOnTeam) {
		utils.Error(c, 3005, "You are not on a team.")
		return
	}
	if err != nil {
		log.Printf("team page error: %v", err)
		utils.Error(c, 5000, "An error occurred. Please try again.")
		return
	}

	utils.Success(c, "success", data)
}

func (cc *CompetitionController) UpdateMember(c *gin.Context) {
	reg := cc.registry(c)
	if reg == nil {
		return
	}
	claims := middlewares.SessionClaims(c)

	profile := services.MemberProfile{
		Name:        c.PostForm("name"),
		Institution: c.PostForm("institution"),
		PhoneNum:    c.PostForm("phone_num"),
		IDNo:        c.PostForm("id_no"),
	}
	files := services.MemberFiles{
		StudentCard:   formFile(c, "sc_link"),
		SupportingDoc: formFile(c, "sd_link"),
		FormalPhoto:   formFile(c, "fp_link"),
	}

	err := reg.UpdateMemberDetails(c.Request.Context(), claims.AccountID, profile, files)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrNotOnTeam):
		utils.Error(c, 3005, "You are not on a team.")
		return
	default:
		log.Printf("update member error: %v", err)
		utils.Error(c, 5000, "An error occurred while saving your details.")
		return
	}

	utils.Success(c, "Your details have been saved successfully.", nil)
}

// UploadDocuments is NICE-only: business model canvas and proof of originality.
func (cc *CompetitionController) UploadDocuments(c *gin.Context) {
	reg := cc.registry(c)
	if reg == nil {
		return
	}
	if reg.Family() != models.FamilyNICE {
		utils.Error(c, 1002, "Unknown competition.")
		return
	}
	claims := middlewares.SessionClaims(c)

	bmc := formFile(c, "doc_bmc")
	poo := formFile(c, "doc_poo")

	err := reg.UpdateTeamDocuments(c.Request.Context(), claims.AccountID, bmc, poo)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrNoDocuments):
		utils.Error(c, 1001, "Please upload at least one document.")
		return
	case errors.Is(err, services.ErrNotOnTeam):
		utils.Error(c, 3005, "You are not part of a NICE team.")
		return
	default:
		log.Printf("upload documents error: %v", err)
		utils.Error(c, 5000, "An error occurred while uploading documents. Please try again.")
		return
	}

	utils.Success(c, "Documents uploaded successfully.", nil)
}

// UpdateBilling is IECOM-only: the payment proof upload.
func (cc *CompetitionController) UpdateBilling(c *gin.Context) {
	reg := cc.registry(c)
	if reg == nil {
		return
	}
	if reg.Family() != models.FamilyIECOM {
		utils.Error(c, 1002, "Unknown competition.")
		return
	}
	claims := middlewares.SessionClaims(c)

	proof := formFile(c, "payment_proof_url")

	err := reg.UpdateBilling(c.Request.Context(), claims.AccountID, proof)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrNoDocuments):
		utils.Error(c, 1001, "Please select a payment proof file.")
		return
	case errors.Is(err, services.ErrNotOnTeam):
		utils.Error(c, 3005, "You are not on a team.")
		return
	case errors.Is(err, services.ErrTeamNotVerified):
		utils.Error(c, 3006, "Payment is locked until member verification is complete.")
		return
	default:
		log.Printf("update billing error: %v", err)
		utils.Error(c, 5000, "An error occurred while uploading payment proof.")
		return
	}

	utils.Success(c, "Payment proof uploaded successfully.", nil)
}

// refreshSession re-issues the cookie after a membership change so the
// client's session reflects the new joined-events list immediately.
func (cc *CompetitionController) refreshSession(c *gin.Context, claims *services.SessionClaims) {
	token, err := cc.sessions.Refresh(c.Request.Context(), claims.AccountID, claims.Email)
	if err != nil {
		log.Printf("session refresh failed: %v", err)
		return
	}
	cc.sessions.SetCookie(c, token)
}

// formFile returns the named upload, or nil when the field is absent or empty
// (the member kept the existing file).
func formFile(c *gin.Context, field string) *multipart.FileHeader {
	file, err := c.FormFile(field)
	if err != nil || file == nil || file.Size == 0 {
		return nil
	}
	return file
}
