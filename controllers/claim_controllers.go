package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/beartracks/middlewares"
	"github.com/yeremiapane/beartracks/services"
	"github.com/yeremiapane/beartracks/utils"
)

type ClaimController struct {
	Claims *services.ClaimService
	Slips  *services.PickupSlipService
}

func NewClaimController(svc *services.Services) *ClaimController {
	return &ClaimController{Claims: svc.Claims, Slips: svc.Slips}
}

// SubmitClaim files a claim on an item for the logged-in user.
func (cc *ClaimController) SubmitClaim(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var input services.ClaimInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	claim, err := cc.Claims.Submit(user, c.Param("item_id"), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Claim submitted", claim)
}

func (cc *ClaimController) MyClaims(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Your claims", cc.Claims.ByClaimant(c.GetString(middlewares.CtxUserID)))
}

func (cc *ClaimController) GetAllClaims(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "All claims", cc.Claims.List())
}

func (cc *ClaimController) GetPendingClaims(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Pending claims", cc.Claims.Pending())
}

// ApproveClaim accepts an optional body with pickupLocation and adminNote.
func (cc *ClaimController) ApproveClaim(c *gin.Context) {
	var input services.ApproveInput
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
	}

	claim, err := cc.Claims.Approve(c.Param("claim_id"), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Claim approved", claim)
}

func (cc *ClaimController) DenyClaim(c *gin.Context) {
	claim, err := cc.Claims.Deny(c.Param("claim_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Claim denied", claim)
}

// PickupSlip renders the PDF slip of an approved claim.
func (cc *ClaimController) PickupSlip(c *gin.Context) {
	slip, err := cc.Slips.Build(c.Param("claim_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := cc.Slips.Render(&buf, slip); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	filename := strings.ReplaceAll(slip.Number, "/", "-") + ".pdf"
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
