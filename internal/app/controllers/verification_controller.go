package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mcamargo/studentcard/internal/app/models/dto"
	"github.com/mcamargo/studentcard/internal/app/services"
	"github.com/mcamargo/studentcard/internal/middleware"
)

// VerificationController answers the public card authenticity question
type VerificationController struct {
	verificationService *services.VerificationService
}

// NewVerificationController creates a new VerificationController
func NewVerificationController(verificationService *services.VerificationService) *VerificationController {
	return &VerificationController{
		verificationService: verificationService,
	}
}

// VerifyCard checks whether a card is authentic and currently valid
// @Summary Verify a card
// @Description Reports whether the card identified by the verification id exists and is not expired. Verification is a query: unknown ids and expired cards are legitimate negative answers delivered with HTTP 200, not faults.
// @Tags verification
// @Accept json
// @Produce json
// @Param verificationId path string true "Public verification ID"
// @Success 200 {object} dto.APIResponse{data=dto.VerificationResponse} "Verification result"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /verify/{verificationId} [get]
func (c *VerificationController) VerifyCard(ctx *gin.Context) {
	verificationID := ctx.Param("verificationId")

	result, err := c.verificationService.Verify(ctx, verificationID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	response := dto.VerificationResponse{
		Valid:   result.Valid,
		Message: result.Message,
	}
	if result.Card != nil {
		card := dto.FromCard(result.Card, c.verificationService.Now())
		response.Card = &card
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      response,
		Timestamp: time.Now(),
	})
}
