package controllers

import (
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mcamargo/studentcard/internal/app/models"
	"github.com/mcamargo/studentcard/internal/app/models/dto"
	"github.com/mcamargo/studentcard/internal/app/services"
	"github.com/mcamargo/studentcard/internal/middleware"
	"github.com/mcamargo/studentcard/internal/pkg/filestorage"
)

// MaxPhotoSize is the upload ceiling for card photos (5MB)
const MaxPhotoSize = 5 << 20

// allowedPhotoExtensions lists the accepted photo file extensions
var allowedPhotoExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// CardController handles card lifecycle operations
type CardController struct {
	cardService  *services.CardService
	photoStorage filestorage.PhotoStorage
}

// NewCardController creates a new CardController
func NewCardController(cardService *services.CardService, photoStorage filestorage.PhotoStorage) *CardController {
	return &CardController{
		cardService:  cardService,
		photoStorage: photoStorage,
	}
}

// CreateCard handles card issuance
// @Summary Issue a new student ID card
// @Description Creates a card record from personal/academic data plus a photo. The photo arrives either as a multipart file upload (field "photo") or as a base64 data URI in the JSON body.
// @Tags cards
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Param request body dto.CreateCardRequest true "Card information"
// @Success 201 {object} dto.APIResponse{data=dto.CardResponse} "Card created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /cards [post]
func (c *CardController) CreateCard(ctx *gin.Context) {
	var req dto.CreateCardRequest

	isMultipart := strings.HasPrefix(ctx.ContentType(), "multipart/form-data")

	if isMultipart {
		if err := ctx.ShouldBind(&req); err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid card data")
			errorDetail = errorDetail.WithDetails(err.Error())
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
	} else {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid card data")
			errorDetail = errorDetail.WithDetails(err.Error())
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
	}

	photo, errDetail := c.resolvePhoto(ctx, &req, isMultipart)
	if errDetail != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errDetail))
		return
	}

	card, err := c.cardService.CreateCard(ctx, &req, photo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      dto.FromCard(card, c.cardService.Now()),
		Timestamp: time.Now(),
	})
}

// resolvePhoto produces the final photo representation for the record:
// a stored-file URL for multipart uploads, the data URI otherwise.
func (c *CardController) resolvePhoto(ctx *gin.Context, req *dto.CreateCardRequest, isMultipart bool) (string, *dto.ErrorDetail) {
	if isMultipart {
		fileHeader, err := ctx.FormFile("photo")
		if err == nil && fileHeader != nil {
			if detail := validatePhotoUpload(fileHeader); detail != nil {
				return "", detail
			}

			photoURL, err := c.photoStorage.SavePhoto(fileHeader)
			if err != nil {
				return "", dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Failed to store photo")
			}
			return photoURL, nil
		}
		// No file attached; the photo may still come as a base64 form field
	}

	if req.PhotoBase64 != "" {
		return req.PhotoBase64, nil
	}

	return "", dto.NewErrorDetail(dto.ErrorCodeInvalidPhoto, "Photo is required").WithField("photo")
}

// validatePhotoUpload enforces the upload ceiling and accepted formats
// before the core is invoked.
func validatePhotoUpload(fileHeader *multipart.FileHeader) *dto.ErrorDetail {
	if fileHeader.Size > MaxPhotoSize {
		return dto.NewErrorDetail(dto.ErrorCodeInvalidPhoto, "Photo exceeds the 5MB size limit").WithField("photo")
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedPhotoExtensions[ext] {
		return dto.NewErrorDetail(dto.ErrorCodeInvalidPhoto, "Only JPG, JPEG and PNG images are allowed").WithField("photo")
	}

	return nil
}

// GetCardByID retrieves a card by ID
// @Summary Get card by ID
// @Description Retrieves a specific card record by its internal ID
// @Tags cards
// @Accept json
// @Produce json
// @Param id path int true "Card ID"
// @Success 200 {object} dto.APIResponse{data=dto.CardResponse} "Card retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid card ID"
// @Failure 404 {object} dto.ErrorResponse "Card not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /cards/{id} [get]
func (c *CardController) GetCardByID(ctx *gin.Context) {
	id, ok := parseCardID(ctx)
	if !ok {
		return
	}

	card, err := c.cardService.GetCardByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.FromCard(card, c.cardService.Now()),
		Timestamp: time.Now(),
	})
}

// ListCards retrieves cards with filters and pagination
// @Summary List cards
// @Description Retrieves cards filtered by name, enrollment number, course and validity status, ordered newest first, paginated
// @Tags cards
// @Accept json
// @Produce json
// @Param fullName query string false "Case-insensitive substring of the student's full name"
// @Param enrollmentNumber query string false "Case-insensitive substring of the enrollment number"
// @Param course query string false "Case-insensitive substring of the course name"
// @Param validityStatus query string false "Validity status filter" Enums(valid, expiring, expired)
// @Param page query int false "1-based page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.CardListResponse} "Cards retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /cards [get]
func (c *CardController) ListCards(ctx *gin.Context) {
	filter, detail := parseCardFilter(ctx)
	if detail != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	page, err := c.cardService.ListCards(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.FromCardPage(page, c.cardService.Now()),
		Timestamp: time.Now(),
	})
}

// DeleteCard deletes a card
// @Summary Delete a card
// @Description Permanently removes a card record and its stored photo
// @Tags cards
// @Accept json
// @Produce json
// @Param id path int true "Card ID"
// @Success 200 {object} dto.SuccessResponse "Card deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid card ID"
// @Failure 404 {object} dto.ErrorResponse "Card not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /cards/{id} [delete]
func (c *CardController) DeleteCard(ctx *gin.Context) {
	id, ok := parseCardID(ctx)
	if !ok {
		return
	}

	card, err := c.cardService.GetCardByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.cardService.DeleteCard(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	// Best effort; a record without its photo file is already gone
	_ = c.photoStorage.DeletePhoto(card.Photo)

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Card deleted successfully"})
}

// parseCardID extracts and validates the id path parameter, answering the
// request itself on failure.
func parseCardID(ctx *gin.Context) (int64, bool) {
	idStr := ctx.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid card ID")
		errorDetail = errorDetail.WithDetails("Card ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// parseCardFilter coerces the query parameters into the typed filter once,
// at the transport boundary.
func parseCardFilter(ctx *gin.Context) (models.CardFilter, *dto.ErrorDetail) {
	filter := models.CardFilter{
		FullName:         ctx.Query("fullName"),
		EnrollmentNumber: ctx.Query("enrollmentNumber"),
		Course:           ctx.Query("course"),
	}

	if status := ctx.Query("validityStatus"); status != "" {
		if !models.IsValidCardStatus(status) {
			return filter, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid validity status").
				WithField("validityStatus").
				WithDetails("Must be one of: valid, expiring, expired")
		}
		filter.Status = models.CardStatus(status)
	}

	filter.Page, filter.Limit = parsePagination(ctx)
	return filter, nil
}

func parsePagination(ctx *gin.Context) (page, limit int) {
	page = models.DefaultPage
	if pageStr := ctx.Query("page"); pageStr != "" {
		if parsed, err := strconv.Atoi(pageStr); err == nil && parsed >= 1 {
			page = parsed
		}
	}

	limit = models.DefaultLimit
	if limitStr := ctx.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed >= 1 {
			limit = parsed
		}
	}

	return page, limit
}
