package dto

import (
	"time"

	"github.com/mcamargo/studentcard/internal/app/models"
)

// CreateCardRequest represents a card issuance request. The photo arrives
// either as a multipart file (field "photo") or embedded in PhotoBase64.
type CreateCardRequest struct {
	FullName         string `json:"fullName" form:"fullName" binding:"required,min=5" example:"Maria Silva"`
	EnrollmentNumber string `json:"enrollmentNumber" form:"enrollmentNumber" binding:"required,min=4" example:"20230123"`
	Course           string `json:"course" form:"course" binding:"required,min=3" example:"Engenharia Civil"`
	Institution      string `json:"institution" form:"institution" example:"Universidade Exemplo"`
	BirthDate        string `json:"birthDate" form:"birthDate" binding:"required" example:"2001-03-15"`
	ValidUntil       string `json:"validUntil" form:"validUntil" binding:"required" example:"2026-12-31"`
	NationalID       string `json:"nationalId" form:"nationalId" binding:"required,cpf" example:"123.456.789-00"`
	PhotoBase64      string `json:"photoBase64" form:"photoBase64"`
}

// CardResponse represents a card in API responses, including the derived
// validity status used by administrative listings.
type CardResponse struct {
	ID               int64             `json:"id" example:"1"`
	FullName         string            `json:"fullName" example:"Maria Silva"`
	Photo            string            `json:"photo"`
	EnrollmentNumber string            `json:"enrollmentNumber" example:"20230123"`
	Course           string            `json:"course" example:"Engenharia Civil"`
	Institution      string            `json:"institution" example:"Universidade Exemplo"`
	BirthDate        time.Time         `json:"birthDate"`
	ValidUntil       time.Time         `json:"validUntil"`
	NationalID       string            `json:"nationalId" example:"123.456.789-00"`
	VerificationID   string            `json:"verificationId" example:"a1b2c3d4e5f6a7b8c9d0"`
	CreatedAt        time.Time         `json:"createdAt"`
	ValidityStatus   models.CardStatus `json:"validityStatus" example:"valid" enums:"valid,expiring,expired"`
}

// FromCard converts a models.Card to a CardResponse, computing the
// validity status against the provided reference time.
func FromCard(card *models.Card, now time.Time) CardResponse {
	if card == nil {
		return CardResponse{}
	}

	return CardResponse{
		ID:               card.ID,
		FullName:         card.FullName,
		Photo:            card.Photo,
		EnrollmentNumber: card.EnrollmentNumber,
		Course:           card.Course,
		Institution:      card.Institution,
		BirthDate:        card.BirthDate,
		ValidUntil:       card.ValidUntil,
		NationalID:       card.NationalID,
		VerificationID:   card.VerificationID,
		CreatedAt:        card.CreatedAt,
		ValidityStatus:   models.ComputeCardStatus(card.ValidUntil, now),
	}
}

// CardListResponse represents the response for a filtered card listing
type CardListResponse struct {
	Items      []CardResponse `json:"items"`
	Total      int64          `json:"total" example:"15"`
	Page       int            `json:"page" example:"1"`
	Limit      int            `json:"limit" example:"10"`
	TotalPages int            `json:"totalPages" example:"2"`
}

// FromCardPage converts a repository page into the list response shape.
func FromCardPage(page *models.CardPage, now time.Time) CardListResponse {
	items := make([]CardResponse, 0, len(page.Items))
	for _, card := range page.Items {
		items = append(items, FromCard(card, now))
	}

	return CardListResponse{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	}
}

// VerificationResponse answers the public "is this card authentic and
// current" question. Always delivered with HTTP 200; "invalid" is an
// answer, not a fault.
type VerificationResponse struct {
	Valid   bool          `json:"valid" example:"true"`
	Message string        `json:"message" example:"Card is valid"`
	Card    *CardResponse `json:"card,omitempty"`
}
