package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mcamargo/studentcard/internal/app/models"
	"github.com/mcamargo/studentcard/internal/app/models/dto"
	"github.com/mcamargo/studentcard/internal/app/repositories"
	"github.com/mcamargo/studentcard/internal/pkg/apperrors"
	"github.com/mcamargo/studentcard/internal/pkg/helpers"
	"github.com/mcamargo/studentcard/internal/pkg/validation"
)

// ErrCardValidation wraps apperrors.ErrValidationFailed so the central
// error middleware maps service-level validation failures to 400.
var ErrCardValidation = fmt.Errorf("card validation failed: %w", apperrors.ErrValidationFailed)

// CardService handles card lifecycle operations
type CardService struct {
	cardRepo repositories.CardRepository
	logger   zerolog.Logger
	now      func() time.Time
}

// NewCardService creates a new card service instance
func NewCardService(cardRepo repositories.CardRepository, logger zerolog.Logger) *CardService {
	return &CardService{
		cardRepo: cardRepo,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the time source. Used by tests.
func (s *CardService) WithClock(now func() time.Time) *CardService {
	s.now = now
	return s
}

// CreateCard validates the issuance request, fills in defaults, and
// persists the record. photo is the final photo representation (URL or
// data URI) produced by the transport layer.
func (s *CardService) CreateCard(ctx context.Context, req *dto.CreateCardRequest, photo string) (*models.Card, error) {
	if err := s.validateCreateRequest(req, photo); err != nil {
		return nil, err
	}

	// Unparseable dates fail the operation rather than storing a corrupt record
	birthDate, err := helpers.ParseDate(req.BirthDate)
	if err != nil {
		return nil, fmt.Errorf("%w: birthDate: %s", apperrors.ErrInvalidDate, err)
	}

	validUntil, err := helpers.ParseDate(req.ValidUntil)
	if err != nil {
		return nil, fmt.Errorf("%w: validUntil: %s", apperrors.ErrInvalidDate, err)
	}

	institution := strings.TrimSpace(req.Institution)
	if institution == "" {
		institution = models.DefaultInstitution
	}

	card := &models.Card{
		FullName:         strings.TrimSpace(req.FullName),
		Photo:            photo,
		EnrollmentNumber: strings.TrimSpace(req.EnrollmentNumber),
		Course:           strings.TrimSpace(req.Course),
		Institution:      institution,
		BirthDate:        birthDate,
		ValidUntil:       validUntil,
		NationalID:       req.NationalID,
	}

	if err := s.cardRepo.Create(ctx, card); err != nil {
		return nil, fmt.Errorf("error creating card: %w", err)
	}

	s.logger.Info().
		Int64("cardId", card.ID).
		Str("verificationId", card.VerificationID).
		Str("course", card.Course).
		Msg("Card issued")

	return card, nil
}

// GetCardByID retrieves a card by its internal id
func (s *CardService) GetCardByID(ctx context.Context, id int64) (*models.Card, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid card ID", ErrCardValidation)
	}

	card, err := s.cardRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrCardNotFound) {
			return nil, apperrors.ErrCardNotFound
		}
		return nil, fmt.Errorf("error retrieving card: %w", err)
	}

	return card, nil
}

// ListCards returns a filtered, paginated card listing. The reference
// time for the status filter is pinned here so every record in the page
// is classified against the same instant.
func (s *CardService) ListCards(ctx context.Context, filter models.CardFilter) (*models.CardPage, error) {
	if filter.Status != "" && !models.IsValidCardStatus(string(filter.Status)) {
		return nil, fmt.Errorf("%w: unknown validity status %q", ErrCardValidation, filter.Status)
	}

	filter.Now = s.now()

	page, err := s.cardRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing cards: %w", err)
	}

	return page, nil
}

// DeleteCard removes a card permanently
func (s *CardService) DeleteCard(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid card ID", ErrCardValidation)
	}

	deleted, err := s.cardRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("error deleting card: %w", err)
	}

	if !deleted {
		return apperrors.ErrCardNotFound
	}

	s.logger.Info().Int64("cardId", id).Msg("Card deleted")
	return nil
}

// Now returns the service's current reference time.
func (s *CardService) Now() time.Time {
	return s.now()
}

// validateCreateRequest re-checks the field rules the transport layer is
// expected to have enforced. Defense in depth; the repository itself does
// not re-validate business rules.
func (s *CardService) validateCreateRequest(req *dto.CreateCardRequest, photo string) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrCardValidation)
	}
	if len(strings.TrimSpace(req.FullName)) < validation.FullNameMinLength {
		return fmt.Errorf("%w: full name must be at least %d characters", ErrCardValidation, validation.FullNameMinLength)
	}
	if len(strings.TrimSpace(req.EnrollmentNumber)) < validation.EnrollmentNumberMinLength {
		return fmt.Errorf("%w: enrollment number must be at least %d characters", ErrCardValidation, validation.EnrollmentNumberMinLength)
	}
	if len(strings.TrimSpace(req.Course)) < validation.CourseMinLength {
		return fmt.Errorf("%w: course must be at least %d characters", ErrCardValidation, validation.CourseMinLength)
	}
	if !validation.IsValidNationalID(req.NationalID) {
		return fmt.Errorf("%w: %s", ErrCardValidation, apperrors.ErrInvalidNationalID)
	}
	if photo == "" {
		return fmt.Errorf("%w: %s", ErrCardValidation, apperrors.ErrPhotoRequired)
	}
	return nil
}
