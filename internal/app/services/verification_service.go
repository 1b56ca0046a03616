package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mcamargo/studentcard/internal/app/models"
	"github.com/mcamargo/studentcard/internal/app/repositories"
	"github.com/mcamargo/studentcard/internal/pkg/apperrors"
)

// Verification result messages
const (
	VerificationMessageValid    = "Card is valid"
	VerificationMessageExpired  = "Card is expired"
	VerificationMessageNotFound = "Card not found"
)

// VerificationResult answers whether a card is authentic and current.
// Card carries the record payload when one was found, including for
// expired cards, since "found but expired" and "not found" mean
// different things to the person scanning the code.
type VerificationResult struct {
	Valid   bool
	Message string
	Card    *models.Card
}

// VerificationService answers the public card authenticity question.
// Verification is a stricter binary than the three-way administrative
// status: a card inside the 30-day expiring window still verifies as
// valid.
type VerificationService struct {
	cardRepo repositories.CardRepository
	now      func() time.Time
}

// NewVerificationService creates a new verification service instance
func NewVerificationService(cardRepo repositories.CardRepository) *VerificationService {
	return &VerificationService{
		cardRepo: cardRepo,
		now:      time.Now,
	}
}

// WithClock overrides the time source. Used by tests.
func (s *VerificationService) WithClock(now func() time.Time) *VerificationService {
	s.now = now
	return s
}

// Verify looks up a card by its public verification id and reports
// whether it is currently valid. Unknown ids and expired cards are
// normal negative results, not errors; only storage failures return a
// non-nil error.
func (s *VerificationService) Verify(ctx context.Context, verificationID string) (*VerificationResult, error) {
	card, err := s.cardRepo.GetByVerificationID(ctx, verificationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrCardNotFound) {
			return &VerificationResult{
				Valid:   false,
				Message: VerificationMessageNotFound,
			}, nil
		}
		return nil, fmt.Errorf("error verifying card: %w", err)
	}

	if !card.ValidUntil.After(s.now()) {
		return &VerificationResult{
			Valid:   false,
			Message: VerificationMessageExpired,
			Card:    card,
		}, nil
	}

	return &VerificationResult{
		Valid:   true,
		Message: VerificationMessageValid,
		Card:    card,
	}, nil
}

// Status classifies a card's expiration date against the service clock.
func (s *VerificationService) Status(validUntil time.Time) models.CardStatus {
	return models.ComputeCardStatus(validUntil, s.now())
}

// Now returns the service's current reference time.
func (s *VerificationService) Now() time.Time {
	return s.now()
}
