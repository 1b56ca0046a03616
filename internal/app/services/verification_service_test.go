package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcamargo/studentcard/internal/app/models"
	"github.com/mcamargo/studentcard/internal/app/repositories"
)

func newVerificationFixture(t *testing.T) (*VerificationService, *repositories.CardMemoryRepository) {
	t.Helper()
	repo := repositories.NewCardMemoryRepository()
	svc := NewVerificationService(repo).WithClock(func() time.Time { return testNow })
	return svc, repo
}

func storeCard(t *testing.T, repo *repositories.CardMemoryRepository, fullName string, validUntil time.Time) *models.Card {
	t.Helper()
	card := &models.Card{
		FullName:         fullName,
		Photo:            "/uploads/photo.png",
		EnrollmentNumber: "20230001",
		Course:           "Arquitetura",
		Institution:      models.DefaultInstitution,
		BirthDate:        time.Date(2001, time.July, 20, 0, 0, 0, 0, time.UTC),
		ValidUntil:       validUntil,
		NationalID:       "123.456.789-00",
	}
	require.NoError(t, repo.Create(context.Background(), card))
	return card
}

func TestVerify(t *testing.T) {
	ctx := context.Background()

	t.Run("current card verifies as valid", func(t *testing.T) {
		svc, repo := newVerificationFixture(t)
		card := storeCard(t, repo, "Maria Silva", testNow.AddDate(1, 0, 0))

		result, err := svc.Verify(ctx, card.VerificationID)
		require.NoError(t, err)
		assert.True(t, result.Valid)
		assert.Equal(t, VerificationMessageValid, result.Message)
		require.NotNil(t, result.Card)
		assert.Equal(t, card.ID, result.Card.ID)
	})

	t.Run("card inside the expiring window still verifies", func(t *testing.T) {
		svc, repo := newVerificationFixture(t)
		card := storeCard(t, repo, "João Pereira", testNow.AddDate(0, 0, 10))

		result, err := svc.Verify(ctx, card.VerificationID)
		require.NoError(t, err)
		assert.True(t, result.Valid)
	})

	t.Run("expired card fails verification but returns the record", func(t *testing.T) {
		svc, repo := newVerificationFixture(t)
		card := storeCard(t, repo, "Ana Costa", testNow.AddDate(0, -2, 0))

		result, err := svc.Verify(ctx, card.VerificationID)
		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Equal(t, VerificationMessageExpired, result.Message)
		require.NotNil(t, result.Card)
		assert.Equal(t, card.ID, result.Card.ID)
	})

	t.Run("card expiring exactly now is expired", func(t *testing.T) {
		svc, repo := newVerificationFixture(t)
		card := storeCard(t, repo, "Pedro Lima", testNow)

		result, err := svc.Verify(ctx, card.VerificationID)
		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Equal(t, VerificationMessageExpired, result.Message)
	})

	t.Run("unknown id is a negative result, not an error", func(t *testing.T) {
		svc, _ := newVerificationFixture(t)

		result, err := svc.Verify(ctx, "deadbeefdeadbeefdead")
		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Equal(t, VerificationMessageNotFound, result.Message)
		assert.Nil(t, result.Card)
	})
}

func TestVerificationStatus(t *testing.T) {
	svc, _ := newVerificationFixture(t)

	assert.Equal(t, models.CardStatusValid, svc.Status(testNow.AddDate(1, 0, 0)))
	assert.Equal(t, models.CardStatusExpiring, svc.Status(testNow.AddDate(0, 0, 10)))
	assert.Equal(t, models.CardStatusExpired, svc.Status(testNow.AddDate(0, 0, -1)))
}
