package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcamargo/studentcard/internal/app/models"
	"github.com/mcamargo/studentcard/internal/pkg/apperrors"
)

type CardMemoryRepositorySuite struct {
	suite.Suite
	repo *CardMemoryRepository
	ctx  context.Context
}

func (s *CardMemoryRepositorySuite) SetupTest() {
	s.repo = NewCardMemoryRepository()
	s.ctx = context.Background()
}

func TestCardMemoryRepositorySuite(t *testing.T) {
	suite.Run(t, new(CardMemoryRepositorySuite))
}

func (s *CardMemoryRepositorySuite) newCard(fullName string) *models.Card {
	return &models.Card{
		FullName:         fullName,
		Photo:            "data:image/png;base64,iVBORw0KGgo=",
		EnrollmentNumber: "20230123",
		Course:           "Ciência da Computação",
		Institution:      models.DefaultInstitution,
		BirthDate:        time.Date(2002, time.March, 14, 0, 0, 0, 0, time.UTC),
		ValidUntil:       time.Now().AddDate(1, 0, 0),
		NationalID:       "123.456.789-00",
	}
}

// TestCreationAndLookups verifies created cards round-trip by both keys.
func (s *CardMemoryRepositorySuite) TestCreationAndLookups() {
	s.Run("creates and finds card by id", func() {
		card := s.newCard("Maria Silva")
		s.Require().NoError(s.repo.Create(s.ctx, card))
		s.Require().NotZero(card.ID)
		s.Require().NotEmpty(card.VerificationID)
		s.Require().False(card.CreatedAt.IsZero())

		found, err := s.repo.GetByID(s.ctx, card.ID)
		s.Require().NoError(err)
		s.Equal(*card, *found)
	})

	s.Run("finds card by verification id", func() {
		card := s.newCard("João Pereira")
		s.Require().NoError(s.repo.Create(s.ctx, card))

		found, err := s.repo.GetByVerificationID(s.ctx, card.VerificationID)
		s.Require().NoError(err)
		s.Equal(*card, *found)
	})

	s.Run("returns ErrCardNotFound for unknown id", func() {
		_, err := s.repo.GetByID(s.ctx, 9999)
		s.Require().ErrorIs(err, apperrors.ErrCardNotFound)
	})

	s.Run("returns ErrCardNotFound for unknown verification id", func() {
		_, err := s.repo.GetByVerificationID(s.ctx, "deadbeefdeadbeefdead")
		s.Require().ErrorIs(err, apperrors.ErrCardNotFound)
	})
}

// TestIDAssignment verifies ids are strictly increasing and never reused.
func (s *CardMemoryRepositorySuite) TestIDAssignment() {
	first := s.newCard("Card One")
	second := s.newCard("Card Two")
	s.Require().NoError(s.repo.Create(s.ctx, first))
	s.Require().NoError(s.repo.Create(s.ctx, second))
	s.Greater(second.ID, first.ID)

	deleted, err := s.repo.Delete(s.ctx, second.ID)
	s.Require().NoError(err)
	s.Require().True(deleted)

	third := s.newCard("Card Three")
	s.Require().NoError(s.repo.Create(s.ctx, third))
	s.Greater(third.ID, second.ID, "ids must not be reused after deletion")
}

// TestVerificationIDs verifies token uniqueness and caller passthrough.
func (s *CardMemoryRepositorySuite) TestVerificationIDs() {
	s.Run("generated tokens are unique across the store", func() {
		seen := make(map[string]bool)
		for i := 0; i < 50; i++ {
			card := s.newCard(fmt.Sprintf("Student %02d", i))
			s.Require().NoError(s.repo.Create(s.ctx, card))
			s.Require().False(seen[card.VerificationID])
			seen[card.VerificationID] = true
		}
	})

	s.Run("keeps a caller-supplied token", func() {
		card := s.newCard("Custom Token")
		card.VerificationID = "aaaabbbbccccddddeeee"
		s.Require().NoError(s.repo.Create(s.ctx, card))

		found, err := s.repo.GetByVerificationID(s.ctx, "aaaabbbbccccddddeeee")
		s.Require().NoError(err)
		s.Equal(card.ID, found.ID)
	})

	s.Run("rejects a duplicate caller-supplied token", func() {
		card := s.newCard("Duplicate Token")
		card.VerificationID = "aaaabbbbccccddddeeee"
		err := s.repo.Create(s.ctx, card)
		s.Require().ErrorIs(err, apperrors.ErrVerificationIDExists)
	})
}

// TestDelete verifies deletion semantics.
func (s *CardMemoryRepositorySuite) TestDelete() {
	card := s.newCard("To Delete")
	s.Require().NoError(s.repo.Create(s.ctx, card))

	deleted, err := s.repo.Delete(s.ctx, card.ID)
	s.Require().NoError(err)
	s.True(deleted)

	_, err = s.repo.GetByID(s.ctx, card.ID)
	s.Require().ErrorIs(err, apperrors.ErrCardNotFound)

	_, err = s.repo.GetByVerificationID(s.ctx, card.VerificationID)
	s.Require().ErrorIs(err, apperrors.ErrCardNotFound)

	deleted, err = s.repo.Delete(s.ctx, card.ID)
	s.Require().NoError(err)
	s.False(deleted, "deleting an already-deleted id reports false")
}

// TestListOrderingAndPagination verifies newest-first ordering and the
// pagination contract.
func (s *CardMemoryRepositorySuite) TestListOrderingAndPagination() {
	for i := 1; i <= 15; i++ {
		card := s.newCard(fmt.Sprintf("Student %02d", i))
		s.Require().NoError(s.repo.Create(s.ctx, card))
	}

	s.Run("defaults return the first ten, newest first", func() {
		page, err := s.repo.List(s.ctx, models.CardFilter{})
		s.Require().NoError(err)
		s.Equal(int64(15), page.Total)
		s.Equal(1, page.Page)
		s.Equal(10, page.Limit)
		s.Equal(2, page.TotalPages)
		s.Require().Len(page.Items, 10)
		s.Equal("Student 15", page.Items[0].FullName)

		for i := 1; i < len(page.Items); i++ {
			prev, cur := page.Items[i-1], page.Items[i]
			if prev.CreatedAt.Equal(cur.CreatedAt) {
				s.Greater(prev.ID, cur.ID)
			} else {
				s.True(prev.CreatedAt.After(cur.CreatedAt))
			}
		}
	})

	s.Run("second page holds the remaining five", func() {
		page, err := s.repo.List(s.ctx, models.CardFilter{Page: 2, Limit: 10})
		s.Require().NoError(err)
		s.Len(page.Items, 5)
		s.Equal(int64(15), page.Total)
		s.Equal(2, page.TotalPages)
	})

	s.Run("oversized limit is capped", func() {
		page, err := s.repo.List(s.ctx, models.CardFilter{Page: 1, Limit: 500})
		s.Require().NoError(err)
		s.Len(page.Items, 15)
		s.Equal(models.MaxLimit, page.Limit)
		s.Equal(1, page.TotalPages)
	})

	s.Run("page beyond range is empty, not an error", func() {
		page, err := s.repo.List(s.ctx, models.CardFilter{Page: 7, Limit: 10})
		s.Require().NoError(err)
		s.Empty(page.Items)
		s.Equal(int64(15), page.Total)
		s.Equal(7, page.Page)
	})
}

// TestListFilters verifies the case-insensitive text filters and the
// derived status filter.
func (s *CardMemoryRepositorySuite) TestListFilters() {
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

	maria := s.newCard("Maria Silva")
	maria.Course = "Medicina"
	maria.EnrollmentNumber = "20230001"
	maria.ValidUntil = now.AddDate(1, 0, 0)
	s.Require().NoError(s.repo.Create(s.ctx, maria))

	joao := s.newCard("João Pereira")
	joao.Course = "Direito"
	joao.EnrollmentNumber = "20230002"
	joao.ValidUntil = now.AddDate(0, 0, 10)
	s.Require().NoError(s.repo.Create(s.ctx, joao))

	ana := s.newCard("Ana Costa")
	ana.Course = "Direito"
	ana.EnrollmentNumber = "20210099"
	ana.ValidUntil = now.AddDate(0, 0, -1)
	s.Require().NoError(s.repo.Create(s.ctx, ana))

	s.Run("matches full name case-insensitively", func() {
		page, err := s.repo.List(s.ctx, models.CardFilter{FullName: "mar", Now: now})
		s.Require().NoError(err)
		s.Require().Len(page.Items, 1)
		s.Equal("Maria Silva", page.Items[0].FullName)
	})

	s.Run("matches enrollment number substring", func() {
		page, err := s.repo.List(s.ctx, models.CardFilter{EnrollmentNumber: "2023", Now: now})
		s.Require().NoError(err)
		s.Len(page.Items, 2)
	})

	s.Run("combines filters with AND", func() {
		page, err := s.repo.List(s.ctx, models.CardFilter{Course: "direito", EnrollmentNumber: "2023", Now: now})
		s.Require().NoError(err)
		s.Require().Len(page.Items, 1)
		s.Equal("João Pereira", page.Items[0].FullName)
	})

	s.Run("filters by derived status", func() {
		page, err := s.repo.List(s.ctx, models.CardFilter{Status: models.CardStatusExpired, Now: now})
		s.Require().NoError(err)
		s.Require().Len(page.Items, 1)
		s.Equal("Ana Costa", page.Items[0].FullName)

		page, err = s.repo.List(s.ctx, models.CardFilter{Status: models.CardStatusExpiring, Now: now})
		s.Require().NoError(err)
		s.Require().Len(page.Items, 1)
		s.Equal("João Pereira", page.Items[0].FullName)

		page, err = s.repo.List(s.ctx, models.CardFilter{Status: models.CardStatusValid, Now: now})
		s.Require().NoError(err)
		s.Require().Len(page.Items, 1)
		s.Equal("Maria Silva", page.Items[0].FullName)
	})

	s.Run("no filters returns everything", func() {
		page, err := s.repo.List(s.ctx, models.CardFilter{Now: now})
		s.Require().NoError(err)
		s.Len(page.Items, 3)
	})
}

// TestStoredRecordIsolation verifies callers cannot mutate stored state
// through returned records.
func (s *CardMemoryRepositorySuite) TestStoredRecordIsolation() {
	card := s.newCard("Immutable Record")
	s.Require().NoError(s.repo.Create(s.ctx, card))

	found, err := s.repo.GetByID(s.ctx, card.ID)
	s.Require().NoError(err)
	found.FullName = "Mutated Name"

	again, err := s.repo.GetByID(s.ctx, card.ID)
	s.Require().NoError(err)
	s.Equal("Immutable Record", again.FullName)
}
