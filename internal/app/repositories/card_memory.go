package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mcamargo/studentcard/internal/app/models"
	"github.com/mcamargo/studentcard/internal/pkg/apperrors"
	"github.com/mcamargo/studentcard/internal/pkg/helpers"
)

// CardMemoryRepository is the in-memory CardRepository. It is the default
// backing store and the one unit tests run against.
type CardMemoryRepository struct {
	mu             sync.RWMutex
	cards          map[int64]*models.Card
	byVerification map[string]int64
	nextID         int64
}

// NewCardMemoryRepository creates an empty in-memory card store.
func NewCardMemoryRepository() *CardMemoryRepository {
	return &CardMemoryRepository{
		cards:          make(map[int64]*models.Card),
		byVerification: make(map[string]int64),
		nextID:         1,
	}
}

// Create assigns the next sequential id, fills in the verification id and
// creation timestamp, and stores a copy of the record. Ids are never
// reused, even after deletions.
func (r *CardMemoryRepository) Create(ctx context.Context, card *models.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if card.VerificationID == "" {
		card.VerificationID = models.NewVerificationID()
		// Collisions are vanishingly unlikely but regeneration is cheap
		for _, taken := r.byVerification[card.VerificationID]; taken; _, taken = r.byVerification[card.VerificationID] {
			card.VerificationID = models.NewVerificationID()
		}
	} else if _, taken := r.byVerification[card.VerificationID]; taken {
		return apperrors.ErrVerificationIDExists
	}

	card.ID = r.nextID
	r.nextID++
	card.CreatedAt = time.Now()

	stored := *card
	r.cards[stored.ID] = &stored
	r.byVerification[stored.VerificationID] = stored.ID

	return nil
}

// GetByID retrieves a card by its internal id.
func (r *CardMemoryRepository) GetByID(ctx context.Context, id int64) (*models.Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	card, ok := r.cards[id]
	if !ok {
		return nil, apperrors.ErrCardNotFound
	}

	found := *card
	return &found, nil
}

// GetByVerificationID retrieves a card by its public lookup token.
func (r *CardMemoryRepository) GetByVerificationID(ctx context.Context, verificationID string) (*models.Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byVerification[verificationID]
	if !ok {
		return nil, apperrors.ErrCardNotFound
	}

	found := *r.cards[id]
	return &found, nil
}

// List applies the filters, orders by creation time descending (ties
// broken by id descending), and paginates the result.
func (r *CardMemoryRepository) List(ctx context.Context, filter models.CardFilter) (*models.CardPage, error) {
	filter = filter.Normalize()

	r.mu.RLock()
	matched := make([]*models.Card, 0, len(r.cards))
	for _, card := range r.cards {
		if matchesFilter(card, filter) {
			found := *card
			matched = append(matched, &found)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start, end := helpers.CalculateSliceIndices(filter.Page, filter.Limit, total)

	return &models.CardPage{
		Items:      matched[start:end],
		Total:      int64(total),
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: helpers.TotalPages(int64(total), filter.Limit),
	}, nil
}

// Delete removes the card permanently. Reports whether a card existed.
func (r *CardMemoryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	card, ok := r.cards[id]
	if !ok {
		return false, nil
	}

	delete(r.byVerification, card.VerificationID)
	delete(r.cards, id)
	return true, nil
}

// matchesFilter applies all set filters with logical AND. Text filters
// are case-insensitive substring matches.
func matchesFilter(card *models.Card, filter models.CardFilter) bool {
	if filter.FullName != "" && !containsFold(card.FullName, filter.FullName) {
		return false
	}
	if filter.EnrollmentNumber != "" && !containsFold(card.EnrollmentNumber, filter.EnrollmentNumber) {
		return false
	}
	if filter.Course != "" && !containsFold(card.Course, filter.Course) {
		return false
	}
	if filter.Status != "" && models.ComputeCardStatus(card.ValidUntil, filter.Now) != filter.Status {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
