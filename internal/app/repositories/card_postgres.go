package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcamargo/studentcard/internal/app/models"
	"github.com/mcamargo/studentcard/internal/pkg/apperrors"
	"github.com/mcamargo/studentcard/internal/pkg/helpers"
)

// Postgres unique-violation error code
const pgUniqueViolation = "23505"

const cardColumns = `id, full_name, photo, enrollment_number, course, institution, birth_date, valid_until, national_id, verification_id, created_at`

// CardPostgresRepository handles database operations for cards
type CardPostgresRepository struct {
	db *pgxpool.Pool
}

// NewCardPostgresRepository creates a new Postgres-backed card repository
func NewCardPostgresRepository(db *pgxpool.Pool) *CardPostgresRepository {
	return &CardPostgresRepository{
		db: db,
	}
}

// Create inserts a new card. The database assigns the id and creation
// timestamp; the verification id is generated here when absent. A unique
// collision on a generated verification id is retried once with a fresh
// token; a collision on a caller-supplied token is reported as a conflict.
func (r *CardPostgresRepository) Create(ctx context.Context, card *models.Card) error {
	query := `
		INSERT INTO cards (full_name, photo, enrollment_number, course, institution, birth_date, valid_until, national_id, verification_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	callerSupplied := card.VerificationID != ""
	if !callerSupplied {
		card.VerificationID = models.NewVerificationID()
	}

	for attempt := 0; ; attempt++ {
		err := r.db.QueryRow(ctx, query,
			card.FullName,
			card.Photo,
			card.EnrollmentNumber,
			card.Course,
			card.Institution,
			card.BirthDate,
			card.ValidUntil,
			card.NationalID,
			card.VerificationID,
		).Scan(&card.ID, &card.CreatedAt)

		if err == nil {
			return nil
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			if callerSupplied {
				return apperrors.ErrVerificationIDExists
			}
			if attempt == 0 {
				card.VerificationID = models.NewVerificationID()
				continue
			}
		}

		return fmt.Errorf("error creating card: %w", err)
	}
}

// GetByID retrieves a card by its internal id
func (r *CardPostgresRepository) GetByID(ctx context.Context, id int64) (*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1`

	card, err := r.scanCard(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCardNotFound
		}
		return nil, fmt.Errorf("error retrieving card: %w", err)
	}

	return card, nil
}

// GetByVerificationID retrieves a card by its public lookup token
func (r *CardPostgresRepository) GetByVerificationID(ctx context.Context, verificationID string) (*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE verification_id = $1`

	card, err := r.scanCard(r.db.QueryRow(ctx, query, verificationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCardNotFound
		}
		return nil, fmt.Errorf("error retrieving card by verification id: %w", err)
	}

	return card, nil
}

// List retrieves cards matching the filter, newest first, paginated.
func (r *CardPostgresRepository) List(ctx context.Context, filter models.CardFilter) (*models.CardPage, error) {
	filter = filter.Normalize()

	where, args := buildCardFilterClause(filter)

	countQuery := `SELECT COUNT(*) FROM cards` + where
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("error counting cards: %w", err)
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.Limit)
	args = append(args, limit, offset)
	listQuery := fmt.Sprintf(`SELECT %s FROM cards%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		cardColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing cards: %w", err)
	}
	defer rows.Close()

	items := make([]*models.Card, 0, limit)
	for rows.Next() {
		var card models.Card
		if err := rows.Scan(
			&card.ID,
			&card.FullName,
			&card.Photo,
			&card.EnrollmentNumber,
			&card.Course,
			&card.Institution,
			&card.BirthDate,
			&card.ValidUntil,
			&card.NationalID,
			&card.VerificationID,
			&card.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning card row: %w", err)
		}
		items = append(items, &card)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating card rows: %w", err)
	}

	return &models.CardPage{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      limit,
		TotalPages: helpers.TotalPages(total, limit),
	}, nil
}

// Delete removes a card permanently. Reports whether a card existed.
func (r *CardPostgresRepository) Delete(ctx context.Context, id int64) (bool, error) {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("error deleting card: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

// scanCard scans a single card row
func (r *CardPostgresRepository) scanCard(row pgx.Row) (*models.Card, error) {
	var card models.Card
	err := row.Scan(
		&card.ID,
		&card.FullName,
		&card.Photo,
		&card.EnrollmentNumber,
		&card.Course,
		&card.Institution,
		&card.BirthDate,
		&card.ValidUntil,
		&card.NationalID,
		&card.VerificationID,
		&card.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// buildCardFilterClause translates the typed filter into a WHERE clause.
// All text filters are case-insensitive substring matches; the status
// filter compares valid_until against the filter's reference time so the
// thresholds stay consistent with ComputeCardStatus.
func buildCardFilterClause(filter models.CardFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.FullName != "" {
		args = append(args, "%"+filter.FullName+"%")
		conditions = append(conditions, fmt.Sprintf("full_name ILIKE $%d", len(args)))
	}
	if filter.EnrollmentNumber != "" {
		args = append(args, "%"+filter.EnrollmentNumber+"%")
		conditions = append(conditions, fmt.Sprintf("enrollment_number ILIKE $%d", len(args)))
	}
	if filter.Course != "" {
		args = append(args, "%"+filter.Course+"%")
		conditions = append(conditions, fmt.Sprintf("course ILIKE $%d", len(args)))
	}

	switch filter.Status {
	case models.CardStatusExpired:
		args = append(args, filter.Now)
		conditions = append(conditions, fmt.Sprintf("valid_until <= $%d", len(args)))
	case models.CardStatusExpiring:
		args = append(args, filter.Now)
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("valid_until > $%d AND valid_until <= $%d + interval '30 days'", n, n))
	case models.CardStatusValid:
		args = append(args, filter.Now)
		conditions = append(conditions, fmt.Sprintf("valid_until > $%d + interval '30 days'", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}
