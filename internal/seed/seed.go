package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mcamargo/studentcard/internal/app/models"
	"github.com/mcamargo/studentcard/internal/app/repositories"
)

// CreateDefaultCards seeds a handful of sample cards covering each
// validity status. Intended for development mode; does nothing when the
// store already holds records.
func CreateDefaultCards(ctx context.Context, repo repositories.CardRepository, lgr zerolog.Logger) error {
	page, err := repo.List(ctx, models.CardFilter{Page: 1, Limit: 1})
	if err != nil {
		return fmt.Errorf("failed to check existing cards: %w", err)
	}
	if page.Total > 0 {
		lgr.Debug().Int64("total", page.Total).Msg("Cards already present, skipping seed")
		return nil
	}

	now := time.Now()
	samples := []*models.Card{
		{
			FullName:         "Maria Silva",
			Photo:            "https://placehold.co/240x320.png",
			EnrollmentNumber: "20230101",
			Course:           "Ciência da Computação",
			Institution:      models.DefaultInstitution,
			BirthDate:        time.Date(2002, time.March, 14, 0, 0, 0, 0, time.UTC),
			ValidUntil:       now.AddDate(1, 0, 0),
			NationalID:       "123.456.789-00",
		},
		{
			FullName:         "João Pereira",
			Photo:            "https://placehold.co/240x320.png",
			EnrollmentNumber: "20230102",
			Course:           "Engenharia Civil",
			Institution:      models.DefaultInstitution,
			BirthDate:        time.Date(2001, time.August, 2, 0, 0, 0, 0, time.UTC),
			ValidUntil:       now.AddDate(0, 0, 15),
			NationalID:       "987.654.321-00",
		},
		{
			FullName:         "Ana Beatriz Costa",
			Photo:            "https://placehold.co/240x320.png",
			EnrollmentNumber: "20210233",
			Course:           "Direito",
			Institution:      models.DefaultInstitution,
			BirthDate:        time.Date(2000, time.January, 25, 0, 0, 0, 0, time.UTC),
			ValidUntil:       now.AddDate(0, -2, 0),
			NationalID:       "111.222.333-44",
		},
	}

	for _, card := range samples {
		if err := repo.Create(ctx, card); err != nil {
			return fmt.Errorf("failed to seed card %q: %w", card.FullName, err)
		}
	}

	lgr.Info().Int("count", len(samples)).Msg("Sample cards seeded")
	return nil
}
