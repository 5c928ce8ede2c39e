package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/antamassora-jpg/e-vote-smkn2-tantor/internal/models"
)

// DefaultWindow is the length of the voting window seeded on first start.
const DefaultWindow = 24 * time.Hour

type SettingsInput struct {
	StartDate      time.Time `json:"startDate" binding:"required"`
	EndDate        time.Time `json:"endDate" binding:"required"`
	IsVotingActive *bool     `json:"isVotingActive" binding:"required"`
}

// GetSettings returns the settings row, creating the default one (open now,
// closing in DefaultWindow) the first time it is asked for.
func (s *Store) GetSettings(ctx context.Context) (models.SystemSettings, error) {
	var settings models.SystemSettings
	err := s.db.WithContext(ctx).Where("id = ?", models.SettingsID).Take(&settings).Error
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return settings, fmt.Errorf("get settings: %w", err)
	}

	now := s.Now()
	seed := models.SystemSettings{
		ID:             models.SettingsID,
		StartDate:      now,
		EndDate:        now.Add(DefaultWindow),
		IsVotingActive: true,
	}
	// Two first requests may race here; the loser keeps the winner's row.
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return settings, fmt.Errorf("seed settings: %w", err)
	}
	if err := s.db.WithContext(ctx).Where("id = ?", models.SettingsID).Take(&settings).Error; err != nil {
		return settings, fmt.Errorf("get settings: %w", err)
	}
	return settings, nil
}

// UpdateSettings replaces the voting window and active flag.
func (s *Store) UpdateSettings(ctx context.Context, in SettingsInput) (models.SystemSettings, error) {
	if in.StartDate.After(in.EndDate) {
		return models.SystemSettings{}, ErrInvalidWindow
	}
	active := true
	if in.IsVotingActive != nil {
		active = *in.IsVotingActive
	}

	settings := models.SystemSettings{
		ID:             models.SettingsID,
		StartDate:      in.StartDate.UTC(),
		EndDate:        in.EndDate.UTC(),
		IsVotingActive: active,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"start_date", "end_date", "is_voting_active", "updated_at"}),
	}).Create(&settings).Error
	if err != nil {
		return models.SystemSettings{}, fmt.Errorf("update settings: %w", err)
	}
	return s.GetSettings(ctx)
}
