package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/antamassora-jpg/e-vote-smkn2-tantor/internal/models"
)

// CandidateInput is the editable part of a candidate. Votes is deliberately absent.
type CandidateInput struct {
	Name     string   `json:"name" binding:"required" validate:"required"`
	Slogan   string   `json:"slogan" binding:"required" validate:"required"`
	Vision   string   `json:"vision" binding:"required" validate:"required"`
	Mission  []string `json:"mission" binding:"required,min=1" validate:"required,min=1,dive,required"`
	ImageURL string   `json:"imageUrl"`
}

func (in CandidateInput) normalize() CandidateInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Slogan = strings.TrimSpace(in.Slogan)
	in.Vision = strings.TrimSpace(in.Vision)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	mission := make([]string, 0, len(in.Mission))
	for _, m := range in.Mission {
		if m = strings.TrimSpace(m); m != "" {
			mission = append(mission, m)
		}
	}
	in.Mission = mission
	return in
}

func (s *Store) ListCandidates(ctx context.Context) ([]models.Candidate, error) {
	var candidates []models.Candidate
	if err := s.db.WithContext(ctx).Order("name asc").Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	return candidates, nil
}

func (s *Store) GetCandidate(ctx context.Context, id string) (models.Candidate, error) {
	var c models.Candidate
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c, ErrCandidateNotFound
	}
	if err != nil {
		return c, fmt.Errorf("get candidate: %w", err)
	}
	return c, nil
}

// SaveCandidate creates a candidate when id is empty, otherwise updates the
// editable fields of an existing one. The vote counter is never written here.
func (s *Store) SaveCandidate(ctx context.Context, id string, in CandidateInput) (models.Candidate, error) {
	in = in.normalize()
	if err := s.validate.Struct(in); err != nil {
		return models.Candidate{}, err
	}

	if id == "" {
		c := models.Candidate{
			ID:       uuid.NewString(),
			Name:     in.Name,
			Slogan:   in.Slogan,
			Vision:   in.Vision,
			Mission:  datatypes.JSONSlice[string](in.Mission),
			ImageURL: in.ImageURL,
			Votes:    0,
		}
		if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
			if isDuplicate(err) {
				return c, ErrDuplicate
			}
			return c, fmt.Errorf("create candidate: %w", err)
		}
		return c, nil
	}

	res := s.db.WithContext(ctx).Model(&models.Candidate{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":      in.Name,
		"slogan":    in.Slogan,
		"vision":    in.Vision,
		"mission":   datatypes.JSONSlice[string](in.Mission),
		"image_url": in.ImageURL,
	})
	if res.Error != nil {
		return models.Candidate{}, fmt.Errorf("update candidate: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.Candidate{}, ErrCandidateNotFound
	}
	return s.GetCandidate(ctx, id)
}

// DeleteCandidate removes one candidate and returns the voters that pointed
// at it to the unvoted state, so no voter is left referencing a missing row.
// It reports how many voters were reset.
//
// The candidate row is locked before any voter is touched. SubmitVote takes
// the same lock before it writes votedFor, so a vote for this candidate either
// commits before the reset (and is reset) or fails with ErrInvalidCandidate.
func (s *Store) DeleteCandidate(ctx context.Context, id string) (int64, error) {
	var reset int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Candidate
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).Take(&c).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCandidateNotFound
		}
		if err != nil {
			return fmt.Errorf("read candidate: %w", err)
		}

		res := tx.Model(&models.Voter{}).Where("voted_for = ?", id).Updates(unvoted())
		if res.Error != nil {
			return fmt.Errorf("reset voters: %w", res.Error)
		}
		reset = res.RowsAffected

		if err := tx.Where("id = ?", id).Delete(&models.Candidate{}).Error; err != nil {
			return fmt.Errorf("delete candidate: %w", err)
		}
		return nil
	})
	return reset, err
}

// DeleteAllCandidates deletes every candidate and resets every voter's vote
// status in one transaction.
func (s *Store) DeleteAllCandidates(ctx context.Context) (candidates int64, voters int64, err error) {
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Session(allRows).Model(&models.Voter{}).Updates(unvoted())
		if res.Error != nil {
			return fmt.Errorf("reset voters: %w", res.Error)
		}
		voters = res.RowsAffected

		del := tx.Session(allRows).Delete(&models.Candidate{})
		if del.Error != nil {
			return fmt.Errorf("delete candidates: %w", del.Error)
		}
		candidates = del.RowsAffected
		return nil
	})
	return candidates, voters, err
}

// ImportCandidates writes the rows whose name (trimmed, case-insensitive) is
// not already taken, either in the store or earlier in the same batch. Rows
// that fail validation are dropped and counted as skipped.
func (s *Store) ImportCandidates(ctx context.Context, rows []CandidateInput) (models.ImportResult, error) {
	var result models.ImportResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var names []string
		if err := tx.Model(&models.Candidate{}).Pluck("name", &names).Error; err != nil {
			return fmt.Errorf("read candidate names: %w", err)
		}
		seen := make(map[string]struct{}, len(names)+len(rows))
		for _, n := range names {
			seen[strings.ToLower(strings.TrimSpace(n))] = struct{}{}
		}

		var batch []models.Candidate
		for _, row := range rows {
			row = row.normalize()
			if err := s.validate.Struct(row); err != nil {
				result.SkippedCount++
				continue
			}
			key := strings.ToLower(row.Name)
			if _, dup := seen[key]; dup {
				result.SkippedCount++
				continue
			}
			seen[key] = struct{}{}
			batch = append(batch, models.Candidate{
				ID:       uuid.NewString(),
				Name:     row.Name,
				Slogan:   row.Slogan,
				Vision:   row.Vision,
				Mission:  datatypes.JSONSlice[string](row.Mission),
				ImageURL: row.ImageURL,
			})
		}

		if len(batch) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(&batch, 100).Error; err != nil {
			return fmt.Errorf("insert candidates: %w", err)
		}
		result.ImportedCount = len(batch)
		return nil
	})
	if err != nil {
		return models.ImportResult{}, err
	}
	return result, nil
}
