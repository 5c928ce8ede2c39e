package store

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/antamassora-jpg/e-vote-smkn2-tantor/internal/models"
)

// VoterInput is what an admin may set on a voter. Vote status is not part of it.
type VoterInput struct {
	NIS      string `json:"nis" validate:"required"`
	Name     string `json:"name" binding:"required" validate:"required"`
	Class    string `json:"class" binding:"required" validate:"required"`
	Password string `json:"password"`
}

func (in VoterInput) normalize() VoterInput {
	in.NIS = strings.TrimSpace(in.NIS)
	in.Name = strings.TrimSpace(in.Name)
	in.Class = strings.TrimSpace(in.Class)
	in.Password = strings.TrimSpace(in.Password)
	return in
}

// VoterFilter narrows ListVoters. Zero values match everything.
type VoterFilter struct {
	Class string
	Voted *bool
}

func (s *Store) ListVoters(ctx context.Context, f VoterFilter) ([]models.Voter, error) {
	q := s.db.WithContext(ctx).Model(&models.Voter{})
	if f.Class != "" {
		q = q.Where("class = ?", f.Class)
	}
	if f.Voted != nil {
		q = q.Where("has_voted = ?", *f.Voted)
	}

	var voters []models.Voter
	if err := q.Order("class asc").Order("name asc").Find(&voters).Error; err != nil {
		return nil, fmt.Errorf("list voters: %w", err)
	}
	return voters, nil
}

func (s *Store) GetVoter(ctx context.Context, nis string) (models.Voter, error) {
	var v models.Voter
	err := s.db.WithContext(ctx).Where("nis = ?", nis).Take(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return v, ErrVoterNotFound
	}
	if err != nil {
		return v, fmt.Errorf("get voter: %w", err)
	}
	return v, nil
}

// SaveVoter creates or updates a voter's name, class and password. Vote
// status on an existing voter is left exactly as it was. A blank password
// defaults to the NIS on create and keeps the old one on update.
func (s *Store) SaveVoter(ctx context.Context, in VoterInput) (models.Voter, error) {
	in = in.normalize()
	if err := s.validate.Struct(in); err != nil {
		return models.Voter{}, err
	}

	var saved models.Voter
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Voter
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("nis = ?", in.NIS).Take(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			saved = models.Voter{NIS: in.NIS, Name: in.Name, Class: in.Class, Password: in.Password}
			if saved.Password == "" {
				saved.Password = in.NIS
			}
			if err := tx.Create(&saved).Error; err != nil {
				if isDuplicate(err) {
					return ErrDuplicate
				}
				return fmt.Errorf("create voter: %w", err)
			}
			return nil
		case err != nil:
			return fmt.Errorf("read voter: %w", err)
		}

		updates := map[string]interface{}{"name": in.Name, "class": in.Class}
		if in.Password != "" {
			updates["password"] = in.Password
		}
		if err := tx.Model(&models.Voter{}).Where("nis = ?", in.NIS).Updates(updates).Error; err != nil {
			return fmt.Errorf("update voter: %w", err)
		}
		return tx.Where("nis = ?", in.NIS).Take(&saved).Error
	})
	return saved, err
}

// DeleteVoter removes one voter. If the voter had voted, the candidate's
// counter is decremented in the same transaction.
func (s *Store) DeleteVoter(ctx context.Context, nis string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var v models.Voter
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("nis = ?", nis).Take(&v).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVoterNotFound
		}
		if err != nil {
			return fmt.Errorf("read voter: %w", err)
		}

		if v.HasVoted && v.VotedFor != nil {
			err := tx.Model(&models.Candidate{}).
				Where("id = ? AND votes > 0", *v.VotedFor).
				Update("votes", gorm.Expr("votes - 1")).Error
			if err != nil {
				return fmt.Errorf("decrement candidate votes: %w", err)
			}
		}

		if err := tx.Where("nis = ?", nis).Delete(&models.Voter{}).Error; err != nil {
			return fmt.Errorf("delete voter: %w", err)
		}
		return nil
	})
}

// DeleteAllVoters removes every voter and zeroes every candidate counter.
func (s *Store) DeleteAllVoters(ctx context.Context) (int64, error) {
	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Session(allRows).Delete(&models.Voter{})
		if res.Error != nil {
			return fmt.Errorf("delete voters: %w", res.Error)
		}
		deleted = res.RowsAffected

		if err := tx.Session(allRows).Model(&models.Candidate{}).Update("votes", 0).Error; err != nil {
			return fmt.Errorf("reset candidate votes: %w", err)
		}
		return nil
	})
	return deleted, err
}

// ImportVoters writes rows whose NIS is not already present, either in the
// store or earlier in the batch. A blank password defaults to the NIS.
func (s *Store) ImportVoters(ctx context.Context, rows []VoterInput) (models.ImportResult, error) {
	var result models.ImportResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []string
		if err := tx.Model(&models.Voter{}).Pluck("nis", &existing).Error; err != nil {
			return fmt.Errorf("read voter ids: %w", err)
		}
		seen := make(map[string]struct{}, len(existing)+len(rows))
		for _, nis := range existing {
			seen[nis] = struct{}{}
		}

		var batch []models.Voter
		for _, row := range rows {
			row = row.normalize()
			if err := s.validate.Struct(row); err != nil {
				result.SkippedCount++
				continue
			}
			if _, dup := seen[row.NIS]; dup {
				result.SkippedCount++
				continue
			}
			seen[row.NIS] = struct{}{}

			password := row.Password
			if password == "" {
				password = row.NIS
			}
			batch = append(batch, models.Voter{NIS: row.NIS, Name: row.Name, Class: row.Class, Password: password})
		}

		if len(batch) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(&batch, 200).Error; err != nil {
			return fmt.Errorf("insert voters: %w", err)
		}
		result.ImportedCount = len(batch)
		return nil
	})
	if err != nil {
		return models.ImportResult{}, err
	}
	return result, nil
}

// AuthenticateVoter checks a student's NIS and plain-text password.
func (s *Store) AuthenticateVoter(ctx context.Context, nis, password string) (models.Voter, error) {
	v, err := s.GetVoter(ctx, strings.TrimSpace(nis))
	if errors.Is(err, ErrVoterNotFound) {
		return v, ErrInvalidCredentials
	}
	if err != nil {
		return v, err
	}
	if !samePassword(v.Password, password) {
		return models.Voter{}, ErrInvalidCredentials
	}
	return v, nil
}

func samePassword(stored, given string) bool {
	a := []byte(strings.TrimSpace(stored))
	b := []byte(strings.TrimSpace(given))
	return subtle.ConstantTimeCompare(a, b) == 1
}
