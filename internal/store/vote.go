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

// VoteReceipt describes a committed vote.
type VoteReceipt struct {
	NIS         string    `json:"nis"`
	CandidateID string    `json:"candidateId"`
	Votes       int       `json:"votes"`
	VoteTime    time.Time `json:"voteTime"`
}

// CheckWindow returns the current settings, or ErrVotingClosed /
// ErrOutsideWindow when a vote submitted now would be refused.
func (s *Store) CheckWindow(ctx context.Context) (models.SystemSettings, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return settings, err
	}
	if !settings.IsVotingActive {
		return settings, ErrVotingClosed
	}
	if !settings.InWindow(s.Now()) {
		return settings, ErrOutsideWindow
	}
	return settings, nil
}

// SubmitVote records nis's single vote for candidateID.
//
// The window is checked first without a transaction. The voter and candidate
// rows are then read FOR UPDATE inside one transaction, hasVoted is re-checked,
// and both writes commit together or not at all. The voter update is
// additionally conditioned on has_voted = false, so a racing submission that
// slipped past the read still cannot mark the voter twice.
func (s *Store) SubmitVote(ctx context.Context, nis, candidateID string) (VoteReceipt, error) {
	if _, err := s.CheckWindow(ctx); err != nil {
		return VoteReceipt{}, err
	}

	var receipt VoteReceipt
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var voter models.Voter
		voterErr := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("nis = ?", nis).Take(&voter).Error
		if voterErr != nil && !errors.Is(voterErr, gorm.ErrRecordNotFound) {
			return fmt.Errorf("read voter: %w", voterErr)
		}

		var candidate models.Candidate
		candidateErr := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", candidateID).Take(&candidate).Error
		if candidateErr != nil && !errors.Is(candidateErr, gorm.ErrRecordNotFound) {
			return fmt.Errorf("read candidate: %w", candidateErr)
		}

		if voterErr != nil {
			return ErrVoterNotFound
		}
		if voter.HasVoted {
			return ErrAlreadyVoted
		}
		if candidateErr != nil {
			return ErrInvalidCandidate
		}

		now := s.Now()
		res := tx.Model(&models.Voter{}).
			Where("nis = ? AND has_voted = ?", nis, false).
			Updates(map[string]interface{}{
				"has_voted": true,
				"voted_for": candidateID,
				"vote_time": now,
			})
		if res.Error != nil {
			return fmt.Errorf("update voter: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyVoted
		}

		votes := candidate.Votes + 1
		if err := tx.Model(&models.Candidate{}).Where("id = ?", candidateID).Update("votes", votes).Error; err != nil {
			return fmt.Errorf("update candidate votes: %w", err)
		}

		receipt = VoteReceipt{NIS: nis, CandidateID: candidateID, Votes: votes, VoteTime: now}
		return nil
	})
	if err != nil {
		return VoteReceipt{}, err
	}
	return receipt, nil
}
