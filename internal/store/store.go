// Package store is the data-access layer over the record store (Postgres or
// SQLite through GORM). The vote transaction lives in vote.go; everything
// else is single-record CRUD or batched bulk writes.
package store

import (
	"errors"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Vote errors are shown to students as-is.
var (
	ErrVotingClosed     = errors.New("Sesi pemilihan telah ditutup.")
	ErrOutsideWindow    = errors.New("Pemilihan belum dimulai atau sudah berakhir.")
	ErrVoterNotFound    = errors.New("Pemilih tidak ditemukan.")
	ErrAlreadyVoted     = errors.New("Anda sudah memberikan suara sebelumnya.")
	ErrInvalidCandidate = errors.New("Kandidat tidak valid.")

	ErrCandidateNotFound  = errors.New("candidate not found")
	ErrAdminNotFound      = errors.New("admin user not found")
	ErrAdminInactive      = errors.New("admin account is not active")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordRequired   = errors.New("password is required")
	ErrInvalidWindow      = errors.New("start date must not be after end date")
	ErrLastAdmin          = errors.New("cannot remove the last active admin")
	ErrDuplicate          = errors.New("record already exists")
)

// Reason returns a stable machine-readable code for the vote errors, or ""
// for anything else.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrVotingClosed):
		return "voting_closed"
	case errors.Is(err, ErrOutsideWindow):
		return "outside_window"
	case errors.Is(err, ErrVoterNotFound):
		return "voter_not_found"
	case errors.Is(err, ErrAlreadyVoted):
		return "already_voted"
	case errors.Is(err, ErrInvalidCandidate):
		return "invalid_candidate"
	}
	return ""
}

type Store struct {
	db       *gorm.DB
	validate *validator.Validate

	// Now is the server clock used for the voting window and vote timestamps.
	Now func() time.Time
}

func New(db *gorm.DB) *Store {
	return &Store{
		db:       db,
		validate: validator.New(),
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

// DB exposes the underlying handle for health checks.
func (s *Store) DB() *gorm.DB { return s.db }

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func percentage(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*10000) / 100
}

var allRows = &gorm.Session{AllowGlobalUpdate: true}

// unvoted is the column set that returns a voter to the unvoted state.
func unvoted() map[string]interface{} {
	return map[string]interface{}{
		"has_voted": false,
		"voted_for": nil,
		"vote_time": nil,
	}
}
