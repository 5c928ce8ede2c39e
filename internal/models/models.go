package models

import (
	"time"

	"gorm.io/datatypes"
)

// SettingsID is the primary key of the single settings row.
const SettingsID = "system"

// Voter is a student allowed to cast one ballot, keyed by NIS.
// HasVoted, VoteTime and VotedFor are written only by the vote transaction
// (or reset together by bulk deletes).
type Voter struct {
	NIS       string     `gorm:"primaryKey;column:nis;size:32" json:"nis"`
	Name      string     `gorm:"not null" json:"name"`
	Class     string     `gorm:"column:class;not null;index" json:"class"`
	Password  string     `gorm:"not null" json:"password,omitempty"`
	HasVoted  bool       `gorm:"not null;default:false;index" json:"hasVoted"`
	VoteTime  *time.Time `json:"voteTime"`
	VotedFor  *string    `gorm:"size:64;index" json:"votedFor"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (Voter) TableName() string { return "voters" }

// Public returns a copy without the password, for responses sent to students.
func (v Voter) Public() Voter {
	v.Password = ""
	return v
}

// Candidate is one ticket on the ballot. Votes is maintained by the vote
// transaction and is never set directly by edits.
type Candidate struct {
	ID        string                      `gorm:"primaryKey;size:64" json:"id"`
	Name      string                      `gorm:"not null" json:"name"`
	Slogan    string                      `gorm:"not null" json:"slogan"`
	Vision    string                      `gorm:"type:text" json:"vision"`
	Mission   datatypes.JSONSlice[string] `json:"mission"`
	ImageURL  string                      `gorm:"column:image_url" json:"imageUrl"`
	Votes     int                         `gorm:"not null;default:0;check:votes >= 0" json:"votes"`
	CreatedAt time.Time                   `json:"createdAt"`
	UpdatedAt time.Time                   `json:"updatedAt"`
}

func (Candidate) TableName() string { return "candidates" }

// SystemSettings holds the voting window and the admin kill-switch.
type SystemSettings struct {
	ID             string    `gorm:"primaryKey;size:16" json:"-"`
	StartDate      time.Time `gorm:"not null" json:"startDate"`
	EndDate        time.Time `gorm:"not null" json:"endDate"`
	IsVotingActive bool      `gorm:"not null" json:"isVotingActive"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (SystemSettings) TableName() string { return "settings" }

// InWindow reports whether t lies within [StartDate, EndDate].
func (s SystemSettings) InWindow(t time.Time) bool {
	return !t.Before(s.StartDate) && !t.After(s.EndDate)
}

// IsOpen reports whether a vote cast at t would pass the precondition checks.
func (s SystemSettings) IsOpen(t time.Time) bool {
	return s.IsVotingActive && s.InWindow(t)
}

// AdminUser is an operator of the admin dashboard.
type AdminUser struct {
	Username  string     `gorm:"primaryKey;size:64" json:"username"`
	Password  string     `gorm:"not null" json:"password,omitempty"`
	Name      string     `gorm:"not null" json:"name"`
	Role      string     `gorm:"not null" json:"role"`
	Active    bool       `gorm:"not null" json:"active"`
	LastLogin *time.Time `json:"lastLogin"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (AdminUser) TableName() string { return "admin_users" }

// All lists every model for AutoMigrate.
func All() []interface{} {
	return []interface{}{&Voter{}, &Candidate{}, &SystemSettings{}, &AdminUser{}}
}
