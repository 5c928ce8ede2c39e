package http

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/antamassora-jpg/e-vote-smkn2-tantor/internal/auth"
	"github.com/antamassora-jpg/e-vote-smkn2-tantor/internal/store"
)

type StudentLoginInput struct {
	NIS      string `json:"nis" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AdminLoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type VoteInput struct {
	CandidateID string `json:"candidateId" binding:"required"`
}

type sessionView struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      interface{} `json:"user"`
}

func (e *Env) StudentLogin(c *gin.Context) {
	var input StudentLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badInput(c, err)
		return
	}

	voter, err := e.Store.AuthenticateVoter(c.Request.Context(), input.NIS, input.Password)
	if err != nil {
		storeError(c, err, "to log in")
		return
	}
	token, expires, err := e.Auth.Issue(auth.RoleStudent, voter.NIS, voter.Name)
	if err != nil {
		storeError(c, err, "to issue session")
		return
	}
	respond(c, http.StatusOK, "Login successful", sessionView{Token: token, ExpiresAt: expires, User: voter.Public()})
}

func (e *Env) AdminLogin(c *gin.Context) {
	var input AdminLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badInput(c, err)
		return
	}

	admin, err := e.Store.AuthenticateAdmin(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		storeError(c, err, "to log in")
		return
	}
	token, expires, err := e.Auth.Issue(auth.RoleAdmin, admin.Username, admin.Name)
	if err != nil {
		storeError(c, err, "to issue session")
		return
	}
	log.Printf("Admin %s logged in", admin.Username)
	respond(c, http.StatusOK, "Login successful", sessionView{Token: token, ExpiresAt: expires, User: admin})
}

// Me returns the logged-in student and whether a vote would be accepted now.
func (e *Env) Me(c *gin.Context) {
	ctx := c.Request.Context()
	voter, err := e.Store.GetVoter(ctx, sessionFrom(c).Subject)
	if err != nil {
		storeError(c, err, "to fetch voter")
		return
	}

	settings, windowErr := e.Store.CheckWindow(ctx)
	if windowErr != nil && store.Reason(windowErr) == "" {
		storeError(c, windowErr, "to fetch settings")
		return
	}
	respond(c, http.StatusOK, "Voter fetched", gin.H{
		"voter":    voter.Public(),
		"settings": e.settingsView(settings),
		"reason":   store.Reason(windowErr),
	})
}

// SubmitVote casts the session's single vote. The voter is always the
// token's subject, never a value from the body.
func (e *Env) SubmitVote(c *gin.Context) {
	var input VoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badInput(c, err)
		return
	}
	nis := sessionFrom(c).Subject

	receipt, err := e.Store.SubmitVote(c.Request.Context(), nis, input.CandidateID)
	if err != nil {
		if reason := store.Reason(err); reason != "" {
			log.Printf("Vote refused for %s -> %s: %s", nis, input.CandidateID, reason)
		}
		storeError(c, err, "to record vote")
		return
	}

	log.Printf("Vote recorded for %s -> %s (now %d)", nis, input.CandidateID, receipt.Votes)
	e.Hub.Publish("vote", gin.H{"candidateId": receipt.CandidateID, "votes": receipt.Votes})
	respond(c, http.StatusOK, "Suara berhasil direkam!", receipt)
}
