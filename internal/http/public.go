package http

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/antamassora-jpg/e-vote-smkn2-tantor/internal/content"
	"github.com/antamassora-jpg/e-vote-smkn2-tantor/internal/models"
)

// candidateView adds the legacy platform text next to the structured fields.
type candidateView struct {
	models.Candidate
	Platform string `json:"platform"`
}

func viewOf(c models.Candidate) candidateView {
	return candidateView{Candidate: c, Platform: c.Platform()}
}

func (e *Env) Health(c *gin.Context) {
	sqlDB, err := e.Store.DB().DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		log.Printf("Health check failed: %v", err)
		fail(c, http.StatusServiceUnavailable, "Database unavailable", nil)
		return
	}
	respond(c, http.StatusOK, "OK", gin.H{"hubClients": e.Hub.Clients()})
}

func (e *Env) ListCandidates(c *gin.Context) {
	candidates, err := e.Store.ListCandidates(c.Request.Context())
	if err != nil {
		storeError(c, err, "to fetch candidates")
		return
	}
	views := make([]candidateView, 0, len(candidates))
	for _, cand := range candidates {
		views = append(views, viewOf(cand))
	}
	respond(c, http.StatusOK, "Candidates fetched", views)
}

func (e *Env) GetCandidate(c *gin.Context) {
	cand, err := e.Store.GetCandidate(c.Request.Context(), c.Param("id"))
	if err != nil {
		storeError(c, err, "to fetch candidate")
		return
	}
	respond(c, http.StatusOK, "Candidate fetched", viewOf(cand))
}

func (e *Env) GetResults(c *gin.Context) {
	res, err := e.Store.Results(c.Request.Context())
	if err != nil {
		storeError(c, err, "to fetch results")
		return
	}
	respond(c, http.StatusOK, "Results fetched", res)
}

type settingsView struct {
	models.SystemSettings
	IsOpen     bool      `json:"isOpen"`
	ServerTime time.Time `json:"serverTime"`
}

func (e *Env) settingsView(s models.SystemSettings) settingsView {
	now := e.Store.Now()
	return settingsView{SystemSettings: s, IsOpen: s.IsOpen(now), ServerTime: now}
}

func (e *Env) GetSettings(c *gin.Context) {
	s, err := e.Store.GetSettings(c.Request.Context())
	if err != nil {
		storeError(c, err, "to fetch settings")
		return
	}
	respond(c, http.StatusOK, "Settings fetched", e.settingsView(s))
}

func (e *Env) GetNews(c *gin.Context) {
	respond(c, http.StatusOK, "News fetched", content.News())
}

func (e *Env) GetTimeline(c *gin.Context) {
	respond(c, http.StatusOK, "Timeline fetched", content.Timeline())
}
