package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/antamassora-jpg/e-vote-smkn2-tantor/internal/auth"
	"github.com/antamassora-jpg/e-vote-smkn2-tantor/internal/config"
	"github.com/antamassora-jpg/e-vote-smkn2-tantor/internal/db"
	"github.com/antamassora-jpg/e-vote-smkn2-tantor/internal/sheet"
	"github.com/antamassora-jpg/e-vote-smkn2-tantor/internal/store"
	"github.com/antamassora-jpg/e-vote-smkn2-tantor/internal/ws"
)

var testNow = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

func testConfig() config.Config {
	return config.Config{
		CORSOrigin:     "*",
		SessionTTL:     time.Hour,
		LoginRateRPS:   1000,
		LoginRateBurst: 1000,
		VoteRateRPS:    1000,
		VoteRateBurst:  1000,
	}
}

func newTestServer(t *testing.T, cfg config.Config) (*gin.Engine, *Env) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := db.Init("sqlite://:memory:", "silent")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			sqlDB.Close()
		}
	})

	st := store.New(database)
	st.Now = func() time.Time { return testNow }
	if _, err := st.EnsureDefaultAdmin(context.Background()); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	hub := ws.NewHub()
	go hub.Run()

	env := &Env{Store: st, Hub: hub, Auth: auth.NewManager("test-secret", cfg.SessionTTL)}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	router := gin.New()
	SetupRoutes(ctx, router, env, cfg)
	return router, env
}

type envelope struct {
	Code    int             `json:"code"`
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, r http.Handler, method, path, token, contentType, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType == "" && body != "" {
		contentType = "application/json"
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: bad envelope %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w, env
}

func login(t *testing.T, r http.Handler, path, body string) string {
	t.Helper()
	w, env := do(t, r, http.MethodPost, path, "", "", body)
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d, body %s", path, w.Code, w.Body.String())
	}
	var data struct {
		Token string `json:"token"`
	}
	json.Unmarshal(env.Data, &data)
	if data.Token == "" {
		t.Fatalf("login %s: no token in %s", path, env.Data)
	}
	return data.Token
}

func adminToken(t *testing.T, r http.Handler) string {
	return login(t, r, "/api/auth/admin/login", `{"username":"admin","password":"12345"}`)
}

func reasonOf(t *testing.T, env envelope) string {
	t.Helper()
	var data struct {
		Reason string `json:"reason"`
	}
	json.Unmarshal(env.Data, &data)
	return data.Reason
}

func seed(t *testing.T, env *Env) string {
	t.Helper()
	ctx := context.Background()
	if _, err := env.Store.SaveVoter(ctx, store.VoterInput{NIS: "001", Name: "Ani", Class: "XII RPL 1"}); err != nil {
		t.Fatalf("seed voter: %v", err)
	}
	c, err := env.Store.SaveCandidate(ctx, "", store.CandidateInput{
		Name: "Paslon 1", Slogan: "Maju", Vision: "Unggul", Mission: []string{"Disiplin"},
	})
	if err != nil {
		t.Fatalf("seed candidate: %v", err)
	}
	return c.ID
}

func TestPublicEndpoints(t *testing.T) {
	r, env := newTestServer(t, testConfig())
	id := seed(t, env)

	tests := []struct {
		path string
		want int
	}{
		{"/health", http.StatusOK},
		{"/api/candidates", http.StatusOK},
		{"/api/candidates/" + id, http.StatusOK},
		{"/api/candidates/missing", http.StatusNotFound},
		{"/api/results", http.StatusOK},
		{"/api/settings", http.StatusOK},
		{"/api/news", http.StatusOK},
		{"/api/timeline", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w, env := do(t, r, http.MethodGet, tt.path, "", "", "")
			if w.Code != tt.want || env.Code != tt.want {
				t.Errorf("status = %d (envelope %d), want %d", w.Code, env.Code, tt.want)
			}
			if w.Header().Get("X-Content-Type-Options") != "nosniff" {
				t.Error("security headers missing")
			}
		})
	}

	_, envl := do(t, r, http.MethodGet, "/api/candidates/"+id, "", "", "")
	var cand struct {
		Platform string `json:"platform"`
	}
	json.Unmarshal(envl.Data, &cand)
	if cand.Platform != "Visi: Unggul\nMisi:\n- Disiplin" {
		t.Errorf("platform = %q", cand.Platform)
	}

	_, envl = do(t, r, http.MethodGet, "/api/settings", "", "", "")
	var settings struct {
		IsOpen bool `json:"isOpen"`
	}
	json.Unmarshal(envl.Data, &settings)
	if !settings.IsOpen {
		t.Error("default settings should be open")
	}
}

func TestStudentVoteFlow(t *testing.T) {
	r, env := newTestServer(t, testConfig())
	id := seed(t, env)

	if w, _ := do(t, r, http.MethodPost, "/api/auth/student/login", "", "", `{"nis":"001","password":"wrong"}`); w.Code != http.StatusUnauthorized {
		t.Errorf("wrong password status = %d, want 401", w.Code)
	}
	token := login(t, r, "/api/auth/student/login", `{"nis":"001","password":"001"}`)

	w, envl := do(t, r, http.MethodPost, "/api/vote", token, "", `{"candidateId":"`+id+`"}`)
	if w.Code != http.StatusOK || envl.Status != "success" {
		t.Fatalf("vote status = %d, body %s", w.Code, w.Body.String())
	}
	if envl.Message != "Suara berhasil direkam!" {
		t.Errorf("vote message = %q", envl.Message)
	}
	var receipt store.VoteReceipt
	json.Unmarshal(envl.Data, &receipt)
	if receipt.NIS != "001" || receipt.Votes != 1 {
		t.Errorf("receipt = %+v", receipt)
	}

	w, envl = do(t, r, http.MethodPost, "/api/vote", token, "", `{"candidateId":"`+id+`"}`)
	if w.Code != http.StatusConflict || reasonOf(t, envl) != "already_voted" {
		t.Errorf("second vote = %d %s", w.Code, w.Body.String())
	}
	if envl.Message != "Anda sudah memberikan suara sebelumnya." {
		t.Errorf("second vote message = %q", envl.Message)
	}

	w, envl = do(t, r, http.MethodGet, "/api/me", token, "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("me status = %d", w.Code)
	}
	var me struct {
		Voter struct {
			HasVoted bool   `json:"hasVoted"`
			Password string `json:"password"`
		} `json:"voter"`
	}
	json.Unmarshal(envl.Data, &me)
	if !me.Voter.HasVoted || me.Voter.Password != "" {
		t.Errorf("me = %+v", me)
	}
}

func TestVoteErrors(t *testing.T) {
	r, env := newTestServer(t, testConfig())
	seed(t, env)
	token := login(t, r, "/api/auth/student/login", `{"nis":"001","password":"001"}`)

	w, envl := do(t, r, http.MethodPost, "/api/vote", token, "", `{"candidateId":"nope"}`)
	if w.Code != http.StatusBadRequest || reasonOf(t, envl) != "invalid_candidate" {
		t.Errorf("unknown candidate = %d %s", w.Code, w.Body.String())
	}
	if envl.Message != "Kandidat tidak valid." {
		t.Errorf("unknown candidate message = %q", envl.Message)
	}
	if w, _ := do(t, r, http.MethodPost, "/api/vote", token, "", `{}`); w.Code != http.StatusBadRequest {
		t.Errorf("missing candidateId status = %d", w.Code)
	}

	// Voter deleted after login.
	if err := env.Store.DeleteVoter(context.Background(), "001"); err != nil {
		t.Fatal(err)
	}
	w, envl = do(t, r, http.MethodPost, "/api/vote", token, "", `{"candidateId":"nope"}`)
	if w.Code != http.StatusNotFound || reasonOf(t, envl) != "voter_not_found" {
		t.Errorf("deleted voter = %d %s", w.Code, w.Body.String())
	}
}

func TestVotingClosedByAdmin(t *testing.T) {
	r, env := newTestServer(t, testConfig())
	id := seed(t, env)
	admin := adminToken(t, r)
	student := login(t, r, "/api/auth/student/login", `{"nis":"001","password":"001"}`)

	body := `{"startDate":"2026-03-10T07:00:00Z","endDate":"2026-03-10T09:00:00Z","isVotingActive":false}`
	if w, _ := do(t, r, http.MethodPut, "/api/admin/settings", admin, "", body); w.Code != http.StatusOK {
		t.Fatalf("update settings status = %d, body %s", w.Code, w.Body.String())
	}
	w, envl := do(t, r, http.MethodPost, "/api/vote", student, "", `{"candidateId":"`+id+`"}`)
	if w.Code != http.StatusForbidden || reasonOf(t, envl) != "voting_closed" {
		t.Errorf("closed vote = %d %s", w.Code, w.Body.String())
	}

	body = `{"startDate":"2026-03-11T07:00:00Z","endDate":"2026-03-11T09:00:00Z","isVotingActive":true}`
	do(t, r, http.MethodPut, "/api/admin/settings", admin, "", body)
	w, envl = do(t, r, http.MethodPost, "/api/vote", student, "", `{"candidateId":"`+id+`"}`)
	if w.Code != http.StatusForbidden || reasonOf(t, envl) != "outside_window" {
		t.Errorf("outside window vote = %d %s", w.Code, w.Body.String())
	}

	body = `{"startDate":"2026-03-11T09:00:00Z","endDate":"2026-03-11T07:00:00Z","isVotingActive":true}`
	if w, _ := do(t, r, http.MethodPut, "/api/admin/settings", admin, "", body); w.Code != http.StatusBadRequest {
		t.Errorf("inverted window status = %d", w.Code)
	}
}

func TestConcurrentVotesOverHTTP(t *testing.T) {
	r, env := newTestServer(t, testConfig())
	id := seed(t, env)
	token := login(t, r, "/api/auth/student/login", `{"nis":"001","password":"001"}`)

	const attempts = 10
	var wg sync.WaitGroup
	var ok, conflict atomic.Int32
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/api/vote", strings.NewReader(`{"candidateId":"`+id+`"}`))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			switch w.Code {
			case http.StatusOK:
				ok.Add(1)
			case http.StatusConflict:
				conflict.Add(1)
			}
		}()
	}
	wg.Wait()

	if ok.Load() != 1 || conflict.Load() != attempts-1 {
		t.Errorf("ok = %d, conflict = %d; want 1 and %d", ok.Load(), conflict.Load(), attempts-1)
	}
	c, _ := env.Store.GetCandidate(context.Background(), id)
	if c.Votes != 1 {
		t.Errorf("votes = %d, want 1", c.Votes)
	}
}

func TestSessionGuards(t *testing.T) {
	r, env := newTestServer(t, testConfig())
	seed(t, env)
	admin := adminToken(t, r)
	student := login(t, r, "/api/auth/student/login", `{"nis":"001","password":"001"}`)

	expiredMgr := auth.NewManager("test-secret", -time.Minute)
	expired, _, _ := expiredMgr.Issue(auth.RoleAdmin, "admin", "Admin Utama")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"no token on admin route", http.MethodGet, "/api/admin/stats", "", http.StatusUnauthorized},
		{"expired token", http.MethodGet, "/api/admin/stats", expired, http.StatusUnauthorized},
		{"student on admin route", http.MethodGet, "/api/admin/stats", student, http.StatusForbidden},
		{"admin on ballot", http.MethodPost, "/api/vote", admin, http.StatusForbidden},
		{"no token on ballot", http.MethodPost, "/api/vote", "", http.StatusUnauthorized},
		{"admin on admin route", http.MethodGet, "/api/admin/stats", admin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := do(t, r, tt.method, tt.path, tt.token, "", "")
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestAdminImportAndExport(t *testing.T) {
	r, _ := newTestServer(t, testConfig())
	admin := adminToken(t, r)

	csvBody := "NIS,Nama,Kelas,Password\n001,Ani,XII RPL 1,\n002,Budi,XII RPL 1,rahasia\n001,Dup,XII RPL 1,\n003,,X,\n"
	w, envl := do(t, r, http.MethodPost, "/api/admin/voters/import", admin, "text/csv", csvBody)
	if w.Code != http.StatusOK {
		t.Fatalf("voter import status = %d, body %s", w.Code, w.Body.String())
	}
	var res struct {
		ImportedCount int `json:"importedCount"`
		SkippedCount  int `json:"skippedCount"`
	}
	json.Unmarshal(envl.Data, &res)
	if res.ImportedCount != 2 || res.SkippedCount != 2 {
		t.Errorf("voter import = %+v, want 2 imported 2 skipped", res)
	}
	login(t, r, "/api/auth/student/login", `{"nis":"002","password":"rahasia"}`)

	jsonBody := `[
		{"name":"Paslon 1","slogan":"Maju","vision":"Unggul","mission":"Disiplin, Kreatif"},
		{"Name":"paslon 1","slogan":"Dup","vision":"x","mission":"y"},
		{"name":"Paslon 2","slogan":"Satu","platform":"Visi: Jaya\nMisi:\n- A"}
	]`
	w, envl = do(t, r, http.MethodPost, "/api/admin/candidates/import", admin, "", jsonBody)
	if w.Code != http.StatusOK {
		t.Fatalf("candidate import status = %d, body %s", w.Code, w.Body.String())
	}
	json.Unmarshal(envl.Data, &res)
	if res.ImportedCount != 2 || res.SkippedCount != 1 {
		t.Errorf("candidate import = %+v, want 2 imported 1 skipped", res)
	}

	w, _ = do(t, r, http.MethodGet, "/api/admin/results/export", admin, "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("export status = %d", w.Code)
	}
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv") {
		t.Errorf("export content type = %q", w.Header().Get("Content-Type"))
	}
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[0], "ID Kandidat,") {
		t.Errorf("export = %q", w.Body.String())
	}

	w, envl = do(t, r, http.MethodGet, "/api/admin/voters?class=XII+RPL+1&voted=false", admin, "", "")
	var voters []json.RawMessage
	json.Unmarshal(envl.Data, &voters)
	if w.Code != http.StatusOK || len(voters) != 2 {
		t.Errorf("voters = %d, %d entries", w.Code, len(voters))
	}
}

func TestAdminCandidateLifecycle(t *testing.T) {
	r, env := newTestServer(t, testConfig())
	seed(t, env)
	admin := adminToken(t, r)
	student := login(t, r, "/api/auth/student/login", `{"nis":"001","password":"001"}`)

	w, envl := do(t, r, http.MethodPost, "/api/admin/candidates", admin, "", `{"name":"Paslon 2","slogan":"Satu","vision":"Jaya","mission":["A","B"]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}
	var created struct {
		ID    string `json:"id"`
		Votes int    `json:"votes"`
	}
	json.Unmarshal(envl.Data, &created)

	if w, _ := do(t, r, http.MethodPost, "/api/admin/candidates", admin, "", `{"name":"No mission","slogan":"x","vision":"x","mission":[]}`); w.Code != http.StatusBadRequest {
		t.Errorf("invalid candidate status = %d", w.Code)
	}

	do(t, r, http.MethodPost, "/api/vote", student, "", `{"candidateId":"`+created.ID+`"}`)

	w, _ = do(t, r, http.MethodPut, "/api/admin/candidates/"+created.ID, admin, "", `{"name":"Paslon Dua","slogan":"Satu","vision":"Jaya","mission":["A"],"votes":100}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d", w.Code)
	}
	c, _ := env.Store.GetCandidate(context.Background(), created.ID)
	if c.Votes != 1 || c.Name != "Paslon Dua" {
		t.Errorf("after update = %+v", c)
	}

	w, envl = do(t, r, http.MethodDelete, "/api/admin/candidates", admin, "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete all status = %d", w.Code)
	}
	v, _ := env.Store.GetVoter(context.Background(), "001")
	if v.HasVoted || v.VotedFor != nil {
		t.Errorf("voter not reset: %+v", v)
	}
}

func TestAdminUsers(t *testing.T) {
	r, _ := newTestServer(t, testConfig())
	admin := adminToken(t, r)

	if w, _ := do(t, r, http.MethodDelete, "/api/admin/users/admin", admin, "", ""); w.Code != http.StatusConflict {
		t.Errorf("self delete status = %d, want 409", w.Code)
	}
	if w, _ := do(t, r, http.MethodPut, "/api/admin/users/panitia", admin, "", `{"name":"Panitia","role":"Operator","password":"pw"}`); w.Code != http.StatusOK {
		t.Fatalf("create admin status = %d", w.Code)
	}
	login(t, r, "/api/auth/admin/login", `{"username":"panitia","password":"pw"}`)

	w, envl := do(t, r, http.MethodGet, "/api/admin/users", admin, "", "")
	if w.Code != http.StatusOK || strings.Contains(string(envl.Data), `"password":"`) {
		t.Errorf("list admins = %d %s", w.Code, envl.Data)
	}
	if w, _ := do(t, r, http.MethodDelete, "/api/admin/users/panitia", admin, "", ""); w.Code != http.StatusOK {
		t.Errorf("delete admin status = %d", w.Code)
	}
}

func TestLoginRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.LoginRateRPS = 0.001
	cfg.LoginRateBurst = 2
	r, _ := newTestServer(t, cfg)

	var last int
	for i := 0; i < 3; i++ {
		w, _ := do(t, r, http.MethodPost, "/api/auth/admin/login", "", "", `{"username":"admin","password":"nope"}`)
		last = w.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("third login status = %d, want 429", last)
	}
}

func TestVoteRateLimitPerSession(t *testing.T) {
	cfg := testConfig()
	cfg.VoteRateRPS = 0.001
	cfg.VoteRateBurst = 1
	r, env := newTestServer(t, cfg)
	id := seed(t, env)
	if _, err := env.Store.SaveVoter(context.Background(), store.VoterInput{NIS: "002", Name: "Budi", Class: "XII RPL 1"}); err != nil {
		t.Fatal(err)
	}
	ani := login(t, r, "/api/auth/student/login", `{"nis":"001","password":"001"}`)
	budi := login(t, r, "/api/auth/student/login", `{"nis":"002","password":"002"}`)

	if w, _ := do(t, r, http.MethodPost, "/api/vote", ani, "", `{"candidateId":"`+id+`"}`); w.Code != http.StatusOK {
		t.Fatalf("first vote status = %d", w.Code)
	}
	if w, _ := do(t, r, http.MethodPost, "/api/vote", ani, "", `{"candidateId":"`+id+`"}`); w.Code != http.StatusTooManyRequests {
		t.Errorf("repeat vote status = %d, want 429", w.Code)
	}
	// Same client IP, different session.
	if w, _ := do(t, r, http.MethodPost, "/api/vote", budi, "", `{"candidateId":"`+id+`"}`); w.Code != http.StatusOK {
		t.Errorf("other student's vote status = %d, want 200", w.Code)
	}
}

func TestJanitorStopsWithContext(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1)
	limiter.GetLimiter("192.0.2.1")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		limiter.janitor(ctx, time.Millisecond, 0)
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for limiter.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if limiter.Len() != 0 {
		t.Error("janitor did not clean idle visitors")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor still running after cancel")
	}
}

func TestSheetExportReimport(t *testing.T) {
	src, env := newTestServer(t, testConfig())
	id := seed(t, env)
	admin := adminToken(t, src)
	if _, err := env.Store.SaveVoter(context.Background(), store.VoterInput{NIS: "002", Name: "Budi", Class: "XI TKJ 2", Password: "rahasia"}); err != nil {
		t.Fatal(err)
	}
	student := login(t, src, "/api/auth/student/login", `{"nis":"001","password":"001"}`)
	do(t, src, http.MethodPost, "/api/vote", student, "", `{"candidateId":"`+id+`"}`)

	export := func(path, filename string) []byte {
		t.Helper()
		w, _ := do(t, src, http.MethodGet, path, admin, "", "")
		if w.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, w.Code)
		}
		if w.Header().Get("Content-Type") != sheet.XLSXContentType {
			t.Errorf("%s content type = %q", path, w.Header().Get("Content-Type"))
		}
		if !strings.Contains(w.Header().Get("Content-Disposition"), filename) {
			t.Errorf("%s disposition = %q", path, w.Header().Get("Content-Disposition"))
		}
		return w.Body.Bytes()
	}
	voters := export("/api/admin/voters/export", "data-pemilih.xlsx")
	candidates := export("/api/admin/candidates/export", "data-kandidat.xlsx")

	dst, dstEnv := newTestServer(t, testConfig())
	dstAdmin := adminToken(t, dst)

	imported := func(path string, body []byte) int {
		t.Helper()
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", sheet.XLSXContentType)
		req.Header.Set("Authorization", "Bearer "+dstAdmin)
		w := httptest.NewRecorder()
		dst.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("%s status = %d, body %s", path, w.Code, w.Body.String())
		}
		var envl struct {
			Data struct {
				ImportedCount int `json:"importedCount"`
				SkippedCount  int `json:"skippedCount"`
			} `json:"data"`
		}
		json.Unmarshal(w.Body.Bytes(), &envl)
		if envl.Data.SkippedCount != 0 {
			t.Errorf("%s skipped %d rows", path, envl.Data.SkippedCount)
		}
		return envl.Data.ImportedCount
	}
	if n := imported("/api/admin/voters/import", voters); n != 2 {
		t.Errorf("voters re-imported = %d, want 2", n)
	}
	if n := imported("/api/admin/candidates/import", candidates); n != 1 {
		t.Errorf("candidates re-imported = %d, want 1", n)
	}

	// Imported voters start unvoted and keep their passwords.
	login(t, dst, "/api/auth/student/login", `{"nis":"002","password":"rahasia"}`)
	v, err := dstEnv.Store.GetVoter(context.Background(), "001")
	if err != nil || v.HasVoted || v.Class != "XII RPL 1" {
		t.Errorf("re-imported voter = %+v, %v", v, err)
	}
	list, _ := dstEnv.Store.ListCandidates(context.Background())
	if len(list) != 1 || list[0].Votes != 0 || strings.Join(list[0].Mission, "|") != "Disiplin" {
		t.Errorf("re-imported candidates = %+v", list)
	}
}

func TestImportPositionalCSVUpload(t *testing.T) {
	r, env := newTestServer(t, testConfig())
	admin := adminToken(t, r)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, _ := mw.CreateFormFile("file", "siswa.csv")
	part.Write([]byte("Nomor Induk,Nama Siswa,Rombel,Sandi\n1001,Ani,XII RPL 1,\n1002,Budi,XII RPL 2,rahasia\n"))
	mw.Close()

	w, envl := do(t, r, http.MethodPost, "/api/admin/voters/import", admin, mw.FormDataContentType(), body.String())
	if w.Code != http.StatusOK {
		t.Fatalf("import status = %d, body %s", w.Code, w.Body.String())
	}
	var res struct {
		ImportedCount int `json:"importedCount"`
	}
	json.Unmarshal(envl.Data, &res)
	if res.ImportedCount != 2 {
		t.Errorf("imported = %d, want 2", res.ImportedCount)
	}
	v, err := env.Store.GetVoter(context.Background(), "1002")
	if err != nil || v.Name != "Budi" || v.Password != "rahasia" {
		t.Errorf("voter 1002 = %+v, %v", v, err)
	}
}
