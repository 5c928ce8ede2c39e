package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/antamassora-jpg/e-vote-smkn2-tantor/internal/sheet"
	"github.com/antamassora-jpg/e-vote-smkn2-tantor/internal/store"
)

const maxImportBytes = 10 << 20

func (e *Env) GetStats(c *gin.Context) {
	st, err := e.Store.Stats(c.Request.Context())
	if err != nil {
		storeError(c, err, "to fetch stats")
		return
	}
	respond(c, http.StatusOK, "Stats fetched", st)
}

// --- Candidates ---

func (e *Env) CreateCandidate(c *gin.Context) {
	var input store.CandidateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badInput(c, err)
		return
	}
	cand, err := e.Store.SaveCandidate(c.Request.Context(), "", input)
	if err != nil {
		storeError(c, err, "to create candidate")
		return
	}
	e.Hub.Publish("candidates", gin.H{"id": cand.ID})
	respond(c, http.StatusCreated, "Candidate created", viewOf(cand))
}

func (e *Env) UpdateCandidate(c *gin.Context) {
	var input store.CandidateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badInput(c, err)
		return
	}
	cand, err := e.Store.SaveCandidate(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		storeError(c, err, "to update candidate")
		return
	}
	e.Hub.Publish("candidates", gin.H{"id": cand.ID})
	respond(c, http.StatusOK, "Candidate updated", viewOf(cand))
}

func (e *Env) DeleteCandidate(c *gin.Context) {
	id := c.Param("id")
	reset, err := e.Store.DeleteCandidate(c.Request.Context(), id)
	if err != nil {
		storeError(c, err, "to delete candidate")
		return
	}
	e.Hub.Publish("reset", gin.H{"candidateId": id, "resetVoters": reset})
	respond(c, http.StatusOK, "Candidate deleted", gin.H{"resetVoters": reset})
}

func (e *Env) DeleteAllCandidates(c *gin.Context) {
	deleted, reset, err := e.Store.DeleteAllCandidates(c.Request.Context())
	if err != nil {
		storeError(c, err, "to delete candidates")
		return
	}
	e.Hub.Publish("reset", gin.H{"deletedCandidates": deleted, "resetVoters": reset})
	respond(c, http.StatusOK, "All candidates deleted and voter status reset", gin.H{
		"deletedCandidates": deleted,
		"resetVoters":       reset,
	})
}

func (e *Env) ImportCandidates(c *gin.Context) {
	rows, err := importRows(c)
	if err != nil {
		badInput(c, err)
		return
	}
	res, err := e.Store.ImportCandidates(c.Request.Context(), sheet.CandidateRows(rows))
	if err != nil {
		storeError(c, err, "to import candidates")
		return
	}
	if res.ImportedCount > 0 {
		e.Hub.Publish("candidates", res)
	}
	respond(c, http.StatusOK, fmt.Sprintf("%d candidates imported", res.ImportedCount), res)
}

func (e *Env) ExportCandidates(c *gin.Context) {
	candidates, err := e.Store.ListCandidates(c.Request.Context())
	if err != nil {
		storeError(c, err, "to fetch candidates")
		return
	}
	var buf bytes.Buffer
	if err := sheet.WriteCandidates(&buf, candidates); err != nil {
		storeError(c, err, "to export candidates")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="data-kandidat.xlsx"`)
	c.Data(http.StatusOK, sheet.XLSXContentType, buf.Bytes())
}

// --- Voters ---

func (e *Env) ListVoters(c *gin.Context) {
	filter := store.VoterFilter{Class: c.Query("class")}
	if raw := c.Query("voted"); raw != "" {
		voted, err := strconv.ParseBool(raw)
		if err != nil {
			fail(c, http.StatusBadRequest, "Invalid voted filter", nil)
			return
		}
		filter.Voted = &voted
	}

	voters, err := e.Store.ListVoters(c.Request.Context(), filter)
	if err != nil {
		storeError(c, err, "to fetch voters")
		return
	}
	respond(c, http.StatusOK, "Voters fetched", voters)
}

func (e *Env) SaveVoter(c *gin.Context) {
	var input store.VoterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badInput(c, err)
		return
	}
	input.NIS = c.Param("nis")

	voter, err := e.Store.SaveVoter(c.Request.Context(), input)
	if err != nil {
		storeError(c, err, "to save voter")
		return
	}
	respond(c, http.StatusOK, "Voter saved", voter)
}

func (e *Env) DeleteVoter(c *gin.Context) {
	if err := e.Store.DeleteVoter(c.Request.Context(), c.Param("nis")); err != nil {
		storeError(c, err, "to delete voter")
		return
	}
	e.Hub.Publish("reset", gin.H{"nis": c.Param("nis")})
	respond(c, http.StatusOK, "Voter deleted", nil)
}

func (e *Env) DeleteAllVoters(c *gin.Context) {
	deleted, err := e.Store.DeleteAllVoters(c.Request.Context())
	if err != nil {
		storeError(c, err, "to delete voters")
		return
	}
	e.Hub.Publish("reset", gin.H{"deletedVoters": deleted})
	respond(c, http.StatusOK, "All voters deleted", gin.H{"deletedVoters": deleted})
}

func (e *Env) ImportVoters(c *gin.Context) {
	rows, err := importRows(c)
	if err != nil {
		badInput(c, err)
		return
	}
	res, err := e.Store.ImportVoters(c.Request.Context(), sheet.VoterRows(rows))
	if err != nil {
		storeError(c, err, "to import voters")
		return
	}
	respond(c, http.StatusOK, fmt.Sprintf("%d voters imported", res.ImportedCount), res)
}

// ExportVoters writes every voter, passwords included, as a workbook the
// voter import accepts.
func (e *Env) ExportVoters(c *gin.Context) {
	voters, err := e.Store.ListVoters(c.Request.Context(), store.VoterFilter{})
	if err != nil {
		storeError(c, err, "to fetch voters")
		return
	}
	var buf bytes.Buffer
	if err := sheet.WriteVoters(&buf, voters); err != nil {
		storeError(c, err, "to export voters")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="data-pemilih.xlsx"`)
	c.Data(http.StatusOK, sheet.XLSXContentType, buf.Bytes())
}

// importRows reads an import body: a workbook or CSV sent raw, the same
// uploaded in the "file" form field, or a JSON array of row objects.
func importRows(c *gin.Context) ([]map[string]string, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes)

	switch c.ContentType() {
	case "text/csv", "text/plain", sheet.XLSXContentType, "application/octet-stream":
		return sheet.Read(c.Request.Body)
	case "multipart/form-data":
		fh, err := c.FormFile("file")
		if err != nil {
			return nil, err
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return sheet.Read(f)
	}

	var raw []map[string]interface{}
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("expected a spreadsheet or a JSON array of rows: %w", err)
	}
	rows := make([]map[string]string, 0, len(raw))
	for _, obj := range raw {
		row := make(map[string]string, len(obj))
		for k, v := range obj {
			switch val := v.(type) {
			case nil:
				row[k] = ""
			case string:
				row[k] = val
			case json.Number:
				row[k] = val.String()
			default:
				row[k] = fmt.Sprint(val)
			}
		}
		rows = append(rows, row)
	}
	return sheet.Lower(rows), nil
}

// --- Settings and results ---

func (e *Env) UpdateSettings(c *gin.Context) {
	var input store.SettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badInput(c, err)
		return
	}
	s, err := e.Store.UpdateSettings(c.Request.Context(), input)
	if err != nil {
		storeError(c, err, "to update settings")
		return
	}
	view := e.settingsView(s)
	e.Hub.Publish("settings", view)
	respond(c, http.StatusOK, "Settings updated", view)
}

func (e *Env) ExportResults(c *gin.Context) {
	res, err := e.Store.Results(c.Request.Context())
	if err != nil {
		storeError(c, err, "to fetch results")
		return
	}
	var buf bytes.Buffer
	if err := sheet.WriteResults(&buf, res); err != nil {
		storeError(c, err, "to export results")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="hasil-pemilihan-osis.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// --- Admin users ---

func (e *Env) ListAdmins(c *gin.Context) {
	admins, err := e.Store.ListAdmins(c.Request.Context())
	if err != nil {
		storeError(c, err, "to fetch admin users")
		return
	}
	respond(c, http.StatusOK, "Admin users fetched", admins)
}

func (e *Env) SaveAdmin(c *gin.Context) {
	var input store.AdminInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badInput(c, err)
		return
	}
	input.Username = c.Param("username")

	admin, err := e.Store.SaveAdmin(c.Request.Context(), input)
	if err != nil {
		storeError(c, err, "to save admin user")
		return
	}
	respond(c, http.StatusOK, "Admin user saved", admin)
}

func (e *Env) DeleteAdmin(c *gin.Context) {
	username := c.Param("username")
	if username == sessionFrom(c).Subject {
		fail(c, http.StatusConflict, "cannot delete the account you are logged in with", nil)
		return
	}
	if err := e.Store.DeleteAdmin(c.Request.Context(), username); err != nil {
		storeError(c, err, "to delete admin user")
		return
	}
	respond(c, http.StatusOK, "Admin user deleted", nil)
}
