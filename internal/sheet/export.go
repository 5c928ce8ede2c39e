package sheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/antamassora-jpg/e-vote-smkn2-tantor/internal/models"
)

const (
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	voterSheet     = "Data Pemilih"
	candidateSheet = "Data Kandidat"
)

var (
	voterHeader     = []string{"NIS", "Nama", "Kelas", "Password", "Status Memilih", "Waktu Memilih"}
	candidateHeader = []string{"id", "name", "slogan", "imageUrl", "vision", "mission", "votes"}
)

// WriteVoters writes the voter list as a workbook whose first four columns
// are the ones VoterRows reads back.
func WriteVoters(w io.Writer, voters []models.Voter) error {
	rows := make([][]interface{}, 0, len(voters))
	for _, v := range voters {
		status, voted := "Belum Memilih", ""
		if v.HasVoted {
			status = "Sudah Memilih"
		}
		if v.VoteTime != nil {
			voted = v.VoteTime.Format("2006-01-02 15:04:05")
		}
		rows = append(rows, []interface{}{v.NIS, v.Name, v.Class, v.Password, status, voted})
	}
	return writeWorkbook(w, voterSheet, voterHeader, rows)
}

// WriteCandidates writes candidates in the layout CandidateRows reads, one
// mission item per line of the mission cell.
func WriteCandidates(w io.Writer, candidates []models.Candidate) error {
	rows := make([][]interface{}, 0, len(candidates))
	for _, c := range candidates {
		rows = append(rows, []interface{}{
			c.ID, c.Name, c.Slogan, c.ImageURL, c.Vision, strings.Join(c.Mission, "\n"), c.Votes,
		})
	}
	return writeWorkbook(w, candidateSheet, candidateHeader, rows)
}

func writeWorkbook(w io.Writer, sheet string, header []string, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("name worksheet: %w", err)
	}

	head := make([]interface{}, len(header))
	for i, h := range header {
		head[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", last, 20); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
