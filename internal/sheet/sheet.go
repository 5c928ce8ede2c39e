// Package sheet turns uploaded spreadsheets (xlsx or CSV) into import rows
// and renders voters, candidates and results back out.
package sheet

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/antamassora-jpg/e-vote-smkn2-tantor/internal/models"
	"github.com/antamassora-jpg/e-vote-smkn2-tantor/internal/store"
)

var ErrNoHeader = errors.New("sheet has no header row")

var zipMagic = []byte("PK\x03\x04")

// Read parses an uploaded sheet. Workbooks (xlsx) are read from their first
// worksheet; anything else is treated as CSV.
func Read(r io.Reader) ([]map[string]string, error) {
	br := bufio.NewReader(r)
	if magic, _ := br.Peek(len(zipMagic)); bytes.Equal(magic, zipMagic) {
		return ReadXLSX(br)
	}
	return ReadRows(br)
}

// ReadRows parses CSV with a header row.
func ReadRows(r io.Reader) ([]map[string]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rowsFrom(records)
}

// ReadXLSX parses the first worksheet of a workbook with a header row.
func ReadXLSX(r io.Reader) ([]map[string]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoHeader
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read worksheet %q: %w", sheets[0], err)
	}
	return rowsFrom(records)
}

// Col is the key under which a row also carries its i-th cell, whatever the
// header above it says.
func Col(i int) string { return "#" + strconv.Itoa(i) }

// rowsFrom turns records into maps keyed by the trimmed, lower-cased header
// names and by Col(i). Blank records are skipped and short ones padded.
func rowsFrom(records [][]string) ([]map[string]string, error) {
	// Excel writes a "sep=," hint line before the header.
	if len(records) > 0 && len(records[0]) > 0 && strings.HasPrefix(strings.ToLower(records[0][0]), "sep=") {
		records = records[1:]
	}
	if len(records) == 0 {
		return nil, ErrNoHeader
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}

	var rows []map[string]string
	for _, record := range records[1:] {
		if blank(record) {
			continue
		}
		width := len(header)
		if len(record) > width {
			width = len(record)
		}
		row := make(map[string]string, 2*width)
		for i := 0; i < width; i++ {
			var cell string
			if i < len(record) {
				cell = strings.TrimSpace(record[i])
			}
			row[Col(i)] = cell
			if i < len(header) && header[i] != "" {
				row[header[i]] = cell
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Lower normalizes keys of JSON row objects the same way ReadRows does.
func Lower(rows []map[string]string) []map[string]string {
	out := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		m := make(map[string]string, len(row))
		for k, v := range row {
			m[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
		}
		out = append(out, m)
	}
	return out
}

func pick(row map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := row[k]; v != "" {
			return v
		}
	}
	return ""
}

// CandidateRows maps rows to candidate inputs. A row may carry vision and
// mission columns, or a single legacy platform column. Validation of the
// result is left to the store so rejected rows are counted as skipped.
func CandidateRows(rows []map[string]string) []store.CandidateInput {
	out := make([]store.CandidateInput, 0, len(rows))
	for _, row := range rows {
		in := store.CandidateInput{
			Name:     pick(row, "name", "nama"),
			Slogan:   pick(row, "slogan"),
			Vision:   pick(row, "vision", "visi"),
			Mission:  models.SplitMission(pick(row, "mission", "misi")),
			ImageURL: pick(row, "imageurl", "image_url", "image"),
		}
		if platform := pick(row, "platform"); platform != "" && in.Vision == "" && len(in.Mission) == 0 {
			in.Vision, in.Mission = models.ParsePlatform(platform)
		}
		out = append(out, in)
	}
	return out
}

// VoterRows maps rows to voter inputs. Rows whose headers name none of the
// voter columns are read by position: NIS, name, class, password. An empty
// password is filled with the NIS by the store.
func VoterRows(rows []map[string]string) []store.VoterInput {
	out := make([]store.VoterInput, 0, len(rows))
	for _, row := range rows {
		in := store.VoterInput{
			NIS:      pick(row, "nis"),
			Name:     pick(row, "name", "nama"),
			Class:    pick(row, "class", "kelas"),
			Password: pick(row, "password", "kata sandi"),
		}
		if in.NIS == "" && in.Name == "" && in.Class == "" {
			in = store.VoterInput{
				NIS:      row[Col(0)],
				Name:     row[Col(1)],
				Class:    row[Col(2)],
				Password: row[Col(3)],
			}
		}
		out = append(out, in)
	}
	return out
}

var resultsHeader = []string{"ID Kandidat", "Nama Kandidat", "Slogan", "Jumlah Suara", "Persentase Suara (%)"}

// WriteResults writes the results table as CSV, percentages to two decimals.
func WriteResults(w io.Writer, res store.Results) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(resultsHeader); err != nil {
		return err
	}
	for _, c := range res.Candidates {
		record := []string{
			c.ID,
			c.Name,
			c.Slogan,
			strconv.Itoa(c.Votes),
			strconv.FormatFloat(c.Percentage, 'f', 2, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
