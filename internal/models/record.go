package models

import "strings"

// Status literals as they appear in the records sheet. The sheet is shared
// with a non-technical audience, so the Russian strings are the wire format.
const (
	StatusPending  = "На рассмотрении"
	StatusApproved = "Одобрено"
	StatusDeclined = "Отклонено"
)

// Record sheet column layout.
const (
	ColTimestamp = 0
	ColSubmitter = 1
	ColSubject   = 2
	ColCategory  = 3
	ColScore     = 4
	ColEvidence  = 5
	ColReviewer  = 6
	ColStatus    = 7
	ColNotes     = 8

	RecordColumns = 9
)

// TimestampLayout is the record identity key format (spreadsheet-facing).
const TimestampLayout = "02.01.2006 15:04:05"

var (
	RecordsHeader = []string{"Timestamp", "Submitter", "Subject", "Category", "Score", "Evidence", "Reviewer", "Status", "Notes"}
	RosterHeader  = []string{"Username", "Role", "Reserved", "LastSeen"}
	CadetsHeader  = []string{"Nick Name", "Lecture", "Teory", "1055", "Arrest", "Forma"}
)

// StatusFromAlias resolves the API-side status names to sheet literals.
// The literals themselves are accepted too.
func StatusFromAlias(s string) (string, bool) {
	switch strings.TrimSpace(s) {
	case "pending", StatusPending:
		return StatusPending, true
	case "approved", StatusApproved:
		return StatusApproved, true
	case "declined", StatusDeclined:
		return StatusDeclined, true
	default:
		return "", false
	}
}

// StatusAlias is the inverse of StatusFromAlias, used in API responses.
func StatusAlias(status string) string {
	switch status {
	case StatusPending:
		return "pending"
	case StatusApproved:
		return "approved"
	case StatusDeclined:
		return "declined"
	default:
		return status
	}
}

// Record is one reviewable submission row.
type Record struct {
	Timestamp string `json:"timestamp"`
	Submitter string `json:"submitter"`
	Subject   string `json:"subject"`
	Category  string `json:"category"`
	Score     string `json:"score"`
	Evidence  string `json:"evidence"`
	Reviewer  string `json:"reviewer"`
	Status    string `json:"status"`
	Notes     string `json:"notes"`
}

// RecordFromRow builds a Record from a sheet row, back-filling short or
// empty optional cells with placeholder text. Rows are never dropped for
// missing fields.
func RecordFromRow(row []string) Record {
	return Record{
		Timestamp: cellOr(row, ColTimestamp, "Unknown Timestamp"),
		Submitter: cellOr(row, ColSubmitter, "Unknown Submitter"),
		Subject:   cellOr(row, ColSubject, "Unknown Subject"),
		Category:  cellOr(row, ColCategory, "Unknown Category"),
		Score:     cellOr(row, ColScore, "No Score"),
		Evidence:  cellOr(row, ColEvidence, "No evidence provided"),
		Reviewer:  cellOr(row, ColReviewer, "No Reviewer"),
		Status:    cellOr(row, ColStatus, ""),
		Notes:     cellOr(row, ColNotes, "No Notes"),
	}
}

// Row serializes the record in sheet column order.
func (r Record) Row() []string {
	return []string{r.Timestamp, r.Submitter, r.Subject, r.Category, r.Score, r.Evidence, r.Reviewer, r.Status, r.Notes}
}

func cellOr(row []string, i int, fallback string) string {
	if i < len(row) && strings.TrimSpace(row[i]) != "" {
		return row[i]
	}
	return fallback
}

// Cadet is one row of the cadet progress sheet.
type Cadet struct {
	Nickname string `json:"nickname"`
	Lecture  bool   `json:"lecture"`
	Theory   bool   `json:"theory"`
	Code1055 bool   `json:"1055"`
	Arrest   bool   `json:"arrest"`
	Forma    string `json:"forma"`
}

// CadetFromRow reads the fixed cadet column order [nickname, lecture,
// theory, 1055, arrest, forma]. Flags are the literal strings TRUE/FALSE.
func CadetFromRow(row []string) Cadet {
	flag := func(i int) bool {
		return i < len(row) && row[i] == "TRUE"
	}
	c := Cadet{
		Lecture:  flag(1),
		Theory:   flag(2),
		Code1055: flag(3),
		Arrest:   flag(4),
		Forma:    "unknown",
	}
	if len(row) > 0 {
		c.Nickname = row[0]
	}
	if len(row) > 5 && strings.TrimSpace(row[5]) != "" {
		c.Forma = row[5]
	}
	return c
}
