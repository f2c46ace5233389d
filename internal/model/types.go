// Package model defines shared data structures.
package model

// Column names of the email log, in canonical order.
const (
	ColumnSubject = "Subject"
	ColumnSender  = "Sender"
	ColumnFolder  = "Folder"
	ColumnScore   = "Score"
)

// LogColumns returns the fixed column set of an email log.
func LogColumns() []string {
	return []string{ColumnSubject, ColumnSender, ColumnFolder, ColumnScore}
}

// EmailRecord is one classified email from the log.
type EmailRecord struct {
	Subject string  `json:"subject" yaml:"subject"`
	Sender  string  `json:"sender" yaml:"sender"`
	Folder  string  `json:"folder" yaml:"folder"`
	Score   float64 `json:"score" yaml:"score"`
}

// EmailLog is a snapshot of the log file. Columns is always the fixed
// column set, even when Records is empty.
type EmailLog struct {
	Columns []string
	Records []EmailRecord
	// Skipped counts malformed rows dropped under the skip policy.
	Skipped int
}

// EmptyLog returns a log with the column set defined and no rows.
func EmptyLog() EmailLog {
	return EmailLog{Columns: LogColumns()}
}

// Len returns the number of records.
func (l EmailLog) Len() int {
	return len(l.Records)
}

// Scores returns the score column in file order.
func (l EmailLog) Scores() []float64 {
	out := make([]float64, len(l.Records))
	for i, r := range l.Records {
		out[i] = r.Score
	}
	return out
}

// FolderCount is the number of records filed under one folder.
type FolderCount struct {
	Folder string `json:"folder" yaml:"folder"`
	Count  int    `json:"count" yaml:"count"`
}

// HistogramBin is one score interval and the records inside it.
type HistogramBin struct {
	Lo    float64 `json:"lo" yaml:"lo"`
	Hi    float64 `json:"hi" yaml:"hi"`
	Count int     `json:"count" yaml:"count"`
}

// MalformedPolicy selects how the reader treats bad rows.
type MalformedPolicy string

const (
	// MalformedFail rejects the whole load.
	MalformedFail MalformedPolicy = "fail"
	// MalformedSkip drops the row and counts it.
	MalformedSkip MalformedPolicy = "skip"
)

// LogConfig defines where and how the log file is read.
type LogConfig struct {
	Path        string
	Delimiter   rune
	Encoding    string
	OnMalformed MalformedPolicy
	Cache       bool
}

// ChartConfig defines chart sizing.
type ChartConfig struct {
	Bins int
	Top  int
}

// ServerConfig defines the web dashboard listener.
type ServerConfig struct {
	Addr  string
	Debug bool
}
