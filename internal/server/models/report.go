package models

import "time"

type ReportCategory string

const (
	ReportSpam    ReportCategory = "SPAM"
	ReportAbuse   ReportCategory = "ABUSE"
	ReportIllegal ReportCategory = "ILLEGAL"
	ReportOther   ReportCategory = "OTHER"
)

func (c ReportCategory) Valid() bool {
	switch c {
	case ReportSpam, ReportAbuse, ReportIllegal, ReportOther:
		return true
	}
	return false
}

// Report is immutable once created except for the read flag.
type Report struct {
	ID           string
	ReporterID   string
	TargetUserID string
	Category     ReportCategory
	Content      string
	IsRead       bool
	CreatedAt    time.Time
}
