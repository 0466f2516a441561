package models

import (
	"strings"
	"time"
)

// Report statuses. A report only moves forward: pending -> reviewed ->
// approved. requires_attention is a terminal escape reachable from any
// state via a manual status patch.
const (
	StatusPending           = "pending"
	StatusReviewed          = "reviewed"
	StatusApproved          = "approved"
	StatusRequiresAttention = "requires_attention"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusReviewed, StatusApproved, StatusRequiresAttention:
		return true
	}
	return false
}

// ChecklistData holds the submitted form as a flat key/value map: the
// date/shift/operatorName header fields plus one status field per checkpoint
// and an optional "<key>_remarks" companion.
type ChecklistData map[string]string

// IssueCount counts checkpoint fields marked "No". Remarks fields never
// count, and header values are never "No".
func (c ChecklistData) IssueCount() int {
	count := 0
	for key, value := range c {
		if strings.HasSuffix(key, "_remarks") {
			continue
		}
		if value == "No" {
			count++
		}
	}
	return count
}

type Report struct {
	ID            int           `json:"id"`
	SystemType    string        `json:"systemType"`
	Date          string        `json:"date"`
	Shift         string        `json:"shift"`
	OperatorName  string        `json:"operatorName"`
	SubmittedBy   *int          `json:"submittedBy"`
	ReviewedBy    *int          `json:"reviewedBy"`
	ApprovedBy    *int          `json:"approvedBy"`
	Status        string        `json:"status"`
	ChecklistData ChecklistData `json:"checklistData"`
	Remarks       *string       `json:"remarks"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// ReportWithIssues decorates a report with its derived issue count for
// listing responses.
type ReportWithIssues struct {
	Report
	IssueCount int `json:"issueCount"`
}

type InsertReport struct {
	SystemType    string
	Date          string
	Shift         string
	OperatorName  string
	SubmittedBy   *int
	ChecklistData ChecklistData
	Remarks       *string
}

// ReportFilters are ANDed together with exact string equality. Empty fields
// do not filter.
type ReportFilters struct {
	SystemType string
	Status     string
	Date       string
}

// ReportUpdate is a partial patch; nil fields are left untouched.
type ReportUpdate struct {
	Status     *string `json:"status"`
	Remarks    *string `json:"remarks"`
	ReviewedBy *int    `json:"reviewedBy"`
	ApprovedBy *int    `json:"approvedBy"`
}
