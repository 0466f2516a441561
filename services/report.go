package services

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Zaffarpulse/pulse-hospital-app/models"
	"github.com/Zaffarpulse/pulse-hospital-app/store"
)

var (
	ErrReportNotFound    = errors.New("report not found")
	ErrInsufficientRole  = errors.New("insufficient role for this action")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ReportService owns checklist submissions and the review lifecycle.
// Role gates live here, not in the handlers: hiding a button client-side is
// not a security control.
type ReportService struct {
	store  store.Storage
	sheets *SheetsClient
	log    *logrus.Logger
}

func NewReportService(st store.Storage, sheets *SheetsClient, log *logrus.Logger) *ReportService {
	return &ReportService{store: st, sheets: sheets, log: log}
}

// Submit validates the checklist against the system type's schema, persists
// it as a pending report and forwards a copy to the spreadsheet. The forward
// runs after the write, off the request path; its failure never surfaces.
func (s *ReportService) Submit(systemType string, sub models.ChecklistSubmission, submittedBy int) (*models.Report, error) {
	if !models.ValidSystemType(systemType) {
		return nil, fmt.Errorf("unknown system type %q", systemType)
	}
	if err := models.ValidateChecklist(systemType, sub.Fields); err != nil {
		return nil, err
	}

	report, err := s.store.CreateReport(models.InsertReport{
		SystemType:    systemType,
		Date:          sub.Date,
		Shift:         sub.Shift,
		OperatorName:  sub.OperatorName,
		SubmittedBy:   &submittedBy,
		ChecklistData: sub.Fields,
	})
	if err != nil {
		return nil, err
	}

	go func() {
		if err := s.sheets.Forward(systemType, sub.Fields); err != nil {
			s.log.WithFields(logrus.Fields{
				"reportId":   report.ID,
				"systemType": systemType,
			}).WithError(err).Error("failed to forward checklist to spreadsheet")
		}
	}()

	return report, nil
}

// Review moves a pending report to reviewed. The reviewer must hold at
// least the supervisor role.
func (s *ReportService) Review(reportID, reviewerID int) (*models.Report, error) {
	return s.review(reportID, reviewerID, nil)
}

func (s *ReportService) review(reportID, reviewerID int, remarks *string) (*models.Report, error) {
	reviewer, err := s.store.GetUser(reviewerID)
	if err != nil {
		return nil, err
	}
	if reviewer == nil {
		return nil, ErrUserNotFound
	}
	if !models.RoleAtLeast(reviewer.Role, models.RoleSupervisor) {
		return nil, ErrInsufficientRole
	}

	status := models.StatusReviewed
	return s.transition(reportID, models.StatusPending, models.ReportUpdate{
		Status:     &status,
		ReviewedBy: &reviewerID,
		Remarks:    remarks,
	})
}

// Approve moves a reviewed report to approved. The approver must hold the
// manager role.
func (s *ReportService) Approve(reportID, approverID int) (*models.Report, error) {
	return s.approve(reportID, approverID, nil)
}

func (s *ReportService) approve(reportID, approverID int, remarks *string) (*models.Report, error) {
	approver, err := s.store.GetUser(approverID)
	if err != nil {
		return nil, err
	}
	if approver == nil {
		return nil, ErrUserNotFound
	}
	if !models.RoleAtLeast(approver.Role, models.RoleManager) {
		return nil, ErrInsufficientRole
	}

	status := models.StatusApproved
	return s.transition(reportID, models.StatusReviewed, models.ReportUpdate{
		Status:     &status,
		ApprovedBy: &approverID,
		Remarks:    remarks,
	})
}

// transition delegates the status precondition to the store so the check
// and the write commit as one step. Two racing reviewers cannot both win:
// the loser's expected status is gone by the time its update lands.
func (s *ReportService) transition(reportID int, fromStatus string, updates models.ReportUpdate) (*models.Report, error) {
	report, err := s.store.TransitionReport(reportID, fromStatus, updates)
	if err != nil {
		if errors.Is(err, store.ErrStatusConflict) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}
	if report == nil {
		return nil, ErrReportNotFound
	}
	return report, nil
}

// Update applies a partial patch. Patches that advance the status route
// through the gated review/approve paths so role gates and transition rules
// hold for every caller; a pending status is accepted only as a no-op on a
// report that is still pending, so approved and requires_attention reports
// never regress. Other patches (remarks, requires_attention) merge directly.
func (s *ReportService) Update(reportID int, updates models.ReportUpdate) (*models.Report, error) {
	if updates.Status != nil && !models.ValidStatus(*updates.Status) {
		return nil, fmt.Errorf("unknown status %q", *updates.Status)
	}

	if updates.Status != nil {
		switch *updates.Status {
		case models.StatusReviewed:
			if updates.ReviewedBy == nil {
				return nil, fmt.Errorf("reviewedBy is required to mark a report reviewed")
			}
			return s.review(reportID, *updates.ReviewedBy, updates.Remarks)
		case models.StatusApproved:
			if updates.ApprovedBy == nil {
				return nil, fmt.Errorf("approvedBy is required to mark a report approved")
			}
			return s.approve(reportID, *updates.ApprovedBy, updates.Remarks)
		case models.StatusPending:
			return s.transition(reportID, models.StatusPending, updates)
		}
	}

	report, err := s.store.UpdateReport(reportID, updates)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, ErrReportNotFound
	}
	return report, nil
}

// List returns reports matching every provided filter, newest first, each
// decorated with its derived issue count.
func (s *ReportService) List(filters models.ReportFilters) ([]models.ReportWithIssues, error) {
	reports, err := s.store.GetReports(filters)
	if err != nil {
		return nil, err
	}
	return withIssueCounts(reports), nil
}

// ListBySubmitter returns one submitter's reports, newest first.
func (s *ReportService) ListBySubmitter(userID int) ([]models.ReportWithIssues, error) {
	reports, err := s.store.GetReportsBySubmitter(userID)
	if err != nil {
		return nil, err
	}
	return withIssueCounts(reports), nil
}

func (s *ReportService) Get(reportID int) (*models.Report, error) {
	report, err := s.store.GetReportByID(reportID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, ErrReportNotFound
	}
	return report, nil
}

func withIssueCounts(reports []models.Report) []models.ReportWithIssues {
	out := make([]models.ReportWithIssues, 0, len(reports))
	for _, report := range reports {
		out = append(out, models.ReportWithIssues{
			Report:     report,
			IssueCount: report.ChecklistData.IssueCount(),
		})
	}
	return out
}
