package services_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/Zaffarpulse/pulse-hospital-app/models"
	"github.com/Zaffarpulse/pulse-hospital-app/services"
	"github.com/Zaffarpulse/pulse-hospital-app/store"
)

// Seeded ids: zaffar=1 (manager), sarfraz=2 (operator), hilal=3 (supervisor).
const (
	managerID    = 1
	operatorID   = 2
	supervisorID = 3
)

func newReportService() *services.ReportService {
	logger := logrus.New()
	sheets := services.NewSheetsClient("", logger) // forwarding disabled
	return services.NewReportService(store.NewMemStorage(), sheets, logger)
}

func acSubmission(values map[string]string) models.ChecklistSubmission {
	fields := models.ChecklistData{
		"date":         "2024-01-01",
		"shift":        models.ShiftMorning,
		"operatorName": "Sarfraz",
	}
	for i := 1; i <= 14; i++ {
		fields[fmt.Sprintf("ac_%d", i)] = "Yes"
	}
	for key, value := range values {
		fields[key] = value
	}
	return models.ChecklistSubmission{
		Date:         "2024-01-01",
		Shift:        models.ShiftMorning,
		OperatorName: "Sarfraz",
		Fields:       fields,
	}
}

func TestSubmitRejectsUnknownChecklistKeys(t *testing.T) {
	svc := newReportService()

	sub := acSubmission(map[string]string{"electrical_1": "Yes"})
	_, err := svc.Submit(models.SystemAC, sub, operatorID)
	require.Error(t, err)

	sub = acSubmission(map[string]string{"ac_15": "Yes"})
	_, err = svc.Submit(models.SystemAC, sub, operatorID)
	require.Error(t, err)
}

func TestSubmitRejectsUnknownSystemType(t *testing.T) {
	svc := newReportService()

	_, err := svc.Submit("plumbing", acSubmission(nil), operatorID)
	require.Error(t, err)
}

func TestSubmitCreatesPendingReport(t *testing.T) {
	svc := newReportService()

	report, err := svc.Submit(models.SystemAC, acSubmission(nil), operatorID)
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, report.Status)
	require.Equal(t, operatorID, *report.SubmittedBy)
	require.Nil(t, report.ReviewedBy)
	require.Nil(t, report.ApprovedBy)
	require.Equal(t, models.SystemAC, report.SystemType)
}

func TestIssueCounting(t *testing.T) {
	data := models.ChecklistData{
		"electrical_1":         "No",
		"electrical_2":         "Yes",
		"electrical_2_remarks": "fine",
	}
	require.Equal(t, 1, data.IssueCount())

	// Remarks containing "No" never count
	data = models.ChecklistData{
		"ac_1":         "Yes",
		"ac_1_remarks": "No",
	}
	require.Equal(t, 0, data.IssueCount())
}

func TestReviewRequiresSupervisorRole(t *testing.T) {
	svc := newReportService()

	report, err := svc.Submit(models.SystemAC, acSubmission(nil), operatorID)
	require.NoError(t, err)

	_, err = svc.Review(report.ID, operatorID)
	require.ErrorIs(t, err, services.ErrInsufficientRole)

	// Manager outranks supervisor and may review
	reviewed, err := svc.Review(report.ID, managerID)
	require.NoError(t, err)
	require.Equal(t, models.StatusReviewed, reviewed.Status)
}

func TestApproveRequiresManagerRole(t *testing.T) {
	svc := newReportService()

	report, err := svc.Submit(models.SystemAC, acSubmission(nil), operatorID)
	require.NoError(t, err)

	_, err = svc.Review(report.ID, supervisorID)
	require.NoError(t, err)

	_, err = svc.Approve(report.ID, supervisorID)
	require.ErrorIs(t, err, services.ErrInsufficientRole)

	approved, err := svc.Approve(report.ID, managerID)
	require.NoError(t, err)
	require.Equal(t, models.StatusApproved, approved.Status)
}

func TestStatusOnlyAdvancesForward(t *testing.T) {
	svc := newReportService()

	report, err := svc.Submit(models.SystemAC, acSubmission(nil), operatorID)
	require.NoError(t, err)

	// Approval straight from pending skips review
	_, err = svc.Approve(report.ID, managerID)
	require.ErrorIs(t, err, services.ErrInvalidTransition)

	_, err = svc.Review(report.ID, supervisorID)
	require.NoError(t, err)

	// A reviewed report cannot be reviewed again
	_, err = svc.Review(report.ID, supervisorID)
	require.ErrorIs(t, err, services.ErrInvalidTransition)

	_, err = svc.Approve(report.ID, managerID)
	require.NoError(t, err)

	_, err = svc.Approve(report.ID, managerID)
	require.ErrorIs(t, err, services.ErrInvalidTransition)
}

func TestRequiresAttentionReachableFromAnyState(t *testing.T) {
	svc := newReportService()

	report, err := svc.Submit(models.SystemAC, acSubmission(map[string]string{"ac_3": "No"}), operatorID)
	require.NoError(t, err)

	status := models.StatusRequiresAttention
	flagged, err := svc.Update(report.ID, models.ReportUpdate{Status: &status})
	require.NoError(t, err)
	require.Equal(t, models.StatusRequiresAttention, flagged.Status)

	// Also reachable after review
	report2, err := svc.Submit(models.SystemAC, acSubmission(nil), operatorID)
	require.NoError(t, err)
	_, err = svc.Review(report2.ID, supervisorID)
	require.NoError(t, err)
	flagged2, err := svc.Update(report2.ID, models.ReportUpdate{Status: &status})
	require.NoError(t, err)
	require.Equal(t, models.StatusRequiresAttention, flagged2.Status)
}

func TestPatchCannotRegressToPending(t *testing.T) {
	svc := newReportService()

	report, err := svc.Submit(models.SystemAC, acSubmission(nil), operatorID)
	require.NoError(t, err)
	_, err = svc.Review(report.ID, supervisorID)
	require.NoError(t, err)
	_, err = svc.Approve(report.ID, managerID)
	require.NoError(t, err)

	pending := models.StatusPending
	_, err = svc.Update(report.ID, models.ReportUpdate{Status: &pending})
	require.ErrorIs(t, err, services.ErrInvalidTransition)

	current, err := svc.Get(report.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusApproved, current.Status)
}

func TestRequiresAttentionIsTerminal(t *testing.T) {
	svc := newReportService()

	report, err := svc.Submit(models.SystemAC, acSubmission(map[string]string{"ac_7": "No"}), operatorID)
	require.NoError(t, err)

	attention := models.StatusRequiresAttention
	_, err = svc.Update(report.ID, models.ReportUpdate{Status: &attention})
	require.NoError(t, err)

	pending := models.StatusPending
	_, err = svc.Update(report.ID, models.ReportUpdate{Status: &pending})
	require.ErrorIs(t, err, services.ErrInvalidTransition)

	reviewed := models.StatusReviewed
	supervisor := supervisorID
	_, err = svc.Update(report.ID, models.ReportUpdate{Status: &reviewed, ReviewedBy: &supervisor})
	require.ErrorIs(t, err, services.ErrInvalidTransition)

	current, err := svc.Get(report.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusRequiresAttention, current.Status)
}

func TestPatchPendingOnPendingIsNoOp(t *testing.T) {
	svc := newReportService()

	report, err := svc.Submit(models.SystemAC, acSubmission(nil), operatorID)
	require.NoError(t, err)

	pending := models.StatusPending
	remarks := "breaker panel resealed"
	updated, err := svc.Update(report.ID, models.ReportUpdate{Status: &pending, Remarks: &remarks})
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, updated.Status)
	require.Equal(t, remarks, *updated.Remarks)
}

func TestConcurrentReviewsSingleWinner(t *testing.T) {
	svc := newReportService()

	report, err := svc.Submit(models.SystemAC, acSubmission(nil), operatorID)
	require.NoError(t, err)

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Review(report.ID, supervisorID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, services.ErrInvalidTransition)
		}
	}
	require.Equal(t, 1, succeeded)
}

func TestUpdateGatesStatusTransitions(t *testing.T) {
	svc := newReportService()

	report, err := svc.Submit(models.SystemAC, acSubmission(nil), operatorID)
	require.NoError(t, err)

	reviewed := models.StatusReviewed
	operator := operatorID

	// Missing actor
	_, err = svc.Update(report.ID, models.ReportUpdate{Status: &reviewed})
	require.Error(t, err)

	// Operator acting as reviewer through the generic patch path
	_, err = svc.Update(report.ID, models.ReportUpdate{Status: &reviewed, ReviewedBy: &operator})
	require.ErrorIs(t, err, services.ErrInsufficientRole)

	supervisor := supervisorID
	updated, err := svc.Update(report.ID, models.ReportUpdate{Status: &reviewed, ReviewedBy: &supervisor})
	require.NoError(t, err)
	require.Equal(t, models.StatusReviewed, updated.Status)
	require.Equal(t, supervisorID, *updated.ReviewedBy)
}

func TestUpdateUnknownStatus(t *testing.T) {
	svc := newReportService()

	report, err := svc.Submit(models.SystemAC, acSubmission(nil), operatorID)
	require.NoError(t, err)

	bogus := "archived"
	_, err = svc.Update(report.ID, models.ReportUpdate{Status: &bogus})
	require.Error(t, err)
}

func TestUpdateUnknownReport(t *testing.T) {
	svc := newReportService()

	remarks := "nothing here"
	_, err := svc.Update(42, models.ReportUpdate{Remarks: &remarks})
	require.ErrorIs(t, err, services.ErrReportNotFound)
}

func TestEndToEndReviewLifecycle(t *testing.T) {
	svc := newReportService()

	// Operator sarfraz submits an AC checklist with every checkpoint Yes
	report, err := svc.Submit(models.SystemAC, acSubmission(nil), operatorID)
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, report.Status)

	listed, err := svc.List(models.ReportFilters{SystemType: models.SystemAC})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, 0, listed[0].IssueCount)

	// Supervisor hilal reviews
	reviewed, err := svc.Review(report.ID, supervisorID)
	require.NoError(t, err)
	require.Equal(t, models.StatusReviewed, reviewed.Status)
	require.Equal(t, supervisorID, *reviewed.ReviewedBy)

	// Manager zaffar approves
	approved, err := svc.Approve(report.ID, managerID)
	require.NoError(t, err)
	require.Equal(t, models.StatusApproved, approved.Status)
	require.Equal(t, managerID, *approved.ApprovedBy)
	require.Equal(t, supervisorID, *approved.ReviewedBy)
}

func TestListBySubmitter(t *testing.T) {
	svc := newReportService()

	_, err := svc.Submit(models.SystemAC, acSubmission(nil), operatorID)
	require.NoError(t, err)
	_, err = svc.Submit(models.SystemAC, acSubmission(nil), supervisorID)
	require.NoError(t, err)

	mine, err := svc.ListBySubmitter(operatorID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, operatorID, *mine[0].SubmittedBy)
}
