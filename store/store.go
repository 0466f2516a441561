package store

import (
	"errors"
	"time"

	"github.com/Zaffarpulse/pulse-hospital-app/models"
)

// ErrStatusConflict is returned by TransitionReport when the report exists
// but its status no longer matches the expected one.
var ErrStatusConflict = errors.New("report status conflict")

// Storage owns the user, OTP and report collections. Absent records are
// returned as nil without an error; errors are reserved for backend
// failures.
type Storage interface {
	GetUser(id int) (*models.User, error)
	GetUserByUserID(userID string) (*models.User, error)
	GetUserByUserIDAndRole(userID, role string) (*models.User, error)
	CreateUser(user models.InsertUser) (*models.User, error)

	CreateOtp(mobile, code string, expiresAt time.Time) (*models.OtpCode, error)
	VerifyOtp(mobile, code string) (bool, error)

	CreateReport(report models.InsertReport) (*models.Report, error)
	GetReports(filters models.ReportFilters) ([]models.Report, error)
	GetReportByID(id int) (*models.Report, error)
	GetReportsBySubmitter(userID int) ([]models.Report, error)
	UpdateReport(id int, updates models.ReportUpdate) (*models.Report, error)

	// TransitionReport applies updates only while the report's status still
	// equals fromStatus; the check and the mutate happen as one step. A
	// status that moved underneath the caller yields ErrStatusConflict.
	TransitionReport(id int, fromStatus string, updates models.ReportUpdate) (*models.Report, error)
}
