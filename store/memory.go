package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Zaffarpulse/pulse-hospital-app/models"
)

// MemStorage keeps all collections in process memory. The mutex also makes
// the check-then-mutate steps (OTP verify, report update) atomic per key.
type MemStorage struct {
	mu sync.Mutex

	users   map[int]*models.User
	reports map[int]*models.Report
	otps    map[string]*models.OtpCode

	currentUserID   int
	currentReportID int
	currentOtpID    int
}

func NewMemStorage() *MemStorage {
	s := &MemStorage{
		users:           make(map[int]*models.User),
		reports:         make(map[int]*models.Report),
		otps:            make(map[string]*models.OtpCode),
		currentUserID:   1,
		currentReportID: 1,
		currentOtpID:    1,
	}

	// Default facility staff accounts.
	s.mustSeed(models.InsertUser{UserID: "zaffar", Mobile: "9541941695", Password: "admin123", Role: models.RoleManager, Name: "Zaffar"})
	s.mustSeed(models.InsertUser{UserID: "sarfraz", Mobile: "6006807212", Password: "1234", Role: models.RoleOperator, Name: "Sarfraz"})
	s.mustSeed(models.InsertUser{UserID: "hilal", Mobile: "9103309765", Password: "5678", Role: models.RoleSupervisor, Name: "Hilal"})

	return s
}

func (s *MemStorage) mustSeed(user models.InsertUser) {
	if _, err := s.CreateUser(user); err != nil {
		panic(fmt.Sprintf("seed user %s: %v", user.UserID, err))
	}
}

func (s *MemStorage) GetUser(id int) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (s *MemStorage) GetUserByUserID(userID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.UserID == userID {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *MemStorage) GetUserByUserIDAndRole(userID, role string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.UserID == userID && user.Role == role {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *MemStorage) CreateUser(insert models.InsertUser) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := &models.User{
		ID:        s.currentUserID,
		UserID:    insert.UserID,
		Mobile:    insert.Mobile,
		Password:  insert.Password,
		Role:      insert.Role,
		Name:      insert.Name,
		CreatedAt: time.Now(),
	}
	s.currentUserID++
	s.users[user.ID] = user

	copied := *user
	return &copied, nil
}

func otpKey(mobile, code string) string {
	return mobile + "_" + code
}

// CreateOtp stores the code keyed by (mobile, code); reissuing the same pair
// overwrites the earlier entry, resetting its consumed flag.
func (s *MemStorage) CreateOtp(mobile, code string, expiresAt time.Time) (*models.OtpCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	otp := &models.OtpCode{
		ID:        s.currentOtpID,
		Mobile:    mobile,
		Code:      code,
		ExpiresAt: expiresAt,
		Verified:  false,
		CreatedAt: time.Now(),
	}
	s.currentOtpID++
	s.otps[otpKey(mobile, code)] = otp

	copied := *otp
	return &copied, nil
}

// VerifyOtp consumes the code. It fails on unknown pairs, already consumed
// codes and codes past their expiry; stale entries stay around but are
// permanently unusable.
func (s *MemStorage) VerifyOtp(mobile, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	otp, ok := s.otps[otpKey(mobile, code)]
	if !ok {
		return false, nil
	}
	if otp.Verified {
		return false, nil
	}
	if time.Now().After(otp.ExpiresAt) {
		return false, nil
	}

	otp.Verified = true
	return true, nil
}

func (s *MemStorage) CreateReport(insert models.InsertReport) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	report := &models.Report{
		ID:            s.currentReportID,
		SystemType:    insert.SystemType,
		Date:          insert.Date,
		Shift:         insert.Shift,
		OperatorName:  insert.OperatorName,
		SubmittedBy:   insert.SubmittedBy,
		ReviewedBy:    nil,
		ApprovedBy:    nil,
		Status:        models.StatusPending,
		ChecklistData: insert.ChecklistData,
		Remarks:       insert.Remarks,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.currentReportID++
	s.reports[report.ID] = report

	copied := *report
	return &copied, nil
}

func (s *MemStorage) GetReports(filters models.ReportFilters) ([]models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reports := make([]models.Report, 0)
	for _, report := range s.reports {
		if filters.SystemType != "" && report.SystemType != filters.SystemType {
			continue
		}
		if filters.Status != "" && report.Status != filters.Status {
			continue
		}
		if filters.Date != "" && report.Date != filters.Date {
			continue
		}
		reports = append(reports, *report)
	}

	sortNewestFirst(reports)
	return reports, nil
}

func (s *MemStorage) GetReportByID(id int) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, ok := s.reports[id]
	if !ok {
		return nil, nil
	}
	copied := *report
	return &copied, nil
}

func (s *MemStorage) GetReportsBySubmitter(userID int) ([]models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reports := make([]models.Report, 0)
	for _, report := range s.reports {
		if report.SubmittedBy != nil && *report.SubmittedBy == userID {
			reports = append(reports, *report)
		}
	}

	sortNewestFirst(reports)
	return reports, nil
}

func (s *MemStorage) UpdateReport(id int, updates models.ReportUpdate) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, ok := s.reports[id]
	if !ok {
		return nil, nil
	}

	mergeReportUpdate(report, updates)

	copied := *report
	return &copied, nil
}

// TransitionReport is UpdateReport with a status precondition; holding the
// lock across the check and the merge keeps the lifecycle race-free.
func (s *MemStorage) TransitionReport(id int, fromStatus string, updates models.ReportUpdate) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, ok := s.reports[id]
	if !ok {
		return nil, nil
	}
	if report.Status != fromStatus {
		return nil, ErrStatusConflict
	}

	mergeReportUpdate(report, updates)

	copied := *report
	return &copied, nil
}

func mergeReportUpdate(report *models.Report, updates models.ReportUpdate) {
	if updates.Status != nil {
		report.Status = *updates.Status
	}
	if updates.Remarks != nil {
		report.Remarks = updates.Remarks
	}
	if updates.ReviewedBy != nil {
		report.ReviewedBy = updates.ReviewedBy
	}
	if updates.ApprovedBy != nil {
		report.ApprovedBy = updates.ApprovedBy
	}
	report.UpdatedAt = time.Now()
}

// sortNewestFirst orders by creation time descending; ids break ties for
// reports created within the same clock tick.
func sortNewestFirst(reports []models.Report) {
	sort.Slice(reports, func(i, j int) bool {
		if reports[i].CreatedAt.Equal(reports[j].CreatedAt) {
			return reports[i].ID > reports[j].ID
		}
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
}
