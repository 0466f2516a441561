package store

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"

	"github.com/Zaffarpulse/pulse-hospital-app/models"
)

// SupabaseStorage implements Storage over Supabase tables (users, otp_codes,
// reports) for deployments that need the data to survive restarts. Table ids
// come from serial columns, so counter handling lives in the database.
type SupabaseStorage struct {
	client *supa.Client
}

func NewSupabaseStorage(client *supa.Client) *SupabaseStorage {
	return &SupabaseStorage{client: client}
}

type userRow struct {
	ID        int       `json:"id"`
	UserID    string    `json:"user_id"`
	Mobile    string    `json:"mobile"`
	Password  string    `json:"password"`
	Role      string    `json:"role"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (r userRow) toModel() *models.User {
	return &models.User{
		ID:        r.ID,
		UserID:    r.UserID,
		Mobile:    r.Mobile,
		Password:  r.Password,
		Role:      r.Role,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
	}
}

type otpRow struct {
	ID        int       `json:"id"`
	Mobile    string    `json:"mobile"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

type reportRow struct {
	ID            int                  `json:"id"`
	SystemType    string               `json:"system_type"`
	Date          string               `json:"date"`
	Shift         string               `json:"shift"`
	OperatorName  string               `json:"operator_name"`
	SubmittedBy   *int                 `json:"submitted_by"`
	ReviewedBy    *int                 `json:"reviewed_by"`
	ApprovedBy    *int                 `json:"approved_by"`
	Status        string               `json:"status"`
	ChecklistData models.ChecklistData `json:"checklist_data"`
	Remarks       *string              `json:"remarks"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

func (r reportRow) toModel() *models.Report {
	return &models.Report{
		ID:            r.ID,
		SystemType:    r.SystemType,
		Date:          r.Date,
		Shift:         r.Shift,
		OperatorName:  r.OperatorName,
		SubmittedBy:   r.SubmittedBy,
		ReviewedBy:    r.ReviewedBy,
		ApprovedBy:    r.ApprovedBy,
		Status:        r.Status,
		ChecklistData: r.ChecklistData,
		Remarks:       r.Remarks,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func (s *SupabaseStorage) GetUser(id int) (*models.User, error) {
	data, _, err := s.client.From("users").
		Select("*", "", false).
		Eq("id", strconv.Itoa(id)).
		Execute()
	if err != nil {
		return nil, err
	}

	var rows []userRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toModel(), nil
}

func (s *SupabaseStorage) GetUserByUserID(userID string) (*models.User, error) {
	data, _, err := s.client.From("users").
		Select("*", "", false).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return nil, err
	}

	var rows []userRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toModel(), nil
}

func (s *SupabaseStorage) GetUserByUserIDAndRole(userID, role string) (*models.User, error) {
	data, _, err := s.client.From("users").
		Select("*", "", false).
		Eq("user_id", userID).
		Eq("role", role).
		Execute()
	if err != nil {
		return nil, err
	}

	var rows []userRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toModel(), nil
}

func (s *SupabaseStorage) CreateUser(insert models.InsertUser) (*models.User, error) {
	row := map[string]interface{}{
		"user_id":  insert.UserID,
		"mobile":   insert.Mobile,
		"password": insert.Password,
		"role":     insert.Role,
		"name":     insert.Name,
	}

	data, _, err := s.client.From("users").
		Insert(row, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, err
	}

	var rows []userRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toModel(), nil
}

func (s *SupabaseStorage) CreateOtp(mobile, code string, expiresAt time.Time) (*models.OtpCode, error) {
	row := map[string]interface{}{
		"mobile":     mobile,
		"code":       code,
		"expires_at": expiresAt,
		"verified":   false,
	}

	// Upsert on (mobile, code): reissuing a pair overwrites the old entry.
	data, _, err := s.client.From("otp_codes").
		Insert(row, true, "mobile,code", "representation", "").
		Execute()
	if err != nil {
		return nil, err
	}

	var rows []otpRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	otp := rows[0]
	return &models.OtpCode{
		ID:        otp.ID,
		Mobile:    otp.Mobile,
		Code:      otp.Code,
		ExpiresAt: otp.ExpiresAt,
		Verified:  otp.Verified,
		CreatedAt: otp.CreatedAt,
	}, nil
}

func (s *SupabaseStorage) VerifyOtp(mobile, code string) (bool, error) {
	// Flip verified only on rows that are still unconsumed; the filtered
	// update is the atomicity guard against concurrent verifications.
	data, _, err := s.client.From("otp_codes").
		Update(map[string]interface{}{"verified": true}, "representation", "").
		Eq("mobile", mobile).
		Eq("code", code).
		Eq("verified", "false").
		Gt("expires_at", time.Now().UTC().Format(time.RFC3339)).
		Execute()
	if err != nil {
		return false, err
	}

	var rows []otpRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

func (s *SupabaseStorage) CreateReport(insert models.InsertReport) (*models.Report, error) {
	row := map[string]interface{}{
		"system_type":    insert.SystemType,
		"date":           insert.Date,
		"shift":          insert.Shift,
		"operator_name":  insert.OperatorName,
		"submitted_by":   insert.SubmittedBy,
		"status":         models.StatusPending,
		"checklist_data": insert.ChecklistData,
		"remarks":        insert.Remarks,
	}

	data, _, err := s.client.From("reports").
		Insert(row, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, err
	}

	var rows []reportRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toModel(), nil
}

func (s *SupabaseStorage) GetReports(filters models.ReportFilters) ([]models.Report, error) {
	query := s.client.From("reports").
		Select("*", "", false)

	if filters.SystemType != "" {
		query = query.Eq("system_type", filters.SystemType)
	}
	if filters.Status != "" {
		query = query.Eq("status", filters.Status)
	}
	if filters.Date != "" {
		query = query.Eq("date", filters.Date)
	}

	data, _, err := query.
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, err
	}

	return unmarshalReports(data)
}

func (s *SupabaseStorage) GetReportByID(id int) (*models.Report, error) {
	data, _, err := s.client.From("reports").
		Select("*", "", false).
		Eq("id", strconv.Itoa(id)).
		Execute()
	if err != nil {
		return nil, err
	}

	var rows []reportRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toModel(), nil
}

func (s *SupabaseStorage) GetReportsBySubmitter(userID int) ([]models.Report, error) {
	data, _, err := s.client.From("reports").
		Select("*", "", false).
		Eq("submitted_by", strconv.Itoa(userID)).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, err
	}

	return unmarshalReports(data)
}

func (s *SupabaseStorage) UpdateReport(id int, updates models.ReportUpdate) (*models.Report, error) {
	data, _, err := s.client.From("reports").
		Update(reportUpdateRow(updates), "representation", "").
		Eq("id", strconv.Itoa(id)).
		Execute()
	if err != nil {
		return nil, err
	}

	var rows []reportRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toModel(), nil
}

// TransitionReport narrows the update to rows still holding fromStatus; as
// in VerifyOtp, the filtered update is the atomicity guard. An empty result
// is disambiguated with a follow-up read.
func (s *SupabaseStorage) TransitionReport(id int, fromStatus string, updates models.ReportUpdate) (*models.Report, error) {
	data, _, err := s.client.From("reports").
		Update(reportUpdateRow(updates), "representation", "").
		Eq("id", strconv.Itoa(id)).
		Eq("status", fromStatus).
		Execute()
	if err != nil {
		return nil, err
	}

	var rows []reportRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		return rows[0].toModel(), nil
	}

	existing, err := s.GetReportByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}
	return nil, ErrStatusConflict
}

func reportUpdateRow(updates models.ReportUpdate) map[string]interface{} {
	row := make(map[string]interface{})
	if updates.Status != nil {
		row["status"] = *updates.Status
	}
	if updates.Remarks != nil {
		row["remarks"] = *updates.Remarks
	}
	if updates.ReviewedBy != nil {
		row["reviewed_by"] = *updates.ReviewedBy
	}
	if updates.ApprovedBy != nil {
		row["approved_by"] = *updates.ApprovedBy
	}
	row["updated_at"] = time.Now().UTC()
	return row
}

func unmarshalReports(data []byte) ([]models.Report, error) {
	var rows []reportRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}

	reports := make([]models.Report, 0, len(rows))
	for _, row := range rows {
		reports = append(reports, *row.toModel())
	}
	return reports, nil
}
