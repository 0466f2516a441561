package models

import "time"

// OtpCode is an ephemeral login credential keyed by (mobile, code). A later
// issuance for the same pair overwrites the earlier entry.
type OtpCode struct {
	ID        int       `json:"id"`
	Mobile    string    `json:"mobile"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expiresAt"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
}

type OtpLoginRequest struct {
	UserID string `json:"userId" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

type OtpVerifyRequest struct {
	UserID string `json:"userId" binding:"required"`
	Code   string `json:"code" binding:"required,len=4"`
	Role   string `json:"role" binding:"required"`
}
