package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/Zaffarpulse/pulse-hospital-app/config"
	"github.com/Zaffarpulse/pulse-hospital-app/middleware"
	"github.com/Zaffarpulse/pulse-hospital-app/models"
	"github.com/Zaffarpulse/pulse-hospital-app/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials or role mismatch")
	ErrUserNotFound       = errors.New("user not found or role mismatch")
	ErrInvalidOTP         = errors.New("invalid or expired OTP")
	ErrUserExists         = errors.New("user already exists")
)

const otpValidity = 5 * time.Minute

// AuthService validates password and OTP credentials against the store and
// returns sanitized user identities. Lookups always match on (userId, role),
// so a login with the wrong role for a real account fails as not-found.
type AuthService struct {
	store store.Storage
	cfg   *config.Config
	log   *logrus.Logger
}

func NewAuthService(st store.Storage, cfg *config.Config, log *logrus.Logger) *AuthService {
	return &AuthService{store: st, cfg: cfg, log: log}
}

// Login checks a password credential. The stored password is compared
// verbatim, matching the deployed system.
func (s *AuthService) Login(userID, password, role string) (*models.SafeUser, string, error) {
	user, err := s.store.GetUserByUserIDAndRole(userID, role)
	if err != nil {
		return nil, "", err
	}
	if user == nil || user.Password != password {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}

	safe := user.Sanitize()
	return &safe, token, nil
}

// GenerateOTP issues a fresh 4-digit code with a 5-minute validity window
// and returns it to the caller. Echoing the code in the response is a demo
// shortcut; a production deployment delivers it over SMS instead.
func (s *AuthService) GenerateOTP(userID, role string) (string, error) {
	user, err := s.store.GetUserByUserIDAndRole(userID, role)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}

	code, err := randomOTPCode()
	if err != nil {
		return "", err
	}

	if _, err := s.store.CreateOtp(user.Mobile, code, time.Now().Add(otpValidity)); err != nil {
		return "", err
	}

	s.log.WithFields(logrus.Fields{
		"mobile": user.Mobile,
		"userId": user.UserID,
	}).Info("OTP generated")

	return code, nil
}

// VerifyOTP consumes a previously issued code. The user is re-resolved by
// (userId, role); the ledger itself keys only on (mobile, code).
func (s *AuthService) VerifyOTP(userID, code, role string) (*models.SafeUser, string, error) {
	user, err := s.store.GetUserByUserIDAndRole(userID, role)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrUserNotFound
	}

	valid, err := s.store.VerifyOtp(user.Mobile, code)
	if err != nil {
		return nil, "", err
	}
	if !valid {
		return nil, "", ErrInvalidOTP
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}

	safe := user.Sanitize()
	return &safe, token, nil
}

// CreateUser is the admin path; the acting user's role is gated at the
// route. Duplicate external ids are rejected.
func (s *AuthService) CreateUser(insert models.InsertUser) (*models.SafeUser, error) {
	existing, err := s.store.GetUserByUserID(insert.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	user, err := s.store.CreateUser(insert)
	if err != nil {
		return nil, err
	}

	safe := user.Sanitize()
	return &safe, nil
}

// GetUser resolves a numeric id to a sanitized view, nil when absent.
func (s *AuthService) GetUser(id int) (*models.SafeUser, error) {
	user, err := s.store.GetUser(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	safe := user.Sanitize()
	return &safe, nil
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	claims := middleware.Claims{
		UserID: user.ID,
		Login:  user.UserID,
		Mobile: user.Mobile,
		Name:   user.Name,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// randomOTPCode draws a uniformly random 4-digit code in [1000, 9999].
func randomOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+1000), nil
}
