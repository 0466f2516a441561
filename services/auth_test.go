package services_test

import (
	"strconv"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/Zaffarpulse/pulse-hospital-app/config"
	"github.com/Zaffarpulse/pulse-hospital-app/middleware"
	"github.com/Zaffarpulse/pulse-hospital-app/models"
	"github.com/Zaffarpulse/pulse-hospital-app/services"
	"github.com/Zaffarpulse/pulse-hospital-app/store"
)

func newAuthService() (*services.AuthService, *config.Config) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	logger := logrus.New()
	return services.NewAuthService(store.NewMemStorage(), cfg, logger), cfg
}

func TestLoginUnknownUserNeverSucceeds(t *testing.T) {
	auth, _ := newAuthService()

	cases := []struct {
		userID string
		role   string
	}{
		{"ghost", models.RoleOperator},
		{"sarfraz", models.RoleManager}, // real account, wrong role
		{"zaffar", models.RoleOperator},
	}
	for _, tc := range cases {
		user, token, err := auth.Login(tc.userID, "1234", tc.role)
		require.ErrorIs(t, err, services.ErrInvalidCredentials, "%s/%s", tc.userID, tc.role)
		require.Nil(t, user)
		require.Empty(t, token)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	auth, _ := newAuthService()

	user, _, err := auth.Login("sarfraz", "wrong", models.RoleOperator)
	require.ErrorIs(t, err, services.ErrInvalidCredentials)
	require.Nil(t, user)
}

func TestLoginReturnsSanitizedUserAndToken(t *testing.T) {
	auth, cfg := newAuthService()

	user, token, err := auth.Login("sarfraz", "1234", models.RoleOperator)
	require.NoError(t, err)
	require.Equal(t, &models.SafeUser{ID: 2, UserID: "sarfraz", Mobile: "6006807212", Name: "Sarfraz", Role: models.RoleOperator}, user)

	parsed, err := jwt.ParseWithClaims(token, &middleware.Claims{}, func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	claims := parsed.Claims.(*middleware.Claims)
	require.Equal(t, 2, claims.UserID)
	require.Equal(t, models.RoleOperator, claims.Role)
}

func TestGenerateOTPUnknownUser(t *testing.T) {
	auth, _ := newAuthService()

	code, err := auth.GenerateOTP("ghost", models.RoleOperator)
	require.ErrorIs(t, err, services.ErrUserNotFound)
	require.Empty(t, code)

	// Wrong role for a real account is also not-found, never success
	code, err = auth.GenerateOTP("hilal", models.RoleManager)
	require.ErrorIs(t, err, services.ErrUserNotFound)
	require.Empty(t, code)
}

func TestOTPFlowSingleUse(t *testing.T) {
	auth, _ := newAuthService()

	code, err := auth.GenerateOTP("hilal", models.RoleSupervisor)
	require.NoError(t, err)
	require.Len(t, code, 4)
	n, err := strconv.Atoi(code)
	require.NoError(t, err)
	require.GreaterOrEqual(t, n, 1000)
	require.LessOrEqual(t, n, 9999)

	user, token, err := auth.VerifyOTP("hilal", code, models.RoleSupervisor)
	require.NoError(t, err)
	require.Equal(t, "hilal", user.UserID)
	require.Equal(t, models.RoleSupervisor, user.Role)
	require.NotEmpty(t, token)

	// Second verification of the same code fails
	user, _, err = auth.VerifyOTP("hilal", code, models.RoleSupervisor)
	require.ErrorIs(t, err, services.ErrInvalidOTP)
	require.Nil(t, user)
}

func TestVerifyOTPWrongCode(t *testing.T) {
	auth, _ := newAuthService()

	code, err := auth.GenerateOTP("sarfraz", models.RoleOperator)
	require.NoError(t, err)

	wrong := "0000"
	if code == wrong {
		wrong = "0001"
	}
	user, _, err := auth.VerifyOTP("sarfraz", wrong, models.RoleOperator)
	require.ErrorIs(t, err, services.ErrInvalidOTP)
	require.Nil(t, user)
}

func TestVerifyOTPRoleMismatchOnSecondCall(t *testing.T) {
	auth, _ := newAuthService()

	code, err := auth.GenerateOTP("sarfraz", models.RoleOperator)
	require.NoError(t, err)

	// The ledger is role-agnostic; the user lookup is what rejects this
	user, _, err := auth.VerifyOTP("sarfraz", code, models.RoleManager)
	require.ErrorIs(t, err, services.ErrUserNotFound)
	require.Nil(t, user)

	// The code is still consumable under the right role
	user, _, err = auth.VerifyOTP("sarfraz", code, models.RoleOperator)
	require.NoError(t, err)
	require.Equal(t, 2, user.ID)
}

func TestCreateUserRejectsDuplicateUserID(t *testing.T) {
	auth, _ := newAuthService()

	user, err := auth.CreateUser(models.InsertUser{UserID: "aadil", Mobile: "9000000001", Password: "pw", Role: models.RoleOperator, Name: "Aadil"})
	require.NoError(t, err)
	require.Equal(t, 4, user.ID)

	_, err = auth.CreateUser(models.InsertUser{UserID: "aadil", Mobile: "9000000002", Password: "pw", Role: models.RoleSupervisor, Name: "Aadil Again"})
	require.ErrorIs(t, err, services.ErrUserExists)
}
