package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadankyi1/amforex/internal/auth"
	"github.com/kadankyi1/amforex/internal/models"
	"github.com/kadankyi1/amforex/internal/scope"
)

type authFixture struct {
	svc       *AuthService
	admins    *fakeAdminRepo
	passcodes *fakePasscodeRepo
	issuer    *fakeIssuer
	revoker   *fakeRevoker
	auditor   *fakeAuditor
	mailer    *fakeMailer
	admin     *models.Administrator
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	admins := newFakeAdminRepo()
	passcodes := &fakePasscodeRepo{}
	issuer := &fakeIssuer{}
	revoker := &fakeRevoker{}
	auditor := &fakeAuditor{}
	mail := &fakeMailer{}

	h := testHasher()
	passwordHash, err := h.HashPassword("correct-horse")
	require.NoError(t, err)
	pinHash, err := h.HashPIN("4321")
	require.NoError(t, err)

	admin := &models.Administrator{
		Surname:      "Mensah",
		Firstname:    "Akosua",
		PhoneNumber:  "0244000001",
		Email:        "akosua@example.com",
		PasswordHash: passwordHash,
		PINHash:      pinHash,
		Scope:        scope.NewSet(scope.AddCurrency, scope.ViewCurrencies).String(),
	}
	require.NoError(t, admins.Create(context.Background(), admin))

	svc := NewAuthService(newTestGuard(admins, revoker, auditor), passcodes, issuer, mail, 5, 12*time.Hour)
	return &authFixture{svc: svc, admins: admins, passcodes: passcodes, issuer: issuer,
		revoker: revoker, auditor: auditor, mailer: mail, admin: admin}
}

func principalFor(admin *models.Administrator) *auth.Principal {
	return &auth.Principal{
		UserType:  UserTypeAdmin,
		ID:        admin.AdminID,
		Scope:     scope.Parse(admin.Scope),
		JTI:       "jti-test",
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestLoginSuccessIssuesTokenAndPasscode(t *testing.T) {
	f := newAuthFixture(t)

	res, err := f.svc.Login(context.Background(), LoginRequest{
		PhoneNumber: "0244000001",
		Password:    "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "Akosua", res.Firstname)
	assert.Equal(t, "Mensah", res.Surname)
	assert.NotEmpty(t, res.AccessToken)

	pc, err := f.passcodes.LatestUnused(context.Background(), UserTypeAdmin, f.admin.AdminID)
	require.NoError(t, err)
	assert.False(t, pc.Used)
	assert.NotEmpty(t, pc.Code)
	assert.LessOrEqual(t, len(pc.Code), 5)
}

func TestLoginUnknownPhoneFailsGenerically(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Login(context.Background(), LoginRequest{
		PhoneNumber: "0200000000",
		Password:    "whatever",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Greater(t, f.auditor.count(), 0)
}

func TestLoginWrongPasswordFailsGenerically(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Login(context.Background(), LoginRequest{
		PhoneNumber: "0244000001",
		Password:    "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginFlaggedAccountIsRestricted(t *testing.T) {
	f := newAuthFixture(t)
	f.admin.Flagged = true
	require.NoError(t, f.admins.Update(context.Background(), f.admin))

	_, err := f.svc.Login(context.Background(), LoginRequest{
		PhoneNumber: "0244000001",
		Password:    "correct-horse",
	})
	assert.ErrorIs(t, err, ErrAccountRestricted)
	assert.Zero(t, f.issuer.issued)

	_, err = f.passcodes.LatestUnused(context.Background(), UserTypeAdmin, f.admin.AdminID)
	assert.Error(t, err)
}

func TestVerifyPasscodeMarksRowUsed(t *testing.T) {
	f := newAuthFixture(t)

	pc := &models.Passcode{UserType: UserTypeAdmin, UserID: f.admin.AdminID, Code: "90415"}
	require.NoError(t, f.passcodes.Create(context.Background(), pc))

	err := f.svc.VerifyPasscode(context.Background(), principalFor(f.admin), "90415")
	require.NoError(t, err)

	_, err = f.passcodes.LatestUnusedMatching(context.Background(), UserTypeAdmin, f.admin.AdminID, "90415")
	assert.Error(t, err, "used passcode must not satisfy another verification")
}

func TestVerifyPasscodeWrongCodeMutatesNothing(t *testing.T) {
	f := newAuthFixture(t)

	pc := &models.Passcode{UserType: UserTypeAdmin, UserID: f.admin.AdminID, Code: "90415"}
	require.NoError(t, f.passcodes.Create(context.Background(), pc))

	err := f.svc.VerifyPasscode(context.Background(), principalFor(f.admin), "11111")
	assert.ErrorIs(t, err, ErrPasscodeVerification)

	unused, err := f.passcodes.LatestUnused(context.Background(), UserTypeAdmin, f.admin.AdminID)
	require.NoError(t, err)
	assert.False(t, unused.Used)
}

func TestVerifyPasscodeUsedCodeNeverSatisfiesAgain(t *testing.T) {
	f := newAuthFixture(t)

	pc := &models.Passcode{UserType: UserTypeAdmin, UserID: f.admin.AdminID, Code: "90415"}
	require.NoError(t, f.passcodes.Create(context.Background(), pc))

	p := principalFor(f.admin)
	require.NoError(t, f.svc.VerifyPasscode(context.Background(), p, "90415"))

	err := f.svc.VerifyPasscode(context.Background(), p, "90415")
	assert.ErrorIs(t, err, ErrPasscodeVerification)
}

func TestVerifyPasscodeRejectsOverlongCode(t *testing.T) {
	f := newAuthFixture(t)

	err := f.svc.VerifyPasscode(context.Background(), principalFor(f.admin), "123456")
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestResendReturnsMostRecentCode(t *testing.T) {
	f := newAuthFixture(t)

	older := &models.Passcode{UserType: UserTypeAdmin, UserID: f.admin.AdminID, Code: "11111"}
	require.NoError(t, f.passcodes.Create(context.Background(), older))
	newer := &models.Passcode{UserType: UserTypeAdmin, UserID: f.admin.AdminID, Code: "22222"}
	require.NoError(t, f.passcodes.Create(context.Background(), newer))

	require.NoError(t, f.svc.ResendPasscode(context.Background(), principalFor(f.admin)))

	f.mailer.mu.Lock()
	defer f.mailer.mu.Unlock()
	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "22222", f.mailer.sent[0].Code)
	assert.Equal(t, "akosua@example.com", f.mailer.sent[0].To)
}

func TestResendWithoutPasscodeFails(t *testing.T) {
	f := newAuthFixture(t)

	err := f.svc.ResendPasscode(context.Background(), principalFor(f.admin))
	assert.ErrorIs(t, err, ErrPasscodeResend)
}

func TestResendMailFailureSurfacesResendError(t *testing.T) {
	f := newAuthFixture(t)
	f.mailer.err = errors.New("smtp down")

	pc := &models.Passcode{UserType: UserTypeAdmin, UserID: f.admin.AdminID, Code: "33333"}
	require.NoError(t, f.passcodes.Create(context.Background(), pc))

	err := f.svc.ResendPasscode(context.Background(), principalFor(f.admin))
	assert.ErrorIs(t, err, ErrPasscodeResend)
}

func TestFlaggedAccountOperationRevokesToken(t *testing.T) {
	f := newAuthFixture(t)
	f.admin.Flagged = true
	require.NoError(t, f.admins.Update(context.Background(), f.admin))

	err := f.svc.ResendPasscode(context.Background(), principalFor(f.admin))
	assert.ErrorIs(t, err, ErrAccountRestricted)

	f.revoker.mu.Lock()
	defer f.revoker.mu.Unlock()
	assert.Contains(t, f.revoker.revokedJTIs, "jti-test")
}

func TestLogoutRevokesPresentedToken(t *testing.T) {
	f := newAuthFixture(t)

	require.NoError(t, f.svc.Logout(context.Background(), principalFor(f.admin)))

	f.revoker.mu.Lock()
	defer f.revoker.mu.Unlock()
	assert.Equal(t, []string{"jti-test"}, f.revoker.revokedJTIs)
}

func TestChangePasswordRevokesAllTokens(t *testing.T) {
	f := newAuthFixture(t)

	err := f.svc.ChangePassword(context.Background(), principalFor(f.admin), ChangePasswordRequest{
		CurrentPassword: "correct-horse",
		NewPassword:     "new-password-1",
		PIN:             "4321",
	})
	require.NoError(t, err)

	f.revoker.mu.Lock()
	defer f.revoker.mu.Unlock()
	assert.Equal(t, []int64{f.admin.AdminID}, f.revoker.revokedAll)

	updated, err := f.admins.GetByID(context.Background(), f.admin.AdminID)
	require.NoError(t, err)
	assert.True(t, testHasher().VerifyPassword("new-password-1", updated.PasswordHash))
}

func TestChangePasswordWrongCurrentPassword(t *testing.T) {
	f := newAuthFixture(t)

	err := f.svc.ChangePassword(context.Background(), principalFor(f.admin), ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "new-password-1",
		PIN:             "4321",
	})
	assert.ErrorIs(t, err, ErrIncorrectPassword)
}

func TestChangePasswordWrongPINKeepsToken(t *testing.T) {
	f := newAuthFixture(t)

	err := f.svc.ChangePassword(context.Background(), principalFor(f.admin), ChangePasswordRequest{
		CurrentPassword: "correct-horse",
		NewPassword:     "new-password-1",
		PIN:             "0000",
	})
	assert.ErrorIs(t, err, ErrIncorrectPIN)

	f.revoker.mu.Lock()
	defer f.revoker.mu.Unlock()
	assert.Empty(t, f.revoker.revokedJTIs)
	assert.Empty(t, f.revoker.revokedAll)
}
