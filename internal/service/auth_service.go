package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kadankyi1/amforex/internal/audit"
	"github.com/kadankyi1/amforex/internal/auth"
	"github.com/kadankyi1/amforex/internal/mailer"
	"github.com/kadankyi1/amforex/internal/models"
	"github.com/kadankyi1/amforex/internal/passcode"
	"github.com/kadankyi1/amforex/internal/repository/postgres"
	"github.com/kadankyi1/amforex/internal/scope"
	"github.com/kadankyi1/amforex/internal/util"
)

// UserTypeAdmin is the actor type for back-office administrator accounts.
const UserTypeAdmin = "admin"

type LoginRequest struct {
	PhoneNumber string `json:"admin_phone_number"`
	Password    string `json:"password"`
}

type LoginResult struct {
	Firstname   string `json:"admin_firstname"`
	Surname     string `json:"admin_surname"`
	AccessToken string `json:"access_token"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	PIN             string `json:"pin"`
}

type AuthService struct {
	Guard
	passcodes      PasscodeRepository
	issuer         TokenIssuer
	mail           mailer.Mailer
	passcodeDigits int
	revokeWindow   time.Duration
}

func NewAuthService(g Guard, passcodes PasscodeRepository, issuer TokenIssuer, mail mailer.Mailer, passcodeDigits int, revokeWindow time.Duration) *AuthService {
	return &AuthService{
		Guard:          g,
		passcodes:      passcodes,
		issuer:         issuer,
		mail:           mail,
		passcodeDigits: passcodeDigits,
		revokeWindow:   revokeWindow,
	}
}

// Login is the first factor. Credential failures are indistinguishable to
// the caller; only the audit trail records which check failed.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	phone := util.SanitizeInput(req.PhoneNumber)
	if phone == "" {
		return nil, validationError("The phone number field is required.")
	}
	if req.Password == "" {
		return nil, validationError("The password field is required.")
	}

	admin, err := s.admins.GetByPhoneNumber(ctx, phone)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			s.auditor.Record(ctx, UserTypeAdmin, phone, audit.CategoryLogin,
				"Failed login attempt: unknown phone number")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.VerifyPassword(req.Password, admin.PasswordHash) {
		s.auditor.Record(ctx, UserTypeAdmin, phone, audit.CategoryLogin,
			"Failed login attempt: wrong password")
		return nil, ErrInvalidCredentials
	}

	if admin.Flagged {
		s.auditor.Record(ctx, UserTypeAdmin, phone, audit.CategoryLogin,
			fmt.Sprintf("Flagged account %s %s attempted login", admin.Firstname, admin.Surname))
		return nil, ErrAccountRestricted
	}

	token, err := s.issuer.Issue(UserTypeAdmin, admin.AdminID, scope.Parse(admin.Scope))
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	code, err := passcode.Generate(s.passcodeDigits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate passcode: %w", err)
	}

	pc := &models.Passcode{UserType: UserTypeAdmin, UserID: admin.AdminID, Code: code}
	if err := s.passcodes.Create(ctx, pc); err != nil {
		return nil, err
	}

	// Delivery must never delay or fail the login response.
	go func(email, name, code string, issuedAt time.Time) {
		if err := s.mail.SendPasscode(email, name, code, issuedAt); err != nil {
			util.Error("passcode delivery failed", util.ErrorField(err))
		}
	}(admin.Email, admin.Firstname, pc.Code, pc.CreatedAt)

	s.auditor.Record(ctx, UserTypeAdmin, phone, audit.CategoryLogin,
		fmt.Sprintf("%s %s logged in", admin.Firstname, admin.Surname))

	return &LoginResult{
		Firstname:   admin.Firstname,
		Surname:     admin.Surname,
		AccessToken: token,
	}, nil
}

// VerifyPasscode is the second factor. The lookup keys on the submitted
// code directly; any miss gets the same generic failure and no row changes.
func (s *AuthService) VerifyPasscode(ctx context.Context, p *auth.Principal, code string) error {
	code = util.SanitizeInput(code)
	if code == "" {
		return validationError("The passcode field is required.")
	}
	if len(code) > passcode.MaxDigits {
		return validationError("The passcode may not be greater than 5 characters.")
	}

	admin, err := s.requireActiveAdmin(ctx, p)
	if err != nil {
		return err
	}

	pc, err := s.passcodes.LatestUnusedMatching(ctx, p.UserType, p.ID, code)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			s.auditor.Record(ctx, p.UserType, actorID(p), audit.CategoryLogin,
				fmt.Sprintf("Passcode verification failed for %s %s", admin.Firstname, admin.Surname))
			return ErrPasscodeVerification
		}
		return err
	}

	// Ownership re-check on the returned row.
	if pc.UserType != p.UserType || pc.UserID != p.ID {
		s.auditor.Record(ctx, p.UserType, actorID(p), audit.CategorySecurity,
			"Passcode lookup returned a row for another account")
		return ErrPasscodeVerification
	}

	if err := s.passcodes.MarkUsed(ctx, pc.PasscodeID); err != nil {
		return err
	}

	s.auditor.Record(ctx, p.UserType, actorID(p), audit.CategoryLogin,
		fmt.Sprintf("%s %s verified a passcode", admin.Firstname, admin.Surname))
	return nil
}

// ResendPasscode re-emails the most recent unused code. It never mints a
// new one; a fresh code requires a fresh login.
func (s *AuthService) ResendPasscode(ctx context.Context, p *auth.Principal) error {
	admin, err := s.requireActiveAdmin(ctx, p)
	if err != nil {
		return err
	}

	pc, err := s.passcodes.LatestUnused(ctx, p.UserType, p.ID)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return ErrPasscodeResend
		}
		return err
	}

	if pc.UserType != p.UserType || pc.UserID != p.ID {
		s.auditor.Record(ctx, p.UserType, actorID(p), audit.CategorySecurity,
			"Passcode lookup returned a row for another account")
		return ErrPasscodeResend
	}

	if err := s.mail.SendPasscode(admin.Email, admin.Firstname, pc.Code, pc.CreatedAt); err != nil {
		return ErrPasscodeResend
	}

	s.auditor.Record(ctx, p.UserType, actorID(p), audit.CategoryLogin,
		fmt.Sprintf("Passcode re-sent to %s %s", admin.Firstname, admin.Surname))
	return nil
}

func (s *AuthService) Logout(ctx context.Context, p *auth.Principal) error {
	if err := s.tokens.RevokeToken(ctx, p.JTI, p.TTL()); err != nil {
		return err
	}
	s.auditor.Record(ctx, p.UserType, actorID(p), audit.CategorySecurity, "Logged out")
	return nil
}

// ChangePassword requires the current password and the PIN, then invalidates
// every token the account holds.
func (s *AuthService) ChangePassword(ctx context.Context, p *auth.Principal, req ChangePasswordRequest) error {
	if req.CurrentPassword == "" {
		return validationError("The current password field is required.")
	}
	if req.NewPassword == "" {
		return validationError("The new password field is required.")
	}
	if len(req.NewPassword) < 8 {
		return validationError("The new password must be at least 8 characters.")
	}

	admin, err := s.requireActiveAdmin(ctx, p)
	if err != nil {
		return err
	}

	if !s.hasher.VerifyPassword(req.CurrentPassword, admin.PasswordHash) {
		s.auditor.Record(ctx, p.UserType, actorID(p), audit.CategorySecurity,
			fmt.Sprintf("Password change rejected for %s %s: wrong current password", admin.Firstname, admin.Surname))
		return ErrIncorrectPassword
	}

	if err := s.requirePIN(ctx, p, admin, req.PIN); err != nil {
		return err
	}

	hash, err := s.hasher.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.admins.UpdatePassword(ctx, admin.AdminID, hash); err != nil {
		return err
	}

	if err := s.tokens.RevokeAll(ctx, p.UserType, p.ID, s.revokeWindow); err != nil {
		util.Error("failed to revoke tokens after password change", util.ErrorField(err))
	}

	s.auditor.Record(ctx, p.UserType, actorID(p), audit.CategorySecurity,
		fmt.Sprintf("%s %s changed their password", admin.Firstname, admin.Surname))
	return nil
}
