package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/kadankyi1/amforex/internal/audit"
	"github.com/kadankyi1/amforex/internal/auth"
	"github.com/kadankyi1/amforex/internal/models"
	"github.com/kadankyi1/amforex/internal/repository/postgres"
	"github.com/kadankyi1/amforex/internal/scope"
	"github.com/kadankyi1/amforex/internal/util"
)

const adminsPageSize = 50

// CapabilityGrants carries the per-capability request fields. A non-empty
// value grants the capability; assembly order is fixed regardless of the
// order fields arrive in.
type CapabilityGrants struct {
	AddCurrency    string `json:"add_currency"`
	ViewCurrencies string `json:"view_currencies"`
	GetOneCurrency string `json:"get_one_currency"`
	UpdateCurrency string `json:"update_currency"`
	AddRate        string `json:"add_rate"`
	ViewRates      string `json:"view_rates"`
	GetOneRate     string `json:"get_one_rate"`
	UpdateRate     string `json:"update_rate"`
	AddBureau      string `json:"add_bureau"`
	ViewBureaus    string `json:"view_bureaus"`
	GetOneBureau   string `json:"get_one_bureau"`
	UpdateBureau   string `json:"update_bureau"`
	AddAdmin       string `json:"add_admin"`
	ViewAdmins     string `json:"view_admins"`
	EditAdmin      string `json:"edit_admin"`
	ViewReports    string `json:"view_reports"`
}

func (g CapabilityGrants) assemble() scope.Set {
	return scope.Assemble(map[scope.Capability]string{
		scope.AddCurrency:    g.AddCurrency,
		scope.ViewCurrencies: g.ViewCurrencies,
		scope.GetOneCurrency: g.GetOneCurrency,
		scope.UpdateCurrency: g.UpdateCurrency,
		scope.AddRate:        g.AddRate,
		scope.ViewRates:      g.ViewRates,
		scope.GetOneRate:     g.GetOneRate,
		scope.UpdateRate:     g.UpdateRate,
		scope.AddBureau:      g.AddBureau,
		scope.ViewBureaus:    g.ViewBureaus,
		scope.GetOneBureau:   g.GetOneBureau,
		scope.UpdateBureau:   g.UpdateBureau,
		scope.AddAdmin:       g.AddAdmin,
		scope.ViewAdmins:     g.ViewAdmins,
		scope.EditAdmin:      g.EditAdmin,
		scope.ViewReports:    g.ViewReports,
	})
}

type AdminRegisterRequest struct {
	Surname     string `json:"admin_surname"`
	Firstname   string `json:"admin_firstname"`
	Othernames  string `json:"admin_othernames"`
	PhoneNumber string `json:"admin_phone_number"`
	Email       string `json:"admin_email"`
	Password    string `json:"password"`
	PIN         string `json:"pin"`
	CapabilityGrants
}

type AdminRegisterResult struct {
	Admin       *models.Administrator
	AccessToken string
}

type AdminAddRequest struct {
	Surname     string `json:"admin_surname"`
	Firstname   string `json:"admin_firstname"`
	Othernames  string `json:"admin_othernames"`
	PhoneNumber string `json:"admin_phone_number"`
	Email       string `json:"admin_email"`
	PIN         string `json:"pin"`
	CapabilityGrants
}

type AdminEditRequest struct {
	AdminID     int64  `json:"admin_id"`
	Surname     string `json:"admin_surname"`
	Firstname   string `json:"admin_firstname"`
	Othernames  string `json:"admin_othernames"`
	PhoneNumber string `json:"admin_phone_number"`
	Email       string `json:"admin_email"`
	Flagged     *bool  `json:"admin_flagged"`
	PIN         string `json:"pin"`
	CapabilityGrants
}

type AdminService struct {
	Guard
	issuer TokenIssuer
}

func NewAdminService(g Guard, issuer TokenIssuer) *AdminService {
	return &AdminService{Guard: g, issuer: issuer}
}

// Register is unauthenticated self-registration. It exists for
// bootstrapping; the created account logs in with the credentials it chose
// and receives a token immediately.
func (s *AdminService) Register(ctx context.Context, req AdminRegisterRequest) (*AdminRegisterResult, error) {
	surname := util.SanitizeInput(req.Surname)
	firstname := util.SanitizeInput(req.Firstname)
	phone := util.SanitizeInput(req.PhoneNumber)
	email := util.SanitizeInput(req.Email)

	if surname == "" {
		return nil, validationError("The admin surname field is required.")
	}
	if firstname == "" {
		return nil, validationError("The admin firstname field is required.")
	}
	if phone == "" {
		return nil, validationError("The admin phone number field is required.")
	}
	if email == "" {
		return nil, validationError("The admin email field is required.")
	}
	if len(req.Password) < 8 {
		return nil, validationError("The password must be at least 8 characters.")
	}
	if len(req.PIN) < 4 {
		return nil, validationError("The pin must be at least 4 characters.")
	}

	if taken, err := s.admins.PhoneInUse(ctx, phone, 0); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrPhoneTaken
	}
	if taken, err := s.admins.EmailInUse(ctx, email, 0); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrEmailTaken
	}

	passwordHash, err := s.hasher.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	pinHash, err := s.hasher.HashPIN(req.PIN)
	if err != nil {
		return nil, err
	}

	grants := req.assemble()
	admin := &models.Administrator{
		Surname:      surname,
		Firstname:    firstname,
		Othernames:   util.SanitizeInput(req.Othernames),
		PhoneNumber:  phone,
		Email:        email,
		PINHash:      pinHash,
		PasswordHash: passwordHash,
		Scope:        grants.String(),
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, err
	}

	token, err := s.issuer.Issue(UserTypeAdmin, admin.AdminID, grants)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	s.auditor.Record(ctx, UserTypeAdmin, fmt.Sprint(admin.AdminID), audit.CategoryAdministrators,
		fmt.Sprintf("Administrator %s %s self-registered", firstname, surname))

	return &AdminRegisterResult{Admin: admin, AccessToken: token}, nil
}

// Add creates an administrator on behalf of the caller. The new account's
// first password is its phone number and its first PIN is the last four
// digits of the phone number, both stored hashed.
func (s *AdminService) Add(ctx context.Context, p *auth.Principal, req AdminAddRequest) (*models.Administrator, error) {
	if err := s.requireCapability(ctx, p, scope.AddAdmin); err != nil {
		return nil, err
	}

	surname := util.SanitizeInput(req.Surname)
	firstname := util.SanitizeInput(req.Firstname)
	phone := util.SanitizeInput(req.PhoneNumber)
	email := util.SanitizeInput(req.Email)

	if surname == "" {
		return nil, validationError("The admin surname field is required.")
	}
	if firstname == "" {
		return nil, validationError("The admin firstname field is required.")
	}
	if phone == "" {
		return nil, validationError("The admin phone number field is required.")
	}
	if len(phone) < 4 {
		return nil, validationError("The admin phone number must be at least 4 characters.")
	}
	if email == "" {
		return nil, validationError("The admin email field is required.")
	}

	creator, err := s.requireActiveAdmin(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := s.requirePIN(ctx, p, creator, req.PIN); err != nil {
		return nil, err
	}

	if taken, err := s.admins.PhoneInUse(ctx, phone, 0); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrPhoneTaken
	}
	if taken, err := s.admins.EmailInUse(ctx, email, 0); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrEmailTaken
	}

	passwordHash, err := s.hasher.HashPassword(phone)
	if err != nil {
		return nil, err
	}
	pinHash, err := s.hasher.HashPIN(lastN(phone, 4))
	if err != nil {
		return nil, err
	}

	admin := &models.Administrator{
		Surname:        surname,
		Firstname:      firstname,
		Othernames:     util.SanitizeInput(req.Othernames),
		PhoneNumber:    phone,
		Email:          email,
		PINHash:        pinHash,
		PasswordHash:   passwordHash,
		Scope:          req.assemble().String(),
		CreatorAdminID: creator.AdminID,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, err
	}

	s.auditor.Record(ctx, p.UserType, actorID(p), audit.CategoryAdministrators,
		fmt.Sprintf("Added administrator %s %s", firstname, surname))
	return admin, nil
}

// List resolves each administrator's creator name for display.
func (s *AdminService) List(ctx context.Context, p *auth.Principal, page int) ([]*models.Administrator, error) {
	if err := s.requireCapability(ctx, p, scope.ViewAdmins); err != nil {
		return nil, err
	}
	if _, err := s.requireActiveAdmin(ctx, p); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}

	admins, err := s.admins.List(ctx, adminsPageSize, (page-1)*adminsPageSize)
	if err != nil {
		return nil, err
	}

	names := make(map[int64]string)
	for _, a := range admins {
		names[a.AdminID] = a.Firstname + " " + a.Surname
	}
	for _, a := range admins {
		if a.CreatorAdminID == 0 {
			continue
		}
		if name, ok := names[a.CreatorAdminID]; ok {
			a.CreatorName = name
			continue
		}
		creator, err := s.admins.GetByID(ctx, a.CreatorAdminID)
		if err != nil {
			if errors.Is(err, postgres.ErrNotFound) {
				continue
			}
			return nil, err
		}
		names[creator.AdminID] = creator.Firstname + " " + creator.Surname
		a.CreatorName = names[creator.AdminID]
	}
	return admins, nil
}

func (s *AdminService) GetOne(ctx context.Context, p *auth.Principal, adminID int64) (*models.Administrator, error) {
	if err := s.requireCapability(ctx, p, scope.ViewAdmins); err != nil {
		return nil, err
	}
	if adminID <= 0 {
		return nil, validationError("The admin id field is required.")
	}
	if _, err := s.requireActiveAdmin(ctx, p); err != nil {
		return nil, err
	}

	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return admin, nil
}

// Edit reassembles the target's scope from the submitted grants; grants not
// present in the request are removed.
func (s *AdminService) Edit(ctx context.Context, p *auth.Principal, req AdminEditRequest) (*models.Administrator, error) {
	if err := s.requireCapability(ctx, p, scope.EditAdmin); err != nil {
		return nil, err
	}

	if req.AdminID <= 0 {
		return nil, validationError("The admin id field is required.")
	}
	surname := util.SanitizeInput(req.Surname)
	firstname := util.SanitizeInput(req.Firstname)
	phone := util.SanitizeInput(req.PhoneNumber)
	email := util.SanitizeInput(req.Email)
	if surname == "" {
		return nil, validationError("The admin surname field is required.")
	}
	if firstname == "" {
		return nil, validationError("The admin firstname field is required.")
	}
	if phone == "" {
		return nil, validationError("The admin phone number field is required.")
	}
	if email == "" {
		return nil, validationError("The admin email field is required.")
	}

	editor, err := s.requireActiveAdmin(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := s.requirePIN(ctx, p, editor, req.PIN); err != nil {
		return nil, err
	}

	admin, err := s.admins.GetByID(ctx, req.AdminID)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}

	if taken, err := s.admins.PhoneInUse(ctx, phone, admin.AdminID); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrPhoneTaken
	}
	if taken, err := s.admins.EmailInUse(ctx, email, admin.AdminID); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrEmailTaken
	}

	admin.Surname = surname
	admin.Firstname = firstname
	admin.Othernames = util.SanitizeInput(req.Othernames)
	admin.PhoneNumber = phone
	admin.Email = email
	admin.Scope = req.assemble().String()
	if req.Flagged != nil {
		admin.Flagged = *req.Flagged
	}

	if err := s.admins.Update(ctx, admin); err != nil {
		return nil, err
	}

	s.auditor.Record(ctx, p.UserType, actorID(p), audit.CategoryAdministrators,
		fmt.Sprintf("Updated administrator %s %s", firstname, surname))
	return admin, nil
}
