package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kadankyi1/amforex/internal/audit"
	"github.com/kadankyi1/amforex/internal/auth"
	"github.com/kadankyi1/amforex/internal/models"
	"github.com/kadankyi1/amforex/internal/repository/postgres"
	"github.com/kadankyi1/amforex/internal/scope"
	"github.com/kadankyi1/amforex/internal/util"
)

type CurrencyAddRequest struct {
	FullName     string `json:"currency_full_name"`
	Abbreviation string `json:"currency_abbreviation"`
	Symbol       string `json:"currency_symbol"`
	PIN          string `json:"pin"`
}

type CurrencyEditRequest struct {
	CurrencyID   int64  `json:"currency_id"`
	FullName     string `json:"currency_full_name"`
	Abbreviation string `json:"currency_abbreviation"`
	Symbol       string `json:"currency_symbol"`
	Flagged      *bool  `json:"currency_flagged"`
	PIN          string `json:"pin"`
}

type CurrencyService struct {
	Guard
	currencies CurrencyRepository
}

func NewCurrencyService(g Guard, currencies CurrencyRepository) *CurrencyService {
	return &CurrencyService{Guard: g, currencies: currencies}
}

func (s *CurrencyService) Add(ctx context.Context, p *auth.Principal, req CurrencyAddRequest) (*models.Currency, error) {
	if err := s.requireCapability(ctx, p, scope.AddCurrency); err != nil {
		return nil, err
	}

	fullName := util.SanitizeInput(req.FullName)
	abbreviation := strings.ToUpper(util.SanitizeInput(req.Abbreviation))
	if fullName == "" {
		return nil, validationError("The currency full name field is required.")
	}
	if abbreviation == "" {
		return nil, validationError("The currency abbreviation field is required.")
	}

	admin, err := s.requireActiveAdmin(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := s.requirePIN(ctx, p, admin, req.PIN); err != nil {
		return nil, err
	}

	exists, err := s.currencies.ExistsByAbbreviation(ctx, abbreviation)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCurrencyExists
	}

	currency := &models.Currency{
		FullName:       fullName,
		Abbreviation:   abbreviation,
		Symbol:         util.SanitizeInput(req.Symbol),
		CreatorAdminID: admin.AdminID,
	}
	if err := s.currencies.Create(ctx, currency); err != nil {
		return nil, err
	}

	s.auditor.Record(ctx, p.UserType, actorID(p), audit.CategoryCurrencies,
		fmt.Sprintf("Added currency %s (%s)", currency.FullName, currency.Abbreviation))
	return currency, nil
}

func (s *CurrencyService) List(ctx context.Context, p *auth.Principal) ([]*models.Currency, error) {
	if err := s.requireCapability(ctx, p, scope.ViewCurrencies); err != nil {
		return nil, err
	}
	if _, err := s.requireActiveAdmin(ctx, p); err != nil {
		return nil, err
	}
	return s.currencies.List(ctx)
}

func (s *CurrencyService) Search(ctx context.Context, p *auth.Principal, keyword string) ([]*models.Currency, error) {
	if err := s.requireCapability(ctx, p, scope.ViewCurrencies); err != nil {
		return nil, err
	}
	keyword = util.SanitizeInput(keyword)
	if keyword == "" {
		return nil, validationError("The keyword field is required.")
	}
	if _, err := s.requireActiveAdmin(ctx, p); err != nil {
		return nil, err
	}
	return s.currencies.Search(ctx, keyword)
}

func (s *CurrencyService) GetOne(ctx context.Context, p *auth.Principal, currencyID int64) (*models.Currency, error) {
	if err := s.requireCapability(ctx, p, scope.GetOneCurrency); err != nil {
		return nil, err
	}
	if currencyID <= 0 {
		return nil, validationError("The currency id field is required.")
	}
	if _, err := s.requireActiveAdmin(ctx, p); err != nil {
		return nil, err
	}

	currency, err := s.currencies.GetByID(ctx, currencyID)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrCurrencyNotFound
		}
		return nil, err
	}
	return currency, nil
}

func (s *CurrencyService) Edit(ctx context.Context, p *auth.Principal, req CurrencyEditRequest) (*models.Currency, error) {
	if err := s.requireCapability(ctx, p, scope.UpdateCurrency); err != nil {
		return nil, err
	}

	if req.CurrencyID <= 0 {
		return nil, validationError("The currency id field is required.")
	}
	fullName := util.SanitizeInput(req.FullName)
	abbreviation := strings.ToUpper(util.SanitizeInput(req.Abbreviation))
	if fullName == "" {
		return nil, validationError("The currency full name field is required.")
	}
	if abbreviation == "" {
		return nil, validationError("The currency abbreviation field is required.")
	}

	admin, err := s.requireActiveAdmin(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := s.requirePIN(ctx, p, admin, req.PIN); err != nil {
		return nil, err
	}

	currency, err := s.currencies.GetByID(ctx, req.CurrencyID)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrCurrencyMissing
		}
		return nil, err
	}

	if abbreviation != currency.Abbreviation {
		exists, err := s.currencies.ExistsByAbbreviation(ctx, abbreviation)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrCurrencyExists
		}
	}

	currency.FullName = fullName
	currency.Abbreviation = abbreviation
	currency.Symbol = util.SanitizeInput(req.Symbol)
	if req.Flagged != nil {
		currency.Flagged = *req.Flagged
	}

	if err := s.currencies.Update(ctx, currency); err != nil {
		return nil, err
	}

	s.auditor.Record(ctx, p.UserType, actorID(p), audit.CategoryCurrencies,
		fmt.Sprintf("Updated currency %s (%s)", currency.FullName, currency.Abbreviation))
	return currency, nil
}
