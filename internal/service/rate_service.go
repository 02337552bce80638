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

// ratesPageSize is the page length for rate listings.
const ratesPageSize = 50

type RateAddRequest struct {
	CurrencyFromAbbr string `json:"currency_from_abbreviation"`
	CurrencyToAbbr   string `json:"currency_to_abbreviation"`
	Value            string `json:"rate"`
	PIN              string `json:"pin"`
}

// RateAddResult reports whether the upsert created or refreshed the rate.
type RateAddResult struct {
	Rate    *models.Rate
	Updated bool
}

type RateService struct {
	Guard
	rates      RateRepository
	currencies CurrencyRepository
}

func NewRateService(g Guard, rates RateRepository, currencies CurrencyRepository) *RateService {
	return &RateService{Guard: g, rates: rates, currencies: currencies}
}

// Add upserts a rate keyed by the concatenated currency abbreviations, so
// repeated submissions for the same direction refresh the value in place.
func (s *RateService) Add(ctx context.Context, p *auth.Principal, req RateAddRequest) (*RateAddResult, error) {
	if err := s.requireCapability(ctx, p, scope.AddRate); err != nil {
		return nil, err
	}

	fromAbbr := strings.ToUpper(util.SanitizeInput(req.CurrencyFromAbbr))
	toAbbr := strings.ToUpper(util.SanitizeInput(req.CurrencyToAbbr))
	value := util.SanitizeInput(req.Value)
	if fromAbbr == "" {
		return nil, validationError("The currency from abbreviation field is required.")
	}
	if toAbbr == "" {
		return nil, validationError("The currency to abbreviation field is required.")
	}
	if value == "" {
		return nil, validationError("The rate field is required.")
	}
	if fromAbbr == toAbbr {
		return nil, validationError("The currency from and currency to must differ.")
	}

	admin, err := s.requireActiveAdmin(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := s.requirePIN(ctx, p, admin, req.PIN); err != nil {
		return nil, err
	}

	from, err := s.currencies.GetByAbbreviation(ctx, fromAbbr)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrCurrencyNotFound
		}
		return nil, err
	}
	to, err := s.currencies.GetByAbbreviation(ctx, toAbbr)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrCurrencyNotFound
		}
		return nil, err
	}

	extID := fromAbbr + toAbbr

	existing, err := s.rates.GetByExtID(ctx, extID)
	if err == nil {
		if err := s.rates.UpdateValue(ctx, existing.RateID, value); err != nil {
			return nil, err
		}
		existing.Value = value
		s.auditor.Record(ctx, p.UserType, actorID(p), audit.CategoryRates,
			fmt.Sprintf("Updated rate %s to %s", extID, value))
		return &RateAddResult{Rate: existing, Updated: true}, nil
	}
	if !errors.Is(err, postgres.ErrNotFound) {
		return nil, err
	}

	rate := &models.Rate{
		ExtID:            extID,
		CurrencyFromID:   from.CurrencyID,
		CurrencyFromAbbr: from.Abbreviation,
		CurrencyToID:     to.CurrencyID,
		CurrencyToAbbr:   to.Abbreviation,
		Value:            value,
		CreatorAdminID:   admin.AdminID,
	}
	if err := s.rates.Create(ctx, rate); err != nil {
		return nil, err
	}

	s.auditor.Record(ctx, p.UserType, actorID(p), audit.CategoryRates,
		fmt.Sprintf("Added rate %s at %s", extID, value))
	return &RateAddResult{Rate: rate, Updated: false}, nil
}

func (s *RateService) List(ctx context.Context, p *auth.Principal, page int) ([]*models.Rate, error) {
	if err := s.requireCapability(ctx, p, scope.ViewRates); err != nil {
		return nil, err
	}
	if _, err := s.requireActiveAdmin(ctx, p); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	return s.rates.List(ctx, ratesPageSize, (page-1)*ratesPageSize)
}

func (s *RateService) Search(ctx context.Context, p *auth.Principal, keyword string) ([]*models.Rate, error) {
	if err := s.requireCapability(ctx, p, scope.ViewRates); err != nil {
		return nil, err
	}
	keyword = util.SanitizeInput(keyword)
	if keyword == "" {
		return nil, validationError("The keyword field is required.")
	}
	if _, err := s.requireActiveAdmin(ctx, p); err != nil {
		return nil, err
	}
	return s.rates.Search(ctx, keyword)
}

func (s *RateService) GetOne(ctx context.Context, p *auth.Principal, rateID int64) (*models.Rate, error) {
	if err := s.requireCapability(ctx, p, scope.GetOneRate); err != nil {
		return nil, err
	}
	if rateID <= 0 {
		return nil, validationError("The rate id field is required.")
	}
	if _, err := s.requireActiveAdmin(ctx, p); err != nil {
		return nil, err
	}

	rate, err := s.rates.GetByID(ctx, rateID)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrRateNotFound
		}
		return nil, err
	}
	return rate, nil
}
