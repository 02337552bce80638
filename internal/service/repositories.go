package service

import (
	"context"
	"time"

	"github.com/kadankyi1/amforex/internal/models"
	"github.com/kadankyi1/amforex/internal/scope"
)

// Persistence and infrastructure dependencies, declared where they are
// consumed so services can be tested with in-memory fakes.

type AdminRepository interface {
	Create(ctx context.Context, a *models.Administrator) error
	GetByID(ctx context.Context, adminID int64) (*models.Administrator, error)
	GetByPhoneNumber(ctx context.Context, phoneNumber string) (*models.Administrator, error)
	PhoneInUse(ctx context.Context, phoneNumber string, excludeID int64) (bool, error)
	EmailInUse(ctx context.Context, email string, excludeID int64) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*models.Administrator, error)
	Update(ctx context.Context, a *models.Administrator) error
	UpdatePassword(ctx context.Context, adminID int64, passwordHash string) error
}

type PasscodeRepository interface {
	Create(ctx context.Context, p *models.Passcode) error
	LatestUnused(ctx context.Context, userType string, userID int64) (*models.Passcode, error)
	LatestUnusedMatching(ctx context.Context, userType string, userID int64, code string) (*models.Passcode, error)
	MarkUsed(ctx context.Context, passcodeID int64) error
}

type CurrencyRepository interface {
	Create(ctx context.Context, c *models.Currency) error
	GetByID(ctx context.Context, currencyID int64) (*models.Currency, error)
	GetByAbbreviation(ctx context.Context, abbreviation string) (*models.Currency, error)
	ExistsByAbbreviation(ctx context.Context, abbreviation string) (bool, error)
	List(ctx context.Context) ([]*models.Currency, error)
	Search(ctx context.Context, keyword string) ([]*models.Currency, error)
	Update(ctx context.Context, c *models.Currency) error
}

type RateRepository interface {
	Create(ctx context.Context, rate *models.Rate) error
	GetByID(ctx context.Context, rateID int64) (*models.Rate, error)
	GetByExtID(ctx context.Context, extID string) (*models.Rate, error)
	UpdateValue(ctx context.Context, rateID int64, value string) error
	List(ctx context.Context, limit, offset int) ([]*models.Rate, error)
	Search(ctx context.Context, keyword string) ([]*models.Rate, error)
}

type BureauRepository interface {
	Create(ctx context.Context, b *models.Bureau) error
	GetByID(ctx context.Context, bureauID int64) (*models.Bureau, error)
	GetByTIN(ctx context.Context, tin string) (*models.Bureau, error)
	Update(ctx context.Context, b *models.Bureau) error
	List(ctx context.Context, limit, offset int) ([]*models.Bureau, error)
	Search(ctx context.Context, keyword string) ([]*models.Bureau, error)
	CountBranches(ctx context.Context, bureauID int64) (int, error)
	CreateBranch(ctx context.Context, b *models.Branch) error
	GetBranchByExtID(ctx context.Context, extID string) (*models.Branch, error)
	UpdateBranch(ctx context.Context, b *models.Branch) error
}

type WorkerRepository interface {
	Create(ctx context.Context, w *models.Worker) error
	GetByExtID(ctx context.Context, extID string) (*models.Worker, error)
	Update(ctx context.Context, w *models.Worker) error
}

type TokenIssuer interface {
	Issue(userType string, userID int64, scopes scope.Set) (string, error)
}

type TokenRevoker interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	RevokeAll(ctx context.Context, userType string, userID int64, ttl time.Duration) error
}

type Auditor interface {
	Record(ctx context.Context, actorType, actorID, category, message string)
}
