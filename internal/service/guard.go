package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/kadankyi1/amforex/internal/audit"
	"github.com/kadankyi1/amforex/internal/auth"
	"github.com/kadankyi1/amforex/internal/hashing"
	"github.com/kadankyi1/amforex/internal/models"
	"github.com/kadankyi1/amforex/internal/repository/postgres"
	"github.com/kadankyi1/amforex/internal/scope"
	"github.com/kadankyi1/amforex/internal/util"
)

// Guard runs the shared access checks in their fixed order: capability
// first, then (after the caller validated its input) account state, then
// the PIN step-up. Each failure is audited before it is returned.
type Guard struct {
	admins  AdminRepository
	tokens  TokenRevoker
	hasher  *hashing.Hasher
	auditor Auditor
}

// NewGuard wires the access checks shared by every service.
func NewGuard(admins AdminRepository, tokens TokenRevoker, hasher *hashing.Hasher, auditor Auditor) Guard {
	return Guard{admins: admins, tokens: tokens, hasher: hasher, auditor: auditor}
}

func actorID(p *auth.Principal) string {
	return strconv.FormatInt(p.ID, 10)
}

// requireCapability is a pure token check; it runs before any input
// validation or database access.
func (g *Guard) requireCapability(ctx context.Context, p *auth.Principal, c scope.Capability) error {
	if !p.Scope.Has(c) {
		g.auditor.Record(ctx, p.UserType, actorID(p), audit.CategorySecurity,
			fmt.Sprintf("Attempted %q without the capability", c))
		return ErrPermissionDenied
	}
	return nil
}

// requireActiveAdmin loads the caller's account and enforces the flagged
// rule: a flagged account loses the presented token immediately.
func (g *Guard) requireActiveAdmin(ctx context.Context, p *auth.Principal) (*models.Administrator, error) {
	admin, err := g.admins.GetByID(ctx, p.ID)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			g.auditor.Record(ctx, p.UserType, actorID(p), audit.CategorySecurity,
				"Request with a token for a missing account")
			return nil, ErrPermissionDenied
		}
		return nil, err
	}

	if admin.Flagged {
		g.auditor.Record(ctx, p.UserType, actorID(p), audit.CategorySecurity,
			"Flagged account attempted an operation; token revoked")
		if err := g.tokens.RevokeToken(ctx, p.JTI, p.TTL()); err != nil {
			util.Error("failed to revoke token of flagged account", util.ErrorField(err))
		}
		return nil, ErrAccountRestricted
	}

	return admin, nil
}

// requirePIN verifies the step-up PIN. Unlike the flagged rule, a wrong PIN
// does not revoke the token.
func (g *Guard) requirePIN(ctx context.Context, p *auth.Principal, admin *models.Administrator, pin string) error {
	if pin == "" {
		return validationError("The pin field is required.")
	}
	if !g.hasher.VerifyPIN(pin, admin.PINHash) {
		g.auditor.Record(ctx, p.UserType, actorID(p), audit.CategorySecurity,
			fmt.Sprintf("PIN check failed for %s %s", admin.Firstname, admin.Surname))
		return ErrIncorrectPIN
	}
	return nil
}
