package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kadankyi1/amforex/internal/client"
	"github.com/kadankyi1/amforex/internal/util"
)

const (
	revokedTokenPrefix = "revoked_token:"
	revokedAllPrefix   = "revoked_all:"
)

// TokenCache tracks revoked access tokens. A token is dead either because
// its jti was revoked individually (logout, flagged account) or because the
// account's revoke-all watermark postdates the token's issue time (password
// change).
type TokenCache struct {
	client *client.RedisClient
}

func NewTokenCache(client *client.RedisClient) *TokenCache {
	return &TokenCache{client: client}
}

func (c *TokenCache) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	key := revokedTokenPrefix + jti
	if err := c.client.Set(ctx, key, "1", ttl); err != nil {
		util.Error("Failed to revoke token",
			util.String("jti", jti),
			util.ErrorField(err))
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	util.Info("Token revoked", util.String("jti", jti))
	return nil
}

// RevokeAll invalidates every token the account holds by recording the
// current time as a watermark. ttl should cover the longest token lifetime.
func (c *TokenCache) RevokeAll(ctx context.Context, userType string, userID int64, ttl time.Duration) error {
	key := accountKey(userType, userID)
	now := strconv.FormatInt(time.Now().Unix(), 10)
	if err := c.client.Set(ctx, key, now, ttl); err != nil {
		util.Error("Failed to set revoke-all watermark",
			util.String("user_type", userType),
			util.Int64("user_id", userID),
			util.ErrorField(err))
		return fmt.Errorf("failed to revoke account tokens: %w", err)
	}
	util.Info("All account tokens revoked",
		util.String("user_type", userType),
		util.Int64("user_id", userID))
	return nil
}

func (c *TokenCache) IsRevoked(ctx context.Context, jti, userType string, userID int64, issuedAt time.Time) (bool, error) {
	revoked, err := c.client.Exists(ctx, revokedTokenPrefix+jti)
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return true, nil
	}

	watermark, err := c.client.Get(ctx, accountKey(userType, userID))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check revoke-all watermark: %w", err)
	}

	cutoff, err := strconv.ParseInt(watermark, 10, 64)
	if err != nil {
		return false, fmt.Errorf("malformed revoke-all watermark: %w", err)
	}
	return !issuedAt.After(time.Unix(cutoff, 0)), nil
}

func accountKey(userType string, userID int64) string {
	return revokedAllPrefix + userType + ":" + strconv.FormatInt(userID, 10)
}
