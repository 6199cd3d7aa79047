//go:build integration

package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"electoral/pkg/platform/sentinel"
	"electoral/pkg/testutil/containers"
)

type RedisTRLSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	trl   *RedisTRL
}

func TestRedisTRLSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisTRLSuite))
}

func (s *RedisTRLSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.trl = NewRedisTRL(s.redis.Client)
}

func (s *RedisTRLSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisTRLSuite) TestRevokeAndCheck() {
	ctx := context.Background()

	s.Require().NoError(s.trl.RevokeToken(ctx, "jti-1", time.Minute))

	revoked, err := s.trl.IsTokenRevoked(ctx, "jti-1")
	s.Require().NoError(err)
	s.True(revoked)

	revoked, err = s.trl.IsTokenRevoked(ctx, "jti-2")
	s.Require().NoError(err)
	s.False(revoked)

	ttl, err := s.redis.Client.TTL(ctx, revokedTokenKeyPrefix+"jti-1").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
	s.LessOrEqual(ttl, time.Minute)
}

func (s *RedisTRLSuite) TestEntryExpires() {
	ctx := context.Background()
	s.Require().NoError(s.trl.RevokeToken(ctx, "jti-short", 50*time.Millisecond))

	s.Eventually(func() bool {
		revoked, err := s.trl.IsTokenRevoked(ctx, "jti-short")
		return err == nil && !revoked
	}, 2*time.Second, 25*time.Millisecond)
}

func (s *RedisTRLSuite) TestRejectsNonPositiveTTL() {
	err := s.trl.RevokeToken(context.Background(), "jti-3", 0)
	s.ErrorIs(err, sentinel.ErrInvalidState)
}
