// Package tests contains integration tests for the session exchange flow
package tests

import (
	"context"
	"testing"

	"github.com/lilacbtch/carlytics/app/services"
	businessflow "github.com/lilacbtch/carlytics/business_flow"
	"github.com/lilacbtch/carlytics/models"
	"github.com/lilacbtch/carlytics/repository"
	testingutil "github.com/lilacbtch/carlytics/testing"
	"github.com/lilacbtch/carlytics/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFlow(testDB *testingutil.TestDB, provider services.SessionProvider) businessflow.AuthFlow {
	userRepo := repository.NewUserRepository(testDB.DB)
	sessionRepo := repository.NewUserSessionRepository(testDB.DB)
	auditRepo := repository.NewAuditLogRepository(testDB.DB)

	return businessflow.NewAuthFlow(userRepo, sessionRepo, auditRepo, provider, testDB.DB)
}

func testMetadata() *businessflow.ClientMetadata {
	return businessflow.NewClientMetadata("127.0.0.1", "Test User Agent")
}

func TestSessionExchange(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		provider := services.NewMockSessionProvider()
		provider.Email = "ayse.yilmaz@example.com"
		provider.Name = "Ayse Yilmaz"

		authFlow := newAuthFlow(testDB, provider)

		userRepo := repository.NewUserRepository(testDB.DB)
		sessionRepo := repository.NewUserSessionRepository(testDB.DB)
		ctx := context.Background()

		t.Run("FirstExchangeCreatesUser", func(t *testing.T) {
			result, err := authFlow.ExchangeSession(ctx, "sess-first", testMetadata())
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, "ayse.yilmaz@example.com", result.Email)
			assert.Equal(t, "Ayse Yilmaz", result.Name)
			assert.NotEmpty(t, result.SessionToken)

			user, err := userRepo.ByEmail(ctx, "ayse.yilmaz@example.com")
			require.NoError(t, err)
			require.NotNil(t, user)
			assert.Contains(t, user.UserID, "user_")
			assert.True(t, utils.IsTrue(user.IsActive))

			session, err := sessionRepo.ByToken(ctx, result.SessionToken)
			require.NoError(t, err)
			require.NotNil(t, session)
			assert.Equal(t, user.ID, session.UserID)
		})

		t.Run("SecondExchangeUpsertsByEmail", func(t *testing.T) {
			provider.Name = "Ayse Y."

			result, err := authFlow.ExchangeSession(ctx, "sess-second", testMetadata())
			require.NoError(t, err)
			assert.Equal(t, "Ayse Y.", result.Name)

			count, err := userRepo.Count(ctx, models.UserFilter{Email: utils.ToPtr("ayse.yilmaz@example.com")})
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)

			user, err := userRepo.ByEmail(ctx, "ayse.yilmaz@example.com")
			require.NoError(t, err)
			assert.Equal(t, "Ayse Y.", user.Name)
		})

		t.Run("EachExchangeCreatesNewSession", func(t *testing.T) {
			first, err := authFlow.ExchangeSession(ctx, "sess-a", testMetadata())
			require.NoError(t, err)
			second, err := authFlow.ExchangeSession(ctx, "sess-b", testMetadata())
			require.NoError(t, err)

			assert.NotEqual(t, first.SessionToken, second.SessionToken)

			session, err := sessionRepo.ByToken(ctx, first.SessionToken)
			require.NoError(t, err)
			assert.NotNil(t, session)
		})

		t.Run("MissingSessionID", func(t *testing.T) {
			result, err := authFlow.ExchangeSession(ctx, "", testMetadata())
			assert.Nil(t, result)
			require.Error(t, err)
			assert.True(t, businessflow.IsMissingSessionID(err))
		})

		t.Run("InactiveUserRejected", func(t *testing.T) {
			user, err := userRepo.ByEmail(ctx, "ayse.yilmaz@example.com")
			require.NoError(t, err)
			require.NotNil(t, user)

			user.IsActive = utils.ToPtr(false)
			require.NoError(t, userRepo.Update(ctx, user))

			result, err := authFlow.ExchangeSession(ctx, "sess-inactive", testMetadata())
			assert.Nil(t, result)
			require.Error(t, err)
			assert.True(t, businessflow.IsAccountInactive(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestSessionExchangeProviderFailure(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		authFlow := newAuthFlow(testDB, &failingSessionProvider{})
		userRepo := repository.NewUserRepository(testDB.DB)
		ctx := context.Background()

		result, err := authFlow.ExchangeSession(ctx, "sess-fail", testMetadata())
		assert.Nil(t, result)
		require.Error(t, err)
		assert.True(t, businessflow.IsSessionExchange(err))

		// No user must be created on a failed exchange
		count, err := userRepo.Count(ctx, models.UserFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)

		return nil
	})
	require.NoError(t, err)
}

type failingSessionProvider struct{}

func (p *failingSessionProvider) FetchSessionData(ctx context.Context, sessionID string) (*services.SessionData, error) {
	return nil, services.ErrSessionRejected
}

func TestCurrentUser(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		authFlow := newAuthFlow(testDB, services.NewMockSessionProvider())
		ctx := context.Background()

		t.Run("ReturnsProfile", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)

			profile, err := authFlow.CurrentUser(ctx, user.ID)
			require.NoError(t, err)
			require.NotNil(t, profile)
			assert.Equal(t, user.UserID, profile.UserID)
			assert.Equal(t, user.Email, profile.Email)
			assert.NotEmpty(t, profile.CreatedAt)
		})

		t.Run("UnknownUser", func(t *testing.T) {
			profile, err := authFlow.CurrentUser(ctx, 99999)
			assert.Nil(t, profile)
			require.Error(t, err)
			assert.True(t, businessflow.IsUserNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestLogout(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		authFlow := newAuthFlow(testDB, services.NewMockSessionProvider())
		sessionRepo := repository.NewUserSessionRepository(testDB.DB)
		ctx := context.Background()

		t.Run("RevokesSession", func(t *testing.T) {
			user, err := fixtures.CreateTestUser()
			require.NoError(t, err)
			session, err := fixtures.CreateTestSession(user.ID)
			require.NoError(t, err)

			result, err := authFlow.Logout(ctx, session.SessionToken, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, "Logged out successfully", result.Message)

			revoked, err := sessionRepo.ByToken(ctx, session.SessionToken)
			require.NoError(t, err)
			assert.Nil(t, revoked)
		})

		t.Run("UnknownTokenIsIdempotent", func(t *testing.T) {
			result, err := authFlow.Logout(ctx, "no-such-token", testMetadata())
			require.NoError(t, err)
			assert.Equal(t, "Logged out successfully", result.Message)
		})

		return nil
	})
	require.NoError(t, err)
}
