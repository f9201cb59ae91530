package auth

import (
	"testing"
	"time"

	"github.com/budgetflow/budgetflow/internal/apperror"
	"github.com/budgetflow/budgetflow/internal/config"
	"github.com/budgetflow/budgetflow/internal/utils"
	"github.com/budgetflow/budgetflow/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUser = user.User{
	Id:         1,
	Uid:        "a5c9e3c2-1111-2222-3333-444455556666",
	Email:      "jane@example.com",
	FirstName:  "Jane",
	LastName:   "Doe",
	Department: "Engineering",
	Role:       user.RoleEmployee,
}

func testIssuer(clock utils.Clock) *TokenIssuer {
	return NewTokenIssuer(config.Auth{Secret: "test-secret", TokenTTLHours: 168}, clock)
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	clock := &utils.MockClock{FixedNow: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	issuer := testIssuer(clock)

	token, err := issuer.Issue(testUser)
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, testUser.Uid, claims.Subject)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, "Jane Doe", claims.Name)
	assert.Equal(t, "employee", claims.Role)
}

func TestTokenIssuer_Expiry(t *testing.T) {
	clock := &utils.MockClock{FixedNow: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	issuer := testIssuer(clock)

	token, err := issuer.Issue(testUser)
	require.NoError(t, err)

	// 7 days later the token is just past its TTL.
	clock.SetNow(clock.FixedNow.Add(168*time.Hour + time.Minute))
	_, err = issuer.Verify(token)
	assert.Error(t, err)
	assert.Equal(t, apperror.KindAuth, apperror.KindOf(err))
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	clock := &utils.MockClock{FixedNow: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	issuer := testIssuer(clock)
	other := NewTokenIssuer(config.Auth{Secret: "other-secret", TokenTTLHours: 168}, clock)

	token, err := issuer.Issue(testUser)
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.Error(t, err)
	assert.Equal(t, apperror.KindAuth, apperror.KindOf(err))
}

func TestTokenIssuer_Garbage(t *testing.T) {
	clock := &utils.MockClock{FixedNow: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	issuer := testIssuer(clock)

	_, err := issuer.Verify("not-a-token")
	assert.Error(t, err)
	assert.Equal(t, apperror.KindAuth, apperror.KindOf(err))
}
