//go:build unit

package user_test

import (
	"testing"

	"jobfair-booking/internal/domain/user"
	"jobfair-booking/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		u, err := builder.NewUserBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, u)

		assert.NotEqual(t, uuid.Nil, u.ID())
		assert.Equal(t, "Taro Yamada", u.Name())
		assert.True(t, u.IsActive())
		assert.False(t, u.Role().IsAdmin())
	})

	t.Run("whitespace name is rejected", func(t *testing.T) {
		_, err := builder.NewUserBuilder().
			With(func(b *builder.UserBuilder) { b.Name = "   " }).
			BuildDomain()
		assert.ErrorIs(t, err, user.ErrInvalidName)
	})
}

func TestEmailValidation(t *testing.T) {
	valid := []string{"a@b.co", "first.last@example.com", "x+tag@sub.example.org"}
	for _, v := range valid {
		_, err := user.NewEmail(v)
		assert.NoError(t, err, v)
	}

	invalid := []string{"", "plain", "@example.com", "a@", "a b@example.com"}
	for _, v := range invalid {
		_, err := user.NewEmail(v)
		assert.ErrorIs(t, err, user.ErrInvalidEmail, v)
	}
}

func TestTelValidation(t *testing.T) {
	valid := []string{"031234567", "0312345678"}
	for _, v := range valid {
		_, err := user.NewTel(v)
		assert.NoError(t, err, v)
	}

	invalid := []string{"", "03123456", "03123456789", "03-1234-5678", "abcdefghi"}
	for _, v := range invalid {
		_, err := user.NewTel(v)
		assert.ErrorIs(t, err, user.ErrInvalidTel, v)
	}
}

func TestPasswordValidation(t *testing.T) {
	_, err := user.NewPassword("12345678")
	assert.NoError(t, err)

	_, err = user.NewPassword("1234567")
	assert.ErrorIs(t, err, user.ErrPasswordTooWeak)
}

func TestRole(t *testing.T) {
	role, err := user.NewRole("admin")
	require.NoError(t, err)
	assert.True(t, role.IsAdmin())

	role, err = user.NewRole("user")
	require.NoError(t, err)
	assert.False(t, role.IsAdmin())

	_, err = user.NewRole("superuser")
	assert.ErrorIs(t, err, user.ErrInvalidRole)
}
