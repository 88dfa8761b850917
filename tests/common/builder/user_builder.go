//go:build unit || e2e

package builder

import (
	"jobfair-booking/internal/domain/user"
)

type UserBuilder struct {
	Name         string
	Email        string
	Tel          string
	PasswordHash string
	Role         string
}

func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		Name:         "Taro Yamada",
		Email:        "test@example.com",
		Tel:          "0312345678",
		PasswordHash: "hashed_password",
		Role:         "user",
	}
}

func (u *UserBuilder) With(mutate func(*UserBuilder)) *UserBuilder {
	mutate(u)
	return u
}

func (u *UserBuilder) BuildDomain() (*user.User, error) {
	email, err := user.NewEmail(u.Email)
	if err != nil {
		return nil, err
	}

	tel, err := user.NewTel(u.Tel)
	if err != nil {
		return nil, err
	}

	role, err := user.NewRole(u.Role)
	if err != nil {
		return nil, err
	}

	return user.NewUser(u.Name, email, tel, u.PasswordHash, role)
}
