package authapi

import (
	"github.com/samvad-hq/pawfinder/pkg/httpclient"
	"github.com/samvad-hq/pawfinder/pkg/validate"
)

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Validate checks that both fields are present and the email is well formed.
func (c Credentials) Validate() error {
	return validate.Struct(c)
}

// RegisterRequest is the registration request body.
type RegisterRequest struct {
	Name                 string `json:"name" validate:"required,cyrname"`
	Phone                string `json:"phone" validate:"required,phone"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,password"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
	Confirm              bool   `json:"confirm" validate:"required"`
}

// Validate applies the registration form rules.
func (r RegisterRequest) Validate() error {
	return validate.Struct(r)
}

// LoginResult is a successful login. Response is the raw response the token
// was decoded from.
type LoginResult struct {
	Token    string               `json:"token" yaml:"token"`
	User     *User                `json:"user,omitempty" yaml:"user,omitempty"`
	Response *httpclient.Response `json:"-" yaml:"-"`
}

// User is a profile as returned under data.user.
type User struct {
	ID               int    `json:"id" yaml:"id"`
	Name             string `json:"name" yaml:"name"`
	Email            string `json:"email" yaml:"email"`
	Phone            string `json:"phone" yaml:"phone"`
	RegistrationDate string `json:"registrationDate,omitempty" yaml:"registration_date,omitempty"`
	OrdersCount      int    `json:"ordersCount" yaml:"orders_count"`
	PetsCount        int    `json:"petsCount" yaml:"pets_count"`
}
