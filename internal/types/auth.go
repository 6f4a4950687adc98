package types

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrEmailTaken is returned by user stores when the email is already registered.
var ErrEmailTaken = errors.New("email already registered")

// User is a signed-in person. Users are created on their first Google sign-in.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Identity is what the external identity provider asserts about a person.
type Identity struct {
	Name  string
	Email string
	Image string
}

// GoogleSignInRequest carries a Google ID token obtained by the client.
type GoogleSignInRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// Validate validates the GoogleSignInRequest using the validator.
func (r *GoogleSignInRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// LoginResponse represents the sign-in response with user data and authentication token.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
