package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/PrintfR/HardCode/internal/types"
	"google.golang.org/api/idtoken"
)

// GoogleVerifier checks a Google ID token and returns the identity it asserts.
type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (*types.Identity, error)
}

// IDTokenVerifier verifies Google ID tokens issued for one OAuth client.
type IDTokenVerifier struct {
	clientID string
	validate func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)
}

// NewIDTokenVerifier returns a verifier for tokens whose audience is clientID.
func NewIDTokenVerifier(clientID string) *IDTokenVerifier {
	return &IDTokenVerifier{clientID: clientID, validate: idtoken.Validate}
}

// Verify validates the token signature, audience and expiry, and requires a
// verified email address.
func (v *IDTokenVerifier) Verify(ctx context.Context, idToken string) (*types.Identity, error) {
	payload, err := v.validate(ctx, idToken, v.clientID)
	if err != nil {
		return nil, &AuthenticationError{Reason: fmt.Sprintf("invalid ID token: %v", err)}
	}
	return identityFromClaims(payload.Claims)
}

func identityFromClaims(claims map[string]interface{}) (*types.Identity, error) {
	email, _ := claims["email"].(string)
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, &AuthenticationError{Reason: "ID token has no email"}
	}
	if verified, ok := claims["email_verified"].(bool); ok && !verified {
		return nil, &AuthenticationError{Reason: "email not verified"}
	}

	name, _ := claims["name"].(string)
	picture, _ := claims["picture"].(string)
	if name == "" {
		name = email[:strings.IndexByte(email+"@", '@')]
	}
	return &types.Identity{Name: name, Email: email, Image: picture}, nil
}
