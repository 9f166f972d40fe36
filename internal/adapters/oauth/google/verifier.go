package google

import (
	"context"
	"errors"
	"fmt"

	"github.com/vncsmyrnk/elearning/internal/core/ports"
	"google.golang.org/api/idtoken"
)

// Verifier checks Google ID tokens issued to the configured client.
type Verifier struct {
	validate func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

func NewVerifier() *Verifier {
	return &Verifier{validate: idtoken.Validate}
}

var _ ports.TokenVerifier = (*Verifier)(nil)

func (v *Verifier) Verify(ctx context.Context, token string, clientID string) (*ports.TokenPayload, error) {
	payload, err := v.validate(ctx, token, clientID)
	if err != nil {
		return nil, fmt.Errorf("invalid google credential: %w", err)
	}
	return payloadFromClaims(payload.Claims)
}

func payloadFromClaims(claims map[string]any) (*ports.TokenPayload, error) {
	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return nil, errors.New("email not found in claims")
	}
	if !emailVerified(claims["email_verified"]) {
		return nil, errors.New("google email is not verified")
	}
	name, ok := claims["name"].(string)
	if !ok {
		return nil, errors.New("name not found in claims")
	}
	picture, _ := claims["picture"].(string)
	return &ports.TokenPayload{Email: email, Name: name, Picture: picture}, nil
}

// Google sends email_verified as a JSON bool; some older tokens carry the string form.
func emailVerified(claim any) bool {
	switch v := claim.(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}
