package google

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/idtoken"

	"github.com/oksasatya/blogx-api/internal/application"
)

// Verifier validates Google ID tokens issued for ClientID.
type Verifier struct {
	ClientID string

	validate func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

func NewVerifier(clientID string) *Verifier {
	return &Verifier{ClientID: clientID, validate: idtoken.Validate}
}

func (v *Verifier) Verify(ctx context.Context, credential string) (*application.FederatedIdentity, error) {
	if v.ClientID == "" {
		return nil, errors.New("google client id not configured")
	}
	payload, err := v.validate(ctx, credential, v.ClientID)
	if err != nil {
		return nil, fmt.Errorf("validate id token: %w", err)
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok && !verified {
		return nil, errors.New("google email is not verified")
	}
	return &application.FederatedIdentity{
		Subject:   payload.Subject,
		Email:     claim(payload, "email"),
		Name:      claim(payload, "name"),
		AvatarURL: claim(payload, "picture"),
	}, nil
}

func claim(p *idtoken.Payload, key string) string {
	s, _ := p.Claims[key].(string)
	return s
}
