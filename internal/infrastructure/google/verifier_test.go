package google

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/api/idtoken"
)

func stubVerifier(payload *idtoken.Payload, err error) *Verifier {
	return &Verifier{
		ClientID: "client-1",
		validate: func(_ context.Context, token, audience string) (*idtoken.Payload, error) {
			if audience != "client-1" {
				return nil, errors.New("wrong audience")
			}
			return payload, err
		},
	}
}

func TestVerifyMapsClaims(t *testing.T) {
	v := stubVerifier(&idtoken.Payload{
		Subject: "10001",
		Claims: map[string]any{
			"email":          "gina@gmail.test",
			"email_verified": true,
			"name":           "Gina Lee",
			"picture":        "https://img.test/g.png",
		},
	}, nil)

	id, err := v.Verify(context.Background(), "token")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.Subject != "10001" || id.Email != "gina@gmail.test" || id.Name != "Gina Lee" || id.AvatarURL != "https://img.test/g.png" {
		t.Fatalf("unexpected identity %+v", id)
	}
}

func TestVerifyRejects(t *testing.T) {
	unverified := stubVerifier(&idtoken.Payload{Subject: "1", Claims: map[string]any{"email": "a@b.c", "email_verified": false}}, nil)
	if _, err := unverified.Verify(context.Background(), "token"); err == nil {
		t.Fatalf("unverified email accepted")
	}

	invalid := stubVerifier(nil, errors.New("token expired"))
	if _, err := invalid.Verify(context.Background(), "token"); err == nil {
		t.Fatalf("invalid token accepted")
	}

	unconfigured := &Verifier{}
	if _, err := unconfigured.Verify(context.Background(), "token"); err == nil {
		t.Fatalf("verifier without client id accepted a token")
	}
}
