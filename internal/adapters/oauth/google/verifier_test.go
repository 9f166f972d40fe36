package google

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

func TestVerifier_Verify(t *testing.T) {
	v := &Verifier{validate: func(_ context.Context, token, audience string) (*idtoken.Payload, error) {
		if token != "good" || audience != "client-id" {
			return nil, assert.AnError
		}
		return &idtoken.Payload{Claims: map[string]any{
			"email":          "ana@example.com",
			"email_verified": true,
			"name":           "Ana",
			"picture":        "https://img.example/ana.png",
		}}, nil
	}}

	payload, err := v.Verify(context.Background(), "good", "client-id")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", payload.Email)
	assert.Equal(t, "Ana", payload.Name)
	assert.Equal(t, "https://img.example/ana.png", payload.Picture)

	_, err = v.Verify(context.Background(), "bad", "client-id")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestPayloadFromClaims(t *testing.T) {
	tests := []struct {
		name    string
		claims  map[string]any
		wantErr bool
	}{
		{name: "no picture", claims: map[string]any{"email": "a@b.c", "name": "A", "email_verified": true}},
		{name: "verified as string", claims: map[string]any{"email": "a@b.c", "name": "A", "email_verified": "true"}},
		{name: "missing email", claims: map[string]any{"name": "A", "email_verified": true}, wantErr: true},
		{name: "missing name", claims: map[string]any{"email": "a@b.c", "email_verified": true}, wantErr: true},
		{name: "unverified email", claims: map[string]any{"email": "a@b.c", "name": "A", "email_verified": false}, wantErr: true},
		{name: "missing email_verified", claims: map[string]any{"email": "a@b.c", "name": "A"}, wantErr: true},
		{name: "email_verified other type", claims: map[string]any{"email": "a@b.c", "name": "A", "email_verified": 1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := payloadFromClaims(tt.claims)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, payload.Picture)
		})
	}
}
