package domain

type TokenKind string

const (
	TokenActivation TokenKind = "activation"
	TokenAccess     TokenKind = "access"
	TokenRefresh    TokenKind = "refresh"
)

// SessionPayload is the body of access and refresh tokens.
type SessionPayload struct {
	ID string `json:"id"`
}

type PendingUser struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ActivationPayload is the self-contained registration envelope. It is never
// persisted; the signature is the only thing vouching for it.
type ActivationPayload struct {
	User           PendingUser `json:"user"`
	ActivationCode string      `json:"activationCode"`
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
