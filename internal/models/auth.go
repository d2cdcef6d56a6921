package models

// TokenPair holds the credential pair issued by the Jike auth endpoints.
// It is a value type: a refresh produces a new pair, existing values are
// never mutated, so a pair can be shared safely across retry attempts.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Valid reports whether the pair is usable: both tokens must be non-empty.
func (tp TokenPair) Valid() bool {
	return tp.AccessToken != "" && tp.RefreshToken != ""
}

// SessionResponse is the body returned by POST /sessions.create.
type SessionResponse struct {
	UUID string `json:"uuid"`
}
