package auth

import "strings"

const (
	HeaderName   = "Authorization"
	headerPrefix = "Token "
)

// TokenFromHeader extracts the token from an "Authorization: Token <tok>"
// value. Any other scheme, or an empty token, is ErrMissingCredentials.
func TokenFromHeader(value string) (string, error) {
	if !strings.HasPrefix(value, headerPrefix) {
		return "", ErrMissingCredentials
	}
	token := strings.TrimSpace(strings.TrimPrefix(value, headerPrefix))
	if token == "" {
		return "", ErrMissingCredentials
	}
	return token, nil
}
