package auth

import "crypto/subtle"

// Credentials holds the single operator account the dashboard logs in with.
type Credentials struct {
	Username string
	Password string
}

// Match compares in constant time regardless of which field mismatches.
func (c Credentials) Match(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(c.Username), []byte(username))
	passOK := subtle.ConstantTimeCompare([]byte(c.Password), []byte(password))
	return userOK == 1 && passOK == 1
}
