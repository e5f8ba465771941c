package webhook

import (
	"crypto/subtle"
	"encoding/base64"
	"strings"
)

// Credentials are the basic auth values carried by a request
type Credentials struct {
	Username string
	Password string
	Present  bool
}

// Matches compares both values in constant time
func (c Credentials) Matches(username, password string) bool {
	if !c.Present {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(c.Username), []byte(username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(c.Password), []byte(password)) == 1
	return userOK && passOK
}

// ParseBasicAuth reads credentials from an Authorization header value
func ParseBasicAuth(header string) Credentials {
	const prefix = "Basic "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return Credentials{}
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(header[len(prefix):]))
	if err != nil {
		return Credentials{}
	}

	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return Credentials{}
	}
	return Credentials{Username: username, Password: password, Present: true}
}
