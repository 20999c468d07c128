package session

import "net/http"

// AuthorizationHeaderName is the header carrying the bearer credential
const AuthorizationHeaderName = "authorization"

// AuthorizationHeader derives the headers for a token: a bearer credential when the token
// is present, nothing otherwise
func AuthorizationHeader(token string) map[string]string {
	headers := make(map[string]string, 1)
	if token != "" {
		headers[AuthorizationHeaderName] = "Bearer " + token
	}
	return headers
}

// Decorator attaches the current credential to outgoing requests. The token is read from
// Source on every call, so login and logout take effect on the next request.
type Decorator struct {
	Source TokenSource
}

// NewDecorator creates a decorator reading from source
func NewDecorator(source TokenSource) *Decorator {
	return &Decorator{Source: source}
}

// Decorate sets or clears the authorization header of req
func (d *Decorator) Decorate(req *http.Request) {
	token := ""
	if d != nil && d.Source != nil {
		token = d.Source.Token()
	}

	req.Header.Del(AuthorizationHeaderName)
	for name, value := range AuthorizationHeader(token) {
		req.Header.Set(name, value)
	}
}
