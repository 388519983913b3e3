package httpclient

import (
	"errors"
	"net/http"
)

var ErrMissingCredential = errors.New("missing credential")

// AuthProvider adds authentication to requests
type AuthProvider interface {
	Apply(req *http.Request) error
}

// BearerTokenAuth adds Bearer token authentication
type BearerTokenAuth struct {
	Token string
}

func (a *BearerTokenAuth) Apply(req *http.Request) error {
	if a.Token == "" {
		return ErrMissingCredential
	}
	req.Header.Set("Authorization", "Bearer "+a.Token)
	return nil
}

// QueryKeyAuth passes a service key as a query parameter, which is how the
// public procurement APIs expect their credential
type QueryKeyAuth struct {
	Param string
	Key   string
}

func (a *QueryKeyAuth) Apply(req *http.Request) error {
	if a.Key == "" {
		return ErrMissingCredential
	}
	q := req.URL.Query()
	q.Set(a.Param, a.Key)
	req.URL.RawQuery = q.Encode()
	return nil
}
