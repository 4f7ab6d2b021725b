package cosmos

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidConnectionString is returned when a connection string is missing
// its endpoint or key, or either is malformed.
var ErrInvalidConnectionString = errors.New("cosmos: invalid connection string")

// Credentials identify an account and the master key used to sign requests.
type Credentials struct {
	Endpoint string
	Key      string
}

// ParseConnectionString parses an account connection string of the form
//
//	AccountEndpoint=https://<account>.documents.azure.com:443/;AccountKey=<key>;
//
// Segment names are matched case-insensitively and unknown segments are
// ignored.
func ParseConnectionString(s string) (Credentials, error) {
	var creds Credentials
	for _, segment := range strings.Split(s, ";") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		name, value, ok := strings.Cut(segment, "=")
		if !ok {
			return Credentials{}, fmt.Errorf("%w: segment %q has no value", ErrInvalidConnectionString, name)
		}
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "accountendpoint":
			creds.Endpoint = strings.TrimSpace(value)
		case "accountkey":
			creds.Key = strings.TrimSpace(value)
		}
	}

	if err := creds.validate(); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

// ConnectionString renders the credentials in connection string form.
func (c Credentials) ConnectionString() string {
	return "AccountEndpoint=" + c.Endpoint + ";AccountKey=" + c.Key + ";"
}

func (c Credentials) validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("%w: missing AccountEndpoint", ErrInvalidConnectionString)
	}
	if c.Key == "" {
		return fmt.Errorf("%w: missing AccountKey", ErrInvalidConnectionString)
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: AccountEndpoint %q is not an absolute URL", ErrInvalidConnectionString, c.Endpoint)
	}
	if _, err := base64.StdEncoding.DecodeString(c.Key); err != nil {
		return fmt.Errorf("%w: AccountKey is not base64", ErrInvalidConnectionString)
	}
	return nil
}
