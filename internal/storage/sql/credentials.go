package sql

import (
	"net/url"
)

type Credentials struct {
	Host     string
	Database string
	Username string
	Password string
	SSLMode  string
}

// ConnString builds a postgres URL from discrete credentials. Username,
// password and database name are percent-encoded.
func ConnString(c Credentials) string {
	u := url.URL{
		Scheme:  "postgres",
		User:    url.UserPassword(c.Username, c.Password),
		Host:    c.Host,
		Path:    "/" + c.Database,
		RawPath: "/" + url.PathEscape(c.Database),
	}

	if c.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{c.SSLMode}}.Encode()
	}

	return u.String()
}

// NewFromCredentials is New with a connection string built by ConnString.
func NewFromCredentials(driver string, c Credentials, opts Options) *Storage {
	return New(driver, ConnString(c), opts)
}
