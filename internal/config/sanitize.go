package config

import "net/url"

const redacted = "xxxxx"

// Sanitized returns a copy of c that is safe to log: token secrets and the
// redis password are masked and the DSN loses its password.
func (c StructuredConfig) Sanitized() StructuredConfig {
	if c.Auth.AccessTokenSecret != "" {
		c.Auth.AccessTokenSecret = redacted
	}
	if c.Auth.RefreshTokenSecret != "" {
		c.Auth.RefreshTokenSecret = redacted
	}
	if c.Storage.Cache.RedisPassword != "" {
		c.Storage.Cache.RedisPassword = redacted
	}
	c.Storage.DB.DSN = redactDSN(c.Storage.DB.DSN)
	c.MongoDBURI = redactDSN(c.MongoDBURI)
	return c
}

// redactDSN masks the password of a URL-style DSN. Anything that does not
// parse as a URL with user info is left alone.
func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	return u.Redacted()
}
