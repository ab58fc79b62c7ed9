package app

import (
	"strings"

	"github.com/ranznz/wage-survey/internal/auth"
	"github.com/ranznz/wage-survey/internal/database"
)

// JWTServiceConfig converts AuthConfig into the parameters expected by the JWT service.
func (c AuthConfig) JWTServiceConfig() auth.JWTConfig {
	ttl := c.JWT.TTL
	if ttl <= 0 {
		ttl = auth.DefaultAccessTokenTTL
	}

	return auth.JWTConfig{
		Secret:         c.JWT.Secret,
		Issuer:         c.JWT.Issuer,
		AccessTokenTTL: ttl,
	}
}

// BootstrapUser converts AuthConfig into the seed user applied during migration.
// It returns the zero value when no bootstrap credentials are configured.
func (c AuthConfig) BootstrapUser() database.BootstrapUser {
	return database.BootstrapUser{
		Email:    strings.TrimSpace(c.Bootstrap.Email),
		Password: c.Bootstrap.Password,
	}
}
