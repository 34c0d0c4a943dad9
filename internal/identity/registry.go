package identity

import (
	"fmt"

	"github.com/darmiel/checkin/internal/config"
	"github.com/darmiel/checkin/internal/core"
)

// FromConfig builds the identity resolver selected in cfg.
func FromConfig(cfg config.IdentityConfig) (core.IdentityResolver, error) {
	switch cfg.Type {
	case config.IdentityTypeFixed, "":
		if cfg.FixedID == "" {
			return nil, fmt.Errorf("fixed identity requires an id")
		}
		return NewFixed(cfg.FixedID), nil
	case config.IdentityTypeJWT:
		if cfg.SigningKey == "" {
			return nil, fmt.Errorf("jwt identity requires a signing key")
		}
		return NewJWT([]byte(cfg.SigningKey), cfg.CookieName), nil
	default:
		return nil, fmt.Errorf("unknown identity type '%s'", cfg.Type)
	}
}
