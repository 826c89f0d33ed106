package auth

import (
	model "marketplace/internal/models"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// SetIdentity stores the authenticated caller on the request context
func SetIdentity(c *gin.Context, identity model.Identity) {
	c.Set(identityKey, identity)
}

// IdentityFrom returns the authenticated caller, if any
func IdentityFrom(c *gin.Context) (model.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return model.Identity{}, false
	}
	identity, ok := v.(model.Identity)
	return identity, ok && identity.UserID != ""
}
