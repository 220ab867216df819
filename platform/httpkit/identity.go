package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity carries the authenticated caller extracted from the access token.
// Handlers receive it as a value so they never touch gin context keys directly.
type Identity struct {
	UserID uuid.UUID
	Roles  []string
}

// HasRole reports whether the caller holds the given role.
func (i Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// GetIdentity reads the caller identity set by AuthRequired. The second
// return is false on unauthenticated requests.
func GetIdentity(c *gin.Context) (Identity, bool) {
	userID, ok := c.Get(ContextUserIDKey)
	if !ok {
		return Identity{}, false
	}
	uid, ok := userID.(uuid.UUID)
	if !ok {
		return Identity{}, false
	}

	var roleList []string
	if roles, ok := c.Get(ContextRolesKey); ok {
		roleList, _ = roles.([]string)
	}

	return Identity{UserID: uid, Roles: roleList}, true
}

// MustGetIdentity is GetIdentity for routes behind AuthRequired. If the
// identity is somehow missing it aborts with 401 and returns false.
func MustGetIdentity(c *gin.Context) (Identity, bool) {
	id, ok := GetIdentity(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return Identity{}, false
	}
	return id, true
}
