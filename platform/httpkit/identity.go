// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"net/http"

	"simplyskin/platform/apperr"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity represents the authenticated caller.
// This interface abstracts identity extraction from the web framework,
// allowing handlers to access user information without depending on Gin.
type Identity interface {
	// UserID returns the authenticated user's ID.
	UserID() uuid.UUID
	// IsAuthenticated returns true if the request carried a valid token.
	IsAuthenticated() bool
}

type identity struct {
	userID        uuid.UUID
	authenticated bool
}

func (i *identity) UserID() uuid.UUID     { return i.userID }
func (i *identity) IsAuthenticated() bool { return i.authenticated }

// GetIdentity extracts the Identity from a Gin context.
// Returns an unauthenticated identity if user info is not present.
func GetIdentity(c *gin.Context) Identity {
	userID, ok := c.Get(ContextUserIDKey)
	if !ok {
		return &identity{authenticated: false}
	}

	uid, ok := userID.(uuid.UUID)
	if !ok {
		return &identity{authenticated: false}
	}

	return &identity{userID: uid, authenticated: true}
}

// AuthorizeUser checks that an authenticated caller acts on its own user ID.
// Requests without identity pass through: routes that need a token install AuthRequired.
// Aborts with 403 and returns false on mismatch.
func AuthorizeUser(c *gin.Context, userID uuid.UUID) bool {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		return true
	}
	if id.UserID() != userID {
		Abort(c, http.StatusForbidden, apperr.CodeForbidden, "user_id does not match the authenticated user")
		return false
	}
	return true
}
