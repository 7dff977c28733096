package access

import (
	"net/http"

	"review-platform/internal/domain/users"
)

/*
	Permission predicates
	---------------------
	- Pure functions of (actor, method, target author); no gin, no DB.
	- actor == nil means the request is anonymous.
	- Handlers translate a false result into 401/403 at the HTTP boundary.
*/

// SafeMethod reports whether method is read-only.
func SafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// AdminOnly permits only authenticated admins. Used for user-account
// management.
func AdminOnly(actor *users.User) bool {
	return actor != nil && actor.IsAdmin()
}

// AdminOrReadOnly permits reads to anyone and writes to authenticated admins.
func AdminOrReadOnly(method string, actor *users.User) bool {
	return SafeMethod(method) || AdminOnly(actor)
}

// AuthenticatedOrReadOnly is the request-level gate for review and comment
// endpoints: reads are open, write attempts require any authenticated user.
func AuthenticatedOrReadOnly(method string, actor *users.User) bool {
	return SafeMethod(method) || actor != nil
}

// OwnerModeratorAdminOrReadOnly is the object-level gate for review and
// comment endpoints: reads are open, writes are restricted to the recorded
// author, moderators and admins.
func OwnerModeratorAdminOrReadOnly(method string, actor *users.User, authorID uint) bool {
	if SafeMethod(method) {
		return true
	}
	if actor == nil {
		return false
	}
	return actor.IsAdmin() || actor.IsModerator() || actor.ID == authorID
}
