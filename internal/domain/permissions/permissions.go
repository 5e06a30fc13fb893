// Package permissions decides whether an actor may perform a request on a resource.
//
// Evaluation happens in two gates. The collection gate runs for every request and
// depends only on the method, the actor and the resource kind. The object gate runs
// once the target object is loaded and additionally depends on its author. A request
// is allowed only when both gates allow it.
package permissions

import (
	"net/http"

	"yamdb/proj/internal/domain/errs"
	"yamdb/proj/internal/domain/models"
)

type Resource int

const (
	Category Resource = iota
	Genre
	Title
	Review
	Comment
	User
)

func (r Resource) String() string {
	switch r {
	case Category:
		return "category"
	case Genre:
		return "genre"
	case Title:
		return "title"
	case Review:
		return "review"
	case Comment:
		return "comment"
	case User:
		return "user"
	}
	return "unknown"
}

func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// HasPermission is the collection-level gate.
// It returns nil, errs.ErrUnauthenticated or errs.ErrPermissionDenied.
func HasPermission(actor *models.User, method string, resource Resource) error {
	if IsSafeMethod(method) && resource != User {
		return nil
	}
	if actor.IsAnonymous() {
		return errs.ErrUnauthenticated
	}
	switch resource {
	case Review, Comment:
		return nil
	default:
		if actor.IsAdmin() {
			return nil
		}
		return errs.ErrPermissionDenied
	}
}

// HasObjectPermission is the object-level gate for a loaded object written by authorID.
// Catalog and user resources have no object rule, the collection gate is authoritative for them.
func HasObjectPermission(actor *models.User, method string, resource Resource, authorID int64) error {
	if IsSafeMethod(method) {
		return nil
	}
	switch resource {
	case Review, Comment:
		if actor.IsAnonymous() {
			return errs.ErrUnauthenticated
		}
		if actor.IsAuthor(authorID) || actor.IsModerator() || actor.IsAdmin() {
			return nil
		}
		return errs.ErrPermissionDenied
	}
	return nil
}

// Check composes both gates, collection first. The first denial wins.
func Check(actor *models.User, method string, resource Resource, authorID int64) error {
	if err := HasPermission(actor, method, resource); err != nil {
		return err
	}
	return HasObjectPermission(actor, method, resource, authorID)
}
