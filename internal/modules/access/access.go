package access

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNotFound means the target of a guarded operation does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the requester may not perform the operation. It never
	// says which check failed.
	ErrForbidden = errors.New("forbidden")
)

// Action is a guarded operation on a product.
type Action string

const (
	ActionEdit      Action = "edit"
	ActionDelete    Action = "delete"
	ActionUnpublish Action = "unpublish"
)

// Permission is a named capability granted through roles.
type Permission string

const (
	PermUnpublishProduct     Permission = "can_unpublish_product"
	PermChangeAnyDescription Permission = "can_change_any_description"
	PermChangeAnyCategory    Permission = "can_change_any_category"
	PermManageBlog           Permission = "can_manage_blog"
)

// Descriptions of every permission in the catalog.
var Permissions = map[Permission]string{
	PermUnpublishProduct:     "Can unpublish a product",
	PermChangeAnyDescription: "Can change the description of any product",
	PermChangeAnyCategory:    "Can change the category of any product",
	PermManageBlog:           "Can manage blog posts",
}

const (
	RoleModerators      = "Moderators"
	RoleContentManagers = "Content Managers"
)

// Roles is the fixed role catalog created at setup time.
func Roles() map[string][]Permission {
	return map[string][]Permission{
		RoleModerators: {
			PermUnpublishProduct,
			PermChangeAnyDescription,
			PermChangeAnyCategory,
		},
		RoleContentManagers: {
			PermManageBlog,
		},
	}
}

// rule pairs the permission that grants an action with whether the product
// owner is allowed regardless of permissions.
type rule struct {
	perm        Permission
	ownerMayAct bool
}

// Delete is granted by can_change_any_category rather than a dedicated
// delete permission.
var rules = map[Action]rule{
	ActionEdit:      {perm: PermChangeAnyDescription, ownerMayAct: true},
	ActionDelete:    {perm: PermChangeAnyCategory, ownerMayAct: true},
	ActionUnpublish: {perm: PermUnpublishProduct, ownerMayAct: false},
}

// RequiredPermission returns the permission that grants action to non-owners.
func RequiredPermission(action Action) (Permission, bool) {
	r, ok := rules[action]
	return r.perm, ok
}

// OwnerMayAct reports whether the product owner may perform a without
// holding the permission.
func (a Action) OwnerMayAct() bool {
	return rules[a].ownerMayAct
}

// Subject is an authenticated requester. A nil *Subject is anonymous.
type Subject struct {
	UserID uuid.UUID
}

// PermissionChecker resolves whether a user holds a permission through any of
// their roles or a superuser flag.
type PermissionChecker interface {
	HasPermission(ctx context.Context, userID uuid.UUID, perm Permission) (bool, error)
}

// Gate decides whether a subject may perform a guarded action.
type Gate struct {
	perms PermissionChecker
}

func NewGate(perms PermissionChecker) *Gate {
	return &Gate{perms: perms}
}

// Authorize returns nil when subject may perform action on a resource owned
// by ownerID, ErrForbidden when not, or the checker's storage error.
func (g *Gate) Authorize(ctx context.Context, subject *Subject, action Action, ownerID uuid.UUID) error {
	r, ok := rules[action]
	if !ok {
		return ErrForbidden
	}
	if subject == nil {
		return ErrForbidden
	}
	if r.ownerMayAct && subject.UserID == ownerID {
		return nil
	}
	return g.Require(ctx, subject, r.perm)
}

// Require returns nil when subject holds perm.
func (g *Gate) Require(ctx context.Context, subject *Subject, perm Permission) error {
	if subject == nil {
		return ErrForbidden
	}
	ok, err := g.perms.HasPermission(ctx, subject.UserID, perm)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}
