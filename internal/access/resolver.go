// AngelaMos | 2026
// resolver.go

package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/forum-system/forum-backend/internal/core"
)

// Mode is the kind of access being requested on a category.
type Mode int

const (
	ModeRead Mode = iota
	ModeWrite
)

func (m Mode) String() string {
	if m == ModeWrite {
		return "write"
	}
	return "read"
}

// Level is the access level of an explicit per-category grant.
type Level string

const (
	LevelRead  Level = "read"
	LevelWrite Level = "write"
)

// CategoryState is the slice of category state the resolver needs. Callers
// load it through a CategoryProvider so the decision and the mutation it
// gates read the same row in the same transaction.
type CategoryState struct {
	ID        string
	IsPrivate bool
	IsLocked  bool
}

// Decision is the outcome of a permission resolution plus a stable reason
// code. All guards consume the same decision rather than re-deriving the
// locked/private/public branch per call site.
type Decision struct {
	Allowed bool
	Reason  string
}

const (
	ReasonAdmin    = "admin"
	ReasonLocked   = "category is locked"
	ReasonNoGrant  = "no permission for this category"
	ReasonReadOnly = "grant does not permit writing"
	ReasonPublic   = "public category"
	ReasonGranted  = "explicit grant"
)

// Resolve is the single pure decision function for category access.
//
// Admin short-circuits everything else. A locked category rejects writes
// from non-admins regardless of grants; reads are unaffected because lock
// restricts mutation while privacy restricts visibility. A private category
// requires an explicit grant: any grant suffices to read, a write grant is
// required to write. Public categories are open both ways; grants exist
// only to extend access into private ones.
func Resolve(
	isAdmin bool,
	category CategoryState,
	grant *Level,
	mode Mode,
) Decision {
	if isAdmin {
		return Decision{Allowed: true, Reason: ReasonAdmin}
	}

	if category.IsLocked && mode == ModeWrite {
		return Decision{Allowed: false, Reason: ReasonLocked}
	}

	if !category.IsPrivate {
		return Decision{Allowed: true, Reason: ReasonPublic}
	}

	if grant == nil {
		return Decision{Allowed: false, Reason: ReasonNoGrant}
	}

	if mode == ModeWrite && *grant != LevelWrite {
		return Decision{Allowed: false, Reason: ReasonReadOnly}
	}

	return Decision{Allowed: true, Reason: ReasonGranted}
}

type CategoryProvider interface {
	GetCategoryState(
		ctx context.Context,
		categoryID string,
	) (*CategoryState, error)
}

// GrantProvider reports the explicit grant a user holds on a category, or
// nil when no grant exists.
type GrantProvider interface {
	GetGrant(
		ctx context.Context,
		userID, categoryID string,
	) (*Level, error)
}

type AdminChecker interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// Resolver answers category-scoped permission questions against live store
// state. Admin status is looked up per decision, never trusted from a token
// snapshot, so revoking the capability takes effect on the next request.
type Resolver struct {
	categories CategoryProvider
	grants     GrantProvider
	admins     AdminChecker
}

func NewResolver(
	categories CategoryProvider,
	grants GrantProvider,
	admins AdminChecker,
) *Resolver {
	return &Resolver{
		categories: categories,
		grants:     grants,
		admins:     admins,
	}
}

// Decide loads the category, grant and admin state for the principal and
// runs Resolve. A missing category surfaces core.ErrNotFound.
func (r *Resolver) Decide(
	ctx context.Context,
	userID, categoryID string,
	mode Mode,
) (Decision, error) {
	category, err := r.categories.GetCategoryState(ctx, categoryID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return Decision{}, fmt.Errorf(
				"resolve access: category: %w",
				core.ErrNotFound,
			)
		}
		return Decision{}, fmt.Errorf("resolve access: %w", err)
	}

	isAdmin, err := r.admins.IsAdmin(ctx, userID)
	if err != nil {
		return Decision{}, fmt.Errorf("resolve access: check admin: %w", err)
	}

	if isAdmin {
		return Decision{Allowed: true, Reason: ReasonAdmin}, nil
	}

	grant, err := r.grants.GetGrant(ctx, userID, categoryID)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return Decision{}, fmt.Errorf("resolve access: get grant: %w", err)
	}

	return Resolve(false, *category, grant, mode), nil
}

// CanAccess is Decide collapsed to a typed error: nil when allowed,
// core.ErrForbidden (wrapped with the decision reason) when denied.
func (r *Resolver) CanAccess(
	ctx context.Context,
	userID, categoryID string,
	mode Mode,
) error {
	decision, err := r.Decide(ctx, userID, categoryID, mode)
	if err != nil {
		return err
	}

	if !decision.Allowed {
		return fmt.Errorf("%s: %w", decision.Reason, core.ErrForbidden)
	}

	return nil
}
