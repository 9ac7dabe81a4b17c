package queries

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/actor"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrFindEligibleWorkersQueryIsNotConstructed = errors.New(
	"FindEligibleWorkersQuery must be created via NewFindEligibleWorkersQuery constructor",
)

// FindEligibleWorkersQuery lists the workers who could take a delivery to
// area. With exact set, areas must match by case-insensitive equality.
type FindEligibleWorkersQuery struct {
	actor actor.Actor
	area  string
	exact bool

	guard guard.ConstructorGuard
}

func NewFindEligibleWorkersQuery(act actor.Actor, area string, exact bool) (FindEligibleWorkersQuery, error) {
	area = strings.TrimSpace(area)
	if area == "" {
		return FindEligibleWorkersQuery{}, errs.NewValueIsRequiredError("area")
	}

	return FindEligibleWorkersQuery{
		actor: act,
		area:  area,
		exact: exact,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (q FindEligibleWorkersQuery) Validate() error {
	return q.guard.Validate(ErrFindEligibleWorkersQueryIsNotConstructed)
}

func (q FindEligibleWorkersQuery) Actor() actor.Actor {
	return q.actor
}

func (q FindEligibleWorkersQuery) Area() string {
	return q.area
}

func (q FindEligibleWorkersQuery) Exact() bool {
	return q.exact
}
