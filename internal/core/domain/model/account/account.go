// Package account models company and shopkeeper accounts as read from the
// directory.
package account

import (
	"errors"
	"fmt"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

var ErrAccountIsNotConstructed = errors.New("Account must be created via RestoreAccount constructor")

// Kind distinguishes the two trading sides.
type Kind string

const (
	Company    Kind = "company"
	Shopkeeper Kind = "shopkeeper"
)

func (k Kind) Validate() error {
	if k != Company && k != Shopkeeper {
		return errs.NewValueIsInvalidErrorWithCause("account kind", fmt.Errorf("%q is not a valid kind", string(k)))
	}
	return nil
}

type Account struct {
	id      kernel.UUID
	kind    Kind
	name    string
	active  bool
	address string
	area    string
	phone   string

	isConstructed bool
}

func RestoreAccount(id kernel.UUID, kind Kind, name string, active bool, address, area, phone string) (*Account, error) {
	if err := errors.Join(id.Validate(), kind.Validate()); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}

	return &Account{
		id:            id,
		kind:          kind,
		name:          name,
		active:        active,
		address:       address,
		area:          area,
		phone:         phone,
		isConstructed: true,
	}, nil
}

func (a *Account) Validate() error {
	if a == nil || !a.isConstructed {
		return ErrAccountIsNotConstructed
	}
	return nil
}

func (a *Account) ID() kernel.UUID {
	return a.id
}

func (a *Account) Kind() Kind {
	return a.kind
}

func (a *Account) Name() string {
	return a.name
}

func (a *Account) IsActive() bool {
	return a.active
}

func (a *Account) Address() string {
	return a.address
}

func (a *Account) Area() string {
	return a.area
}

func (a *Account) Phone() string {
	return a.phone
}

// CheckTradingAs returns Unavailable unless the account is an active account
// of the given kind.
func (a *Account) CheckTradingAs(kind Kind) error {
	if a.kind != kind || !a.active {
		return errs.NewUnavailableError(string(kind), a.id.String())
	}
	return nil
}
