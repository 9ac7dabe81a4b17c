package delivery

import (
	"fmt"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

type IssueType string

const (
	DamagedGoods        IssueType = "damaged_goods"
	WrongItems          IssueType = "wrong_items"
	CustomerUnavailable IssueType = "customer_unavailable"
	AddressIncorrect    IssueType = "address_incorrect"
	OtherIssue          IssueType = "other"
)

func (t IssueType) Validate() error {
	switch t {
	case DamagedGoods, WrongItems, CustomerUnavailable, AddressIncorrect, OtherIssue:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("issue type", fmt.Errorf("%q is not a valid issue type", string(t)))
	}
}

// Issue is a problem reported during delivery. Issues are only ever appended.
type Issue struct {
	Type        IssueType
	Description string
	ReportedBy  kernel.UUID
	ReportedAt  time.Time
}

func NewIssue(issueType IssueType, description string, reportedBy kernel.UUID, at time.Time) (Issue, error) {
	if err := issueType.Validate(); err != nil {
		return Issue{}, err
	}
	if strings.TrimSpace(description) == "" {
		return Issue{}, errs.NewValueIsRequiredError("issue description")
	}
	if err := reportedBy.Validate(); err != nil {
		return Issue{}, err
	}

	return Issue{
		Type:        issueType,
		Description: strings.TrimSpace(description),
		ReportedBy:  reportedBy,
		ReportedAt:  at,
	}, nil
}

// Proof is the proof of delivery captured at handover.
type Proof struct {
	Signature  string
	PhotoRef   string
	Notes      string
	CapturedAt time.Time
}
