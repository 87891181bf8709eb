package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Subscription is a user's paid plan.  A user holds at most one active
// subscription; creating a second one while the first is active is a
// conflict.
type Subscription struct {
	Base
	UserID    uint64    // subscription.user_id
	PlanType  PlanType  // subscription.plan_type
	StartDate time.Time // subscription.start_date, never before creation day
	EndDate   time.Time // subscription.end_date, after StartDate
}

// PlanType enumerates the subscription plans.  The ordinal values are part
// of the wire contract: 0=Basic, 1=Standard, 2=Premium.
type PlanType uint8

const (
	PlanBasic PlanType = iota
	PlanStandard
	PlanPremium
)

var planNames = [...]string{"Basic", "Standard", "Premium"}

func (p PlanType) Valid() bool { return int(p) < len(planNames) }

func (p PlanType) String() string {
	if p.Valid() {
		return planNames[p]
	}
	return fmt.Sprintf("PlanType(%d)", uint8(p))
}

// ParsePlanType resolves a plan name case-insensitively.
func ParsePlanType(s string) (PlanType, error) {
	for i, n := range planNames {
		if strings.EqualFold(n, s) {
			return PlanType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown plan type %q", s)
}

// MarshalJSON encodes the plan as its name string.
func (p PlanType) MarshalJSON() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid plan type ordinal %d", uint8(p))
	}
	return json.Marshal(p.String())
}

// UnmarshalJSON accepts either the plan name or its ordinal.
func (p *PlanType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, perr := ParsePlanType(s)
		if perr != nil {
			return perr
		}
		*p = v
		return nil
	}
	var n uint8
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("plan type must be a name or an ordinal")
	}
	if !PlanType(n).Valid() {
		return fmt.Errorf("plan type ordinal %d out of range", n)
	}
	*p = PlanType(n)
	return nil
}
