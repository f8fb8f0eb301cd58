package vendorcredit

import (
	"math"
	"slices"
	"strings"
)

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleStaff  Role = "STAFF"
	RoleViewer Role = "VIEWER"
)

var Roles = []Role{RoleAdmin, RoleStaff, RoleViewer}

func (r Role) IsValid() bool {
	return slices.Contains(Roles, r)
}

func (r Role) CanManageBilling() bool {
	return r == RoleAdmin
}

func (r Role) CanManageTemplates() bool {
	return r == RoleAdmin || r == RoleStaff
}

func (r Role) CanEditCase() bool {
	return r == RoleAdmin || r == RoleStaff
}

func (r Role) CanManageMembers() bool {
	return r == RoleAdmin
}

type Plan string

const (
	PlanStarter  Plan = "STARTER"
	PlanPro      Plan = "PRO"
	PlanBusiness Plan = "BUSINESS"
)

const (
	DefaultPlan               = PlanStarter
	DefaultSubscriptionStatus = "trialing"

	// UnlimitedSeats is returned for plans without a seat cap
	UnlimitedSeats = math.MaxInt
)

func (p Plan) IsValid() bool {
	return p == PlanStarter || p == PlanPro || p == PlanBusiness
}

// SeatLimit returns zero for unknown plans
func (p Plan) SeatLimit() int {
	switch p {
	case PlanStarter:
		return 3
	case PlanPro:
		return 15
	case PlanBusiness:
		return UnlimitedSeats
	}
	return 0
}

// HasSeatFor reports whether an org with the given member count can
// take one more member
func (p Plan) HasSeatFor(currentMembers int) bool {
	return currentMembers < p.SeatLimit()
}

func HasBillingAccess(subscriptionStatus string) bool {
	switch strings.ToLower(subscriptionStatus) {
	case "active", "trialing":
		return true
	}
	return false
}
