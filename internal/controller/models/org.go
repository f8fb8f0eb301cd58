package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"tradedesk/internal/common"
	"tradedesk/internal/reminders"
	"tradedesk/internal/validate"
	"tradedesk/internal/vendorcredit"

	"github.com/google/uuid"
)

type Org struct {
	Id                 string     `json:"id"`
	App                common.App `json:"app"`
	Name               string     `json:"name"`
	Timezone           string     `json:"timezone"`
	Plan               string     `json:"plan"`
	SubscriptionStatus string     `json:"subscriptionStatus"`
	CreatedBy          *string    `json:"createdBy"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`

	// Role is populated when the org is listed for a member
	Role *string `json:"role,omitempty"`
}

// HasBillingAccess only applies to vendorcredit orgs, the other apps
// are not gated on a subscription
func (o Org) HasBillingAccess() bool {
	if o.App != common.AppVendorCredit {
		return true
	}
	return vendorcredit.HasBillingAccess(o.SubscriptionStatus)
}

// SeatLimit returns UnlimitedSeats for apps without seat plans
func (o Org) SeatLimit() int {
	if o.App != common.AppVendorCredit {
		return vendorcredit.UnlimitedSeats
	}
	return vendorcredit.Plan(o.Plan).SeatLimit()
}

const orgColumns = `orgs.id, orgs.app, orgs.name, orgs.timezone, orgs.plan, orgs.subscription_status, orgs.created_by, orgs.created_at, orgs.updated_at`

func scanOrg(row rowScanner, extra ...any) (*Org, error) {
	var org Org
	var createdBy sql.NullString
	dest := append([]any{
		&org.Id,
		&org.App,
		&org.Name,
		&org.Timezone,
		&org.Plan,
		&org.SubscriptionStatus,
		&createdBy,
		&org.CreatedAt,
		&org.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	org.CreatedBy = nullStringPtr(createdBy)
	return &org, nil
}

type CreateOrgV1Opts struct {
	Db *sql.DB

	App      common.App
	Name     string
	Timezone string

	// UserId is the creator who becomes the org's most privileged
	// member
	UserId string
}

func (o CreateOrgV1Opts) Validate() error {
	errs := []error{}
	if o.App != common.AppSolar && o.App != common.AppVendorCredit {
		errs = append(errs, fmt.Errorf("app[%s] does not support organisations", o.App))
	}
	if err := validate.OrgName(o.Name); err != nil {
		errs = append(errs, err)
	}
	if err := validate.Timezone(o.Timezone); err != nil {
		errs = append(errs, err)
	}
	if o.UserId == "" {
		errs = append(errs, errors.New("missing user id"))
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrorInvalidInput}, errs...)...)
	}
	return nil
}

// CreateOrgV1 creates the org with its creator's membership; solar orgs
// are also seeded with the default reminder policies
func CreateOrgV1(ctx context.Context, opts CreateOrgV1Opts) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", fmt.Errorf("models.CreateOrgV1: %w", err)
	}
	orgId := uuid.NewString()
	err := withTransaction(ctx, opts.Db, "models.CreateOrgV1", func(tx *sql.Tx) error {
		if err := executeMysqlInsert(ctx, mysqlQueryInput{
			Db: tx,
			Stmt: `
				INSERT INTO orgs(
					id,
					app,
					name,
					timezone,
					plan,
					subscription_status,
					created_by
				) VALUES (?, ?, ?, ?, ?, ?, ?)
			`,
			Args: []any{
				orgId,
				string(opts.App),
				strings.TrimSpace(opts.Name),
				opts.Timezone,
				string(vendorcredit.DefaultPlan),
				vendorcredit.DefaultSubscriptionStatus,
				opts.UserId,
			},
			FnSource:     "models.CreateOrgV1",
			RowsAffected: oneRowAffected,
		}); err != nil {
			return err
		}
		if err := UpsertMembershipV1(ctx, UpsertMembershipV1Opts{
			Db:     tx,
			OrgId:  orgId,
			UserId: opts.UserId,
			Role:   OwnerRole(opts.App),
		}); err != nil {
			return err
		}
		if opts.App == common.AppSolar {
			for _, policy := range reminders.DefaultPolicies(orgId) {
				if _, err := CreateReminderPolicyV1(ctx, CreateReminderPolicyV1Opts{Db: tx, Policy: policy}); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return orgId, nil
}

type GetOrgV1Opts struct {
	Db Db

	Id string
}

func GetOrgV1(ctx context.Context, opts GetOrgV1Opts) (*Org, error) {
	var org *Org
	if err := executeMysqlSelect(ctx, mysqlQueryInput{
		Db:       opts.Db,
		Stmt:     fmt.Sprintf(`SELECT %s FROM orgs WHERE orgs.id = ?`, orgColumns),
		Args:     []any{opts.Id},
		FnSource: "models.GetOrgV1",
		ProcessRow: func(r *sql.Row) (err error) {
			org, err = scanOrg(r)
			return err
		},
	}); err != nil {
		return nil, err
	}
	return org, nil
}

type ListUserOrgsV1Opts struct {
	Db Db

	UserId string
	App    *common.App
}

func ListUserOrgsV1(ctx context.Context, opts ListUserOrgsV1Opts) ([]Org, error) {
	stmt := fmt.Sprintf(`
		SELECT %s, memberships.role
			FROM orgs
				JOIN memberships ON memberships.org_id = orgs.id
			WHERE memberships.user_id = ?`, orgColumns)
	args := []any{opts.UserId}
	if opts.App != nil {
		stmt += ` AND orgs.app = ?`
		args = append(args, string(*opts.App))
	}
	stmt += ` ORDER BY orgs.created_at ASC`

	orgs := []Org{}
	if err := executeMysqlSelects(ctx, mysqlQueryInput{
		Db:       opts.Db,
		Stmt:     stmt,
		Args:     args,
		FnSource: "models.ListUserOrgsV1",
		ProcessRows: func(r *sql.Rows) error {
			var role string
			org, err := scanOrg(r, &role)
			if err != nil {
				return err
			}
			org.Role = &role
			orgs = append(orgs, *org)
			return nil
		},
	}); err != nil {
		return nil, err
	}
	return orgs, nil
}

type UpdateOrgV1Opts struct {
	Db Db

	Id       string
	Name     string
	Timezone string
}

func UpdateOrgV1(ctx context.Context, opts UpdateOrgV1Opts) error {
	errs := []error{}
	if err := validate.OrgName(opts.Name); err != nil {
		errs = append(errs, err)
	}
	if err := validate.Timezone(opts.Timezone); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("models.UpdateOrgV1: %w", errors.Join(append([]error{ErrorInvalidInput}, errs...)...))
	}
	return executeMysqlUpdate(ctx, mysqlQueryInput{
		Db:           opts.Db,
		Stmt:         `UPDATE orgs SET name = ?, timezone = ?, updated_at = NOW() WHERE id = ?`,
		Args:         []any{strings.TrimSpace(opts.Name), opts.Timezone, opts.Id},
		FnSource:     "models.UpdateOrgV1",
		RowsAffected: oneRowAffected,
	})
}
