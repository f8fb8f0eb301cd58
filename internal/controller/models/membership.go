package models

import (
	"context"
	"database/sql"
	"time"
	"tradedesk/internal/common"
	"tradedesk/internal/solar"
	"tradedesk/internal/vendorcredit"

	"github.com/google/uuid"
)

type Membership struct {
	Id        string    `json:"id"`
	OrgId     string    `json:"orgId"`
	UserId    string    `json:"userId"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`

	Email string  `json:"email"`
	Name  *string `json:"name"`
}

// OwnerRole is the role granted to whoever creates an org
func OwnerRole(app common.App) string {
	if app == common.AppSolar {
		return string(solar.RoleOwner)
	}
	return string(vendorcredit.RoleAdmin)
}

// IsRoleValidForApp checks a membership role against the role set of
// the org's app
func IsRoleValidForApp(app common.App, role string) bool {
	switch app {
	case common.AppSolar:
		return solar.Role(role).IsValid()
	case common.AppVendorCredit:
		return vendorcredit.Role(role).IsValid()
	}
	return false
}

// CanManageMembers reports whether role may add, invite or remove
// members in an org of app
func CanManageMembers(app common.App, role string) bool {
	switch app {
	case common.AppSolar:
		return solar.Role(role).CanManageReminderPolicies()
	case common.AppVendorCredit:
		return vendorcredit.Role(role).CanManageMembers()
	}
	return false
}

type GetMembershipV1Opts struct {
	Db Db

	OrgId  string
	UserId string
}

func GetMembershipV1(ctx context.Context, opts GetMembershipV1Opts) (*Membership, error) {
	var membership Membership
	var name sql.NullString
	if err := executeMysqlSelect(ctx, mysqlQueryInput{
		Db: opts.Db,
		Stmt: `
			SELECT memberships.id, memberships.org_id, memberships.user_id, memberships.role, memberships.created_at, users.email, users.name
				FROM memberships
					JOIN users ON users.id = memberships.user_id
				WHERE memberships.org_id = ? AND memberships.user_id = ?`,
		Args:     []any{opts.OrgId, opts.UserId},
		FnSource: "models.GetMembershipV1",
		ProcessRow: func(r *sql.Row) error {
			return r.Scan(&membership.Id, &membership.OrgId, &membership.UserId, &membership.Role, &membership.CreatedAt, &membership.Email, &name)
		},
	}); err != nil {
		return nil, err
	}
	membership.Name = nullStringPtr(name)
	return &membership, nil
}

type ListMembershipsV1Opts struct {
	Db Db

	OrgId string
}

func ListMembershipsV1(ctx context.Context, opts ListMembershipsV1Opts) ([]Membership, error) {
	memberships := []Membership{}
	if err := executeMysqlSelects(ctx, mysqlQueryInput{
		Db: opts.Db,
		Stmt: `
			SELECT memberships.id, memberships.org_id, memberships.user_id, memberships.role, memberships.created_at, users.email, users.name
				FROM memberships
					JOIN users ON users.id = memberships.user_id
				WHERE memberships.org_id = ?
				ORDER BY memberships.created_at ASC`,
		Args:     []any{opts.OrgId},
		FnSource: "models.ListMembershipsV1",
		ProcessRows: func(r *sql.Rows) error {
			var membership Membership
			var name sql.NullString
			if err := r.Scan(&membership.Id, &membership.OrgId, &membership.UserId, &membership.Role, &membership.CreatedAt, &membership.Email, &name); err != nil {
				return err
			}
			membership.Name = nullStringPtr(name)
			memberships = append(memberships, membership)
			return nil
		},
	}); err != nil {
		return nil, err
	}
	return memberships, nil
}

type CountMembershipsV1Opts struct {
	Db Db

	OrgId string
}

func CountMembershipsV1(ctx context.Context, opts CountMembershipsV1Opts) (int, error) {
	count := 0
	if err := executeMysqlSelect(ctx, mysqlQueryInput{
		Db:       opts.Db,
		Stmt:     `SELECT COUNT(*) FROM memberships WHERE org_id = ?`,
		Args:     []any{opts.OrgId},
		FnSource: "models.CountMembershipsV1",
		ProcessRow: func(r *sql.Row) error {
			return r.Scan(&count)
		},
	}); err != nil {
		return 0, err
	}
	return count, nil
}

type UpsertMembershipV1Opts struct {
	Db Db

	OrgId  string
	UserId string
	Role   string
}

// UpsertMembershipV1 adds the user to the org or updates the role of
// an existing membership
func UpsertMembershipV1(ctx context.Context, opts UpsertMembershipV1Opts) error {
	return executeMysqlInsert(ctx, mysqlQueryInput{
		Db: opts.Db,
		Stmt: `
			INSERT INTO memberships(id, org_id, user_id, role)
				VALUES (?, ?, ?, ?)
				ON DUPLICATE KEY UPDATE role = VALUES(role)`,
		Args:         []any{uuid.NewString(), opts.OrgId, opts.UserId, opts.Role},
		FnSource:     "models.UpsertMembershipV1",
		RowsAffected: atLeastNRowsAffected(0),
	})
}

type DeleteMembershipV1Opts struct {
	Db Db

	OrgId  string
	UserId string
}

func DeleteMembershipV1(ctx context.Context, opts DeleteMembershipV1Opts) error {
	return executeMysqlDelete(ctx, mysqlQueryInput{
		Db:       opts.Db,
		Stmt:     `DELETE FROM memberships WHERE org_id = ? AND user_id = ?`,
		Args:     []any{opts.OrgId, opts.UserId},
		FnSource: "models.DeleteMembershipV1",
	})
}

type ListMemberEmailsByRoleV1Opts struct {
	Db Db

	OrgId string
	Roles []string
}

// ListMemberEmailsByRoleV1 returns the distinct emails of members
// holding any of the given roles
func ListMemberEmailsByRoleV1(ctx context.Context, opts ListMemberEmailsByRoleV1Opts) ([]string, error) {
	emails := []string{}
	if len(opts.Roles) == 0 {
		return emails, nil
	}
	args := []any{opts.OrgId}
	for _, role := range opts.Roles {
		args = append(args, role)
	}
	if err := executeMysqlSelects(ctx, mysqlQueryInput{
		Db: opts.Db,
		Stmt: `
			SELECT DISTINCT users.email
				FROM memberships
					JOIN users ON users.id = memberships.user_id
				WHERE memberships.org_id = ? AND memberships.role IN (` + placeholders(len(opts.Roles)) + `)
				ORDER BY users.email ASC`,
		Args:     args,
		FnSource: "models.ListMemberEmailsByRoleV1",
		ProcessRows: func(r *sql.Rows) error {
			var email string
			if err := r.Scan(&email); err != nil {
				return err
			}
			emails = append(emails, email)
			return nil
		},
	}); err != nil {
		return nil, err
	}
	return emails, nil
}
