package models

import (
	"context"
	"database/sql"
	"fmt"
	"time"
	"tradedesk/internal/common"

	"github.com/google/uuid"
)

const (
	InvitationTokenBytes = 24
	InvitationTtl        = 7 * 24 * time.Hour
)

type Invitation struct {
	Id         string     `json:"id"`
	OrgId      string     `json:"orgId"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	Token      string     `json:"token,omitempty"`
	ExpiresAt  time.Time  `json:"expiresAt"`
	AcceptedAt *time.Time `json:"acceptedAt"`
	CreatedBy  *string    `json:"createdBy"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func (i Invitation) IsExpired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

const invitationColumns = `invitations.id, invitations.org_id, invitations.email, invitations.role, invitations.token, invitations.expires_at, invitations.accepted_at, invitations.created_by, invitations.created_at`

func scanInvitation(row rowScanner) (*Invitation, error) {
	var invitation Invitation
	var acceptedAt sql.NullTime
	var createdBy sql.NullString
	if err := row.Scan(
		&invitation.Id,
		&invitation.OrgId,
		&invitation.Email,
		&invitation.Role,
		&invitation.Token,
		&invitation.ExpiresAt,
		&acceptedAt,
		&createdBy,
		&invitation.CreatedAt,
	); err != nil {
		return nil, err
	}
	invitation.AcceptedAt = nullTimePtr(acceptedAt)
	invitation.CreatedBy = nullStringPtr(createdBy)
	return &invitation, nil
}

type CreateInvitationV1Opts struct {
	Db Db

	OrgId     string
	Email     string
	Role      string
	CreatedBy string
	Now       time.Time
}

func CreateInvitationV1(ctx context.Context, opts CreateInvitationV1Opts) (*Invitation, error) {
	token, err := common.GenerateHexToken(InvitationTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("models.CreateInvitationV1: failed to generate token: %w", err)
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	invitation := Invitation{
		Id:        uuid.NewString(),
		OrgId:     opts.OrgId,
		Email:     NormalizeEmail(opts.Email),
		Role:      opts.Role,
		Token:     token,
		ExpiresAt: now.UTC().Add(InvitationTtl),
		CreatedBy: &opts.CreatedBy,
		CreatedAt: now.UTC(),
	}
	if err := executeMysqlInsert(ctx, mysqlQueryInput{
		Db: opts.Db,
		Stmt: `
			INSERT INTO invitations(
				id,
				org_id,
				email,
				role,
				token,
				expires_at,
				created_by
			) VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
		Args: []any{
			invitation.Id,
			invitation.OrgId,
			invitation.Email,
			invitation.Role,
			invitation.Token,
			invitation.ExpiresAt,
			opts.CreatedBy,
		},
		FnSource:     "models.CreateInvitationV1",
		RowsAffected: oneRowAffected,
	}); err != nil {
		return nil, err
	}
	return &invitation, nil
}

type GetInvitationByTokenV1Opts struct {
	Db Db

	Token string
}

func GetInvitationByTokenV1(ctx context.Context, opts GetInvitationByTokenV1Opts) (*Invitation, error) {
	var invitation *Invitation
	if err := executeMysqlSelect(ctx, mysqlQueryInput{
		Db:       opts.Db,
		Stmt:     fmt.Sprintf(`SELECT %s FROM invitations WHERE invitations.token = ?`, invitationColumns),
		Args:     []any{opts.Token},
		FnSource: "models.GetInvitationByTokenV1",
		ProcessRow: func(r *sql.Row) (err error) {
			invitation, err = scanInvitation(r)
			return err
		},
	}); err != nil {
		return nil, err
	}
	return invitation, nil
}

type ListInvitationsV1Opts struct {
	Db Db

	OrgId string
}

// ListInvitationsV1 returns the org's pending invitations without their
// tokens
func ListInvitationsV1(ctx context.Context, opts ListInvitationsV1Opts) ([]Invitation, error) {
	invitations := []Invitation{}
	if err := executeMysqlSelects(ctx, mysqlQueryInput{
		Db: opts.Db,
		Stmt: fmt.Sprintf(`
			SELECT %s FROM invitations
				WHERE invitations.org_id = ? AND invitations.accepted_at IS NULL
				ORDER BY invitations.created_at DESC`, invitationColumns),
		Args:     []any{opts.OrgId},
		FnSource: "models.ListInvitationsV1",
		ProcessRows: func(r *sql.Rows) error {
			invitation, err := scanInvitation(r)
			if err != nil {
				return err
			}
			invitation.Token = ""
			invitations = append(invitations, *invitation)
			return nil
		},
	}); err != nil {
		return nil, err
	}
	return invitations, nil
}

type AcceptInvitationV1Opts struct {
	Db *sql.DB

	Token    string
	Name     *string
	Password string
	Now      time.Time
}

type AcceptInvitationV1Output struct {
	OrgId  string
	UserId string
	Email  string
}

// AcceptInvitationV1 joins the invited email to the org. A placeholder
// user gets the supplied password; an email that already belongs to a
// user with a password is rejected so that the invitation cannot be
// used to take over that account
func AcceptInvitationV1(ctx context.Context, opts AcceptInvitationV1Opts) (*AcceptInvitationV1Output, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	var output AcceptInvitationV1Output
	err := withTransaction(ctx, opts.Db, "models.AcceptInvitationV1", func(tx *sql.Tx) error {
		invitation, err := GetInvitationByTokenV1(ctx, GetInvitationByTokenV1Opts{Db: tx, Token: opts.Token})
		if err != nil {
			return err
		}
		if invitation.AcceptedAt != nil {
			return fmt.Errorf("models.AcceptInvitationV1: %w", ErrorInvitationAccepted)
		}
		if invitation.IsExpired(now) {
			return fmt.Errorf("models.AcceptInvitationV1: %w", ErrorInvitationExpired)
		}

		user, err := GetUserV1(ctx, GetUserV1Opts{Db: tx, Email: &invitation.Email})
		switch {
		case err == nil && user.HasPassword():
			return fmt.Errorf("models.AcceptInvitationV1: user[%s] already exists: %w", invitation.Email, ErrorUserExists)
		case err == nil:
			if err := SetUserPasswordV1(ctx, SetUserPasswordV1Opts{Db: tx, UserId: user.Id, Password: opts.Password}); err != nil {
				return err
			}
			output.UserId = user.Id
		case isNotFound(err):
			userId, err := CreateUserV1(ctx, CreateUserV1Opts{Db: tx, Email: invitation.Email, Name: opts.Name, Password: opts.Password})
			if err != nil {
				return err
			}
			output.UserId = userId
		default:
			return err
		}

		if err := UpsertMembershipV1(ctx, UpsertMembershipV1Opts{
			Db:     tx,
			OrgId:  invitation.OrgId,
			UserId: output.UserId,
			Role:   invitation.Role,
		}); err != nil {
			return err
		}
		output.OrgId = invitation.OrgId
		output.Email = invitation.Email
		return executeMysqlUpdate(ctx, mysqlQueryInput{
			Db:           tx,
			Stmt:         `UPDATE invitations SET accepted_at = ? WHERE id = ?`,
			Args:         []any{now.UTC(), invitation.Id},
			FnSource:     "models.AcceptInvitationV1",
			RowsAffected: oneRowAffected,
		})
	})
	if err != nil {
		return nil, err
	}
	return &output, nil
}
