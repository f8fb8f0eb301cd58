package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"tradedesk/internal/vendorcredit"

	"github.com/google/uuid"
)

const vendorColumns = `id, org_id, name, contact_email, portal_url, notes, created_at, updated_at`

func scanVendor(row rowScanner) (*vendorcredit.Vendor, error) {
	var vendor vendorcredit.Vendor
	var contactEmail, portalUrl, notes sql.NullString
	if err := row.Scan(
		&vendor.Id,
		&vendor.OrgId,
		&vendor.Name,
		&contactEmail,
		&portalUrl,
		&notes,
		&vendor.CreatedAt,
		&vendor.UpdatedAt,
	); err != nil {
		return nil, err
	}
	vendor.ContactEmail = nullStringPtr(contactEmail)
	vendor.PortalUrl = nullStringPtr(portalUrl)
	vendor.Notes = nullStringPtr(notes)
	return &vendor, nil
}

func selectVendor(ctx context.Context, db Db, fnSource, where string, args ...any) (*vendorcredit.Vendor, error) {
	var vendor *vendorcredit.Vendor
	if err := executeMysqlSelect(ctx, mysqlQueryInput{
		Db:       db,
		Stmt:     fmt.Sprintf(`SELECT %s FROM vendors WHERE %s`, vendorColumns, where),
		Args:     args,
		FnSource: fnSource,
		ProcessRow: func(r *sql.Row) (err error) {
			vendor, err = scanVendor(r)
			return err
		},
	}); err != nil {
		return nil, err
	}
	return vendor, nil
}

type ListVendorsV1Opts struct {
	Db Db

	OrgId string
}

func ListVendorsV1(ctx context.Context, opts ListVendorsV1Opts) ([]vendorcredit.Vendor, error) {
	vendors := []vendorcredit.Vendor{}
	if err := executeMysqlSelects(ctx, mysqlQueryInput{
		Db:       opts.Db,
		Stmt:     fmt.Sprintf(`SELECT %s FROM vendors WHERE org_id = ? ORDER BY name ASC`, vendorColumns),
		Args:     []any{opts.OrgId},
		FnSource: "models.ListVendorsV1",
		ProcessRows: func(r *sql.Rows) error {
			vendor, err := scanVendor(r)
			if err != nil {
				return err
			}
			vendors = append(vendors, *vendor)
			return nil
		},
	}); err != nil {
		return nil, err
	}
	return vendors, nil
}

type GetVendorV1Opts struct {
	Db Db

	OrgId string
	Id    string
}

func GetVendorV1(ctx context.Context, opts GetVendorV1Opts) (*vendorcredit.Vendor, error) {
	return selectVendor(ctx, opts.Db, "models.GetVendorV1", `org_id = ? AND id = ?`, opts.OrgId, opts.Id)
}

type GetVendorByNameV1Opts struct {
	Db Db

	OrgId string
	Name  string
}

func GetVendorByNameV1(ctx context.Context, opts GetVendorByNameV1Opts) (*vendorcredit.Vendor, error) {
	return selectVendor(ctx, opts.Db, "models.GetVendorByNameV1", `org_id = ? AND name = ?`, opts.OrgId, opts.Name)
}

type GetOldestVendorV1Opts struct {
	Db Db

	OrgId string
}

// GetOldestVendorV1 is the fallback vendor for import rows that do not
// name one
func GetOldestVendorV1(ctx context.Context, opts GetOldestVendorV1Opts) (*vendorcredit.Vendor, error) {
	return selectVendor(ctx, opts.Db, "models.GetOldestVendorV1", `org_id = ? ORDER BY created_at ASC, id ASC LIMIT 1`, opts.OrgId)
}

type CreateVendorV1Opts struct {
	Db Db

	Vendor vendorcredit.Vendor
}

func CreateVendorV1(ctx context.Context, opts CreateVendorV1Opts) (string, error) {
	vendor := opts.Vendor
	vendorId := uuid.NewString()
	if err := executeMysqlInsert(ctx, mysqlQueryInput{
		Db:           opts.Db,
		Stmt:         `INSERT INTO vendors(id, org_id, name, contact_email, portal_url, notes) VALUES (?, ?, ?, ?, ?, ?)`,
		Args:         []any{vendorId, vendor.OrgId, vendor.Name, vendor.ContactEmail, vendor.PortalUrl, vendor.Notes},
		FnSource:     "models.CreateVendorV1",
		RowsAffected: oneRowAffected,
	}); err != nil {
		return "", err
	}
	return vendorId, nil
}

type UpdateVendorV1Opts struct {
	Db Db

	Vendor vendorcredit.Vendor
}

func UpdateVendorV1(ctx context.Context, opts UpdateVendorV1Opts) error {
	vendor := opts.Vendor
	return executeMysqlUpdate(ctx, mysqlQueryInput{
		Db: opts.Db,
		Stmt: `
			UPDATE vendors SET
				name = ?,
				contact_email = ?,
				portal_url = ?,
				notes = ?,
				updated_at = NOW()
			WHERE org_id = ? AND id = ?`,
		Args:         []any{vendor.Name, vendor.ContactEmail, vendor.PortalUrl, vendor.Notes, vendor.OrgId, vendor.Id},
		FnSource:     "models.UpdateVendorV1",
		RowsAffected: oneRowAffected,
	})
}

type DeleteVendorV1Opts struct {
	Db Db

	OrgId string
	Id    string
}

// DeleteVendorV1 fails while cases still reference the vendor
func DeleteVendorV1(ctx context.Context, opts DeleteVendorV1Opts) error {
	return executeMysqlDelete(ctx, mysqlQueryInput{
		Db:       opts.Db,
		Stmt:     `DELETE FROM vendors WHERE org_id = ? AND id = ?`,
		Args:     []any{opts.OrgId, opts.Id},
		FnSource: "models.DeleteVendorV1",
	})
}

type UpsertVendorByNameV1Opts struct {
	Db Db

	OrgId string
	Name  string
}

// UpsertVendorByNameV1 returns the org's vendor with the given name,
// creating it first when missing. A blank name returns nil
func UpsertVendorByNameV1(ctx context.Context, opts UpsertVendorByNameV1Opts) (*vendorcredit.Vendor, error) {
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		return nil, nil
	}
	if err := executeMysqlInsert(ctx, mysqlQueryInput{
		Db:           opts.Db,
		Stmt:         `INSERT IGNORE INTO vendors(id, org_id, name) VALUES (?, ?, ?)`,
		Args:         []any{uuid.NewString(), opts.OrgId, name},
		FnSource:     "models.UpsertVendorByNameV1",
		RowsAffected: atLeastNRowsAffected(0),
	}); err != nil {
		return nil, err
	}
	vendor, err := GetVendorByNameV1(ctx, GetVendorByNameV1Opts{Db: opts.Db, OrgId: opts.OrgId, Name: name})
	if err != nil && errors.Is(err, ErrorNotFound) {
		return nil, nil
	}
	return vendor, err
}
