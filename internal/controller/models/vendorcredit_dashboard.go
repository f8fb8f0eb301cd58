package models

import (
	"context"
	"time"
	"tradedesk/internal/vendorcredit"
)

type GetVendorCreditDashboardV1Opts struct {
	Db Db

	OrgId string
	Now   time.Time
}

func GetVendorCreditDashboardV1(ctx context.Context, opts GetVendorCreditDashboardV1Opts) (*vendorcredit.Dashboard, error) {
	cases, err := ListCasesV1(ctx, ListCasesV1Opts{Db: opts.Db, OrgId: opts.OrgId})
	if err != nil {
		return nil, err
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	dashboard := vendorcredit.BuildDashboard(cases, now.UTC())
	return &dashboard, nil
}
