// ABOUTME: Contribution operations with status and financial type enrichment
// ABOUTME: GetContributionStats summarizes a bounded sample rather than the full table
package civicrm

import (
	"context"
	"fmt"

	"github.com/harperreed/civibridge/models"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var contributionFields = []string{
	"id", "contact_id", "total_amount", "currency", "contribution_status_id",
	"receive_date", "source", "financial_type_id",
}

func (c *Client) GetContributions(ctx context.Context, limit, offset int) ([]models.Contribution, error) {
	contributions, err := c.enrichedContributions(ctx, NewQuery(contributionFields...).Paginate(limit, offset))
	if err != nil {
		return nil, fmt.Errorf("failed to get contributions: %w", err)
	}
	return contributions, nil
}

func (c *Client) GetContributionsByContact(ctx context.Context, contactID int64) ([]models.Contribution, error) {
	q := NewQuery(contributionFields...).Filter(Eq("contact_id", contactID))
	contributions, err := c.enrichedContributions(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to get contributions for contact %d: %w", contactID, err)
	}
	return contributions, nil
}

func (c *Client) enrichedContributions(ctx context.Context, q Query) ([]models.Contribution, error) {
	rows, err := fetch[models.Contribution](ctx, c, "Contribution", q)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return rows, nil
	}

	var statuses, types labels
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		statuses, err = c.optionLabels(gctx, groupContributionStatus)
		return err
	})
	g.Go(func() error {
		var err error
		types, err = c.financialTypeLabels(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range rows {
		rows[i].ContributionStatus = statuses.label(rows[i].ContributionStatusID)
		rows[i].FinancialType = types.label(rows[i].FinancialTypeID)
	}
	return rows, nil
}

// GetContributionStats reads at most StatsSampleSize contributions. Amounts
// that do not parse count as zero; everything not "Completed" is pending.
func (c *Client) GetContributionStats(ctx context.Context) (*models.ContributionStats, error) {
	sample := c.cfg.StatsSampleSize
	q := NewQuery("total_amount", "currency", "contribution_status_id", "receive_date").Paginate(sample, 0)

	var rows []models.Contribution
	var statuses labels
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = fetch[models.Contribution](gctx, c, "Contribution", q)
		return err
	})
	g.Go(func() error {
		var err error
		statuses, err = c.optionLabels(gctx, groupContributionStatus)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to get contribution stats: %w", err)
	}

	stats := &models.ContributionStats{
		TotalAmount:        models.NewMoney(decimal.Zero),
		TotalContributions: len(rows),
		SampleSize:         sample,
		Capped:             len(rows) >= sample,
	}
	for _, row := range rows {
		stats.TotalAmount = stats.TotalAmount.Add(row.TotalAmount.OrZero())
		if statuses.label(row.ContributionStatusID) == models.ContributionStatusCompleted {
			stats.CompletedContributions++
		}
	}
	stats.PendingContributions = stats.TotalContributions - stats.CompletedContributions
	return stats, nil
}
