// ABOUTME: Dashboard statistics across contacts, contributions, events and cases
// ABOUTME: Counts come from bounded id scans run concurrently
package civicrm

import (
	"context"
	"fmt"

	"github.com/harperreed/civibridge/models"
	"golang.org/x/sync/errgroup"
)

// GetOverallStats counts rows by scanning ids up to ScanLimit per entity.
// Tables larger than the limit are undercounted.
func (c *Client) GetOverallStats(ctx context.Context) (*models.OverallStats, error) {
	scan := c.cfg.ScanLimit

	var contacts, events, cases []idRow
	var contributions *models.ContributionStats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		contacts, err = fetch[idRow](gctx, c, "Contact", NewQuery("id").Paginate(scan, 0))
		return err
	})
	g.Go(func() error {
		var err error
		contributions, err = c.GetContributionStats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		q := NewQuery("id").Filter(Eq("is_active", true)).Paginate(scan, 0)
		events, err = fetch[idRow](gctx, c, "Event", q)
		return err
	})
	g.Go(func() error {
		var err error
		q := NewQuery("id").Filter(notDeleted()).Paginate(scan, 0)
		cases, err = fetch[idRow](gctx, c, "Case", q)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to get overall stats: %w", err)
	}

	return &models.OverallStats{
		TotalContacts:           len(contacts),
		TotalContributions:      contributions.TotalContributions,
		TotalContributionAmount: contributions.TotalAmount,
		CompletedContributions:  contributions.CompletedContributions,
		ActiveEvents:            len(events),
		TotalCases:              len(cases),
	}, nil
}
