// ABOUTME: Dashboard statistics tool
// ABOUTME: Implements get_overall_stats
package handlers

import (
	"context"
)

func (r *Registry) statsTools() []Tool {
	return []Tool{
		newTool("get_overall_stats",
			"Get overall CiviCRM statistics (contacts, contributions, events, cases)",
			NoInput{},
			r.getOverallStats),
	}
}

func (r *Registry) getOverallStats(ctx context.Context, _ NoInput) Result {
	stats, err := r.crm.GetOverallStats(ctx)
	if err != nil {
		return Failure(err)
	}
	return Success(stats)
}
