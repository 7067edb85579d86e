// ABOUTME: Contribution tools
// ABOUTME: Implements get_contributions, get_contributions_by_contact and get_contribution_stats
package handlers

import (
	"context"

	"github.com/harperreed/civibridge/models"
)

type GetContributionsInput struct {
	Limit  int `json:"limit,omitempty" jsonschema:"Maximum number of contributions to return (default 25)" validate:"gte=1,lte=1000"`
	Offset int `json:"offset,omitempty" jsonschema:"Number of contributions to skip (default 0)" validate:"gte=0"`
}

type ContactIDInput struct {
	ContactID models.ID `json:"contact_id" jsonschema:"Contact ID" validate:"gt=0"`
}

type NoInput struct{}

func (r *Registry) contributionTools() []Tool {
	return []Tool{
		newTool("get_contributions", "Get a list of contributions/donations from CiviCRM",
			GetContributionsInput{Limit: defaultLimit},
			r.getContributions,
			withDefault("limit", defaultLimit), withRange("limit", 1, maxLimit),
			withDefault("offset", 0), withMinimum("offset", 0)),
		newTool("get_contributions_by_contact", "Get contributions for a specific contact",
			ContactIDInput{},
			r.getContributionsByContact,
			withMinimum("contact_id", 1)),
		newTool("get_contribution_stats",
			"Get contribution statistics from CiviCRM, computed over a sample of recent contributions",
			NoInput{},
			r.getContributionStats),
	}
}

func (r *Registry) getContributions(ctx context.Context, in GetContributionsInput) Result {
	contributions, err := r.crm.GetContributions(ctx, in.Limit, in.Offset)
	if err != nil {
		return Failure(err)
	}
	return List(contributions)
}

func (r *Registry) getContributionsByContact(ctx context.Context, in ContactIDInput) Result {
	contributions, err := r.crm.GetContributionsByContact(ctx, int64(in.ContactID))
	if err != nil {
		return Failure(err)
	}
	return List(contributions).With("contact_id", in.ContactID)
}

func (r *Registry) getContributionStats(ctx context.Context, _ NoInput) Result {
	stats, err := r.crm.GetContributionStats(ctx)
	if err != nil {
		return Failure(err)
	}
	return Success(stats)
}
