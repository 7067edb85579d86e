// ABOUTME: Code-to-label lookups used to enrich records
// ABOUTME: OptionValue groups, CaseType titles and FinancialType names, built fresh per call
package civicrm

import (
	"context"
	"strings"

	"github.com/harperreed/civibridge/models"
	"github.com/spf13/cast"
)

// Option groups used for enrichment.
const (
	groupCaseStatus         = "case_status"
	groupActivityType       = "activity_type"
	groupActivityStatus     = "activity_status"
	groupContributionStatus = "contribution_status"
	groupEventType          = "event_type"
)

type labels map[int64]string

// label returns the label for code, or "Unknown".
func (l labels) label(code models.ID) string {
	if name, ok := l[int64(code)]; ok && name != "" {
		return name
	}
	return models.UnknownLabel
}

// optionLabels loads the value->label map of an option group. With no
// values the whole group is read.
func (c *Client) optionLabels(ctx context.Context, group string, values ...int64) (labels, error) {
	q := NewQuery("value", "label").Filter(Eq("option_group_id:name", group))
	if len(values) > 0 {
		in := make([]any, 0, len(values))
		for _, v := range values {
			in = append(in, cast.ToString(v))
		}
		q = q.Filter(In("value", in...))
	}

	rows, err := fetch[optionValueRow](ctx, c, "OptionValue", q)
	if err != nil {
		return nil, err
	}

	out := make(labels, len(rows))
	for _, row := range rows {
		code, err := cast.ToInt64E(strings.TrimSpace(row.Value))
		if err != nil {
			continue
		}
		out[code] = row.Label
	}
	return out, nil
}

func (c *Client) caseTypeLabels(ctx context.Context, ids ...int64) (labels, error) {
	q := NewQuery("id", "title")
	if len(ids) > 0 {
		q = q.Filter(In("id", int64sToAny(ids)...))
	}
	rows, err := fetch[caseTypeRow](ctx, c, "CaseType", q)
	if err != nil {
		return nil, err
	}
	out := make(labels, len(rows))
	for _, row := range rows {
		out[int64(row.ID)] = row.Title
	}
	return out, nil
}

func (c *Client) financialTypeLabels(ctx context.Context) (labels, error) {
	rows, err := fetch[financialTypeRow](ctx, c, "FinancialType", NewQuery("id", "name"))
	if err != nil {
		return nil, err
	}
	out := make(labels, len(rows))
	for _, row := range rows {
		out[int64(row.ID)] = row.Name
	}
	return out, nil
}

func int64sToAny(ids []int64) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

// distinct returns the unique non-zero codes in first-seen order.
func distinct(codes ...models.ID) []int64 {
	seen := make(map[int64]bool, len(codes))
	out := make([]int64, 0, len(codes))
	for _, code := range codes {
		id := int64(code)
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
