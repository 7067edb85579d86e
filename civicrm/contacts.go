// ABOUTME: Contact operations: list, search by display name, fetch by id, find by primary email
// ABOUTME: Primary email and phone come from the email_primary/phone_primary joins
package civicrm

import (
	"context"
	"fmt"

	"github.com/harperreed/civibridge/models"
)

var contactFields = []string{
	"id", "contact_type", "display_name", "first_name", "last_name",
	"email_primary.email", "phone_primary.phone", "organization_name",
	"created_date", "modified_date",
}

func (c *Client) contacts(ctx context.Context, q Query) ([]models.Contact, error) {
	rows, err := fetch[contactRow](ctx, c, "Contact", q)
	if err != nil {
		return nil, err
	}
	out := make([]models.Contact, len(rows))
	for i, row := range rows {
		out[i] = row.toModel()
	}
	return out, nil
}

func (c *Client) GetContacts(ctx context.Context, limit, offset int) ([]models.Contact, error) {
	contacts, err := c.contacts(ctx, NewQuery(contactFields...).Paginate(limit, offset))
	if err != nil {
		return nil, fmt.Errorf("failed to get contacts: %w", err)
	}
	return contacts, nil
}

// SearchContacts matches query anywhere in display_name.
func (c *Client) SearchContacts(ctx context.Context, query string, limit int) ([]models.Contact, error) {
	q := NewQuery(contactFields...).
		Filter(Like("display_name", "%"+query+"%")).
		Paginate(limit, 0)
	contacts, err := c.contacts(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to search contacts: %w", err)
	}
	return contacts, nil
}

// GetContact returns nil when no contact has the id.
func (c *Client) GetContact(ctx context.Context, id int64) (*models.Contact, error) {
	q := NewQuery(contactFields...).Filter(Eq("id", id)).Paginate(1, 0)
	contacts, err := c.contacts(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to get contact %d: %w", id, err)
	}
	for i := range contacts {
		if int64(contacts[i].ID) == id {
			return &contacts[i], nil
		}
	}
	return nil, nil
}

// FindContactByEmail returns nil when no contact has email as its primary address.
func (c *Client) FindContactByEmail(ctx context.Context, email string) (*models.Contact, error) {
	q := NewQuery(contactFields...).Filter(Eq("email_primary.email", email)).Paginate(1, 0)
	contacts, err := c.contacts(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to find contact by email: %w", err)
	}
	if len(contacts) == 0 {
		return nil, nil
	}
	return &contacts[0], nil
}
