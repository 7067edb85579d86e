// ABOUTME: Contact tools
// ABOUTME: Implements get_contacts, search_contacts, get_contact and find_contact_by_email
package handlers

import (
	"context"

	"github.com/harperreed/civibridge/models"
)

const (
	defaultLimit         = 25
	defaultUpcomingLimit = 10
	maxLimit             = 1000
)

type GetContactsInput struct {
	Limit  int `json:"limit,omitempty" jsonschema:"Maximum number of contacts to return (default 25)" validate:"gte=1,lte=1000"`
	Offset int `json:"offset,omitempty" jsonschema:"Number of contacts to skip (default 0)" validate:"gte=0"`
}

type SearchContactsInput struct {
	Query string `json:"query" jsonschema:"Search query for contact names" validate:"required"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of contacts to return (default 25)" validate:"gte=1,lte=1000"`
}

type GetContactInput struct {
	ID models.ID `json:"id" jsonschema:"Contact ID" validate:"gt=0"`
}

type FindContactByEmailInput struct {
	Email string `json:"email" jsonschema:"Email address to search for" validate:"required,email"`
}

func (r *Registry) contactTools() []Tool {
	return []Tool{
		newTool("get_contacts", "Get a list of contacts from CiviCRM",
			GetContactsInput{Limit: defaultLimit},
			r.getContacts,
			withDefault("limit", defaultLimit), withRange("limit", 1, maxLimit),
			withDefault("offset", 0), withMinimum("offset", 0)),
		newTool("search_contacts", "Search for contacts by name in CiviCRM",
			SearchContactsInput{Limit: defaultLimit},
			r.searchContacts,
			withDefault("limit", defaultLimit), withRange("limit", 1, maxLimit)),
		newTool("get_contact", "Get detailed information about a specific contact",
			GetContactInput{},
			r.getContact,
			withMinimum("id", 1)),
		newTool("find_contact_by_email", "Find a contact by their email address",
			FindContactByEmailInput{},
			r.findContactByEmail,
			withFormat("email", "email")),
	}
}

func (r *Registry) getContacts(ctx context.Context, in GetContactsInput) Result {
	contacts, err := r.crm.GetContacts(ctx, in.Limit, in.Offset)
	if err != nil {
		return Failure(err)
	}
	return List(contacts)
}

func (r *Registry) searchContacts(ctx context.Context, in SearchContactsInput) Result {
	contacts, err := r.crm.SearchContacts(ctx, in.Query, in.Limit)
	if err != nil {
		return Failure(err)
	}
	return List(contacts).With("query", in.Query)
}

func (r *Registry) getContact(ctx context.Context, in GetContactInput) Result {
	contact, err := r.crm.GetContact(ctx, int64(in.ID))
	if err != nil {
		return Failure(err)
	}
	// nil marshals as null: not found is not an error
	return Success(contact)
}

func (r *Registry) findContactByEmail(ctx context.Context, in FindContactByEmailInput) Result {
	contact, err := r.crm.FindContactByEmail(ctx, in.Email)
	if err != nil {
		return Failure(err)
	}
	return Success(contact).With("query", in.Email)
}
