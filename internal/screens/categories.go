package screens

import (
	"context"
	"time"

	"github.com/okuznetsova/newsdesk/internal/api"
	"github.com/okuznetsova/newsdesk/internal/collection"
	"github.com/okuznetsova/newsdesk/internal/model"
)

// Categories is the category-management screen.
// Filters: free-text search over name and description, creation date range.
type Categories struct {
	*collection.Controller[model.Category]
	client *api.Client
}

// CategoryInput is the payload for creating or editing a category.
type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// NewCategories builds the categories screen.
func NewCategories(client *api.Client, perPage int) *Categories {
	filters := collection.NewFilterSet[model.Category]().
		AddSubstring(FilterSearch, func(c model.Category) []string {
			return []string{c.Name, c.Description}
		}).
		AddDateRange(FilterDate, func(c model.Category) time.Time { return c.CreatedAt })

	ctrl := collection.New(collection.Config[model.Category]{
		ID: func(c model.Category) string { return c.ID },
		Fetch: func(ctx context.Context) ([]model.Category, error) {
			var items []model.Category
			if err := client.Get(ctx, "/categories", &items); err != nil {
				return nil, err
			}
			return items, nil
		},
		Filters: filters,
		PerPage: perPage,
	})
	return &Categories{Controller: ctrl, client: client}
}

// Create adds a category, then refetches for the server-assigned id.
// The fresh list comes back in the apply step.
func (s *Categories) Create(ctx context.Context, input CategoryInput) (func(), error) {
	if err := s.client.Post(ctx, "/categories", input, nil); err != nil {
		return nil, err
	}
	return s.refetch(ctx)
}

// Update edits a category, then refetches.
func (s *Categories) Update(ctx context.Context, id string, input CategoryInput) (func(), error) {
	if err := s.client.Put(ctx, "/categories/"+id, input, nil); err != nil {
		return nil, err
	}
	return s.refetch(ctx)
}

// Delete removes one category with an optimistic local splice.
// The delete endpoint takes the id as a query parameter, unlike the rest
// of the API.
func (s *Categories) Delete(ctx context.Context, id string) (func(), error) {
	return s.MutateRemove(ctx, id, func(ctx context.Context) error {
		return s.client.Delete(ctx, "/categories?id="+id, nil)
	})
}

func (s *Categories) refetch(ctx context.Context) (func(), error) {
	items, err := s.FetchItems(ctx)
	if err != nil {
		return nil, err
	}
	return func() {
		s.ReplaceAll(items)
	}, nil
}
