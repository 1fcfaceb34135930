package screens

import (
	"context"
	"sort"
	"time"

	"github.com/okuznetsova/newsdesk/internal/api"
	"github.com/okuznetsova/newsdesk/internal/collection"
	"github.com/okuznetsova/newsdesk/internal/model"
)

// Users is the account-management screen, Administrator only.
// Filters: role, registration date range.
//
// No snapshotting here: account data is not worth keeping on disk for
// offline display.
type Users struct {
	*collection.Controller[model.User]
	client *api.Client
}

// usersResponse mirrors the admin users endpoint, which wraps the list
// in a data field unlike the news endpoints.
type usersResponse struct {
	Data []model.User `json:"data"`
}

// UserUpdate is the editable subset of an account.
type UserUpdate struct {
	Nick     string     `json:"nick,omitempty"`
	Role     model.Role `json:"user_role,omitempty"`
	Password string     `json:"password,omitempty"`
}

// NewUsers builds the users screen.
func NewUsers(client *api.Client, perPage int) *Users {
	filters := collection.NewFilterSet[model.User]().
		AddEquality(FilterRole, func(u model.User) string { return string(u.Role) }).
		AddDateRange(FilterDate, func(u model.User) time.Time { return u.RegistrationDate })

	ctrl := collection.New(collection.Config[model.User]{
		ID: func(u model.User) string { return u.ID },
		Fetch: func(ctx context.Context) ([]model.User, error) {
			var resp usersResponse
			if err := client.Get(ctx, "/admin/users", &resp); err != nil {
				return nil, err
			}
			return resp.Data, nil
		},
		Filters: filters,
		PerPage: perPage,
	})
	return &Users{Controller: ctrl, client: client}
}

// Delete removes one account with an optimistic local splice.
func (s *Users) Delete(ctx context.Context, id string) (func(), error) {
	return s.MutateRemove(ctx, id, func(ctx context.Context) error {
		return s.client.Delete(ctx, "/admin/users/"+id, nil)
	})
}

// Update edits one account, then refetches the list: an edit can change
// fields the filters read, so a full refresh is simpler than patching.
// The fresh list comes back in the apply step.
func (s *Users) Update(ctx context.Context, id string, update UserUpdate) (func(), error) {
	if err := s.client.Put(ctx, "/admin/users/"+id, update, nil); err != nil {
		return nil, err
	}
	items, err := s.FetchItems(ctx)
	if err != nil {
		return nil, err
	}
	return func() {
		s.ReplaceAll(items)
	}, nil
}

// UniqueRoles returns the distinct roles present, sorted, for the role
// filter choices.
func (s *Users) UniqueRoles() []model.Role {
	seen := make(map[model.Role]bool)
	var roles []model.Role
	for _, u := range s.All() {
		if u.Role != "" && !seen[u.Role] {
			seen[u.Role] = true
			roles = append(roles, u.Role)
		}
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}
