package screens

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okuznetsova/newsdesk/internal/api"
	"github.com/okuznetsova/newsdesk/internal/model"
	"github.com/okuznetsova/newsdesk/internal/snapshot"
)

func testClient(t *testing.T, handler http.Handler) *api.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return api.New(srv.URL, nil, api.WithRateLimit(0))
}

func testSnap(t *testing.T) *snapshot.Store {
	t.Helper()
	snap, err := snapshot.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { snap.Close() })
	return snap
}

func newsJSON(t *testing.T, items []model.NewsItem) []byte {
	t.Helper()
	data, err := json.Marshal(items)
	require.NoError(t, err)
	return data
}

func TestNewsFetchKeepsOnlyPublished(t *testing.T) {
	items := []model.NewsItem{
		{ID: "1", Title: "live", Status: model.StatusApproved},
		{ID: "2", Title: "waiting", Status: model.StatusPending},
		{ID: "3", Title: "deleted", Status: model.StatusApproved, DeleteDate: time.Now()},
		{ID: "4", Title: "also live", Status: model.StatusApproved},
	}
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/news", r.URL.Path)
		w.Write(newsJSON(t, items))
	}))

	s := NewNews(client, testSnap(t), 5)
	require.NoError(t, s.Refresh(context.Background()))

	all := s.All()
	require.Len(t, all, 2)
	assert.Equal(t, "1", all[0].ID)
	assert.Equal(t, "4", all[1].ID)
}

func TestNewsSnapshotRoundTrip(t *testing.T) {
	snap := testSnap(t)
	items := []model.NewsItem{{ID: "1", Title: "live", Status: model.StatusApproved}}
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(newsJSON(t, items))
	}))

	first := NewNews(client, snap, 5)
	require.NoError(t, first.Refresh(context.Background()))

	// A second screen over the same store starts from the saved snapshot.
	second := NewNews(client, snap, 5)
	cached, savedAt, ok := second.CachedItems()
	require.True(t, ok)
	assert.False(t, savedAt.IsZero())
	require.Len(t, cached, 1)

	second.ReplaceAll(cached)
	require.Len(t, second.All(), 1)
	assert.Equal(t, "1", second.All()[0].ID)
}

func TestCachedItemsWithoutSnapshot(t *testing.T) {
	client := testClient(t, http.NotFoundHandler())
	s := NewNews(client, testSnap(t), 5)
	_, _, ok := s.CachedItems()
	assert.False(t, ok)
}

func TestPendingModerateSendsActionAndSplices(t *testing.T) {
	items := []model.NewsItem{
		{ID: "1", Title: "a", PublisherNick: "alice"},
		{ID: "2", Title: "b", PublisherNick: "bob"},
	}
	var gotPath string
	var gotBody map[string]string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			gotPath = r.URL.Path
			json.NewDecoder(r.Body).Decode(&gotBody)
			w.WriteHeader(http.StatusOK)
			return
		}
		w.Write(newsJSON(t, items))
	}))

	s := NewPending(client, testSnap(t), 5)
	require.NoError(t, s.Refresh(context.Background()))
	apply, err := s.Moderate(context.Background(), "1", ActionApprove, "mod-7")
	require.NoError(t, err)

	// The splice only lands when the apply step runs on the event loop.
	require.Len(t, s.All(), 2)
	apply()

	assert.Equal(t, "/admin/moderate-news/1", gotPath)
	assert.Equal(t, map[string]string{"action": "approve", "moderator_id": "mod-7"}, gotBody)
	require.Len(t, s.All(), 1)
	assert.Equal(t, "2", s.All()[0].ID)
}

func TestPendingPrunesVanishedAuthorFilter(t *testing.T) {
	items := []model.NewsItem{
		{ID: "1", Title: "a", PublisherNick: "alice"},
		{ID: "2", Title: "b", PublisherNick: "bob"},
	}
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.Write(newsJSON(t, items))
	}))

	s := NewPending(client, testSnap(t), 5)
	require.NoError(t, s.Refresh(context.Background()))
	s.SetFilter(FilterAuthor, "alice")
	require.Len(t, s.Items(), 1)

	// Approving alice's only item removes her from the queue; the author
	// filter must clear instead of leaving an unexplained empty screen.
	apply, err := s.Moderate(context.Background(), "1", ActionApprove, "mod-7")
	require.NoError(t, err)
	apply()
	assert.Empty(t, s.Filters().Value(FilterAuthor))
	assert.Len(t, s.Items(), 1)
}

func TestPendingKeepsAuthorFilterWhileAuthorRemains(t *testing.T) {
	items := []model.NewsItem{
		{ID: "1", PublisherNick: "alice"},
		{ID: "2", PublisherNick: "alice"},
	}
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.Write(newsJSON(t, items))
	}))

	s := NewPending(client, testSnap(t), 5)
	require.NoError(t, s.Refresh(context.Background()))
	s.SetFilter(FilterAuthor, "alice")

	apply, err := s.Moderate(context.Background(), "1", ActionReject, "mod-7")
	require.NoError(t, err)
	apply()
	assert.Equal(t, "alice", s.Filters().Value(FilterAuthor))
}

func TestPendingDeleteAllIsNotImplemented(t *testing.T) {
	client := testClient(t, http.NotFoundHandler())
	s := NewPending(client, testSnap(t), 5)
	apply, err := s.DeleteAll(context.Background())
	assert.ErrorIs(t, err, api.ErrNotImplemented)
	assert.Nil(t, apply)
}

func TestUsersFetchUnwrapsDataField(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/users", r.URL.Path)
		w.Write([]byte(`{"data":[{"userID":"u1","nick":"ann","user_role":"Moderator"}]}`))
	}))

	s := NewUsers(client, 10)
	require.NoError(t, s.Refresh(context.Background()))
	require.Len(t, s.All(), 1)
	assert.Equal(t, "ann", s.All()[0].Nick)
}

func TestUsersDeleteSplicesOptimistically(t *testing.T) {
	var fetches int
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			assert.Equal(t, "/admin/users/u1", r.URL.Path)
			w.WriteHeader(http.StatusOK)
			return
		}
		fetches++
		w.Write([]byte(`{"data":[{"userID":"u1","nick":"ann"},{"userID":"u2","nick":"bob"}]}`))
	}))

	s := NewUsers(client, 10)
	require.NoError(t, s.Refresh(context.Background()))
	apply, err := s.Delete(context.Background(), "u1")
	require.NoError(t, err)
	apply()

	assert.Len(t, s.All(), 1)
	assert.Equal(t, 1, fetches, "delete must not refetch")
}

func TestUsersDeleteAlreadyGone(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"no such user"}`))
			return
		}
		w.Write([]byte(`{"data":[{"userID":"u1","nick":"ann"}]}`))
	}))

	s := NewUsers(client, 10)
	require.NoError(t, s.Refresh(context.Background()))

	// Someone else removed the account first; that still counts as done.
	apply, err := s.Delete(context.Background(), "u1")
	require.NoError(t, err)
	apply()
	assert.Empty(t, s.All())
}

func TestUsersUpdateRefetches(t *testing.T) {
	role := `"Moderator"`
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			var update UserUpdate
			json.NewDecoder(r.Body).Decode(&update)
			assert.Equal(t, model.RoleAdministrator, update.Role)
			role = `"Administrator"`
			w.WriteHeader(http.StatusOK)
			return
		}
		w.Write([]byte(`{"data":[{"userID":"u1","nick":"ann","user_role":` + role + `}]}`))
	}))

	s := NewUsers(client, 10)
	require.NoError(t, s.Refresh(context.Background()))
	apply, err := s.Update(context.Background(), "u1", UserUpdate{Role: model.RoleAdministrator})
	require.NoError(t, err)
	apply()

	// The edit can change filtered fields, so the list is refetched.
	require.Len(t, s.All(), 1)
	assert.Equal(t, model.RoleAdministrator, s.All()[0].Role)
}

func TestCategoriesDeleteUsesQueryParam(t *testing.T) {
	var gotQuery string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			gotQuery = r.URL.RawQuery
			w.WriteHeader(http.StatusOK)
			return
		}
		w.Write([]byte(`[{"categoryID":"c1","name":"sports"}]`))
	}))

	s := NewCategories(client, 10)
	require.NoError(t, s.Refresh(context.Background()))
	apply, err := s.Delete(context.Background(), "c1")
	require.NoError(t, err)
	apply()
	assert.Equal(t, "id=c1", gotQuery)
	assert.Empty(t, s.All())
}

func TestCategoriesCreateRefetches(t *testing.T) {
	var fetches int
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var input CategoryInput
			json.NewDecoder(r.Body).Decode(&input)
			assert.Equal(t, "culture", input.Name)
			w.WriteHeader(http.StatusCreated)
			return
		}
		fetches++
		w.Write([]byte(`[{"categoryID":"c1","name":"culture"}]`))
	}))

	s := NewCategories(client, 10)
	apply, err := s.Create(context.Background(), CategoryInput{Name: "culture"})
	require.NoError(t, err)
	apply()
	assert.Equal(t, 1, fetches)
	assert.Len(t, s.All(), 1)
}

func TestTrashPurgeAllEmptiesList(t *testing.T) {
	items := []model.NewsItem{{ID: "1"}, {ID: "2"}}
	var gotPath string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			gotPath = r.URL.Path
			w.WriteHeader(http.StatusOK)
			return
		}
		w.Write(newsJSON(t, items))
	}))

	s := NewTrash(client, testSnap(t), 5)
	require.NoError(t, s.Refresh(context.Background()))
	apply, err := s.PurgeAll(context.Background())
	require.NoError(t, err)
	apply()

	assert.Equal(t, "/admin/trash/purge", gotPath)
	assert.Empty(t, s.All())
	assert.Equal(t, 1, s.PageState().CurrentPage)
}

func TestArchiveDateFilterFallsBackToCreateDate(t *testing.T) {
	published := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	created := time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC)
	items := []model.NewsItem{
		{ID: "1", PublishDate: published},
		{ID: "2", CreateDate: created}, // never published
	}
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(newsJSON(t, items))
	}))

	s := NewArchive(client, testSnap(t), 5)
	require.NoError(t, s.Refresh(context.Background()))

	s.SetDateRange(FilterDate, time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC), time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC))
	require.Len(t, s.Items(), 1)
	assert.Equal(t, "2", s.Items()[0].ID)
}

func TestArchiveRestorePaths(t *testing.T) {
	items := []model.NewsItem{{ID: "1"}, {ID: "2"}}
	var paths []string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			paths = append(paths, r.URL.Path)
			w.WriteHeader(http.StatusOK)
			return
		}
		w.Write(newsJSON(t, items))
	}))

	s := NewArchive(client, testSnap(t), 5)
	require.NoError(t, s.Refresh(context.Background()))
	restore, err := s.Restore(context.Background(), "1")
	require.NoError(t, err)
	restore()
	restoreEdit, err := s.RestoreForEdit(context.Background(), "2")
	require.NoError(t, err)
	restoreEdit()

	assert.Equal(t, []string{
		"/admin/archived-news/1/restore",
		"/admin/archived-news/2/restore-edit",
	}, paths)
	assert.Empty(t, s.All())
}

func TestRefreshFailureKeepsScreenState(t *testing.T) {
	ok := true
	items := []model.NewsItem{{ID: "1", PublisherNick: "alice"}}
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write(newsJSON(t, items))
	}))

	s := NewPending(client, testSnap(t), 5)
	require.NoError(t, s.Refresh(context.Background()))
	s.SetFilter(FilterAuthor, "alice")

	ok = false
	err := s.Refresh(context.Background())
	require.True(t, api.IsKind(err, api.KindServerError))
	assert.Len(t, s.All(), 1)
	assert.Equal(t, "alice", s.Filters().Value(FilterAuthor))
}
