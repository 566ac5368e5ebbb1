// Package storetest holds the behaviour every store.Store driver must share.
// Driver packages call Run from their own tests with a fresh store.
package storetest

import (
	"context"
	"testing"
	"time"

	"bitwise74/goals-api/internal/model"
	"bitwise74/goals-api/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run executes the suite. newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("RefreshTokens", func(t *testing.T) { testRefreshTokens(t, newStore(t)) })
	t.Run("Ownership", func(t *testing.T) { testOwnership(t, newStore(t)) })
	t.Run("List", func(t *testing.T) { testList(t, newStore(t)) })
	t.Run("JSONFields", func(t *testing.T) { testJSONFields(t, newStore(t)) })
	t.Run("Purge", func(t *testing.T) { testPurge(t, newStore(t)) })
}

func newUser(t *testing.T, s store.Store, email string) *model.User {
	t.Helper()

	u := model.NewUser("Test", email, "hash", time.Now())
	require.NoError(t, s.Users().Create(context.Background(), u))
	require.NotEmpty(t, u.ID)

	return u
}

func testUsers(t *testing.T, s store.Store) {
	ctx := context.Background()

	u := newUser(t, s, "Ana@Example.com")
	assert.Equal(t, "ana@example.com", u.Email)

	got, err := s.Users().ByEmail(ctx, "ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, model.LangES, got.Lang)
	assert.Equal(t, 1, got.Status)

	err = s.Users().Create(ctx, model.NewUser("Other", "ana@EXAMPLE.com", "hash", time.Now()))
	var ce *store.ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "email", ce.Field)

	res, err := s.Users().Update(ctx, u.ID, model.Patch{"name": "Ana", "lang": model.LangEN})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Matched)

	got, err = s.Users().ByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)
	assert.Equal(t, model.LangEN, got.Lang)

	res, err = s.Users().Update(ctx, "missingmissing00", model.Patch{"name": "x"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, res.Matched)

	inactive := newUser(t, s, "gone@example.com")
	_, err = s.Users().Update(ctx, inactive.ID, model.Patch{"status": 0})
	require.NoError(t, err)

	active, err := s.Users().ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, u.ID, active[0].ID)

	n, err := s.Users().Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = s.Users().ByID(ctx, u.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testRefreshTokens(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := newUser(t, s, "rt@example.com")

	rt := &model.RefreshToken{Token: "token-1", User: model.SnapshotOf(u)}
	require.NoError(t, s.RefreshTokens().Create(ctx, rt))

	got, err := s.RefreshTokens().ByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.Equal(t, "token-1", got.Token)
	assert.Equal(t, u.ID, got.User.UserID)

	err = s.RefreshTokens().Create(ctx, &model.RefreshToken{Token: "token-2", User: model.SnapshotOf(u)})
	assert.True(t, store.IsConflict(err))

	_, err = s.RefreshTokens().Find(ctx, "token-1", "someone@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)

	got, err = s.RefreshTokens().Find(ctx, "token-1", u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.Name, got.User.Name)

	n, err := s.RefreshTokens().Delete(ctx, "token-1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = s.RefreshTokens().Delete(ctx, "token-1")
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func testOwnership(t *testing.T, s store.Store) {
	ctx := context.Background()
	alice := newUser(t, s, "alice@example.com")
	bob := newUser(t, s, "bob@example.com")

	g := model.NewGoal(time.Now())
	g.Title = "Run"
	g.Type = model.GoalSimple
	g.Icon = model.JSON(`["fas","run"]`)
	g.UserID = alice.ID

	require.NoError(t, s.Goals().Create(ctx, bob.ID, &g))
	assert.Equal(t, bob.ID, g.UserID, "owner is always the caller")
	assert.NotEmpty(t, g.ID)

	_, err := s.Goals().Get(ctx, g.ID, alice.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	res, err := s.Goals().Update(ctx, g.ID, alice.ID, model.Patch{"title": "stolen"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, res.Matched)

	n, err := s.Goals().Delete(ctx, g.ID, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	got, err := s.Goals().Get(ctx, g.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "Run", got.Title)

	res, err = s.Goals().Update(ctx, g.ID, bob.ID, model.Patch{"title": "Run more", "progress": model.ProgressDone})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Matched)

	res, err = s.Goals().Update(ctx, g.ID, bob.ID, model.Patch{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Matched)
	assert.EqualValues(t, 0, res.Modified)

	got, err = s.Goals().Get(ctx, g.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "Run more", got.Title)
	assert.Equal(t, model.ProgressDone, got.Progress)

	n, err = s.Goals().Delete(ctx, g.ID, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func testList(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := newUser(t, s, "list@example.com")
	other := newUser(t, s, "other@example.com")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, title := range []string{"c", "a", "b"} {
		date := base.AddDate(0, 0, i)
		g := model.NewGoal(base)
		g.Title = title
		g.Type = model.GoalSimple
		g.Icon = model.JSON(`[]`)
		g.Date = &date
		require.NoError(t, s.Goals().Create(ctx, u.ID, &g))
	}

	foreign := model.NewGoal(base)
	foreign.Title = "foreign"
	foreign.Type = model.GoalSteps
	foreign.Icon = model.JSON(`[]`)
	require.NoError(t, s.Goals().Create(ctx, other.ID, &foreign))

	titles := func(goals []model.Goal) []string {
		out := make([]string, 0, len(goals))
		for _, g := range goals {
			out = append(out, g.Title)
		}
		return out
	}

	list, err := s.Goals().List(ctx, u.ID, model.ListQuery{Sort: []model.SortField{{Key: "date"}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, titles(list))

	list, err = s.Goals().List(ctx, u.ID, model.ListQuery{Sort: []model.SortField{{Key: "title", Desc: true}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, titles(list))

	list, err = s.Goals().List(ctx, u.ID, model.ListQuery{
		Sort:    []model.SortField{{Key: "title"}},
		Page:    1,
		Results: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, titles(list))

	list, err = s.Goals().List(ctx, u.ID, model.ListQuery{Filter: map[string]any{"title": "a"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, titles(list))

	list, err = s.Goals().List(ctx, u.ID, model.ListQuery{Filter: map[string]any{"type": model.GoalSteps}})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)
}

func testJSONFields(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := newUser(t, s, "json@example.com")

	g := model.NewGraph()
	g.Title = "Metas completadas"
	g.Type = "Line"
	g.ByYear = true
	g.Labels = model.JSON(`["Ene","Feb"]`)
	g.Data = model.JSON(`{"2024":[0,1.5,2]}`)
	require.NoError(t, s.Graphs().Create(ctx, u.ID, &g))

	got, err := s.Graphs().Get(ctx, g.ID, u.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `["Ene","Feb"]`, string(got.Labels))
	assert.JSONEq(t, `{"2024":[0,1.5,2]}`, string(got.Data))
	assert.True(t, got.ByYear)

	_, err = s.Graphs().Update(ctx, g.ID, u.ID, model.Patch{"data": model.JSON(`[1,2,3]`)})
	require.NoError(t, err)

	got, err = s.Graphs().Get(ctx, g.ID, u.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `[1,2,3]`, string(got.Data))
}

func testPurge(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := newUser(t, s, "purge@example.com")

	for _, name := range []string{"completedOnTime", "completedYear"} {
		st := model.NewStatistic()
		st.Name = name
		st.Icon = model.JSON(`["fas","check"]`)
		require.NoError(t, s.Statistics().Create(ctx, u.ID, &st))
	}

	n, err := s.Statistics().Purge(ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	list, err := s.Statistics().List(ctx, u.ID, model.ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, list)
}
