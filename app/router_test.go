package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"bitwise74/goals-api/internal"
	"bitwise74/goals-api/internal/model"
	"bitwise74/goals-api/internal/store"
	"bitwise74/goals-api/internal/store/gormstore"
	"bitwise74/goals-api/pkg/security"
	"bitwise74/goals-api/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testAPI struct {
	t *testing.T
	r *gin.Engine
	d *internal.Deps
}

func newTestAPI(t *testing.T, opts Options) *testAPI {
	t.Helper()

	s, err := gormstore.Open("sqlite", "file:"+util.RandStr(12)+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	d := &internal.Deps{
		Store:       s,
		Argon:       &security.ArgonHash{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32},
		Tokens:      security.NewTokenService("test-secret"),
		AdminEmails: []string{"admin@example.com"},
	}

	return &testAPI{t: t, r: NewRouter(ctx, d, opts), d: d}
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(a.t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	return w
}

// signUp registers a user and returns its access token and id.
func (a *testAPI) signUp(name, email string) (string, string) {
	a.t.Helper()

	w := a.do(http.MethodPost, "/signup", "", gin.H{"name": name, "email": email, "password": "password123"})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	token := decode[map[string]string](a.t, w)["token"]

	id, err := a.d.Tokens.DecodeToken(token)
	require.NoError(a.t, err)

	return token, id.UserID
}

func (a *testAPI) addGoal(token string, body gin.H) string {
	a.t.Helper()

	w := a.do(http.MethodPost, "/goals", token, body)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	res := decode[struct {
		Goal model.Goal `json:"goal"`
	}](a.t, w)

	return res.Goal.ID
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func listPath(base string, params map[string]string) string {
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}

	return base + "?" + q.Encode()
}

func TestLivenessAndNotFound(t *testing.T) {
	a := newTestAPI(t, Options{})

	w := a.do(http.MethodGet, "/test", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Goals RESTful api"}`, w.Body.String())

	w = a.do(http.MethodGet, "/does-not-exist", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, w.Body.String())
}

type unreachableStore struct {
	store.Store
}

func (unreachableStore) Ping(context.Context) error {
	return errors.New("connection refused")
}

func TestReady(t *testing.T) {
	a := newTestAPI(t, Options{})

	w := a.do(http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Ready"}`, w.Body.String())

	a.d.Store = unreachableStore{a.d.Store}

	w = a.do(http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSignUp(t *testing.T) {
	a := newTestAPI(t, Options{})
	ctx := context.Background()

	token, userID := a.signUp("Ana", "Ana@Example.com")

	id, err := a.d.Tokens.DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, model.Identity{UserID: userID, Name: "Ana", Email: "ana@example.com"}, id)

	u, err := a.d.Store.Users().ByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", u.Password)

	ok, err := a.d.Argon.Compare("password123", u.Password)
	require.NoError(t, err)
	assert.True(t, ok)

	w := a.do(http.MethodPost, "/signup", "", gin.H{"name": "Other", "email": "ANA@example.com", "password": "password123"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Email duplicated")

	users, err := a.d.Store.Users().ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestSignUpSeedsDashboard(t *testing.T) {
	a := newTestAPI(t, Options{})
	token, _ := a.signUp("Ana", "ana@example.com")

	w := a.do(http.MethodGet, "/graphs-stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	res := decode[struct {
		Graphs []map[string]any `json:"graphs"`
		Stats  []map[string]any `json:"stats"`
	}](t, w)

	require.Len(t, res.Graphs, 3)
	require.Len(t, res.Stats, 2)

	assert.Equal(t, "Metas completadas", res.Graphs[0]["title"])
	assert.Equal(t, "Metas en proceso", res.Graphs[1]["title"])
	assert.Equal(t, "Metas por tipo", res.Graphs[2]["title"])
	assert.Equal(t, "completedOnTime", res.Stats[0]["name"])
	assert.Equal(t, "completedYear", res.Stats[1]["name"])

	w = a.do(http.MethodGet, "/graphs", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Metas completadas", decode[[]model.GraphPayload](t, w)[0].Title)

	for _, g := range res.Graphs {
		assert.NotContains(t, g, "userId")
	}

	for _, s := range res.Stats {
		assert.NotContains(t, s, "userId")
		assert.Equal(t, "0", s["total"])
	}
}

func TestSignUpValidation(t *testing.T) {
	a := newTestAPI(t, Options{})

	tests := map[string]string{
		"malformed":  `{"name":`,
		"no name":    `{"email":"ana@example.com","password":"password123"}`,
		"bad email":  `{"name":"Ana","email":"Ana <ana@example.com>","password":"password123"}`,
		"short pass": `{"name":"Ana","email":"ana@example.com","password":"short"}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			w := a.do(http.MethodPost, "/signup", "", body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestSignUpAdminComesFromConfig(t *testing.T) {
	a := newTestAPI(t, Options{})

	w := a.do(http.MethodPost, "/signup", "", gin.H{"name": "Eve", "email": "eve@example.com", "password": "password123", "admin": 1})
	require.Equal(t, http.StatusCreated, w.Code)

	id, err := a.d.Tokens.DecodeToken(decode[map[string]string](t, w)["token"])
	require.NoError(t, err)
	assert.False(t, id.Admin)

	token, _ := a.signUp("Root", "ADMIN@example.com")
	id, err = a.d.Tokens.DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, id.Admin)
}

func TestSignupToken(t *testing.T) {
	a := newTestAPI(t, Options{SignupToken: "let-me-in"})
	body := gin.H{"name": "Ana", "email": "ana@example.com", "password": "password123"}

	w := a.do(http.MethodPost, "/signup", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodPost, "/signup", "let-me-in", body)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestSignIn(t *testing.T) {
	a := newTestAPI(t, Options{})
	_, userID := a.signUp("Ana", "ana@example.com")

	w := a.do(http.MethodPost, "/signin", "", gin.H{"email": "ana@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing params")

	w = a.do(http.MethodPost, "/signin", "", gin.H{"email": "ana@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodPost, "/signin", "", gin.H{"email": "nobody@example.com", "password": "password123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodPost, "/signin", "", gin.H{"email": "ana@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code)

	first := decode[map[string]string](t, w)
	assert.Equal(t, "Authenticated", first["message"])
	assert.NotEmpty(t, first["refreshToken"])

	id, err := a.d.Tokens.DecodeToken(first["token"])
	require.NoError(t, err)
	assert.Equal(t, userID, id.UserID)

	w = a.do(http.MethodPost, "/signin", "", gin.H{"email": "ana@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, first["refreshToken"], decode[map[string]string](t, w)["refreshToken"])
}

func TestRefreshToken(t *testing.T) {
	a := newTestAPI(t, Options{})
	_, userID := a.signUp("Ana", "ana@example.com")

	w := a.do(http.MethodPost, "/signin", "", gin.H{"email": "ana@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	refresh := decode[map[string]string](t, w)["refreshToken"]

	w = a.do(http.MethodPost, "/users/refresh-token", "", gin.H{"refreshToken": refresh})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPost, "/users/refresh-token", "", gin.H{"refreshToken": refresh, "email": "bob@example.com"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodPost, "/users/refresh-token", "", gin.H{"refreshToken": "nope", "email": "ana@example.com"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// The snapshot is used, renaming the user does not change new tokens.
	_, err := a.d.Store.Users().Update(context.Background(), userID, model.Patch{"name": "Renamed"})
	require.NoError(t, err)

	w = a.do(http.MethodPost, "/users/refresh-token", "", gin.H{"refreshToken": refresh, "email": "ana@example.com"})
	require.Equal(t, http.StatusOK, w.Code)

	res := decode[map[string]string](t, w)
	assert.Equal(t, res["token"], res["message"])

	id, err := a.d.Tokens.DecodeToken(res["token"])
	require.NoError(t, err)
	assert.Equal(t, model.Identity{UserID: userID, Name: "Ana", Email: "ana@example.com"}, id)
}

func TestDeleteRefreshToken(t *testing.T) {
	a := newTestAPI(t, Options{})
	userToken, _ := a.signUp("Ana", "ana@example.com")
	adminToken, _ := a.signUp("Root", "admin@example.com")

	w := a.do(http.MethodPost, "/signin", "", gin.H{"email": "ana@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	refresh := decode[map[string]string](t, w)["refreshToken"]

	w = a.do(http.MethodDelete, "/users/refresh-token/"+refresh, userToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodDelete, "/users/refresh-token/"+refresh, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Delete completed","deletedRows":1}`, w.Body.String())

	w = a.do(http.MethodPost, "/users/refresh-token", "", gin.H{"refreshToken": refresh, "email": "ana@example.com"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthGate(t *testing.T) {
	a := newTestAPI(t, Options{})

	w := a.do(http.MethodGet, "/goals", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Unauthorized")

	expired, err := security.NewTokenService("test-secret", security.WithClock(func() time.Time {
		return time.Now().Add(-time.Hour)
	})).CreateToken(model.Identity{UserID: "abcdEFGH12345678"})
	require.NoError(t, err)

	w = a.do(http.MethodGet, "/goals", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token expired")

	w = a.do(http.MethodGet, "/goals", "not-a-jwt", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid token")
}

func TestGoalCRUD(t *testing.T) {
	a := newTestAPI(t, Options{})
	token, userID := a.signUp("Ana", "ana@example.com")

	id := a.addGoal(token, gin.H{
		"title":  "Run",
		"icon":   []string{"fas", "person-running"},
		"type":   "objective",
		"userId": "someoneElse00000",
		"id":     "chosenByClient00",
	})
	assert.NotEqual(t, "chosenByClient00", id)

	w := a.do(http.MethodGet, "/goals/"+id, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	g := decode[model.Goal](t, w)
	assert.Equal(t, userID, g.UserID)
	assert.Equal(t, model.ProgressDoing, g.Progress)
	assert.Equal(t, 1, g.Status)

	w = a.do(http.MethodPut, "/goals/"+id, token, gin.H{"progress": "done", "userId": "someoneElse00000"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Update completed","updatedRows":1}`, w.Body.String())

	w = a.do(http.MethodGet, "/goals/"+id, token, nil)
	g = decode[model.Goal](t, w)
	assert.Equal(t, model.ProgressDone, g.Progress)
	assert.Equal(t, userID, g.UserID)

	w = a.do(http.MethodPut, "/goals/"+id, token, gin.H{"type": "weird"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"type"`)

	w = a.do(http.MethodPost, "/goals", token, gin.H{"icon": []string{"x"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodGet, "/goals/not-an-id", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid ID format")

	w = a.do(http.MethodDelete, "/goals/"+id, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Delete completed","deletedRows":1}`, w.Body.String())

	w = a.do(http.MethodGet, "/goals", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGoalOwnership(t *testing.T) {
	a := newTestAPI(t, Options{})
	ana, _ := a.signUp("Ana", "ana@example.com")
	bob, _ := a.signUp("Bob", "bob@example.com")

	id := a.addGoal(bob, gin.H{"title": "Bob's", "icon": []string{"fas", "lock"}, "type": "simple"})

	w := a.do(http.MethodGet, "/goals/"+id, ana, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(http.MethodPut, "/goals/"+id, ana, gin.H{"title": "Mine now"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Not found or unauthorized")

	w = a.do(http.MethodDelete, "/goals/"+id, ana, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(http.MethodGet, "/goals", ana, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(http.MethodGet, "/goals/"+id, bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Bob's", decode[model.Goal](t, w).Title)
}

func TestGraphAndStatisticOwnership(t *testing.T) {
	a := newTestAPI(t, Options{})
	ana, _ := a.signUp("Ana", "ana@example.com")
	bob, _ := a.signUp("Bob", "bob@example.com")

	w := a.do(http.MethodPost, "/graphs", bob, gin.H{"title": "Bob's", "type": "Pie", "labels": []string{"a"}, "data": []int{1}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	graphID := decode[struct {
		Graph model.GraphPayload `json:"graph"`
	}](t, w).Graph.ID

	w = a.do(http.MethodPost, "/statistics", bob, gin.H{"name": "bobs", "total": 3, "icon": []string{"fas", "lock"}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	statID := decode[struct {
		Statistic model.StatisticPayload `json:"statistic"`
	}](t, w).Statistic.ID

	for _, path := range []string{"/graphs/" + graphID, "/statistics/" + statID} {
		w = a.do(http.MethodGet, path, ana, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)

		w = a.do(http.MethodPut, path, ana, gin.H{"title": "Mine now", "name": "mine"})
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Contains(t, w.Body.String(), "Not found or unauthorized")

		w = a.do(http.MethodDelete, path, ana, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)

		w = a.do(http.MethodGet, path, bob, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w = a.do(http.MethodGet, "/graphs/"+graphID, bob, nil)
	assert.Equal(t, "Bob's", decode[model.GraphPayload](t, w).Title)

	w = a.do(http.MethodGet, "/statistics/"+statID, bob, nil)
	assert.Equal(t, "bobs", decode[model.StatisticPayload](t, w).Name)
}

func TestGoalListing(t *testing.T) {
	a := newTestAPI(t, Options{})
	token, _ := a.signUp("Ana", "ana@example.com")

	for _, g := range []struct{ title, date string }{
		{"c", "2026-03-01"},
		{"a", "2026-01-01"},
		{"b", "2026-02-01"},
	} {
		a.addGoal(token, gin.H{"title": g.title, "date": g.date, "icon": []string{"fas", "star"}, "type": "simple"})
	}

	titles := func(params map[string]string) []string {
		t.Helper()

		w := a.do(http.MethodGet, listPath("/goals", params), token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var out []string
		for _, g := range decode[[]model.Goal](t, w) {
			out = append(out, g.Title)
		}
		return out
	}

	assert.Equal(t, []string{"a", "b", "c"}, titles(nil))
	assert.Equal(t, []string{"a", "b", "c"}, titles(map[string]string{"sort": `{"__proto__":1}`}))
	assert.Equal(t, []string{"a", "b", "c"}, titles(map[string]string{"sort": `{"password":-1}`}))
	assert.Equal(t, []string{"c", "b", "a"}, titles(map[string]string{"sort": `{"title":-1}`}))
	assert.Equal(t, []string{"b"}, titles(map[string]string{"page": "1", "results": "1"}))
	assert.Equal(t, []string{"a"}, titles(map[string]string{"query": `{"title":"a"}`}))
	assert.Equal(t, []string{"a", "b", "c"}, titles(map[string]string{"query": `{"status":{"$ne":1}}`}))

	w := a.do(http.MethodGet, listPath("/goals", map[string]string{"sort": "{nope"}), token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodGet, listPath("/goals", map[string]string{"query": `{"title":"zzz"}`}), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatisticPayload(t *testing.T) {
	a := newTestAPI(t, Options{})
	token, _ := a.signUp("Ana", "ana@example.com")

	w := a.do(http.MethodPost, "/statistics", token, gin.H{"name": "streak", "total": 7.5, "icon": []string{"fas", "fire"}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	res := decode[struct {
		Message   string                 `json:"message"`
		Statistic model.StatisticPayload `json:"statistic"`
	}](t, w)

	assert.Equal(t, "Statistic added", res.Message)
	assert.Equal(t, "7.5", res.Statistic.Total)
	assert.Equal(t, "", res.Statistic.Sign)
	assert.Equal(t, "#000000", res.Statistic.Color)
	assert.NotContains(t, w.Body.String(), "userId")

	w = a.do(http.MethodGet, listPath("/statistics", map[string]string{"sort": `{"total":-1}`}), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "streak", decode[[]model.StatisticPayload](t, w)[0].Name)
}

func TestGraphAcceptsEncodedJSON(t *testing.T) {
	a := newTestAPI(t, Options{})
	token, _ := a.signUp("Ana", "ana@example.com")

	w := a.do(http.MethodPost, "/graphs", token, gin.H{
		"title":  "Custom",
		"type":   "Pie",
		"labels": `["x","y"]`,
		"data":   `{"2026":[1,2]}`,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	res := decode[struct {
		Graph model.GraphPayload `json:"graph"`
	}](t, w)

	assert.JSONEq(t, `["x","y"]`, string(res.Graph.Labels))
	assert.JSONEq(t, `{"2026":[1,2]}`, string(res.Graph.Data))

	w = a.do(http.MethodPost, "/graphs", token, gin.H{"title": "Bad", "type": "Pie", "labels": "not json", "data": []int{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUsers(t *testing.T) {
	a := newTestAPI(t, Options{})
	ana, anaID := a.signUp("Ana", "ana@example.com")
	_, bobID := a.signUp("Bob", "bob@example.com")
	admin, _ := a.signUp("Root", "admin@example.com")

	w := a.do(http.MethodGet, "/users", ana, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodGet, "/users", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 3)
	assert.NotContains(t, w.Body.String(), "password")

	w = a.do(http.MethodGet, "/users/"+bobID, ana, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(http.MethodGet, "/users/"+anaID, ana, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ana@example.com", decode[map[string]any](t, w)["email"])

	w = a.do(http.MethodPut, "/users/"+anaID, ana, gin.H{"name": "Ana Maria", "admin": 1, "password": "hijack"})
	require.Equal(t, http.StatusOK, w.Code)

	u, err := a.d.Store.Users().ByID(context.Background(), anaID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", u.Name)
	assert.False(t, u.IsAdmin())
	assert.NotEqual(t, "hijack", u.Password)

	w = a.do(http.MethodPut, "/users/"+anaID, ana, gin.H{"email": "BOB@example.com"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.do(http.MethodPut, "/users/"+bobID, admin, gin.H{"status": 0})
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodGet, "/users", admin, nil)
	assert.Len(t, decode[[]map[string]any](t, w), 2)
}

func TestChangePassword(t *testing.T) {
	a := newTestAPI(t, Options{})
	ana, anaID := a.signUp("Ana", "ana@example.com")
	_, bobID := a.signUp("Bob", "bob@example.com")

	path := "/users/" + anaID + "/change-password"

	w := a.do(http.MethodPatch, path, ana, gin.H{"password": "password123", "email": "ana@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing params")

	w = a.do(http.MethodPatch, path, ana, gin.H{"password": "wrong-password", "email": "ana@example.com", "newPassword": "brand-new-pass"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPatch, path, ana, gin.H{"password": "password123", "email": "bob@example.com", "newPassword": "brand-new-pass"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPatch, "/users/"+bobID+"/change-password", ana, gin.H{"password": "password123", "email": "bob@example.com", "newPassword": "brand-new-pass"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(http.MethodPatch, path, ana, gin.H{"password": "password123", "email": "ana@example.com", "newPassword": "brand-new-pass"})
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodPost, "/signin", "", gin.H{"email": "ana@example.com", "password": "password123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodPost, "/signin", "", gin.H{"email": "ana@example.com", "password": "brand-new-pass"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteUserPurgesDocuments(t *testing.T) {
	a := newTestAPI(t, Options{})
	ana, anaID := a.signUp("Ana", "ana@example.com")
	a.addGoal(ana, gin.H{"title": "Run", "icon": []string{"fas", "run"}, "type": "simple"})

	w := a.do(http.MethodDelete, "/users/"+anaID, ana, nil)
	require.Equal(t, http.StatusOK, w.Code)

	ctx := context.Background()

	goals, err := a.d.Store.Goals().List(ctx, anaID, model.ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, goals)

	graphs, err := a.d.Store.Graphs().List(ctx, anaID, model.ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, graphs)

	w = a.do(http.MethodPost, "/signin", "", gin.H{"email": "ana@example.com", "password": "password123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// brokenPurgeStore fails every goal purge.
type brokenPurgeStore struct {
	store.Store
}

type brokenPurgeGoals struct {
	store.Owned[model.Goal]
}

func (s brokenPurgeStore) Goals() store.Owned[model.Goal] {
	return brokenPurgeGoals{s.Store.Goals()}
}

func (brokenPurgeGoals) Purge(context.Context, string) (int64, error) {
	return 0, errors.New("purge failed")
}

func TestDeleteUserRevokesRefreshTokenWhenPurgeFails(t *testing.T) {
	a := newTestAPI(t, Options{})
	ana, anaID := a.signUp("Ana", "ana@example.com")

	w := a.do(http.MethodPost, "/signin", "", gin.H{"email": "ana@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	refresh := decode[map[string]string](t, w)["refreshToken"]

	a.d.Store = brokenPurgeStore{a.d.Store}

	w = a.do(http.MethodDelete, "/users/"+anaID, ana, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = a.do(http.MethodPost, "/users/refresh-token", "", gin.H{"refreshToken": refresh, "email": "ana@example.com"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Collections that did not fail are still purged.
	graphs, err := a.d.Store.Graphs().List(context.Background(), anaID, model.ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, graphs)
}

func TestMetricsEndpoint(t *testing.T) {
	a := newTestAPI(t, Options{Metrics: true})

	a.do(http.MethodGet, "/test", "", nil)

	w := a.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `goals_http_requests_total{method="GET",route="/test",status="200"} 1`)
}

func TestBodyLimit(t *testing.T) {
	a := newTestAPI(t, Options{BodyLimit: 64})

	w := a.do(http.MethodPost, "/signup", "", gin.H{"name": string(bytes.Repeat([]byte("a"), 128)), "email": "a@example.com", "password": "password123"})
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
