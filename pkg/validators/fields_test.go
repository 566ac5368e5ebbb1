package validators

import (
	"testing"
	"time"

	"bitwise74/goals-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeGoal(t *testing.T) {
	p, err := Decode([]byte(`{
		"title": "Read",
		"icon": ["fas", "book"],
		"type": "steps",
		"date": "2024-03-01",
		"objectiveDone": null,
		"status": 2,
		"userId": "someoneElse00000",
		"id": "forged"
	}`), GoalFields, false)
	require.NoError(t, err)

	assert.Equal(t, "Read", p["title"])
	assert.JSONEq(t, `["fas","book"]`, string(p["icon"].(model.JSON)))
	assert.Equal(t, "steps", p["type"])
	assert.Equal(t, 2, p["status"])
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *p["date"].(*time.Time))
	assert.Nil(t, p["objectiveDone"].(*float64))
	assert.NotContains(t, p, "userId")
	assert.NotContains(t, p, "id")

	g := model.NewGoal(time.Now())
	g.Apply(p)
	assert.Equal(t, "Read", g.Title)
	assert.Equal(t, model.ProgressDoing, g.Progress)
}

func TestDecodeRequired(t *testing.T) {
	_, err := Decode([]byte(`{"title": ""}`), GoalFields, false)

	var inv *Invalid
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, map[string]string{
		"title": "can't be empty",
		"icon":  "is required",
		"type":  "is required",
	}, inv.Fields)

	p, err := Decode([]byte(`{"progress": "done"}`), GoalFields, true)
	require.NoError(t, err)
	assert.Equal(t, model.Patch{"progress": "done"}, p)
}

func TestDecodeRejects(t *testing.T) {
	tests := map[string]struct {
		body  string
		field string
	}{
		"enum":           {`{"type": "weekly"}`, "type"},
		"not a string":   {`{"title": 5}`, "title"},
		"fraction int":   {`{"status": 1.5}`, "status"},
		"null required":  {`{"icon": null}`, "icon"},
		"icon object":    {`{"icon": {"a": 1}}`, "icon"},
		"bad date":       {`{"date": "yesterday"}`, "date"},
		"operator value": {`{"title": {"$ne": ""}}`, "title"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(tt.body), GoalFields, true)

			var inv *Invalid
			require.ErrorAs(t, err, &inv)
			assert.Contains(t, inv.Fields, tt.field)
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, body := range []string{``, `[]`, `null`, `{"title":`} {
		_, err := Decode([]byte(body), GoalFields, true)
		assert.ErrorIs(t, err, ErrMalformedBody, body)
	}
}

func TestDecodeLenientJSON(t *testing.T) {
	p, err := Decode([]byte(`{
		"title": "Metas",
		"type": "Line",
		"labels": "[\"Ene\",\"Feb\"]",
		"data": "{\"2024\": [0, 0]}"
	}`), GraphFields, false)
	require.NoError(t, err)

	assert.JSONEq(t, `["Ene","Feb"]`, string(p["labels"].(model.JSON)))
	assert.JSONEq(t, `{"2024":[0,0]}`, string(p["data"].(model.JSON)))

	_, err = Decode([]byte(`{"data": "{not json"}`), GraphFields, true)
	var inv *Invalid
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, "must be valid JSON", inv.Fields["data"])
}

func TestDecodeUser(t *testing.T) {
	p, err := Decode([]byte(`{"email": " Ana@Example.COM ", "password": "x", "lang": "en", "avatar": null}`), UserFields, true)
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", p["email"])
	assert.Equal(t, "en", p["lang"])
	assert.Nil(t, p["avatar"].(*string))
	assert.NotContains(t, p, "password")

	_, err = Decode([]byte(`{"admin": 2}`), UserFields, true)
	assert.Error(t, err)

	_, err = Decode([]byte(`{"email": "nope"}`), UserFields, true)
	assert.Error(t, err)
}

func TestEmailValidator(t *testing.T) {
	assert.ErrorIs(t, EmailValidator(""), ErrEmailEmpty)
	assert.ErrorIs(t, EmailValidator("no-at-sign"), ErrEmailInvalid)
	assert.ErrorIs(t, EmailValidator("Ana <ana@example.com>"), ErrEmailInvalid)
	assert.NoError(t, EmailValidator("ana@example.com"))
}

func TestPasswordValidator(t *testing.T) {
	assert.ErrorIs(t, PasswordValidator(""), ErrPasswordEmpty)
	assert.ErrorIs(t, PasswordValidator("short"), ErrPasswordTooShort)
	assert.ErrorIs(t, PasswordValidator(string(make([]byte, 256))), ErrPasswordTooLong)
	assert.NoError(t, PasswordValidator("long enough"))
}
