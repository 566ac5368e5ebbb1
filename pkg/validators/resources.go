package validators

import (
	"errors"

	"bitwise74/goals-api/internal/model"
)

var GoalFields = []Field{
	{Name: "title", Kind: String, Required: true, Check: notBlank},
	{Name: "icon", Kind: JSONArray, Required: true, Lenient: true},
	{Name: "date", Kind: Time, Nullable: true},
	{Name: "objectiveDone", Kind: Number, Nullable: true},
	{Name: "objectiveTotal", Kind: Number, Nullable: true},
	{Name: "type", Kind: String, Required: true, OneOf: []string{model.GoalObjective, model.GoalSimple, model.GoalSteps}},
	{Name: "status", Kind: Int},
	{Name: "progress", Kind: String, OneOf: []string{model.ProgressDoing, model.ProgressDone}},
	{Name: "stepsList", Kind: JSONArray, Lenient: true},
	{Name: "dateCompleted", Kind: Time, Nullable: true},
	{Name: "dateCreated", Kind: Time},
}

var GoalList = ListSpec{
	Filter: []string{"status", "type", "title", "date", "progress"},
	Sort:   []string{"date", "dateCreated", "title", "status", "progress"},
	DefaultSort: []model.SortField{
		{Key: "date"},
		{Key: "dateCreated"},
	},
}

var GraphFields = []Field{
	{Name: "title", Kind: String, Required: true, Check: notBlank},
	{Name: "type", Kind: String, Required: true, Check: notBlank},
	{Name: "byYear", Kind: Bool},
	{Name: "labels", Kind: JSONArray, Required: true, Lenient: true},
	{Name: "data", Kind: JSONValue, Required: true, Lenient: true},
}

var GraphList = ListSpec{
	Filter:      []string{"title", "type", "byYear"},
	Sort:        []string{"title", "type"},
	DefaultSort: []model.SortField{{Key: "title"}},
}

var StatisticFields = []Field{
	{Name: "name", Kind: String, Required: true, Check: notBlank},
	{Name: "total", Kind: Number, Required: true},
	{Name: "sign", Kind: String, Nullable: true},
	{Name: "icon", Kind: JSONArray, Required: true, Lenient: true},
	{Name: "color", Kind: String, Nullable: true},
	{Name: "description", Kind: String, Nullable: true},
}

var StatisticList = ListSpec{
	Filter:      []string{"name", "sign", "color"},
	Sort:        []string{"name", "total"},
	DefaultSort: []model.SortField{{Key: "name"}},
}

// UserFields are the profile fields a user may change. Passwords go through
// their own endpoint and admin/status are only honoured for admins.
var UserFields = []Field{
	{Name: "name", Kind: String, Check: notBlank},
	{Name: "email", Kind: String, Check: checkEmail},
	{Name: "avatar", Kind: String, Nullable: true},
	{Name: "facebook", Kind: String, Nullable: true},
	{Name: "github", Kind: String, Nullable: true},
	{Name: "google", Kind: String, Nullable: true},
	{Name: "lang", Kind: String, OneOf: []string{model.LangES, model.LangEN}},
	{Name: "status", Kind: Int, OneOf: []string{"0", "1"}},
	{Name: "admin", Kind: Int, OneOf: []string{"0", "1"}},
}

// PrivilegedUserFields may only be written by admins.
var PrivilegedUserFields = []string{"status", "admin"}

func notBlank(v any) (any, error) {
	if s, ok := v.(string); ok && s == "" {
		return nil, errors.New("can't be empty")
	}

	return v, nil
}

func checkEmail(v any) (any, error) {
	e := NormalizeEmail(v.(string))
	if err := EmailValidator(e); err != nil {
		return nil, err
	}

	return e, nil
}
