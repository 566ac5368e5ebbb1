// Package goal serves the caller's goals.
package goal

import (
	"bitwise74/goals-api/app/resource"
	"bitwise74/goals-api/internal/model"
	"bitwise74/goals-api/internal/store"
	"bitwise74/goals-api/pkg/validators"
)

var Resource = &resource.Spec[model.Goal, *model.Goal]{
	Name:   "Goal",
	Key:    "goal",
	Fields: validators.GoalFields,
	List:   validators.GoalList,
	New:    model.NewGoal,
	Store:  func(s store.Store) store.Owned[model.Goal] { return s.Goals() },
	Payload: func(g *model.Goal) any {
		return g
	},
}
