// Package graph serves the caller's dashboard graphs.
package graph

import (
	"time"

	"bitwise74/goals-api/app/resource"
	"bitwise74/goals-api/internal/model"
	"bitwise74/goals-api/internal/store"
	"bitwise74/goals-api/pkg/validators"
)

var Resource = &resource.Spec[model.Graph, *model.Graph]{
	Name:   "Graph",
	Key:    "graph",
	Fields: validators.GraphFields,
	List:   validators.GraphList,
	New:    func(time.Time) model.Graph { return model.NewGraph() },
	Store:  func(s store.Store) store.Owned[model.Graph] { return s.Graphs() },
	Payload: func(g *model.Graph) any {
		return model.GraphToAPI(g)
	},
}
