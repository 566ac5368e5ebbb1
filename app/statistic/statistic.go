// Package statistic serves the caller's dashboard counters.
package statistic

import (
	"time"

	"bitwise74/goals-api/app/resource"
	"bitwise74/goals-api/internal/model"
	"bitwise74/goals-api/internal/store"
	"bitwise74/goals-api/pkg/validators"
)

var Resource = &resource.Spec[model.Statistic, *model.Statistic]{
	Name:   "Statistic",
	Key:    "statistic",
	Fields: validators.StatisticFields,
	List:   validators.StatisticList,
	New:    func(time.Time) model.Statistic { return model.NewStatistic() },
	Store:  func(s store.Store) store.Owned[model.Statistic] { return s.Statistics() },
	Payload: func(st *model.Statistic) any {
		return model.StatisticToAPI(st)
	},
}
