package model

import "time"

const (
	GoalObjective = "objective"
	GoalSimple    = "simple"
	GoalSteps     = "steps"

	ProgressDoing = "doing"
	ProgressDone  = "done"
)

type Goal struct {
	Owner          `gorm:"embedded" bson:",inline"`
	Title          string     `gorm:"not null" bson:"title" json:"title"`
	Icon           JSON       `gorm:"not null" bson:"icon" json:"icon"`
	Date           *time.Time `bson:"date" json:"date"`
	ObjectiveDone  *float64   `bson:"objectiveDone" json:"objectiveDone"`
	ObjectiveTotal *float64   `bson:"objectiveTotal" json:"objectiveTotal"`
	Type           string     `gorm:"not null" bson:"type" json:"type"`
	Status         int        `bson:"status" json:"status"`
	Progress       string     `bson:"progress" json:"progress"`
	StepsList      JSON       `bson:"stepsList" json:"stepsList"`
	DateCompleted  *time.Time `bson:"dateCompleted" json:"dateCompleted"`
	DateCreated    time.Time  `bson:"dateCreated" json:"dateCreated"`
}

func NewGoal(now time.Time) Goal {
	return Goal{
		Status:      1,
		Progress:    ProgressDoing,
		StepsList:   JSON("[]"),
		DateCreated: now,
	}
}

func (g *Goal) Apply(p Patch) {
	for k, v := range p {
		switch k {
		case "title":
			g.Title = v.(string)
		case "icon":
			g.Icon = v.(JSON)
		case "date":
			g.Date = v.(*time.Time)
		case "objectiveDone":
			g.ObjectiveDone = v.(*float64)
		case "objectiveTotal":
			g.ObjectiveTotal = v.(*float64)
		case "type":
			g.Type = v.(string)
		case "status":
			g.Status = v.(int)
		case "progress":
			g.Progress = v.(string)
		case "stepsList":
			g.StepsList = v.(JSON)
		case "dateCompleted":
			g.DateCompleted = v.(*time.Time)
		case "dateCreated":
			g.DateCreated = v.(time.Time)
		}
	}
}
