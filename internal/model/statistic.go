package model

import "strconv"

const defaultStatColor = "#000000"

type Statistic struct {
	Owner       `gorm:"embedded" bson:",inline"`
	Name        string  `gorm:"not null" bson:"name" json:"name"`
	Total       float64 `bson:"total" json:"total"`
	Sign        *string `bson:"sign" json:"sign"`
	Icon        JSON    `gorm:"not null" bson:"icon" json:"icon"`
	Color       *string `bson:"color" json:"color"`
	Description *string `bson:"description" json:"description"`
}

func NewStatistic() Statistic {
	return Statistic{}
}

func (s *Statistic) Apply(p Patch) {
	for k, v := range p {
		switch k {
		case "name":
			s.Name = v.(string)
		case "total":
			s.Total = v.(float64)
		case "sign":
			s.Sign = v.(*string)
		case "icon":
			s.Icon = v.(JSON)
		case "color":
			s.Color = v.(*string)
		case "description":
			s.Description = v.(*string)
		}
	}
}

// StatisticPayload is what clients render. Total is sent as a string and
// missing optional fields get display defaults.
type StatisticPayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Total       string `json:"total"`
	Sign        string `json:"sign"`
	Icon        JSON   `json:"icon"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

func StatisticToAPI(s *Statistic) StatisticPayload {
	return StatisticPayload{
		ID:          s.ID,
		Name:        s.Name,
		Total:       strconv.FormatFloat(s.Total, 'f', -1, 64),
		Sign:        valueOr(s.Sign, ""),
		Icon:        s.Icon,
		Color:       valueOr(s.Color, defaultStatColor),
		Description: valueOr(s.Description, ""),
	}
}

func valueOr(s *string, def string) string {
	if s == nil {
		return def
	}

	return *s
}
