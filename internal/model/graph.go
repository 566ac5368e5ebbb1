package model

type Graph struct {
	Owner  `gorm:"embedded" bson:",inline"`
	Title  string `gorm:"not null" bson:"title" json:"title"`
	Type   string `gorm:"not null" bson:"type" json:"type"`
	ByYear bool   `bson:"byYear" json:"byYear"`
	Labels JSON   `gorm:"not null" bson:"labels" json:"labels"`
	Data   JSON   `gorm:"not null" bson:"data" json:"data"`
}

func NewGraph() Graph {
	return Graph{}
}

func (g *Graph) Apply(p Patch) {
	for k, v := range p {
		switch k {
		case "title":
			g.Title = v.(string)
		case "type":
			g.Type = v.(string)
		case "byYear":
			g.ByYear = v.(bool)
		case "labels":
			g.Labels = v.(JSON)
		case "data":
			g.Data = v.(JSON)
		}
	}
}

type GraphPayload struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Type   string `json:"type"`
	ByYear bool   `json:"byYear"`
	Labels JSON   `json:"labels"`
	Data   JSON   `json:"data"`
}

// GraphToAPI drops the owner before a graph leaves the server.
func GraphToAPI(g *Graph) GraphPayload {
	return GraphPayload{
		ID:     g.ID,
		Title:  g.Title,
		Type:   g.Type,
		ByYear: g.ByYear,
		Labels: g.Labels,
		Data:   g.Data,
	}
}
