// Package model contains domain models passed between layers.
package model

// Runner is a single competitor inside a race. Speed is fixed at creation.
type Runner struct {
	ID       int `json:"id"`
	Speed    int `json:"velocidad"`
	Position int `json:"posicion"`
}

// Placement is one podium entry of a finished race.
type Placement struct {
	Place  string `json:"lugar"`
	Runner int    `json:"corredor"`
}

// Race is the persisted race record. ID is the creation time in Unix
// milliseconds and doubles as the collection key.
type Race struct {
	ID          int64       `json:"id"`
	RunnerCount int         `json:"numero_de_corredores"`
	Distance    float64     `json:"distancia_recorrida"`
	Runners     []Runner    `json:"corredores"`
	Ranking     []Placement `json:"posiciones"`
}

// Collection is the whole persisted document.
type Collection struct {
	Races []Race `json:"carreras"`
}

// IndexOf returns the slice index of the race with id, or -1.
func (c *Collection) IndexOf(id int64) int {
	for i := range c.Races {
		if c.Races[i].ID == id {
			return i
		}
	}
	return -1
}

// Results is the derived read view of a race.
// Exactly one of Winners or Runners is populated.
type Results struct {
	Status  string           `json:"estado"`
	Winners []WinnerView     `json:"ganadores,omitempty"`
	Runners []RunnerProgress `json:"corredores,omitempty"`
}

// WinnerView renders a Placement for clients.
type WinnerView struct {
	Place  string `json:"lugar"`
	Runner string `json:"corredor"`
}

// RunnerProgress renders a runner's current position for clients.
type RunnerProgress struct {
	Runner   string `json:"corredor"`
	Position string `json:"posicion"`
}
