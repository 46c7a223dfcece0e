package ephemeris

import (
	"encoding/json"
	"time"

	"github.com/arice/trmnl-astro/pkg/chart"
)

// Subject describes the chart subject sent to the position API: a named
// location and a moment in time.
type Subject struct {
	Name      string  `json:"name"`
	Year      int     `json:"year"`
	Month     int     `json:"month"`
	Day       int     `json:"day"`
	Hour      int     `json:"hour"`
	Minute    int     `json:"minute"`
	City      string  `json:"city"`
	Nation    string  `json:"nation"`
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Timezone  string  `json:"timezone"`
}

// SubjectAt builds a Subject for the given location at time t.
// The caller is responsible for passing t already in the location's zone.
func SubjectAt(name, city, nation string, lat, lon float64, tz string, t time.Time) Subject {
	return Subject{
		Name:      name + " Now",
		Year:      t.Year(),
		Month:     int(t.Month()),
		Day:       t.Day(),
		Hour:      t.Hour(),
		Minute:    t.Minute(),
		City:      city,
		Nation:    nation,
		Longitude: lon,
		Latitude:  lat,
		Timezone:  tz,
	}
}

// chartRequest is the wire payload for the birth-chart endpoint.
type chartRequest struct {
	Subject Subject `json:"subject"`
}

// chartResponse is the wire shape of the birth-chart endpoint response.
// The subject object mixes body positions with scalar metadata fields
// (name, timezone, ...), so bodies are picked out of raw messages.
type chartResponse struct {
	Status    string `json:"status"`
	ChartData struct {
		Subject map[string]json.RawMessage `json:"subject"`
	} `json:"chart_data"`
}

// bodyPosition is one body's position as returned by the API.
type bodyPosition struct {
	AbsPos     float64  `json:"abs_pos"`
	SignNum    *int     `json:"sign_num"`
	Position   *float64 `json:"position"`
	Retrograde bool     `json:"retrograde"`
}

// toPosition converts a wire position to the domain representation,
// deriving sign and in-sign position from the absolute longitude when the
// API omits them.
func (p bodyPosition) toPosition() chart.Position {
	sign := chart.SignIndex(p.AbsPos)
	if p.SignNum != nil {
		sign = *p.SignNum
	}
	inSign := p.AbsPos - float64(int(p.AbsPos/30))*30
	if p.Position != nil {
		inSign = *p.Position
	}
	deg := int(inSign)
	minutes := int((inSign - float64(deg)) * 60)
	return chart.Position{
		Lon:        p.AbsPos,
		Sign:       sign,
		Deg:        deg,
		Min:        minutes,
		Retrograde: p.Retrograde,
	}
}
