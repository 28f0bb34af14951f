package office

import (
	"time"

	"github.com/smarttrack/smarttrack-backend-go/internal/pkg/geo"
)

// Office is a circular geofence around a workplace.
type Office struct {
	ID        string
	Name      string
	Latitude  float64
	Longitude float64
	Radius    float64 // meters, always > 0
	CreatedAt time.Time
}

func (o Office) Center() geo.Point {
	return geo.Point{Latitude: o.Latitude, Longitude: o.Longitude}
}

func (o Office) RadiusMeters() float64 {
	return o.Radius
}
