package office

type OfficeResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Radius    float64 `json:"radius"`
}

func ToResponse(o Office) OfficeResponse {
	return OfficeResponse{
		ID:        o.ID,
		Name:      o.Name,
		Latitude:  o.Latitude,
		Longitude: o.Longitude,
		Radius:    o.Radius,
	}
}
