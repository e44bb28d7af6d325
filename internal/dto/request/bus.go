package request

type BusRequest struct {
	Name          string  `json:"name" validate:"required,max=150"`
	BusNumber     string  `json:"busNumber" validate:"required,max=50"`
	CoachLayout   string  `json:"coachLayout" validate:"omitempty,oneof=compact standard extended"`
	RouteID       *string `json:"routeId,omitempty" validate:"omitempty,uuid"`
	Fare          float64 `json:"fare" validate:"gte=0"`
	DepartureTime string  `json:"departureTime" validate:"required,datetime=15:04"`
	IsActive      *bool   `json:"isActive,omitempty"`
}

// BusUpdateRequest is a partial update; nil fields are left unchanged.
type BusUpdateRequest struct {
	Name          *string  `json:"name,omitempty" validate:"omitempty,max=150"`
	BusNumber     *string  `json:"busNumber,omitempty" validate:"omitempty,max=50"`
	CoachLayout   *string  `json:"coachLayout,omitempty" validate:"omitempty,oneof=compact standard extended"`
	RouteID       *string  `json:"routeId,omitempty" validate:"omitempty,uuid"`
	Fare          *float64 `json:"fare,omitempty" validate:"omitempty,gte=0"`
	DepartureTime *string  `json:"departureTime,omitempty" validate:"omitempty,datetime=15:04"`
	IsActive      *bool    `json:"isActive,omitempty"`
}

type RouteRequest struct {
	RouteName      string   `json:"routeName" validate:"required,max=150"`
	RouteCode      string   `json:"routeCode" validate:"required,max=50"`
	BoardingPoints []string `json:"boardingPoints" validate:"dive,required"`
}

type RouteUpdateRequest struct {
	RouteName      *string  `json:"routeName,omitempty" validate:"omitempty,max=150"`
	RouteCode      *string  `json:"routeCode,omitempty" validate:"omitempty,max=50"`
	BoardingPoints []string `json:"boardingPoints,omitempty" validate:"omitempty,dive,required"`
}
