package entity

type Route struct {
	Base
	RouteName      string   `db:"route_name"`
	RouteCode      string   `db:"route_code"`
	BoardingPoints []string `db:"boarding_points"`
}
