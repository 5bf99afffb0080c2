package dto

// DashboardParams selects the analytics year; zero means the current year.
type DashboardParams struct {
	Year int `form:"year" binding:"omitempty,min=2000,max=2100"`
}
