package results

// PageData drives the results screen for one month.
type PageData struct {
	Message    string
	MonthStart string
	PrevMonth  string
	NextMonth  string
	Mode       string
	RefDate    string
	// SelectedDay is the day focus; equals RefDate unless the operator picked
	// another day.
	SelectedDay string
	// HasData is false when no ready batch covers the month.
	HasData bool

	Groups []GroupMetrics
	Total  GroupMetrics
	Track  []DayEntry
}
