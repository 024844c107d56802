package workouts

import (
	"fmt"
	"time"
)

const tooltipDateLayout = "Mon. January 2, 2006 3:04PM"

type Tooltip struct {
	Date     string `json:"date"`
	Distance string `json:"distance"`
	Ascent   string `json:"ascent"`
}

func NewTooltip(w *CustomWorkout, loc *time.Location) Tooltip {
	return Tooltip{
		Date:     w.StartedAt().In(loc).Format(tooltipDateLayout),
		Distance: FormatRounded(w.DistanceMeters()*MetersToMiles, 1) + "mi",
		Ascent:   FormatRounded(w.TotalAscentMeters()*MetersToFeet, 0) + "ft",
	}
}

func (t Tooltip) HTML() string {
	return fmt.Sprintf(
		"<b>%s</b><br><i><b>Distance: %s</b></i><br><i>Total Ascent: %s</i>",
		t.Date, t.Distance, t.Ascent,
	)
}
