package handlers

import (
	"time"

	"github.com/careplushealth/lab-scheduler/internal/models"
	"github.com/careplushealth/lab-scheduler/internal/timezone"
)

// --------------------------------------------------
// Hospital-local clock helpers
// --------------------------------------------------

func locationFromHospital(hospital *models.Hospital) *time.Location {
	if hospital != nil {
		return timezone.Location(hospital.Timezone)
	}
	return timezone.Location("")
}

func nowInHospital(hospital *models.Hospital) time.Time {
	return time.Now().In(locationFromHospital(hospital))
}

// parseDateInHospital parses YYYY-MM-DD as midnight in the hospital timezone.
func parseDateInHospital(hospital *models.Hospital, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		locationFromHospital(hospital),
	)
}
