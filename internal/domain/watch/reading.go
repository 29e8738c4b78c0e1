package watch

import "time"

// DistanceInvalid is the sentinel for a missing or failed distance
// measurement. A reading carrying it still counts as produced; the
// intrusion check simply cannot confirm proximity.
const DistanceInvalid float64 = -1

// Reading is one combined sensor sample taken during a polling cycle.
// Temperature and humidity are informational only; they never influence
// the intrusion verdict and are zero when the climate probe is absent.
type Reading struct {
	Timestamp    time.Time `json:"timestamp"`
	DistanceCM   float64   `json:"distance_cm"`
	TemperatureC float64   `json:"temperature_c"`
	HumidityPct  float64   `json:"humidity_pct"`
	Motion       bool      `json:"motion"`
}

// DistanceValid reports whether the distance measurement succeeded.
func (r Reading) DistanceValid() bool {
	return r.DistanceCM >= 0
}

// Evaluate is the intrusion predicate: motion detected AND a valid
// distance measurement strictly below the threshold. A reading exactly
// at the threshold is safe, and an invalid distance can never raise an
// alert no matter what the motion input says.
func Evaluate(r Reading, thresholdCM float64) bool {
	return r.Motion && r.DistanceValid() && r.DistanceCM < thresholdCM
}
