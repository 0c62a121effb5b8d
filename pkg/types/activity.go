package types

// Activity is a single activity record as returned by the running-activity
// provider's listing endpoint. Field names mirror the provider's JSON schema;
// the record is stored verbatim in the activity cache so a cached snapshot can
// answer later queries without another fetch.
type Activity struct {
	ID                   int64   `json:"id"`
	Name                 string  `json:"name"`
	Distance             float64 `json:"distance"`
	MovingTime           int     `json:"moving_time"`
	ElapsedTime          int     `json:"elapsed_time"`
	TotalElevationGain   float64 `json:"total_elevation_gain"`
	Type                 string  `json:"type"`
	StartDate            string  `json:"start_date"`
	StartDateLocal       string  `json:"start_date_local"`
	AverageSpeed         float64 `json:"average_speed"`
	MaxSpeed             float64 `json:"max_speed"`
	AverageCadence       float64 `json:"average_cadence,omitempty"`
	AverageWatts         float64 `json:"average_watts,omitempty"`
	WeightedAverageWatts float64 `json:"weighted_average_watts,omitempty"`
	Kilojoules           float64 `json:"kilojoules,omitempty"`
	DeviceWatts          bool    `json:"device_watts,omitempty"`
	HasHeartrate         bool    `json:"has_heartrate,omitempty"`
	AverageHeartrate     float64 `json:"average_heartrate,omitempty"`
	MaxHeartrate         float64 `json:"max_heartrate,omitempty"`
	ElevHigh             float64 `json:"elev_high,omitempty"`
	ElevLow              float64 `json:"elev_low,omitempty"`
	UploadID             int64   `json:"upload_id,omitempty"`
	ExternalID           string  `json:"external_id,omitempty"`
	Trainer              bool    `json:"trainer,omitempty"`
	Commute              bool    `json:"commute,omitempty"`
	Manual               bool    `json:"manual,omitempty"`
	Private              bool    `json:"private,omitempty"`
	Flagged              bool    `json:"flagged,omitempty"`
	WorkoutType          int     `json:"workout_type,omitempty"`
	AverageTemp          float64 `json:"average_temp,omitempty"`
	HasKudoed            bool    `json:"has_kudoed,omitempty"`
}
