package types

// Workout is a single logged gym workout from the gym-logging provider.
type Workout struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	StartTime   string     `json:"start_time"`
	EndTime     string     `json:"end_time"`
	UpdatedAt   string     `json:"updated_at"`
	CreatedAt   string     `json:"created_at"`
	Exercises   []Exercise `json:"exercises"`
}

// Exercise is one exercise within a workout.
type Exercise struct {
	Index              int    `json:"index"`
	Title              string `json:"title"`
	Notes              string `json:"notes,omitempty"`
	ExerciseTemplateID string `json:"exercise_template_id"`
	SupersetsID        int    `json:"supersets_id"`
	Sets               []Set  `json:"sets"`
}

// Set is one set within an exercise.
type Set struct {
	Index           int     `json:"index"`
	Type            string  `json:"type"`
	WeightKg        float64 `json:"weight_kg"`
	Reps            int     `json:"reps"`
	DistanceMeters  float64 `json:"distance_meters,omitempty"`
	DurationSeconds int     `json:"duration_seconds,omitempty"`
	RPE             float64 `json:"rpe,omitempty"`
	CustomMetric    float64 `json:"custom_metric,omitempty"`
}

// WorkoutsPage is the paged envelope returned by the gym-logging provider's
// listing endpoint.
type WorkoutsPage struct {
	Page      int       `json:"page"`
	PageCount int       `json:"page_count"`
	Workouts  []Workout `json:"workouts"`
}
