package models

import "time"

// Course codes offered for batches.
const (
	CoursePython      = "python"
	CourseJava        = "java"
	CourseCPP         = "cpp"
	CourseWebDev      = "web_dev"
	CourseDataScience = "data_science"
	CourseML          = "ml"
	CourseAI          = "ai"
	CourseCloud       = "cloud"
	CourseCyberSec    = "cyber_sec"
	CourseDBMS        = "dbms"
)

// Courses maps every valid course code to its display label.
var Courses = map[string]string{
	CoursePython:      "Python",
	CourseJava:        "Java",
	CourseCPP:         "C++",
	CourseWebDev:      "Web Development",
	CourseDataScience: "Data Science",
	CourseML:          "Machine Learning",
	CourseAI:          "Artificial Intelligence",
	CourseCloud:       "Cloud Computing",
	CourseCyberSec:    "Cyber Security",
	CourseDBMS:        "Database Management",
}

// ValidCourse reports whether code is one of the fixed course codes.
func ValidCourse(code string) bool {
	_, ok := Courses[code]
	return ok
}

// Batch statuses derived from the end date.
const (
	BatchStatusOngoing   = "Ongoing"
	BatchStatusCompleted = "Completed"
)

// Batch represents a student cohort run by one trainer over a date range.
type Batch struct {
	ID        string     `db:"id" json:"id"`
	TrainerID string     `db:"trainer_id" json:"trainer_id"`
	Name      string     `db:"name" json:"name"`
	Course    string     `db:"course" json:"course"`
	StartDate time.Time  `db:"start_date" json:"start_date"`
	EndDate   *time.Time `db:"end_date" json:"end_date,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// Status reports Completed when the end date exists and lies strictly
// before today, Ongoing otherwise.
func (b Batch) Status(today time.Time) string {
	if b.EndDate != nil && DateOf(*b.EndDate).Before(DateOf(today)) {
		return BatchStatusCompleted
	}
	return BatchStatusOngoing
}

// DaysTaken counts the days from the start date to the end date, or to
// today while the batch is still open.
func (b Batch) DaysTaken(today time.Time) int {
	until := DateOf(today)
	if b.EndDate != nil {
		until = DateOf(*b.EndDate)
	}
	return int(until.Sub(DateOf(b.StartDate)).Hours() / 24)
}

// DateOf truncates an instant to its calendar date in UTC. Class log
// dates are stored as midnight instants, so lookups keyed on a date
// must truncate before comparing.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
