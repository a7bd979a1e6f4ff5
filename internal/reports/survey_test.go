package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amonic/skydesk/internal/models/dtos"
)

func survey(id int, gender string, age int, class, arrival string, answers ...int) dtos.Survey {
	s := dtos.Survey{
		ID:             id,
		Gender:         gender,
		Age:            age,
		TravelClass:    dtos.TravelClass{Name: class},
		ArrivalAirport: dtos.Airport{Name: arrival},
	}
	q := [4]int{}
	copy(q[:], answers)
	s.Q1, s.Q2, s.Q3, s.Q4 = q[0], q[1], q[2], q[3]
	return s
}

func sampleSurveys() []dtos.Survey {
	return []dtos.Survey{
		survey(1, "M", 18, "Economy", "Doha", 1, 2, 3, 4),
		survey(2, "F", 24, "Business", "Abu Dhabi", 1, 1, 7, 0),
		survey(3, "F", 25, "Economy", "Doha", 2, 2, 2, 2),
		survey(4, "M", 39, "First Class", "Cairo", 7, 7, 7, 7),
		survey(5, "M", 60, "Economy", "Bahrain", 3, 3, 3, 3),
		survey(6, "", 15, "Economy", "Doha", 8, 1, 1, 1),
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleSurveys())

	assert.Equal(t, 6, s.Total)
	assert.Equal(t, 3, s.Male)
	assert.Equal(t, 2, s.Female)

	assert.Equal(t, []Count{
		{"18-24", 2}, {"25-39", 2}, {"40-59", 0}, {"60+", 1},
	}, s.Ages)
	assert.Equal(t, []Count{
		{"Economy", 4}, {"Business", 1}, {"First Class", 1},
	}, s.Classes)
	assert.Equal(t, []Count{
		{"Abu Dhabi", 1}, {"Bahrain", 1}, {"Cairo", 1}, {"Doha", 3},
	}, s.ArrivalAirports)
}

func TestAgeBucketBoundaries(t *testing.T) {
	cases := map[int]string{17: "", 18: "18-24", 24: "18-24", 25: "25-39", 39: "25-39", 40: "40-59", 59: "40-59", 60: "60+", 95: "60+"}
	for age, want := range cases {
		assert.Equal(t, want, AgeBucket(age), "age %d", age)
	}
}

func TestFullReport(t *testing.T) {
	r := Full(sampleSurveys())

	require.Len(t, r.Questions, 4)
	assert.Equal(t, 6, r.Respondents)

	q1 := r.Questions[0]
	assert.Equal(t, [7]int{1, 0, 1, 0, 0, 0, 1}, q1.Male)
	assert.Equal(t, [7]int{1, 1, 0, 0, 0, 0, 0}, q1.Female)
	// respondent 6 answered 8, which is skipped
	assert.Equal(t, [7]int{2, 1, 1, 0, 0, 0, 1}, q1.Total)

	// respondent 2 left q4 unanswered, respondent 6 has no gender
	q4 := r.Questions[3]
	assert.Equal(t, [7]int{0, 0, 1, 1, 0, 0, 1}, q4.Male)
	assert.Equal(t, [7]int{0, 1, 0, 0, 0, 0, 0}, q4.Female)
	assert.Equal(t, [7]int{1, 1, 1, 1, 0, 0, 1}, q4.Total)
}

func TestEmptyInput(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.Total)
	assert.Len(t, s.Ages, 4)
	assert.Empty(t, s.ArrivalAirports)

	r := Full(nil)
	assert.Len(t, r.Questions, 4)
	assert.Equal(t, "Please rate our aircraft", r.Questions[0].Question)
}
