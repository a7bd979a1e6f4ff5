package dtos

type TravelClass struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Survey is one raw answer sheet of /api/surveys0/. Answers are 1..7; zero
// means unanswered.
type Survey struct {
	ID               int         `json:"id"`
	DepartureAirport Airport     `json:"departure_airport"`
	ArrivalAirport   Airport     `json:"arrival_airport"`
	TravelClass      TravelClass `json:"travel_class"`
	Age              int         `json:"age"`
	Gender           string      `json:"gender"`
	Q1               int         `json:"q1"`
	Q2               int         `json:"q2"`
	Q3               int         `json:"q3"`
	Q4               int         `json:"q4"`
	SurveyMonth      string      `json:"survey_month"`
}

func (s Survey) Validate() error {
	if s.ID <= 0 {
		return invalid("survey without id")
	}
	for i, q := range s.Answers() {
		if q < 0 || q > 7 {
			return invalid("survey %d q%d out of range: %d", s.ID, i+1, q)
		}
	}
	return nil
}

func (s Survey) Answers() [4]int {
	return [4]int{s.Q1, s.Q2, s.Q3, s.Q4}
}
