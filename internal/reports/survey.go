// Package reports aggregates raw flight-satisfaction surveys into the
// summary and full reports.
package reports

import (
	"sort"

	"amonic/skydesk/internal/models/dtos"
)

var AgeBuckets = []string{"18-24", "25-39", "40-59", "60+"}

var TravelClasses = []string{"Economy", "Business", "First Class"}

// Questions are the four survey questions, in q1..q4 order.
var Questions = []string{
	"Please rate our aircraft",
	"How would you rate our flight attendants?",
	"How would you rate our inflight entertainment?",
	"Please rate the ticket price",
}

// Answers are the labels of answer values 1..7.
var Answers = []string{
	"Outstanding",
	"Very good",
	"Good",
	"Adequate",
	"Needs improvement",
	"Poor",
	"Don't know",
}

type Count struct {
	Label string
	Count int
}

type Summary struct {
	Total           int
	Male            int
	Female          int
	Ages            []Count
	Classes         []Count
	ArrivalAirports []Count
}

// Summarize counts respondents by gender, age bucket, travel class and
// arrival airport. Unknown genders, ages under 18 and unknown classes are
// only counted in Total.
func Summarize(surveys []dtos.Survey) Summary {
	ages := make(map[string]int, len(AgeBuckets))
	classes := make(map[string]int, len(TravelClasses))
	airports := map[string]int{}

	s := Summary{Total: len(surveys)}
	for _, sv := range surveys {
		switch sv.Gender {
		case "M":
			s.Male++
		case "F":
			s.Female++
		}
		if b := AgeBucket(sv.Age); b != "" {
			ages[b]++
		}
		classes[sv.TravelClass.Name]++
		if name := sv.ArrivalAirport.Name; name != "" {
			airports[name]++
		}
	}

	for _, b := range AgeBuckets {
		s.Ages = append(s.Ages, Count{Label: b, Count: ages[b]})
	}
	for _, c := range TravelClasses {
		s.Classes = append(s.Classes, Count{Label: c, Count: classes[c]})
	}
	names := make([]string, 0, len(airports))
	for name := range airports {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s.ArrivalAirports = append(s.ArrivalAirports, Count{Label: name, Count: airports[name]})
	}
	return s
}

// AgeBucket returns the bucket label for age, or "" below 18.
func AgeBucket(age int) string {
	switch {
	case age >= 60:
		return "60+"
	case age >= 40:
		return "40-59"
	case age >= 25:
		return "25-39"
	case age >= 18:
		return "18-24"
	}
	return ""
}

// QuestionReport holds answer counts for one question. Index i counts
// answer value i+1.
type QuestionReport struct {
	Question string
	Male     [7]int
	Female   [7]int
	Total    [7]int
}

type FullReport struct {
	Respondents int
	Questions   []QuestionReport
}

// Full counts answers 1..7 per question and gender. Unanswered or out of
// range values are skipped; respondents of other genders count in Total.
func Full(surveys []dtos.Survey) FullReport {
	r := FullReport{Respondents: len(surveys), Questions: make([]QuestionReport, len(Questions))}
	for i, q := range Questions {
		r.Questions[i].Question = q
	}

	for _, sv := range surveys {
		for qi, answer := range sv.Answers() {
			idx := answer - 1
			if idx < 0 || idx > 6 {
				continue
			}
			qr := &r.Questions[qi]
			qr.Total[idx]++
			switch sv.Gender {
			case "M":
				qr.Male[idx]++
			case "F":
				qr.Female[idx]++
			}
		}
	}
	return r
}
