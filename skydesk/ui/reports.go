package ui

import (
	"net/http"

	"amonic/skydesk/internal/reports"
	"amonic/skydesk/internal/services"
)

// SurveySummaryHandler renders the flight satisfaction summary
func (h *UIHandler) SurveySummaryHandler(w http.ResponseWriter, r *http.Request) {
	data := pageData(r, "Flight satisfaction survey: summary")
	summary, err := h.surveys.Summary(r.Context())
	if err != nil {
		data["Alert"] = services.Message(err)
	} else {
		data["Summary"] = summary
	}
	RenderTemplate(w, "report_summary.html", data)
}

// SurveyFullHandler renders the per-question answer counts
func (h *UIHandler) SurveyFullHandler(w http.ResponseWriter, r *http.Request) {
	data := pageData(r, "Flight satisfaction survey: full report")
	data["Answers"] = reports.Answers
	full, err := h.surveys.Full(r.Context())
	if err != nil {
		data["Alert"] = services.Message(err)
	} else {
		data["Report"] = full
	}
	RenderTemplate(w, "report_full.html", data)
}
