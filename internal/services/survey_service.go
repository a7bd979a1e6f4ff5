package services

import (
	"context"

	"amonic/skydesk/internal/auth"
	"amonic/skydesk/internal/logging"
	"amonic/skydesk/internal/metrics"
	"amonic/skydesk/internal/models/dtos"
	"amonic/skydesk/internal/reports"
)

type SurveyAPI interface {
	ListSurveys(ctx context.Context, token string) ([]dtos.Survey, error)
}

// SurveyService aggregates raw survey rows into the two report pages.
type SurveyService struct {
	api     SurveyAPI
	metrics *metrics.MetricsRegistry
}

func NewSurveyService(api SurveyAPI, m *metrics.MetricsRegistry) *SurveyService {
	return &SurveyService{api: api, metrics: m}
}

func (s *SurveyService) surveys(ctx context.Context, kind string) ([]dtos.Survey, error) {
	rows, err := s.api.ListSurveys(ctx, auth.AccessToken(ctx))
	if err != nil {
		logging.Error("Failed to load surveys", "report", kind, "error", err)
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ReportsGeneratedTotal.WithLabelValues(kind).Inc()
	}
	return rows, nil
}

func (s *SurveyService) Summary(ctx context.Context) (reports.Summary, error) {
	rows, err := s.surveys(ctx, "summary")
	if err != nil {
		return reports.Summary{}, err
	}
	return reports.Summarize(rows), nil
}

func (s *SurveyService) Full(ctx context.Context) (reports.FullReport, error) {
	rows, err := s.surveys(ctx, "full")
	if err != nil {
		return reports.FullReport{}, err
	}
	return reports.Full(rows), nil
}
