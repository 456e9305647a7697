package steps

import (
	"context"
	"strings"
	"time"

	"github.com/dukex/flyout/pkg/models"
	"github.com/dukex/flyout/pkg/template"
)

// Summary asks the summarizer service to describe the trip. It never aborts a run.
func Summary() Step {
	return Step{
		Name:     models.StepSummary,
		Optional: true,
		Enabled: func(env Env) (bool, string) {
			if env.Config.SummarizerEnabled() {
				return true, ""
			}

			return false, "Summarizer API key not configured; skipping summary"
		},
		Action: func(*models.RunState) string {
			return "Requesting trip summary"
		},
		Run: summarize,
	}
}

// DefaultSummaryTemplate is used when the configuration does not provide one.
const DefaultSummaryTemplate = `Summarize the trip booked for {{ .Guest }}, departing {{ .Origin }} on {{ rfc3339 .Departure }}. Return a short itinerary the guest can read.
{{ range .Results }}- {{ .Key }}: {{ json .Value }}
{{ end }}`

type summaryEntry struct {
	Key   models.ResultKey
	Value any
}

type summaryData struct {
	Guest     string
	Origin    string
	Departure time.Time
	Schedule  models.Schedule
	Results   []summaryEntry
}

// SummaryMessage renders the natural-language request from what the run has booked so far.
func SummaryMessage(tmpl string, state *models.RunState) (string, error) {
	if strings.TrimSpace(tmpl) == "" {
		tmpl = DefaultSummaryTemplate
	}

	data := summaryData{
		Guest:     state.Input.GuestName,
		Origin:    state.Input.Origin,
		Departure: state.Schedule.Departure,
		Schedule:  state.Schedule,
	}

	for _, key := range state.Results.Keys() {
		value, _ := state.Results.Get(key)
		data.Results = append(data.Results, summaryEntry{Key: key, Value: value})
	}

	return template.Render(tmpl, data)
}

func summarize(ctx context.Context, env Env, state *models.RunState) (Result, error) {
	message, err := SummaryMessage(env.Config.SummaryTemplate, state)
	if err != nil {
		return Result{}, err
	}

	req := SummaryRequest{
		APIKey:  strings.TrimSpace(env.Config.SummarizerAPIKey),
		Message: message,
	}

	outcome, err := call(ctx, env, ContractSummary, env.Config.Endpoints.Summarizer, req, env.summaryRetry())
	if err != nil {
		return Result{}, err
	}

	return Result{
		Key:     models.ResultSummary,
		Outcome: outcome,
		Message: "Trip summary received",
	}, nil
}
