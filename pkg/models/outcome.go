package models

// StepOutcome is what the transport saw on the last attempt of a call.
type StepOutcome struct {
	Succeeded  bool   `json:"succeeded"`
	StatusCode int    `json:"statusCode"`
	ParsedBody any    `json:"parsedBody,omitempty"`
	RawBody    string `json:"rawBody"`
	Attempts   int    `json:"attempts"`
}

// Value is the parsed body when the response was JSON, the raw text otherwise.
func (o *StepOutcome) Value() any {
	if o.ParsedBody != nil {
		return o.ParsedBody
	}

	return o.RawBody
}
