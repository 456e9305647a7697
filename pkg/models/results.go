package models

import (
	"errors"
	"fmt"
)

type ResultKey string

const (
	ResultFlight   ResultKey = "flight"
	ResultRide     ResultKey = "ride"
	ResultDining   ResultKey = "dining"
	ResultFood     ResultKey = "food"
	ResultLodging  ResultKey = "lodging"
	ResultCalendar ResultKey = "calendar"
	ResultSummary  ResultKey = "summary"
)

var (
	ErrResultExists     = errors.New("result already recorded")
	ErrUnknownResultKey = errors.New("unknown result key")
)

// ResultSet holds one optional entry per step. Entries are write-once.
type ResultSet struct {
	Flight   any `json:"flight,omitempty"`
	Ride     any `json:"ride,omitempty"`
	Dining   any `json:"dining,omitempty"`
	Food     any `json:"food,omitempty"`
	Lodging  any `json:"lodging,omitempty"`
	Calendar any `json:"calendar,omitempty"`
	Summary  any `json:"summary,omitempty"`
}

var resultOrder = []ResultKey{
	ResultFlight, ResultRide, ResultDining, ResultFood, ResultLodging, ResultCalendar, ResultSummary,
}

func (r *ResultSet) slot(key ResultKey) (*any, error) {
	switch key {
	case ResultFlight:
		return &r.Flight, nil
	case ResultRide:
		return &r.Ride, nil
	case ResultDining:
		return &r.Dining, nil
	case ResultFood:
		return &r.Food, nil
	case ResultLodging:
		return &r.Lodging, nil
	case ResultCalendar:
		return &r.Calendar, nil
	case ResultSummary:
		return &r.Summary, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownResultKey, key)
	}
}

// Set records the entry for key. A nil value is stored as an empty string so the key stays present.
func (r *ResultSet) Set(key ResultKey, value any) error {
	slot, err := r.slot(key)
	if err != nil {
		return err
	}

	if *slot != nil {
		return fmt.Errorf("%w: %s", ErrResultExists, key)
	}

	if value == nil {
		value = ""
	}

	*slot = value

	return nil
}

func (r *ResultSet) Get(key ResultKey) (any, bool) {
	slot, err := r.slot(key)
	if err != nil || *slot == nil {
		return nil, false
	}

	return *slot, true
}

func (r *ResultSet) Has(key ResultKey) bool {
	_, ok := r.Get(key)

	return ok
}

// Keys lists the recorded keys in step order.
func (r *ResultSet) Keys() []ResultKey {
	keys := make([]ResultKey, 0, len(resultOrder))

	for _, key := range resultOrder {
		if r.Has(key) {
			keys = append(keys, key)
		}
	}

	return keys
}
