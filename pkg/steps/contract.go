package steps

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrContractViolation is returned when a request is missing fields the service requires.
var ErrContractViolation = errors.New("request violates service contract")

// Contract names one request shape accepted by a remote service.
type Contract string

const (
	ContractFlight   Contract = "booking/flight"
	ContractRide     Contract = "booking/ride"
	ContractTable    Contract = "booking/reserve-table"
	ContractDelivery Contract = "booking/order-food"
	ContractStay     Contract = "booking/stay"
	ContractHotel    Contract = "booking/hotel"
	ContractCalendar Contract = "calendar/add-events"
	ContractSummary  Contract = "summarizer/session"
)

const nonEmpty = `{"type": "string", "minLength": 1}`

var contractSchemas = map[Contract]string{
	ContractFlight: `{
		"type": "object",
		"required": ["guestName", "origin", "departureDate", "seatClass", "note"],
		"properties": {
			"guestName": ` + nonEmpty + `,
			"origin": ` + nonEmpty + `,
			"departureDate": {"type": "string", "format": "date-time"},
			"seatClass": ` + nonEmpty + `,
			"note": {"type": "string"}
		}
	}`,
	ContractRide: `{
		"type": "object",
		"required": ["guestName", "pickupLocation", "pickupTime", "dropoffLocation", "note"],
		"properties": {
			"guestName": ` + nonEmpty + `,
			"pickupLocation": ` + nonEmpty + `,
			"pickupTime": {"type": "string", "format": "date-time"},
			"dropoffLocation": ` + nonEmpty + `,
			"note": {"type": "string"}
		}
	}`,
	ContractTable: `{
		"type": "object",
		"required": ["guestName", "time", "partySize", "note"],
		"properties": {
			"guestName": ` + nonEmpty + `,
			"time": {"type": "string", "format": "date-time"},
			"partySize": {"type": "integer", "minimum": 1},
			"note": {"type": "string"}
		}
	}`,
	ContractDelivery: `{
		"type": "object",
		"required": ["guestName", "deliveryTime", "items", "note"],
		"properties": {
			"guestName": ` + nonEmpty + `,
			"deliveryTime": {"type": "string", "format": "date-time"},
			"items": {"type": "array", "minItems": 1, "items": {"type": "string"}},
			"note": {"type": "string"}
		}
	}`,
	ContractStay: `{
		"type": "object",
		"required": ["guestName", "checkin", "checkout", "propertyType"],
		"properties": {
			"guestName": ` + nonEmpty + `,
			"checkin": {"type": "string", "format": "date-time"},
			"checkout": {"type": "string", "format": "date-time"},
			"propertyType": ` + nonEmpty + `
		}
	}`,
	ContractHotel: `{
		"type": "object",
		"required": ["guestName", "checkin", "nights", "roomType"],
		"properties": {
			"guestName": ` + nonEmpty + `,
			"checkin": {"type": "string", "format": "date-time"},
			"nights": {"type": "integer", "minimum": 1},
			"roomType": ` + nonEmpty + `
		}
	}`,
	ContractCalendar: `{
		"type": "object",
		"required": ["guestName", "events"],
		"properties": {
			"guestName": ` + nonEmpty + `,
			"events": {
				"type": "array",
				"minItems": 1,
				"items": {
					"type": "object",
					"required": ["title", "date", "note"],
					"properties": {
						"title": ` + nonEmpty + `,
						"date": {"type": "string", "format": "date-time"},
						"note": {"type": "string"}
					}
				}
			}
		}
	}`,
	ContractSummary: `{
		"type": "object",
		"required": ["apiKey", "message"],
		"properties": {
			"apiKey": ` + nonEmpty + `,
			"message": ` + nonEmpty + `
		}
	}`,
}

var compiledContracts = compileContracts()

func compileContracts() map[Contract]*gojsonschema.Schema {
	compiled := make(map[Contract]*gojsonschema.Schema, len(contractSchemas))

	for name, source := range contractSchemas {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(source))
		if err != nil {
			panic(fmt.Sprintf("invalid contract schema %s: %v", name, err))
		}

		compiled[name] = schema
	}

	return compiled
}

// CheckContract validates body against the named contract.
func CheckContract(contract Contract, body any) error {
	schema, ok := compiledContracts[contract]
	if !ok {
		return fmt.Errorf("%w: unknown contract %q", ErrContractViolation, contract)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(body))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrContractViolation, err)
	}

	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}

	return fmt.Errorf("%w: %s: %s", ErrContractViolation, contract, strings.Join(problems, "; "))
}
