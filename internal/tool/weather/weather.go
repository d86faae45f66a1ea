// Package weather provides the bundled get_weather demo tool.
package weather

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"

	"github.com/Cyclone1070/piperun/internal/orchestrator/adapter"
	"github.com/Cyclone1070/piperun/internal/pipe/models"
)

// Request are the get_weather arguments.
type Request struct {
	City string `mapstructure:"city"`
	Unit string `mapstructure:"unit"`
}

// Validate implements adapter.Validator
func (r Request) Validate() error {
	if strings.TrimSpace(r.City) == "" {
		return errEmptyCity
	}
	return nil
}

// Response is the get_weather result.
type Response struct {
	City        string `json:"city"`
	Temperature int    `json:"temperature"`
	Unit        string `json:"unit"`
	Conditions  string `json:"conditions"`
}

var errEmptyCity = errors.New("city must not be empty")

var conditions = []string{"sunny", "cloudy", "rainy", "windy", "foggy"}

// New returns the get_weather tool. The report is synthesized
// deterministically from the city name; the tool exists to demonstrate
// and test the tool-execution loop, not to forecast.
func New() adapter.Tool {
	return adapter.NewTypedTool(
		"get_weather",
		"Returns the current weather for a city",
		&models.ParameterSchema{
			Type: "object",
			Properties: map[string]models.PropertySchema{
				"city": {
					Type:        "string",
					Description: "City name",
				},
				"unit": {
					Type:        "string",
					Description: "Temperature unit",
					Enum:        []string{"celsius", "fahrenheit"},
				},
			},
			Required: []string{"city"},
		},
		run,
	)
}

func run(_ context.Context, req Request) (Response, error) {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(req.City))))
	seed := h.Sum32()

	temp := int(seed%35) - 5
	unit := req.Unit
	if unit == "" {
		unit = "celsius"
	}
	if unit == "fahrenheit" {
		temp = temp*9/5 + 32
	}

	return Response{
		City:        req.City,
		Temperature: temp,
		Unit:        unit,
		Conditions:  conditions[seed%uint32(len(conditions))],
	}, nil
}
