package hass

import "log/slog"

// StateClass is Home Assistant's classification of how a sensor's value behaves over time. The zero value,
// StateClassNone, omits the state class from discovery payloads entirely. It implements fmt.Stringer and
// slog.LogValuer.
type StateClass uint8

const (
	// StateClassNone leaves the state class unset. Home Assistant will not record long-term statistics for the sensor.
	StateClassNone StateClass = iota

	// StateClassGauge indicates the state represents a measurement in present time, not a historical aggregation such
	// as statistics or a prediction of the future. Examples: current temperature, humidity or electric power. It maps
	// to Home Assistant's "measurement" state class.
	StateClassGauge

	// StateClassCounter indicates the state represents a monotonically increasing positive total which periodically
	// restarts counting from 0, e.g. a daily amount of consumed gas or lifetime energy consumption. A decreasing value
	// is interpreted as the start of a new meter cycle. It maps to Home Assistant's "total_increasing" state class.
	StateClassCounter

	// StateClassTotal indicates the state represents a total amount that can both increase and decrease, e.g. a net
	// energy meter. It maps to Home Assistant's "total" state class.
	StateClassTotal
)

// Wire values for StateClass.
const (
	StateClassMeasurementValue     = "measurement"
	StateClassTotalIncreasingValue = "total_increasing"
	StateClassTotalValue           = "total"
)

// Value returns the string Home Assistant expects for the state class, or the empty string for StateClassNone.
func (s StateClass) Value() string {
	switch s {
	case StateClassGauge:
		return StateClassMeasurementValue
	case StateClassCounter:
		return StateClassTotalIncreasingValue
	case StateClassTotal:
		return StateClassTotalValue
	default:
		return ""
	}
}

func (s StateClass) String() string {
	if v := s.Value(); v != "" {
		return v
	}

	return "none"
}

func (s StateClass) LogValue() slog.Value {
	return slog.StringValue(s.String())
}
