package hass

// NumberMode controls how Home Assistant renders a number entity. The zero value is NumberModeAuto. It implements
// fmt.Stringer.
type NumberMode uint8

const (
	NumberModeAuto NumberMode = iota
	NumberModeBox
	NumberModeSlider
)

// Default range for number entities, matching Home Assistant's defaults.
const (
	DefaultNumberMin  = 0
	DefaultNumberMax  = 100
	DefaultNumberStep = 1
)

// Value returns the string Home Assistant expects for the mode. Unknown values render as "auto".
func (m NumberMode) Value() string {
	switch m {
	case NumberModeBox:
		return "box"
	case NumberModeSlider:
		return "slider"
	default:
		return "auto"
	}
}

func (m NumberMode) String() string {
	return m.Value()
}
