package settings

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// FrameLayout identifies the rotor geometry of the vehicle. It is
// stored as a string in the settings file and translated to a typed
// value on load.
type FrameLayout int

const (
	// Layout4X is a quadrotor in X configuration.
	Layout4X FrameLayout = iota
	// Layout4Plus is a quadrotor in plus configuration.
	Layout4Plus
	// Layout6X is a hexrotor in X configuration.
	Layout6X
	// Layout8X is an octorotor in X configuration.
	Layout8X
	// Layout6DOFRotorbits is the fully-actuated six-rotor test frame.
	Layout6DOFRotorbits
)

var layoutNames = map[FrameLayout]string{
	Layout4X:            "4x",
	Layout4Plus:         "4plus",
	Layout6X:            "6x",
	Layout8X:            "8x",
	Layout6DOFRotorbits: "6dof_rotorbits",
}

var layoutValues = map[string]FrameLayout{
	"4x":             Layout4X,
	"4plus":          Layout4Plus,
	"6x":             Layout6X,
	"8x":             Layout8X,
	"6dof_rotorbits": Layout6DOFRotorbits,
}

// String returns the settings-file spelling of the layout.
func (l FrameLayout) String() string {
	if name, ok := layoutNames[l]; ok {
		return name
	}
	return fmt.Sprintf("FrameLayout(%d)", int(l))
}

// Rotors returns the number of rotors for the layout.
func (l FrameLayout) Rotors() int {
	switch l {
	case Layout4X, Layout4Plus:
		return 4
	case Layout6X, Layout6DOFRotorbits:
		return 6
	case Layout8X:
		return 8
	default:
		return 0
	}
}

// DOF returns the number of controllable degrees of freedom.
func (l FrameLayout) DOF() int {
	if l == Layout6DOFRotorbits {
		return 6
	}
	return 4
}

// ParseFrameLayout translates a settings-file layout string.
func ParseFrameLayout(s string) (FrameLayout, error) {
	if l, ok := layoutValues[s]; ok {
		return l, nil
	}
	return 0, fmt.Errorf("unknown frame layout %q", s)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *FrameLayout) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseFrameLayout(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (l FrameLayout) MarshalYAML() (any, error) {
	name, ok := layoutNames[l]
	if !ok {
		return nil, fmt.Errorf("invalid frame layout %d", int(l))
	}
	return name, nil
}
