package sim

import "github.com/chenzhuoyu/KeyboardBootloader/hal"

// GPIO is an in-memory hal.GPIO. A test sets the button state with
// SetButton and reads the current indicator state with RedState/BlueState.
type GPIO struct {
	buttonConfigured     bool
	indicatorsConfigured bool
	buttonHeld           bool

	red  bool
	blue bool
}

// NewGPIO returns a GPIO with the button released and both indicators off.
func NewGPIO() *GPIO { return &GPIO{} }

func (g *GPIO) ConfigureButton()     { g.buttonConfigured = true }
func (g *GPIO) ConfigureIndicators() { g.indicatorsConfigured = true }

func (g *GPIO) ButtonPressed() bool { return g.buttonHeld }

func (g *GPIO) SetIndicator(led hal.Indicator, on bool) {
	switch led {
	case hal.IndicatorRed:
		g.red = on
	case hal.IndicatorBlue:
		g.blue = on
	}
}

// SetButton sets whether the button reads as held (active-low, already
// decoded to a boolean at this layer).
func (g *GPIO) SetButton(held bool) { g.buttonHeld = held }

// RedState reports the current red indicator state.
func (g *GPIO) RedState() bool { return g.red }

// BlueState reports the current blue indicator state.
func (g *GPIO) BlueState() bool { return g.blue }
