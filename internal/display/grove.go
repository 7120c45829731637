package display

import (
	"time"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"

	"github.com/luki/envmon/internal/format"
)

const (
	// TextAddr is the I2C address of the character controller.
	TextAddr = 0x3e
	// RGBAddr is the I2C address of the backlight controller.
	RGBAddr = 0x62

	regCommand = 0x80
	regData    = 0x40

	cmdClear     = 0x01
	cmdDisplayOn = 0x08 | 0x04 // display on, no cursor
	cmdTwoLines  = 0x28
	cmdRowTwo    = 0xc0

	lcdSettle = 50 * time.Millisecond
)

// GroveLCD is the Grove RGB backlit 16x2 LCD.
type GroveLCD struct {
	text   i2c.Dev
	rgb    i2c.Dev
	closer i2c.BusCloser
	settle time.Duration
}

// OpenGroveLCD opens the named I2C bus ("" for the default one). periph's
// host.Init must have run.
func OpenGroveLCD(busName string) (*GroveLCD, error) {
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, errors.Wrapf(err, "open i2c bus %q", busName)
	}
	l := NewGroveLCD(bus)
	l.closer = bus
	return l, nil
}

// NewGroveLCD uses an already opened bus. The bus is not closed by Close.
func NewGroveLCD(bus i2c.Bus) *GroveLCD {
	return &GroveLCD{
		text:   i2c.Dev{Bus: bus, Addr: TextAddr},
		rgb:    i2c.Dev{Bus: bus, Addr: RGBAddr},
		settle: lcdSettle,
	}
}

// SetColor programs the PWM backlight.
func (l *GroveLCD) SetColor(c format.RGB) error {
	for _, w := range [][2]byte{
		{0x00, 0x00},
		{0x01, 0x00},
		{0x08, 0xaa},
		{0x04, c.R},
		{0x03, c.G},
		{0x02, c.B},
	} {
		if err := l.rgb.Tx(w[:], nil); err != nil {
			return errors.Wrapf(err, "lcd backlight %s", c)
		}
	}
	return nil
}

// SetText clears the display and writes text, wrapping to the second row
// after 16 characters or at '\n'. Anything beyond two rows is dropped.
func (l *GroveLCD) SetText(text string) error {
	if err := l.command(cmdClear); err != nil {
		return err
	}
	time.Sleep(l.settle)
	if err := l.command(cmdDisplayOn); err != nil {
		return err
	}
	if err := l.command(cmdTwoLines); err != nil {
		return err
	}
	time.Sleep(l.settle)

	lines := format.Lines(text)
	if err := l.write(lines[0]); err != nil {
		return err
	}
	if lines[1] == "" {
		return nil
	}
	if err := l.command(cmdRowTwo); err != nil {
		return err
	}
	return l.write(lines[1])
}

// Close releases the bus if OpenGroveLCD opened it.
func (l *GroveLCD) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func (l *GroveLCD) command(cmd byte) error {
	if err := l.text.Tx([]byte{regCommand, cmd}, nil); err != nil {
		return errors.Wrapf(err, "lcd command %#x", cmd)
	}
	return nil
}

func (l *GroveLCD) write(s string) error {
	for _, r := range s {
		b := byte('?')
		if r < 0x100 {
			b = byte(r)
		}
		if err := l.text.Tx([]byte{regData, b}, nil); err != nil {
			return errors.Wrap(err, "lcd write")
		}
	}
	return nil
}
