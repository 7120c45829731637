package sensor

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
)

const (
	// GrovePiAddr is the I2C address of the GrovePi firmware.
	GrovePiAddr = 0x04

	grovePiRegister = 1

	cmdAnalogRead = 3
	cmdPinMode    = 5
	cmdDHT        = 40

	pinInput = 0

	dhtSettle = 600 * time.Millisecond
)

var (
	// ErrIO marks a failed bus transaction.
	ErrIO = errors.New("i2c i/o")
	// ErrProtocol marks an answer the firmware should never send.
	ErrProtocol = errors.New("grovepi protocol")
)

// GrovePiConfig selects the ports the sensors are plugged into.
type GrovePiConfig struct {
	DHTPort   byte // digital port of the DHT sensor, e.g. 7 for D7
	DHTType   byte // 0 = DHT11 (blue), 1 = DHT22 (white)
	LightPort byte // analog port of the light sensor, e.g. 0 for A0
}

// GrovePi talks to a DHT and a light sensor through the GrovePi board.
type GrovePi struct {
	dev    i2c.Dev
	closer i2c.BusCloser
	cfg    GrovePiConfig
	settle time.Duration
}

// OpenGrovePi opens the named I2C bus ("" for the default one) and sets the
// light port up as an input. periph's host.Init must have run.
func OpenGrovePi(busName string, cfg GrovePiConfig) (*GrovePi, error) {
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, errors.Wrapf(err, "open i2c bus %q", busName)
	}
	g, err := NewGrovePi(bus, cfg)
	if err != nil {
		bus.Close()
		return nil, err
	}
	g.closer = bus
	return g, nil
}

// NewGrovePi uses an already opened bus. The bus is not closed by Close.
func NewGrovePi(bus i2c.Bus, cfg GrovePiConfig) (*GrovePi, error) {
	g := &GrovePi{
		dev:    i2c.Dev{Bus: bus, Addr: GrovePiAddr},
		cfg:    cfg,
		settle: dhtSettle,
	}
	if err := g.command(cmdPinMode, cfg.LightPort, pinInput, 0); err != nil {
		return nil, errors.Wrapf(err, "grovepi pinMode A%d", cfg.LightPort)
	}
	return g, nil
}

// Weather triggers a DHT measurement and reads back two little-endian
// float32 values. Out-of-range pairs come back as NaN, like the firmware
// library does.
func (g *GrovePi) Weather(ctx context.Context) (Reading, error) {
	if err := g.command(cmdDHT, g.cfg.DHTPort, g.cfg.DHTType, 0); err != nil {
		return Reading{}, errors.Wrapf(err, "grovepi dht D%d", g.cfg.DHTPort)
	}
	if err := sleep(ctx, g.settle); err != nil {
		return Reading{}, err
	}
	b, err := g.read(9)
	if err != nil {
		return Reading{}, errors.Wrapf(err, "grovepi dht D%d", g.cfg.DHTPort)
	}
	t := round2(float64(math.Float32frombits(binary.LittleEndian.Uint32(b[1:5]))))
	h := round2(float64(math.Float32frombits(binary.LittleEndian.Uint32(b[5:9]))))
	if !(t > -100 && t < 150 && h >= 0 && h <= 100) {
		t, h = math.NaN(), math.NaN()
	}
	return Reading{TemperatureC: t, HumidityPct: h, Time: time.Now()}, nil
}

// Light reads the analog port.
func (g *GrovePi) Light(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return math.NaN(), err
	}
	if err := g.command(cmdAnalogRead, g.cfg.LightPort, 0, 0); err != nil {
		return math.NaN(), errors.Wrapf(err, "grovepi analogRead A%d", g.cfg.LightPort)
	}
	b, err := g.read(3)
	if err != nil {
		return math.NaN(), errors.Wrapf(err, "grovepi analogRead A%d", g.cfg.LightPort)
	}
	raw := binary.BigEndian.Uint16(b[1:3])
	if raw > 1023 {
		return math.NaN(), errors.Wrapf(ErrProtocol, "analogRead A%d returned %d", g.cfg.LightPort, raw)
	}
	return float64(raw), nil
}

// Close releases the bus if OpenGrovePi opened it.
func (g *GrovePi) Close() error {
	if g.closer == nil {
		return nil
	}
	return g.closer.Close()
}

func (g *GrovePi) command(cmd, a, b, c byte) error {
	if err := g.dev.Tx([]byte{grovePiRegister, cmd, a, b, c}, nil); err != nil {
		return ioError(err)
	}
	return nil
}

// read mirrors the firmware handshake: one dummy byte read, then a block
// read from the command register.
func (g *GrovePi) read(n int) ([]byte, error) {
	var dummy [1]byte
	if err := g.dev.Tx(nil, dummy[:]); err != nil {
		return nil, ioError(err)
	}
	b := make([]byte, n)
	if err := g.dev.Tx([]byte{grovePiRegister}, b); err != nil {
		return nil, ioError(err)
	}
	return b, nil
}

func ioError(err error) error {
	return fmt.Errorf("%w: %w", ErrIO, err)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
