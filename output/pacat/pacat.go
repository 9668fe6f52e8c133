// Package pacat plays audio through a PulseAudio (or PipeWire pulse) server
// by way of the pacat binary.
package pacat

import (
	"fmt"
	"os/exec"

	"github.com/lawl/pulseaudio"
	"github.com/noriah/pitchline/output"
	"github.com/noriah/pitchline/output/common/execwrite"
	"github.com/pkg/errors"
)

func init() {
	output.Register("pacat", 1, Backend{})
}

// LatencyMsec is the buffer size requested from the server. Blips are short,
// so anything much larger than a tick smears them.
const LatencyMsec = 30

type Backend struct{}

func (p Backend) Init() error {
	return nil
}

func (p Backend) Close() error {
	return nil
}

// Available reports whether pacat is on the PATH.
func (p Backend) Available() bool {
	_, err := exec.LookPath("pacat")
	return err == nil
}

func (p Backend) Devices() ([]output.Device, error) {
	c, err := pulseaudio.NewClient()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create client")
	}
	defer c.Close()

	s, err := c.Sinks()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sinks")
	}

	devices := make([]output.Device, len(s))
	for i, sink := range s {
		devices[i] = PulseDevice(sink.Name)
	}

	return devices, nil
}

func (p Backend) DefaultDevice() (output.Device, error) {
	c, err := pulseaudio.NewClient()
	if err != nil {
		// pacat resolves this itself.
		return PulseDevice("default"), nil
	}
	defer c.Close()

	info, err := c.ServerInfo()
	if err != nil || info.DefaultSink == "" {
		return PulseDevice("default"), nil
	}

	return PulseDevice(info.DefaultSink), nil
}

func (p Backend) Start(cfg output.SessionConfig) (output.Session, error) {
	return NewSession(cfg)
}

type PulseDevice string

func (d PulseDevice) String() string {
	return string(d)
}

func NewSession(cfg output.SessionConfig) (*execwrite.Session, error) {
	dv, ok := cfg.Device.(PulseDevice)
	if !ok {
		return nil, fmt.Errorf("invalid device type %T", cfg.Device)
	}

	if cfg.ChannelCount < 1 || cfg.ChannelCount > 2 {
		return nil, errors.New("channel count not supported, mono/stereo only")
	}

	argv := []string{
		"pacat",
		"--playback",
		"--raw",
		"--format=float32le",
		fmt.Sprintf("--rate=%.0f", cfg.SampleRate),
		fmt.Sprintf("--channels=%d", cfg.ChannelCount),
		fmt.Sprintf("--latency-msec=%d", LatencyMsec),
		"--client-name=pitchline",
	}

	if dv != "default" {
		argv = append(argv, "-d", dv.String())
	}

	return execwrite.NewSession(argv, cfg), nil
}
