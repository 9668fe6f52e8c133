package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/noriah/pitchline"
	"github.com/noriah/pitchline/graphic"
	"github.com/noriah/pitchline/output"
	"github.com/noriah/pitchline/quote"
	"github.com/noriah/pitchline/series"

	_ "github.com/noriah/pitchline/output/all"

	"github.com/integrii/flaggy"
)

// AppName is the app name
const AppName = "pitchline"

// AppDesc is the app description
const AppDesc = "Terminal price chart you can hear"

// AppSite is the app website
const AppSite = "https://github.com/noriah/pitchline"

var version = "unknown"

func main() {
	log.SetFlags(0)

	cfg := pitchline.NewZeroConfig()
	chk(cfg.LoadEnv(), "failed to load config")

	var raw bool
	styles := graphic.DefaultStyles()

	if doFlags(&cfg, &styles, &raw) {
		return
	}

	chk(cfg.Validate(), "invalid config")

	if raw {
		cfg.Output = NewRawOutput(os.Stdout)
	} else {
		display := &graphic.Display{}

		cfg.Output = display
		cfg.SetupFunc = func() error {
			if err := display.Init(); err != nil {
				return err
			}

			display.SetStyles(styles)
			display.SetStatus("space play/pause  arrows step  s sound  m mode  +/- volume  1-3 demos  q quit")

			return nil
		}
		cfg.StartFunc = func(ctx context.Context, actions graphic.Actions) (context.Context, error) {
			return display.Start(ctx, actions), nil
		}
		cfg.CleanupFunc = func() error {
			display.Stop()
			return display.Close()
		}
	}

	// Root Context
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	chk(pitchline.Run(&cfg, ctx), "failed to run pitchline")
}

func doFlags(cfg *pitchline.Config, styles *graphic.Styles, raw *bool) bool {

	parser := flaggy.NewParser(AppName)
	parser.Description = AppDesc
	parser.AdditionalHelpPrepend = AppSite
	parser.AdditionalHelpAppend = "\nsettings are read from $" + pitchline.ConfigEnv + " first, flags override them"
	parser.Version = version

	listBackendsCmd := flaggy.Subcommand{
		Name:                 "list-backends",
		ShortName:            "lb",
		Description:          "list all supported output backends",
		AdditionalHelpAppend: "\nuse the full name after the '-'",
	}

	parser.AttachSubcommand(&listBackendsCmd, 1)

	listDevicesCmd := flaggy.Subcommand{
		Name:                 "list-devices",
		ShortName:            "ld",
		Description:          "list all devices for a backend",
		AdditionalHelpAppend: "\nuse the full name after the '-'",
	}

	parser.AttachSubcommand(&listDevicesCmd, 1)

	listDemosCmd := flaggy.Subcommand{
		Name:        "list-demos",
		ShortName:   "lm",
		Description: "list the demo datasets and live symbols",
	}

	parser.AttachSubcommand(&listDemosCmd, 1)

	parser.String(&cfg.Backend, "b", "backend", "backend name")
	parser.String(&cfg.Device, "d", "device", "device name")
	parser.Float64(&cfg.SampleRate, "r", "rate", "sample rate")
	parser.Int(&cfg.ChannelCount, "ch", "channels", "channel count (1 or 2)")
	parser.Duration(&cfg.Interval, "i", "interval", "time between playback steps")
	parser.Bool(&cfg.Autoplay, "p", "play", "start playing right away")
	parser.String(&cfg.Mode, "m", "mode", "map price or delta to pitch")
	parser.Float64(&cfg.BaseFreq, "bf", "base", "lowest pitch in Hz")
	parser.Float64(&cfg.Span, "sp", "span", "pitch range above the base in Hz")
	parser.Float64(&cfg.Volume, "vo", "volume", "peak gain [0, 1]")
	parser.Bool(&cfg.Sound, "s", "sound", "enable sound on start")
	parser.String(&cfg.File, "f", "file", "CSV file with a date and close column")
	parser.String(&cfg.Demo, "dm", "demo", "demo dataset (see list-demos)")
	parser.Int64(&cfg.Seed, "sd", "seed", "demo data seed (0 for random)")
	parser.String(&cfg.Symbol, "sy", "symbol", "symbol for candles and live quotes")
	parser.String(&cfg.Timeframe, "tf", "timeframe", "fetch candles: 1D, 5D, 1M, 6M, YTD, 1Y, 5Y")
	parser.Bool(&cfg.Live, "l", "live", "poll live quotes ($"+quote.KeyEnv+")")
	parser.Duration(&cfg.PollInterval, "pi", "poll", "time between live quote refreshes")
	parser.Bool(raw, "raw", "raw", "print lines instead of drawing")

	fg, bg, marker := styles.AsUInt16s()
	parser.UInt16(&fg, "fg", "foreground",
		"foreground color within the 256-color range [0, 255] with attributes")
	parser.UInt16(&bg, "bg", "background",
		"background color within the 256-color range [0, 255] with attributes")
	parser.UInt16(&marker, "mk", "marker",
		"marker color within the 256-color range [0, 255] with attributes")

	chk(parser.Parse(), "failed to parse arguments")

	// Manually set the styles.
	*styles = graphic.StylesFromUInt16(fg, bg, marker)

	switch {
	case listBackendsCmd.Used:
		for _, name := range output.Names() {
			fmt.Printf("- %s\n", name)
		}

		return true

	case listDevicesCmd.Used:
		name := cfg.Backend
		if name == "" {
			name = output.DefaultBackend()
		}

		backend, err := output.Open(name)
		chk(err, "failed to init backend")
		defer backend.Close()

		devices, err := backend.Devices()
		chk(err, "failed to get devices")

		// We don't really need the default device to be indicated.
		defaultDevice, _ := backend.DefaultDevice()

		fmt.Printf("all devices for %q backend. '*' marks default\n", name)

		for idx := range devices {
			star := ' '
			if defaultDevice != nil && devices[idx].String() == defaultDevice.String() {
				star = '*'
			}

			fmt.Printf("- %v %c\n", devices[idx], star)
		}

		return true

	case listDemosCmd.Used:
		fmt.Println("demo datasets (-dm, keys 1-3):")
		for idx, key := range series.DemoKeys() {
			fmt.Printf("- %d %s\n", idx+1, key)
		}

		fmt.Println("live symbols (-sy):")
		for _, sym := range quote.Symbols {
			fmt.Printf("- %s %s (%s)\n", sym.Key, sym.Name, sym.Finnhub)
		}

		return true
	}

	return false
}

func chk(err error, wrap string) {
	if err != nil {
		log.Fatalln(wrap+": ", err)
	}
}
