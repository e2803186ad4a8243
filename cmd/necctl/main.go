package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/necctl/internal/display"
	"github.com/danmuck/necctl/internal/logging"
	"github.com/danmuck/necctl/internal/protocol/nec"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "necctl: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	address    string
	port       string
	power      string
	backlight  int
	timeout    time.Duration
	verbose    bool
}

func parseOptions(args []string) (options, error) {
	opts := options{backlight: -1}
	fs := flag.NewFlagSet("necctl", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "path to a TOML config file")
	fs.StringVar(&opts.address, "address", "", "display address to connect to")
	fs.StringVar(&opts.address, "a", "", "shorthand for -address")
	fs.StringVar(&opts.port, "port", "", "display port to connect to")
	fs.StringVar(&opts.power, "power", "", "set power to on or off")
	fs.StringVar(&opts.power, "p", "", "shorthand for -power")
	fs.IntVar(&opts.backlight, "backlight", -1, "set backlight to a specific value (0-100)")
	fs.IntVar(&opts.backlight, "b", -1, "shorthand for -backlight")
	fs.DurationVar(&opts.timeout, "timeout", 0, "reply timeout (default from config)")
	fs.BoolVar(&opts.verbose, "verbose", false, "speak more to me")
	fs.BoolVar(&opts.verbose, "v", false, "shorthand for -verbose")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if err := validateOptions(opts); err != nil {
		return options{}, err
	}
	return opts, nil
}

func validateOptions(opts options) error {
	switch opts.power {
	case "", "on", "off":
	default:
		return fmt.Errorf("power must be on or off, got %q", opts.power)
	}
	if opts.backlight != -1 &&
		(opts.backlight < nec.BacklightMin || opts.backlight > nec.BacklightMax) {
		return fmt.Errorf("backlight must be %d..%d, got %d",
			nec.BacklightMin, nec.BacklightMax, opts.backlight)
	}
	if opts.power == "" && opts.backlight == -1 {
		return errors.New("nothing to do: pass -power and/or -backlight")
	}
	return nil
}

func run(args []string) error {
	opts, err := parseOptions(args)
	if err != nil {
		return err
	}
	logging.ConfigureRuntime()
	if opts.verbose {
		logging.SetDebug()
	}

	settings, err := loadSettings(opts.configPath)
	if err != nil {
		return err
	}
	settings.applyOptions(opts)
	cfg := settings.clientConfig()

	log.Info().Str("addr", cfg.Addr).Msg("connecting to display")
	client, err := display.Dial(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer client.Close()
	log.Debug().Msg("connected")

	ctx := context.Background()
	if opts.power != "" {
		reply, err := client.Power(ctx, opts.power == "on")
		if err != nil {
			return err
		}
		log.Info().
			Str("payload", hex.EncodeToString(reply.Payload)).
			Msgf("power %s acknowledged", opts.power)
	}
	if opts.backlight != -1 {
		reply, err := client.SetBacklight(ctx, opts.backlight)
		if err != nil {
			return err
		}
		log.Info().
			Int("level", opts.backlight).
			Str("payload", hex.EncodeToString(reply.Payload)).
			Msg("backlight acknowledged")
	}
	return nil
}
