package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/subtlepseudonym/solarpos"
	"github.com/subtlepseudonym/solarpos/config"
	"github.com/subtlepseudonym/solarpos/solar"
)

const (
	configEnv = "SOLARPOS_CONFIG"
)

type flags struct {
	config   *string
	lat, lon *float64
	timeStr  *string
	table    *time.Duration
	serve    *bool
	showHelp *bool
}

func defineFlags() flags {
	return flags{
		config:   flag.String("config", os.Getenv(configEnv), "Config file path (JSON or YAML)"),
		lat:      flag.Float64("lat", 0.0, "Observer latitude in degrees, north positive"),
		lon:      flag.Float64("lon", 0.0, "Observer longitude in degrees, east positive"),
		timeStr:  flag.String("time", "", "Time in RFC3339 format (e.g., 2025-08-02T15:04:05Z); defaults to now"),
		table:    flag.Duration("table", 0, "Print a table for the UTC day of -time at this step (e.g., 30m)"),
		serve:    flag.Bool("serve", false, "Run scheduled jobs and serve positions over HTTP"),
		showHelp: flag.Bool("h", false, "Show this help message"),
	}
}

func printHelp() {
	fmt.Fprintf(os.Stderr, `solarpos - geometric solar position

Usage:
  %[1]s [options]

`, os.Args[0])

	printGroup("Observer", []string{"config", "lat", "lon"})
	printGroup("Output", []string{"time", "table"})
	printGroup("Daemon", []string{"serve"})
	printGroup("Misc", []string{"h"})
}

func printGroup(title string, keys []string) {
	fmt.Fprintf(os.Stderr, "%s:\n", title)
	for _, name := range keys {
		if f := flag.Lookup(name); f != nil {
			fmt.Fprintf(os.Stderr, "  -%-8s %s (default %q)\n", f.Name, f.Usage, f.DefValue)
		}
	}
	fmt.Fprintln(os.Stderr)
}

func main() {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("ERR: load .env: %s", err)
	}

	// manually set local timezone for docker container
	if tz := os.Getenv("TZ"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			log.Fatalf("ERR: load tz location: %s", err)
		}
		time.Local = loc
	}

	cfgFlags := defineFlags()
	flag.Usage = printHelp
	flag.Parse()

	if *cfgFlags.showHelp {
		printHelp()
		return
	}

	cfg := config.Default()
	if *cfgFlags.config != "" {
		cfg, err = config.Open(*cfgFlags.config)
		if err != nil {
			log.Fatalf("ERR: read config file failed: %s", err)
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "lat":
			cfg.Location.Latitude = *cfgFlags.lat
		case "lon":
			cfg.Location.Longitude = *cfgFlags.lon
		}
	})

	err = cfg.Validate()
	if err != nil {
		log.Fatalf("ERR: invalid config: %s", err)
	}

	var calc solar.Calculator
	switch {
	case *cfgFlags.serve:
		err = serve(cfg, calc)
	case *cfgFlags.table > 0:
		err = printTable(cfg.Location, calc, parseTimeOrExit(*cfgFlags.timeStr), *cfgFlags.table)
	default:
		err = printPosition(cfg.Location, calc, parseTimeOrExit(*cfgFlags.timeStr))
	}
	if err != nil {
		log.Fatalf("ERR: %s", err)
	}
}

func parseTimeOrExit(timeStr string) time.Time {
	if timeStr == "" {
		return time.Now()
	}
	t, err := time.Parse(time.RFC3339, timeStr)
	if err != nil {
		log.Fatalf("ERR: invalid time format: %s", err)
	}
	return t
}

func printPosition(location solarpos.Location, calc solar.Calculator, t time.Time) error {
	pos, err := calc.Position(t, location.Observer())
	if err != nil {
		return fmt.Errorf("compute position: %w", err)
	}
	if pos.AzimuthUndefined {
		log.Printf("WARN: sun at zenith, azimuth undefined")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(solarpos.NewPositionResponse(t, location, pos))
}

func printTable(location solarpos.Location, calc solar.Calculator, t time.Time, step time.Duration) error {
	year, month, day := t.UTC().Date()
	start := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	end := start.Add(24*time.Hour - time.Nanosecond)

	samples, err := calc.Table(context.Background(), location.Observer(), start, end, step)
	if err != nil {
		return fmt.Errorf("compute table: %w", err)
	}

	fmt.Printf("%-20s %10s %10s %10s %10s\n", "time", "altitude", "azimuth", "decl", "distance")
	for _, sample := range samples {
		pos := sample.Position
		fmt.Printf(
			"%-20s %10.4f %10.4f %10.4f %10.6f\n",
			sample.Time.Format(time.RFC3339),
			pos.Altitude.Deg(),
			pos.Azimuth.Deg(),
			pos.Declination.Deg(),
			pos.Distance,
		)
	}
	return nil
}

func serve(cfg *config.Config, calc solar.Calculator) error {
	now := time.Now() // used for logging cron entries
	jobCron := cron.New()
	for _, job := range cfg.Jobs {
		schedule, err := solarpos.ParseSchedule(job.Schedule, cfg.Location)
		if err != nil {
			return fmt.Errorf("job %q: %w", job.Name, err)
		}

		positionJob := solarpos.PositionJob{
			Name:       job.Name,
			Location:   cfg.Location,
			Calculator: calc,
		}
		jobCron.Schedule(schedule, positionJob)

		log.Printf("job: %s: %s", schedule.Next(now).Local().Format(time.RFC3339), job.Name)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/position", solarpos.PositionHandler(cfg.Location, calc))

	srv := http.Server{
		Addr:    cfg.Listen,
		Handler: mux,
	}
	log.Printf("listening on %s", srv.Addr)

	jobCron.Start()
	defer jobCron.Stop()
	return srv.ListenAndServe()
}
