package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/i474232898/nordic-weather/internal/client"
	"github.com/i474232898/nordic-weather/internal/client/state"
	"github.com/i474232898/nordic-weather/internal/logging"
	"github.com/i474232898/nordic-weather/internal/validation"
	"github.com/i474232898/nordic-weather/internal/weather"
)

const usage = `usage: weather-cli [flags] <command> [args]

commands:
  current <city>              current conditions (recorded in history)
  forecast <city>             5-day forecast
  coords <lat> <lon>          current conditions at a position
  favorites                   current conditions for every favorite
  favorites add <city>        add a favorite
  favorites remove <city>     remove a favorite
  history                     recent searches
  cities                      cities with canned data
  health                      server status

flags:
`

func main() {
	os.Exit(realMain(os.Args[1:]))
}

// realMain returns the exit code so deferred cleanup runs before os.Exit.
func realMain(args []string) int {
	fs := flag.NewFlagSet("weather-cli", flag.ContinueOnError)
	apiURL := fs.String("api", client.DefaultBaseURL, "Weather API base URL")
	dbPath := fs.String("db", "weather-client.db", "Path to the local favorites/history database")
	timeout := fs.Duration("timeout", client.DefaultTimeout, "Per-request timeout")
	verbose := fs.Bool("v", false, "Log requests to stderr")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	logger := zap.NewNop()
	if *verbose {
		logger = logging.Must(true)
	}
	defer func() { _ = logger.Sync() }()

	storage, err := state.OpenSQLite(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer storage.Close()

	store, err := state.NewStore(storage)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	gateway := client.NewGateway(*apiURL, *timeout)
	app := client.NewApp(gateway, store, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, app, gateway, fs.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", describe(err))
		return 1
	}
	return 0
}

func run(ctx context.Context, app *client.App, gateway *client.Gateway, args []string) error {
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "current":
		city, err := oneArg(cmd, rest)
		if err != nil {
			return err
		}
		if err := app.Search(ctx, city); err != nil {
			return err
		}
		printSnapshot(*app.State().CurrentWeather)

	case "forecast":
		city, err := oneArg(cmd, rest)
		if err != nil {
			return err
		}
		if err := app.GetForecast(ctx, city); err != nil {
			return err
		}
		printForecast(app.State().Forecast)

	case "coords":
		if len(rest) != 2 {
			return fmt.Errorf("coords needs <lat> <lon>")
		}
		snap, err := gateway.ByCoordinates(ctx, rest[0], rest[1])
		if err != nil {
			return err
		}
		printSnapshot(snap)

	case "favorites":
		return runFavorites(ctx, app, rest)

	case "history":
		for i, city := range app.State().SearchHistory {
			fmt.Printf("%2d. %s\n", i+1, city)
		}

	case "cities":
		cities, err := gateway.Cities(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, c := range cities {
			fmt.Fprintf(w, "%s\t%s\t%.4f, %.4f\n", c.Name, c.CountryCode, c.Coordinates.Lat, c.Coordinates.Lon)
		}
		return w.Flush()

	case "health":
		h, err := gateway.Health(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s mode) at %s: %s\n", h.Status, h.Mode, h.Timestamp, h.Message)
		if h.Upstream != nil {
			fmt.Printf("upstream reachable: %t (checked %s)\n", h.Upstream.Reachable, h.Upstream.CheckedAt.Format(time.RFC3339))
		}

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func runFavorites(ctx context.Context, app *client.App, args []string) error {
	if len(args) == 0 || args[0] == "list" {
		favorites := app.State().Favorites
		if len(favorites) == 0 {
			fmt.Println("no favorites yet")
			return nil
		}
		snaps := app.LoadFavorites(ctx)
		for _, s := range snaps {
			printSnapshot(s)
		}
		if missing := len(favorites) - len(snaps); missing > 0 {
			fmt.Printf("(%d favorite(s) could not be loaded)\n", missing)
		}
		return nil
	}

	city, err := oneArg("favorites "+args[0], args[1:])
	if err != nil {
		return err
	}
	switch args[0] {
	case "add":
		res := validation.ValidateCityName(city)
		if err := res.Err(); err != nil {
			return err
		}
		return app.AddFavorite(res.Sanitized)
	case "remove":
		return app.RemoveFavorite(city)
	}
	return fmt.Errorf("unknown favorites command %q", args[0])
}

func oneArg(cmd string, args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("%s needs a city", cmd)
	}
	return strings.Join(args, " "), nil
}

func describe(err error) string {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return strings.Join(verr.Messages, "; ")
	}
	return err.Error()
}

func printSnapshot(s weather.WeatherSnapshot) {
	fmt.Printf("%s, %s: %.1f°C (feels like %.1f°C), %s\n",
		s.CityName, s.CountryCode, s.Temperature, s.FeelsLike, s.ConditionDescription)
	fmt.Printf("  humidity %.0f%%  pressure %.0f hPa  wind %.1f m/s\n", s.Humidity, s.Pressure, s.WindSpeed)
}

func printForecast(f weather.Forecast) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, e := range f {
		day := time.Unix(e.ForecastAt, 0).Format("Mon 2 Jan")
		fmt.Fprintf(w, "%s\t%.0f° / %.0f°\t%s\t%.0f%% rain\n",
			day, e.TempMin, e.TempMax, e.ConditionDescription, e.PrecipitationProbability*100)
	}
	_ = w.Flush()
}
