package main

import (
	"fmt"
	"log/slog"
	"os"

	app "github.com/rocketscienceinc/baduk-backend/internal"
	"github.com/rocketscienceinc/baduk-backend/internal/config"
)

// main - loads config from CONFIG_PATH or ./config.yml, then runs the game server until a signal arrives.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	conf := config.MustLoad(config.Path())

	level, err := conf.SlogLevel()
	if err != nil {
		panic(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	if err = app.RunApp(logger, conf); err != nil {
		panic(fmt.Errorf("app run failed: %w", err))
	}
}
