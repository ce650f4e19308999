// Package main provides routegen, which writes a deterministic route fixture
// for the file route source and can seed the routes table.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/mumbaitransit/mumbaitransit/internal/config"
	"github.com/mumbaitransit/mumbaitransit/internal/database"
	"github.com/mumbaitransit/mumbaitransit/internal/route"
)

func main() {
	seed := flag.Int64("seed", 1, "random seed; the same seed always yields the same file")
	perMode := flag.Int("per-mode", 20, "generated routes per transport mode")
	withDefaults := flag.Bool("defaults", true, "include the built-in catalogue")
	out := flag.String("out", "-", "output file, - for stdout")
	seedDB := flag.Bool("postgres", false, "also replace the routes table")
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "config file for -postgres")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().
		Timestamp().
		Str("service", "routegen").
		Logger()

	routes, err := Generate(GenerateOptions{
		Seed:            *seed,
		PerMode:         *perMode,
		IncludeDefaults: *withDefaults,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to generate routes")
	}

	data, err := route.EncodeFixture(route.FixtureFile{Seed: *seed, Routes: routes})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to encode fixture")
	}

	if *out == "-" {
		_, err = os.Stdout.Write(data)
	} else {
		err = os.WriteFile(*out, data, 0o644) //nolint:gosec // fixture files are not secret
	}
	if err != nil {
		log.Fatal().Err(err).Msg("failed to write fixture")
	}

	log.Info().
		Int64("seed", *seed).
		Int("routes", len(routes)).
		Str("out", *out).
		Msg("route fixture written")

	if !*seedDB {
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database") //nolint:gocritic // cancel is best-effort
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, log); err != nil {
		log.Fatal().Err(err).Msg("failed to apply migrations")
	}
	if err := route.NewPostgresRepository(pool).Replace(ctx, routes); err != nil {
		log.Fatal().Err(err).Msg("failed to replace routes")
	}

	log.Info().
		Str("host", cfg.Database.Host).
		Int("routes", len(routes)).
		Msg("routes table replaced")
}
