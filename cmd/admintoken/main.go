// Package main provides admintoken, which mints a bearer token for the
// /v1/admin endpoints using the configured signing key.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/mumbaitransit/mumbaitransit/internal/auth"
	"github.com/mumbaitransit/mumbaitransit/internal/config"
)

func main() {
	subject := flag.String("subject", "", "who the token is for, e.g. an operator email")
	role := flag.String("role", string(auth.RoleOperator), "operator or admin")
	ttl := flag.Duration("ttl", auth.DefaultTokenExpiry, "token lifetime")
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to the YAML config file")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().
		Timestamp().
		Str("service", "admintoken").
		Logger()

	if *subject == "" {
		log.Fatal().Msg("-subject is required")
	}

	r := auth.Role(*role)
	if r != auth.RoleOperator && r != auth.RoleAdmin {
		log.Fatal().Str("role", *role).Msg("role must be operator or admin")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: cfg.Auth.SigningKey,
		Issuer:     cfg.Auth.Issuer,
		Audience:   cfg.Auth.Audience,
	})

	token, expiresAt, err := jwtService.GenerateAccessToken(*subject, r, *ttl)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to generate token")
	}

	log.Info().
		Str("subject", *subject).
		Str("role", string(r)).
		Time("expires_at", expiresAt.UTC().Truncate(time.Second)).
		Msg("admin token issued")

	fmt.Println(token)
}
