// Package config loads typed configuration structs from the environment.
//
// Values come from the process environment, optionally seeded from dotenv
// files via github.com/joho/godotenv, and are parsed with
// github.com/caarlos0/env/v11 using `env` / `envDefault` struct tags. Each
// component declares its own Config struct next to its code; cmd/server loads
// them at startup with MustLoad so a bad value stops the process.
package config
