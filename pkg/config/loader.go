// Package config parses configuration structs from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load fills cfg from the process environment. Fields declare their variable
// name and default with `env` tags:
//
//	type Config struct {
//	    Addr    string `env:"LISTEN_ADDR" envDefault:":8080"`
//	    Token   string `env:"API_TOKEN,required"`
//	}
//
// A missing `required` variable fails the load, which callers treat as a
// fatal startup condition.
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}
