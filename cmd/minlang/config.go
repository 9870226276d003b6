package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const configSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"cache": {"type": "string"},
		"noColor": {"type": "boolean"}
	},
	"additionalProperties": false
}`

// Config holds the default CLI flags an optional .minlang.json project
// file can set, validated against configSchema before use the same way
// core/types/jsonschema.go validates opal decorator schemas.
type Config struct {
	Cache   string `json:"cache"`
	NoColor bool   `json:"noColor"`
}

// loadConfig reads and validates .minlang.json in the current directory.
// A missing file returns a zero Config with no error: the config file is
// optional.
func loadConfig() (Config, error) {
	data, err := os.ReadFile(".minlang.json")
	if os.IsNotExist(err) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading .minlang.json: %w", err)
	}

	schema, err := jsonschema.CompileString("minlang.json", configSchema)
	if err != nil {
		return Config{}, fmt.Errorf("compiling config schema: %w", err)
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parsing .minlang.json: %w", err)
	}
	if err := schema.Validate(raw); err != nil {
		return Config{}, fmt.Errorf("invalid .minlang.json: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing .minlang.json: %w", err)
	}
	return cfg, nil
}
