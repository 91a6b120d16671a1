package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config is the uv.json project file: the root requirements to resolve,
// and (for this demo binary, since real index access is out of scope) a
// closed fixture registry standing in for a package index response.
type Config struct {
	Requirements []string         `json:"requirements"`
	Registry     []fixturePackage `json:"registry"`
}

var ErrConfigNotFound = errors.New("uv.json not found (or in any of the parent directories)")

// ReadConfig finds and reads uv.json by searching from the current
// directory upward through its parents, mirroring how the project file
// used to be located.
func ReadConfig() (*Config, error) {
	path, err := findConfig()
	if err != nil {
		return nil, err
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func findConfig() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		path := filepath.Join(dir, "uv.json")
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			parent := filepath.Dir(dir)
			if parent == dir {
				return "", ErrConfigNotFound
			}
			dir = parent
			continue
		} else if err != nil {
			return "", err
		}
		return path, nil
	}
}
