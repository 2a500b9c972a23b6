package site

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v2"
)

// LoadParams reads the whole config file as free-form params for layouts.
// A missing or unnamed file yields no params.
func LoadParams(filename string) (map[string]any, error) {
	params := map[string]any{}
	if filename == "" {
		return params, nil
	}
	data, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return params, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("error unmarshalling config file %s: %w", filename, err)
	}
	return params, nil
}
