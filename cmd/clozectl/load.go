package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mind-engage/mindengage-cloze/internal/exercise"
)

// loadExercises reads every exercise in path. JSON files hold one exercise
// or an array; YAML files may hold several documents.
func loadExercises(path string) ([]exercise.Exercise, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return decodeJSON(b)
	case ".yaml", ".yml":
		return decodeYAML(b)
	default:
		return nil, fmt.Errorf("%s: unsupported file type (want .json, .yaml or .yml)", path)
	}
}

func decodeJSON(b []byte) ([]exercise.Exercise, error) {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var list []exercise.Exercise
		if err := json.Unmarshal(b, &list); err != nil {
			return nil, err
		}
		return list, nil
	}
	var e exercise.Exercise
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, err
	}
	return []exercise.Exercise{e}, nil
}

func decodeYAML(b []byte) ([]exercise.Exercise, error) {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	var out []exercise.Exercise
	for {
		var e exercise.Exercise
		err := dec.Decode(&e)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if len(out) == 0 {
		return nil, errors.New("no exercises in file")
	}
	return out, nil
}
