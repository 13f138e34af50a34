// Package config loads and saves icp.Options as YAML, the session
// configuration surface spec §6 adds to the registration core.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kwv/rgbdicp/icp"
)

// Document is the YAML-serializable form of icp.Options. Field names are
// lower_snake_case on the wire to match the spec's option names.
type Document struct {
	Nr                     int     `yaml:"nr"`
	Alpha                  float32 `yaml:"alpha"`
	C                      float64 `yaml:"c"`
	MaxIterations          int     `yaml:"max_iterations"`
	AngleThresholdDeg      float64 `yaml:"angle_threshold_deg"`
	TranslationThresholdMm float64 `yaml:"translation_threshold_mm"`
	RotationSolver         string  `yaml:"rotation_solver"`
	Weighting              string  `yaml:"weighting"`
}

// Load reads a YAML session-options file from path.
func Load(path string) (icp.Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return icp.Options{}, fmt.Errorf("config file not found: %s", path)
		}
		return icp.Options{}, fmt.Errorf("reading config file: %w", err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return icp.Options{}, fmt.Errorf("parsing config YAML: %w", err)
	}

	return fromDocument(doc)
}

// Save writes opts to path as YAML.
func Save(path string, opts icp.Options) error {
	doc := toDocument(opts)
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling config YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func toDocument(opts icp.Options) Document {
	return Document{
		Nr:                     opts.Nr,
		Alpha:                  opts.Alpha,
		C:                      opts.C,
		MaxIterations:          opts.MaxIterations,
		AngleThresholdDeg:      opts.AngleThresholdDeg,
		TranslationThresholdMm: opts.TranslationThresholdMm,
		RotationSolver:         rotationSolverName(opts.RotationSolver),
		Weighting:              weightingName(opts.Weighting),
	}
}

func fromDocument(doc Document) (icp.Options, error) {
	solver, err := parseRotationSolver(doc.RotationSolver)
	if err != nil {
		return icp.Options{}, err
	}
	weighting, err := parseWeighting(doc.Weighting)
	if err != nil {
		return icp.Options{}, err
	}

	opts := icp.Options{
		Nr:                     doc.Nr,
		Alpha:                  doc.Alpha,
		C:                      doc.C,
		MaxIterations:          doc.MaxIterations,
		AngleThresholdDeg:      doc.AngleThresholdDeg,
		TranslationThresholdMm: doc.TranslationThresholdMm,
		RotationSolver:         solver,
		Weighting:              weighting,
	}
	if opts.Nr <= 0 {
		return icp.Options{}, fmt.Errorf("config: nr must be positive")
	}
	if opts.MaxIterations <= 0 {
		return icp.Options{}, fmt.Errorf("config: max_iterations must be positive")
	}
	return opts, nil
}

func rotationSolverName(s icp.RotationSolver) string {
	if s == icp.RotationSolverSVD {
		return "svd"
	}
	return "power_method"
}

func parseRotationSolver(name string) (icp.RotationSolver, error) {
	switch name {
	case "", "power_method":
		return icp.RotationSolverPowerMethod, nil
	case "svd":
		return icp.RotationSolverSVD, nil
	default:
		return 0, fmt.Errorf("config: unknown rotation_solver %q", name)
	}
}

func weightingName(w icp.Weighting) string {
	if w == icp.WeightingNone {
		return "none"
	}
	return "weighted"
}

func parseWeighting(name string) (icp.Weighting, error) {
	switch name {
	case "", "weighted":
		return icp.WeightingWeighted, nil
	case "none":
		return icp.WeightingNone, nil
	default:
		return 0, fmt.Errorf("config: unknown weighting %q", name)
	}
}
