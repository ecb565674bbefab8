package benchmark

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/nvr-ai/go-facemesh/decoder"
	"github.com/nvr-ai/go-facemesh/images"
)

// Resolution describes the overlay dimensions a scenario decodes into.
type Resolution struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Name   string `json:"name"`
}

// Scenario defines a single decode configuration under test.
type Scenario struct {
	Name       string       `json:"name"`
	Mode       decoder.Mode `json:"mode"`
	Input      Resolution   `json:"input"`
	Output     Resolution   `json:"output"`
	Iterations int          `json:"iterations"`
	WarmupRuns int          `json:"warmup_runs"`
}

// ScenarioBuilder helps build test scenarios with fluent API
type ScenarioBuilder struct {
	scenario Scenario
}

// NewScenarioBuilder creates a new scenario builder
func NewScenarioBuilder(name string) *ScenarioBuilder {
	return &ScenarioBuilder{
		scenario: Scenario{
			Name:       name,
			Mode:       decoder.ModeFaceLandmark,
			Input:      Resolution{Width: 192, Height: 192, Name: "192x192"},
			Iterations: 100,
			WarmupRuns: 10,
		},
	}
}

// WithMode sets the decode mode
func (sb *ScenarioBuilder) WithMode(mode decoder.Mode) *ScenarioBuilder {
	sb.scenario.Mode = mode
	return sb
}

// WithInput sets the landmark coordinate space dimensions
func (sb *ScenarioBuilder) WithInput(width, height int) *ScenarioBuilder {
	sb.scenario.Input = Resolution{
		Width:  width,
		Height: height,
		Name:   fmt.Sprintf("%dx%d", width, height),
	}
	return sb
}

// WithOutput sets the overlay raster dimensions
func (sb *ScenarioBuilder) WithOutput(width, height int) *ScenarioBuilder {
	sb.scenario.Output = Resolution{
		Width:  width,
		Height: height,
		Name:   fmt.Sprintf("%dx%d", width, height),
	}
	return sb
}

// WithIterations sets the number of test iterations
func (sb *ScenarioBuilder) WithIterations(iterations int) *ScenarioBuilder {
	sb.scenario.Iterations = iterations
	return sb
}

// WithWarmupRuns sets the number of warmup runs
func (sb *ScenarioBuilder) WithWarmupRuns(warmups int) *ScenarioBuilder {
	sb.scenario.WarmupRuns = warmups
	return sb
}

// Build returns the configured test scenario
func (sb *ScenarioBuilder) Build() Scenario {
	return sb.scenario
}

// ScenarioSet represents a collection of related test scenarios
type ScenarioSet struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Scenarios   []Scenario `json:"scenarios"`
}

// PredefinedScenarios contains common benchmark scenario sets
type PredefinedScenarios struct{}

// GetComprehensiveScenarios returns a comprehensive set of benchmark scenarios
func (ps *PredefinedScenarios) GetComprehensiveScenarios() *ScenarioSet {
	scenarios := make([]Scenario, 0)

	// Test every overlay resolution for each decode mode
	for _, mode := range []decoder.Mode{decoder.ModeFaceLandmark, decoder.ModeFaceMesh} {
		for _, resolution := range images.GetSortedResolutions() {
			scenario := NewScenarioBuilder(fmt.Sprintf("%s_%s", mode, resolution.Name)).
				WithMode(mode).
				WithOutput(resolution.Pixels.Width, resolution.Pixels.Height).
				WithIterations(100).
				WithWarmupRuns(10).
				Build()

			scenarios = append(scenarios, scenario)
		}
	}

	return &ScenarioSet{
		Name:        "Comprehensive Performance Test",
		Description: "Tests all combinations of decode modes and overlay resolutions",
		Scenarios:   scenarios,
	}
}

// GetQuickScenarios returns a smaller set for quick testing
func (ps *PredefinedScenarios) GetQuickScenarios() *ScenarioSet {
	scenarios := make([]Scenario, 0)

	// Quick test with common configurations
	commonResolutions := []Resolution{
		{Width: 640, Height: 480, Name: "640x480"},
		{Width: 1280, Height: 720, Name: "1280x720"},
	}

	for _, mode := range []decoder.Mode{decoder.ModeFaceLandmark, decoder.ModeFaceMesh} {
		for _, resolution := range commonResolutions {
			scenario := NewScenarioBuilder(fmt.Sprintf("quick_%s_%s", mode, resolution.Name)).
				WithMode(mode).
				WithOutput(resolution.Width, resolution.Height).
				WithIterations(50).
				WithWarmupRuns(5).
				Build()

			scenarios = append(scenarios, scenario)
		}
	}

	return &ScenarioSet{
		Name:        "Quick Performance Test",
		Description: "Quick test with common configurations",
		Scenarios:   scenarios,
	}
}

// GetResolutionComparisonScenarios tests every overlay resolution with the same mode
func (ps *PredefinedScenarios) GetResolutionComparisonScenarios(mode decoder.Mode) *ScenarioSet {
	scenarios := make([]Scenario, 0)

	for _, resolution := range images.GetSortedResolutions() {
		scenario := NewScenarioBuilder(fmt.Sprintf("resolution_%s_%s", mode, resolution.Name)).
			WithMode(mode).
			WithOutput(resolution.Pixels.Width, resolution.Pixels.Height).
			WithIterations(100).
			WithWarmupRuns(10).
			Build()

		scenarios = append(scenarios, scenario)
	}

	return &ScenarioSet{
		Name:        fmt.Sprintf("Resolution Comparison - %s", mode),
		Description: fmt.Sprintf("Compares overlay resolutions for %s decoding", mode),
		Scenarios:   scenarios,
	}
}

// GetModeComparisonScenarios compares decode modes at the same overlay resolution
func (ps *PredefinedScenarios) GetModeComparisonScenarios(resolution Resolution) *ScenarioSet {
	scenarios := make([]Scenario, 0)

	for _, mode := range []decoder.Mode{decoder.ModeFaceLandmark, decoder.ModeFaceMesh} {
		scenario := NewScenarioBuilder(fmt.Sprintf("mode_%s_%s", mode, resolution.Name)).
			WithMode(mode).
			WithOutput(resolution.Width, resolution.Height).
			WithIterations(100).
			WithWarmupRuns(10).
			Build()

		scenarios = append(scenarios, scenario)
	}

	return &ScenarioSet{
		Name:        fmt.Sprintf("Mode Comparison @ %s", resolution.Name),
		Description: fmt.Sprintf("Compares decode modes at %s overlay resolution", resolution.Name),
		Scenarios:   scenarios,
	}
}

// SaveScenarioSet saves a scenario set to a JSON file
func SaveScenarioSet(scenarioSet *ScenarioSet, filename string) error {
	data, err := json.MarshalIndent(scenarioSet, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal scenario set: %w", err)
	}

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write scenario file: %w", err)
	}

	return nil
}

// LoadScenarioSet loads a scenario set from a JSON file
func LoadScenarioSet(filename string) (*ScenarioSet, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenarioSet ScenarioSet
	if err := json.Unmarshal(data, &scenarioSet); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scenario set: %w", err)
	}

	return &scenarioSet, nil
}

// BenchmarkConfig represents the overall benchmark configuration
type BenchmarkConfig struct {
	OutputDir       string `json:"output_dir"`
	ScenarioFile    string `json:"scenario_file"`
	TimeoutSeconds  int    `json:"timeout_seconds"`
	SaveDetailedLog bool   `json:"save_detailed_log"`
}

// DefaultBenchmarkConfig returns a default benchmark configuration
func DefaultBenchmarkConfig() *BenchmarkConfig {
	return &BenchmarkConfig{
		OutputDir:       "./benchmark_results",
		TimeoutSeconds:  3600, // 1 hour
		SaveDetailedLog: true,
	}
}

// SaveConfig saves the benchmark configuration to a JSON file
func (bc *BenchmarkConfig) SaveConfig(filename string) error {
	data, err := json.MarshalIndent(bc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadBenchmarkConfig loads benchmark configuration from a JSON file
func LoadBenchmarkConfig(filename string) (*BenchmarkConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config BenchmarkConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
