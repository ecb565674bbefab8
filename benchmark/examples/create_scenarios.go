package main

import (
	"fmt"
	"log"

	"github.com/nvr-ai/go-facemesh/benchmark"
	"github.com/nvr-ai/go-facemesh/decoder"
)

// Example program to create and save benchmark scenarios
func main() {
	predefined := &benchmark.PredefinedScenarios{}

	// Create comprehensive scenarios
	comprehensive := predefined.GetComprehensiveScenarios()
	err := benchmark.SaveScenarioSet(comprehensive, "comprehensive_scenarios.json")
	if err != nil {
		log.Fatalf("Failed to save comprehensive scenarios: %v", err)
	}
	fmt.Printf("Saved %d comprehensive scenarios\n", len(comprehensive.Scenarios))

	// Create quick scenarios
	quick := predefined.GetQuickScenarios()
	err = benchmark.SaveScenarioSet(quick, "quick_scenarios.json")
	if err != nil {
		log.Fatalf("Failed to save quick scenarios: %v", err)
	}
	fmt.Printf("Saved %d quick scenarios\n", len(quick.Scenarios))

	// Create resolution comparison scenarios
	resolutions := predefined.GetResolutionComparisonScenarios(decoder.ModeFaceLandmark)
	err = benchmark.SaveScenarioSet(resolutions, "resolution_scenarios.json")
	if err != nil {
		log.Fatalf("Failed to save resolution scenarios: %v", err)
	}
	fmt.Printf("Saved %d resolution scenarios\n", len(resolutions.Scenarios))

	// Create mode comparison scenarios
	resolution720p := benchmark.Resolution{Width: 1280, Height: 720, Name: "1280x720"}
	modes := predefined.GetModeComparisonScenarios(resolution720p)
	err = benchmark.SaveScenarioSet(modes, "mode_scenarios.json")
	if err != nil {
		log.Fatalf("Failed to save mode scenarios: %v", err)
	}
	fmt.Printf("Saved %d mode scenarios\n", len(modes.Scenarios))

	// Create custom scenario using builder
	customScenario := benchmark.NewScenarioBuilder("custom_mesh_4k").
		WithMode(decoder.ModeFaceMesh).
		WithOutput(3840, 2160).
		WithIterations(50).
		WithWarmupRuns(5).
		Build()

	customSet := &benchmark.ScenarioSet{
		Name:        "Custom 4K Mesh Test",
		Description: "Stresses mesh marker stamping on a 4K overlay",
		Scenarios:   []benchmark.Scenario{customScenario},
	}

	err = benchmark.SaveScenarioSet(customSet, "custom_scenarios.json")
	if err != nil {
		log.Fatalf("Failed to save custom scenarios: %v", err)
	}
	fmt.Printf("Saved %d custom scenarios\n", len(customSet.Scenarios))

	fmt.Println("All scenario files created successfully!")
}
