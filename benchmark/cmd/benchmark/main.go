package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/nvr-ai/go-facemesh/benchmark"
	"github.com/nvr-ai/go-facemesh/decoder"
)

func main() {
	var (
		configFile    = flag.String("config", "", "Path to benchmark configuration file")
		scenarioFile  = flag.String("scenarios", "", "Path to scenario configuration file")
		outputDir     = flag.String("output", "./benchmark_results", "Output directory for results")
		mode          = flag.String("mode", string(decoder.ModeFaceLandmark), "Decode mode for comparison scenarios")
		quick         = flag.Bool("quick", false, "Run quick benchmark scenarios")
		comprehensive = flag.Bool("comprehensive", false, "Run comprehensive benchmark scenarios")
		resolutions   = flag.Bool("resolutions", false, "Compare overlay resolutions for one decode mode")
		modes         = flag.Bool("modes", false, "Compare decode modes at 720p")
		timeout       = flag.Duration("timeout", 30*time.Minute, "Benchmark timeout duration")
	)
	flag.Parse()

	decodeMode, err := decoder.ParseMode(*mode)
	if err != nil {
		log.Fatalf("Invalid decode mode %q: %v", *mode, err)
	}

	// Load configuration if provided; flags keep their explicit values
	if *configFile != "" {
		config, err := benchmark.LoadBenchmarkConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		if config.OutputDir != "" {
			*outputDir = config.OutputDir
		}
		if config.ScenarioFile != "" && *scenarioFile == "" {
			*scenarioFile = config.ScenarioFile
		}
		if config.TimeoutSeconds > 0 {
			*timeout = time.Duration(config.TimeoutSeconds) * time.Second
		}
	}

	// Create benchmark suite
	suite := benchmark.NewBenchmarkSuite(*outputDir)

	// Add scenarios based on flags
	predefined := &benchmark.PredefinedScenarios{}
	if *scenarioFile != "" {
		scenarioSet, err := benchmark.LoadScenarioSet(*scenarioFile)
		if err != nil {
			log.Fatalf("Failed to load scenario file: %v", err)
		}
		for _, scenario := range scenarioSet.Scenarios {
			suite.AddScenario(scenario)
		}
		fmt.Printf("Loaded %d scenarios from %s\n", len(scenarioSet.Scenarios), *scenarioFile)
	} else {
		if *quick {
			scenarios := predefined.GetQuickScenarios()
			for _, scenario := range scenarios.Scenarios {
				suite.AddScenario(scenario)
			}
			fmt.Printf("Added %d quick scenarios\n", len(scenarios.Scenarios))
		}

		if *comprehensive {
			scenarios := predefined.GetComprehensiveScenarios()
			for _, scenario := range scenarios.Scenarios {
				suite.AddScenario(scenario)
			}
			fmt.Printf("Added %d comprehensive scenarios\n", len(scenarios.Scenarios))
		}

		if *resolutions {
			scenarios := predefined.GetResolutionComparisonScenarios(decodeMode)
			for _, scenario := range scenarios.Scenarios {
				suite.AddScenario(scenario)
			}
			fmt.Printf("Added %d resolution comparison scenarios for %s\n", len(scenarios.Scenarios), decodeMode)
		}

		if *modes {
			resolution := benchmark.Resolution{Width: 1280, Height: 720, Name: "1280x720"}
			scenarios := predefined.GetModeComparisonScenarios(resolution)
			for _, scenario := range scenarios.Scenarios {
				suite.AddScenario(scenario)
			}
			fmt.Printf("Added %d mode comparison scenarios\n", len(scenarios.Scenarios))
		}

		// If no specific scenarios requested, use quick by default
		if !*quick && !*comprehensive && !*resolutions && !*modes {
			scenarios := predefined.GetQuickScenarios()
			for _, scenario := range scenarios.Scenarios {
				suite.AddScenario(scenario)
			}
			fmt.Printf("Added %d default quick scenarios\n", len(scenarios.Scenarios))
		}
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	// Run benchmarks
	fmt.Println("Starting benchmark execution...")
	start := time.Now()

	if err := suite.RunAllScenarios(ctx); err != nil {
		log.Fatalf("Benchmark execution failed: %v", err)
	}

	duration := time.Since(start)
	fmt.Printf("Benchmark completed in %v\n", duration)

	// Print summary
	results := suite.GetResults()
	fmt.Printf("\n=== BENCHMARK RESULTS SUMMARY ===\n")
	fmt.Printf("Total scenarios: %d\n", len(results))
	fmt.Printf("Results saved to: %s\n", *outputDir)

	// Find best performing scenario
	var bestFPS float64
	var bestScenario string
	for _, result := range results {
		if result.FramesPerSecond > bestFPS {
			bestFPS = result.FramesPerSecond
			bestScenario = result.Scenario.Name
		}
		fmt.Printf("  %s: %.2f FPS (p95 %.3f ms, %.2f MB memory)\n",
			result.Scenario.Name,
			result.FramesPerSecond,
			float64(result.Latency.P95.Nanoseconds())/1e6,
			float64(result.MemoryStats.AllocBytes)/(1024*1024))
	}

	fmt.Printf("\nBest performing scenario: %s (%.2f FPS)\n", bestScenario, bestFPS)
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "Benchmark tool for landmark overlay decoding performance.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(
			os.Stderr,
			"  %s -quick\n",
			filepath.Base(os.Args[0]),
		)
		fmt.Fprintf(
			os.Stderr,
			"  %s -config ./benchmark_config.json -scenarios ./scenarios.json\n",
			filepath.Base(os.Args[0]),
		)
		fmt.Fprintf(
			os.Stderr,
			"  %s -resolutions -mode face_mesh -output ./results\n",
			filepath.Base(os.Args[0]),
		)
	}
}
