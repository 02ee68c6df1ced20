package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/fjellvarme/heatgrid/pkg/config"
	"github.com/fjellvarme/heatgrid/pkg/design"
	"github.com/fjellvarme/heatgrid/pkg/logging"
	"github.com/fjellvarme/heatgrid/pkg/network"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML design configuration")
	inputPath := flag.String("input", "", "Path to a JSON design input (streets, plant, buildings); omit for the built-in demo")
	csvPath := flag.String("csv", "", "Write the pipe table to this CSV file")
	jsonOut := flag.Bool("json", false, "Print the full report as JSON")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	logger := logging.NewJSONLogger(os.Stderr, logging.ParseLevel(*logLevel))

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	fmt.Println("🔥 Heatgrid - district heating network design")

	input := demoInput()
	if *inputPath != "" {
		loaded, err := loadInput(*inputPath)
		if err != nil {
			log.Fatalf("Failed to load input: %v", err)
		}
		input = loaded
	}

	planner := design.NewPlanner(cfg, logger)
	r, err := planner.Run(context.Background(), input)
	if err != nil {
		log.Fatalf("Design run failed: %v", err)
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			log.Fatalf("Failed to encode report: %v", err)
		}
		return
	}

	fmt.Printf("\nRun %s\n", r.RunID)
	fmt.Printf("  Buildings routed:   %d (%d unrouted)\n", r.Network.BuildingsRouted, r.Network.BuildingsUnrouted)
	fmt.Printf("  Pipes:              %d supply, %d return\n", r.Network.SupplyPipes, r.Network.ReturnPipes)
	fmt.Printf("  Trench length:      %.0f m\n", r.Network.TrenchLengthM)
	fmt.Printf("  Compliance:         valid=%v (%d critical, %d warnings)\n",
		r.Compliance.Valid, r.Compliance.Critical, r.Compliance.Warnings)
	if r.Resize.Ran {
		fmt.Printf("  Auto-resize:        %s after %d iterations\n", r.Resize.State, r.Resize.Iterations)
	}
	fmt.Printf("  Simulation:         %s (topology only: %v)\n", r.Simulation.Source, r.Simulation.TopologyOnly)
	fmt.Printf("  Pump power:         %.1f W\n", r.Simulation.PumpPowerW)
	fmt.Printf("  Thermal loss:       %.1f kW\n", r.Simulation.ThermalLossW/1000)
	fmt.Printf("  Estimated cost:     %.0f\n", r.Cost.TotalCost)
	if r.Degraded {
		fmt.Println("  ⚠️  Reduced-confidence result")
		for _, w := range r.Warnings {
			fmt.Printf("      %s\n", w)
		}
	}

	if *csvPath != "" {
		f, err := os.Create(*csvPath)
		if err != nil {
			log.Fatalf("Failed to create CSV file: %v", err)
		}
		defer f.Close()
		if err := r.WritePipesCSV(f); err != nil {
			log.Fatalf("Failed to write CSV: %v", err)
		}
		fmt.Printf("\nPipe table written to %s\n", *csvPath)
	}
}

// loadInput reads a design input from a JSON file
func loadInput(path string) (design.Input, error) {
	var input design.Input
	data, err := os.ReadFile(path)
	if err != nil {
		return input, fmt.Errorf("read input: %w", err)
	}
	if err := json.Unmarshal(data, &input); err != nil {
		return input, fmt.Errorf("parse input: %w", err)
	}
	return input, nil
}

// demoInput is a small L-shaped street grid with a plant and five buildings
func demoInput() design.Input {
	return design.Input{
		Streets: []network.StreetSegment{
			{
				Points: []network.Point{
					{X: 0, Y: 0}, {X: 150, Y: 0}, {X: 300, Y: 0}, {X: 450, Y: 0},
				},
				StreetName: "Hovedgata",
				RoadClass:  "residential",
			},
			{
				Points: []network.Point{
					{X: 300, Y: 0}, {X: 300, Y: 150}, {X: 300, Y: 300},
				},
				StreetName: "Tverrgata",
				RoadClass:  "residential",
			},
		},
		Plant: &network.Point{X: 0, Y: 0},
		Buildings: []design.Building{
			{ID: "school", Position: network.Point{X: 150, Y: 20}, HeatDemandKW: 220},
			{ID: "block-a", Position: network.Point{X: 250, Y: -15}, HeatDemandKW: 95},
			{ID: "block-b", Position: network.Point{X: 320, Y: 120}, HeatDemandKW: 95},
			{ID: "house-1", Position: network.Point{X: 290, Y: 250}, HeatDemandKW: 18},
			{ID: "pool", Position: network.Point{X: 430, Y: 25}, HeatDemandKW: 340},
		},
	}
}
