package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/podiumhq/podium/internal/application"
	"github.com/podiumhq/podium/internal/testutils"
)

func main() {
	var (
		teams     = flag.Int("teams", 24, "Number of teams to generate")
		judges    = flag.Int("judges", 3, "Number of judges per area")
		outputDir = flag.String("output", "testdata/sample_tournament", "Output directory")
		seed      = flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	)
	flag.Parse()

	tournamentID := "sample-regional"
	templateYAML := testutils.SampleTemplateYAML(tournamentID)

	// Run the template through the real loader so the generated file is
	// guaranteed to validate.
	loader, err := application.NewTemplateLoader()
	if err != nil {
		log.Fatalf("Failed to create template loader: %v", err)
	}
	tpl, err := loader.LoadFromBytes(context.Background(), templateYAML)
	if err != nil {
		log.Fatalf("Generated template failed validation: %v", err)
	}
	_, areas, err := tpl.ToDomain()
	if err != nil {
		log.Fatalf("Generated template failed conversion: %v", err)
	}

	judgeIDs := make([]string, 0, *judges)
	for i := 0; i < *judges; i++ {
		judgeIDs = append(judgeIDs, fmt.Sprintf("judge-%02d", i+1))
	}
	teamList := testutils.GenerateTeams(*teams, *seed)
	batch := testutils.GenerateEvaluationBatch(tournamentID, teamList, areas, judgeIDs, *seed)

	templatePath := filepath.Join(*outputDir, "template.yaml")
	if err := testutils.SaveFile(templateYAML, templatePath); err != nil {
		log.Fatalf("Failed to save template: %v", err)
	}

	teamsJSON, err := json.MarshalIndent(teamList, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode teams: %v", err)
	}
	if err := testutils.SaveFile(teamsJSON, filepath.Join(*outputDir, "teams.json")); err != nil {
		log.Fatalf("Failed to save teams: %v", err)
	}

	batchJSON, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode evaluation batch: %v", err)
	}
	if err := testutils.SaveFile(batchJSON, filepath.Join(*outputDir, "evaluations.json")); err != nil {
		log.Fatalf("Failed to save evaluation batch: %v", err)
	}

	fmt.Printf("Generated sample tournament:\n")
	fmt.Printf("- Template: %s\n", templatePath)
	fmt.Printf("- Areas: %d\n", len(areas))
	fmt.Printf("- Teams: %d\n", len(teamList))
	fmt.Printf("- Pending evaluations: %d\n", len(batch))
	fmt.Printf("- Seed: %d\n", *seed)
}
