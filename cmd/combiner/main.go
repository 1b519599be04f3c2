package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// combiner merges every per-country JSON file (both single- and
// multi-location shapes) into the combined fallback corpus file that the API
// searches when a specific country file is missing.

func main() {
	dataDir := flag.String("data-dir", "./data", "Path to the corpus data directory")
	out := flag.String("out", "", "Output file (default <data-dir>/international_locations.json)")
	flag.Parse()

	outputFile := *out
	if outputFile == "" {
		outputFile = filepath.Join(*dataDir, "international_locations.json")
	}

	combined := map[string]json.RawMessage{}
	total := 0

	for _, dir := range []string{
		filepath.Join(*dataDir, "international_multi"),
		filepath.Join(*dataDir, "international_single"),
	} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			fmt.Printf("Skipping %s: %v\n", dir, err)
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
				continue
			}
			if entry.Name() == "country_s_urls.json" {
				continue
			}

			path := filepath.Join(dir, entry.Name())
			raw, err := os.ReadFile(path)
			if err != nil {
				fmt.Printf("Error reading %s: %v\n", path, err)
				continue
			}
			if !json.Valid(raw) {
				fmt.Printf("Skipping invalid JSON: %s\n", path)
				continue
			}

			key := countryKey(entry.Name())
			if _, exists := combined[key]; exists {
				fmt.Printf("Duplicate country %s, keeping first occurrence\n", key)
				continue
			}
			combined[key] = json.RawMessage(raw)
			total++
			fmt.Printf("Added %s\n", key)
		}
	}

	if total == 0 {
		fmt.Println("Error: no country files found")
		os.Exit(1)
	}

	// json.Marshal sorts map keys, so the output stays diffable between runs.
	output, err := json.MarshalIndent(combined, "", "  ")
	if err != nil {
		fmt.Printf("Error encoding combined corpus: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(outputFile, output, 0644); err != nil {
		fmt.Printf("Error writing %s: %v\n", outputFile, err)
		os.Exit(1)
	}

	fmt.Printf("\nCombined %d countries into %s\n", total, outputFile)
}

func countryKey(filename string) string {
	key := strings.TrimSuffix(filename, ".json")
	key = strings.TrimSuffix(key, "_multi_locations")
	key = strings.TrimSuffix(key, "_single_location")
	return key
}
