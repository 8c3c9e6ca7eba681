package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"covered-call-lab/internal/domain"
	"covered-call-lab/internal/optimizer"
)

func main() {
	spot := flag.Float64("spot", 0, "Current underlying price (required)")
	vol := flag.Float64("vol", 0, "IV proxy to price with (0 uses the configured default)")
	minStrike := flag.Float64("min-strike", 0, "Minimum strike (0 keeps the default)")
	strikes := flag.String("strikes", "", "Comma-separated strike candidates (empty keeps the default grid)")
	dtes := flag.String("dtes", "", "Comma-separated DTE candidates (empty keeps the default grid)")
	outputJSON := flag.Bool("json", false, "Output as JSON")

	flag.Parse()

	logger := log.New(os.Stderr, "[optimize] ", log.LstdFlags)

	if *spot <= 0 {
		logger.Fatal("--spot is required and must be > 0")
	}

	cfg := domain.DefaultConfig()
	if *minStrike > 0 {
		cfg.MinStrike = *minStrike
	}
	if *strikes != "" {
		grid, err := parseFloats(*strikes)
		if err != nil {
			logger.Fatalf("parse --strikes: %v", err)
		}
		cfg.StrikeCandidates = grid
	}
	if *dtes != "" {
		grid, err := parseInts(*dtes)
		if err != nil {
			logger.Fatalf("parse --dtes: %v", err)
		}
		cfg.CandidateDTEs = grid
	}

	useVol := cfg.DefaultVolatility
	if *vol > 0 {
		useVol = *vol
	}

	combos, err := optimizer.New(cfg).Optimize(*spot, useVol)
	if err != nil {
		logger.Fatalf("optimize failed: %v", err)
	}
	if len(combos) == 0 {
		logger.Fatalf("no viable strike/DTE candidates above spot %.2f with min strike %.2f", *spot, cfg.MinStrike)
	}

	if *outputJSON {
		output, _ := json.MarshalIndent(combos, "", "  ")
		fmt.Println(string(output))
		return
	}

	printCombos(*spot, useVol, combos)
}

// printCombos outputs the ranked recommendation table.
func printCombos(spot, vol float64, combos []*optimizer.Combo) {
	fmt.Println()
	fmt.Printf("Recommendations for spot %.2f at vol %.0f%%\n\n", spot, vol*100)
	fmt.Printf("%4s %8s %5s %9s %11s %7s %9s %9s %8s\n",
		"Rank", "Strike", "DTE", "Mid", "NetPremium", "Delta", "Theta/d", "Annual%", "Score")
	for i, c := range combos {
		fmt.Printf("%4d %8.2f %5d %9.4f %11.2f %7.3f %9.4f %9.2f %8.4f\n",
			i+1, c.Strike, c.DTE, c.TheoreticalPrice, c.NetPremium,
			c.Delta, c.ThetaDaily, c.AnnualizedReturn*100, c.Score)
	}
}

func parseFloats(s string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func parseInts(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
