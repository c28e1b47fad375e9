package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/WCLondon/Optimiser-sub001/internal/analysis"
	"github.com/WCLondon/Optimiser-sub001/internal/api/models"
	"github.com/WCLondon/Optimiser-sub001/internal/config"
	"github.com/WCLondon/Optimiser-sub001/internal/data"
	"github.com/WCLondon/Optimiser-sub001/internal/geography"
	"github.com/WCLondon/Optimiser-sub001/internal/model"
	"github.com/WCLondon/Optimiser-sub001/internal/optimiser"
	"github.com/WCLondon/Optimiser-sub001/internal/pricing"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "quote":
		cmdQuote(os.Args[2:])
	case "banks":
		cmdBanks(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli quote --inputs quote.json --config config.yaml --out results/allocations.csv")
	fmt.Println("  cli banks --config config.yaml")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - quote inputs use the same JSON shape as POST /api/v1/quote")
	fmt.Println("  - banks ranks snapshot banks by remaining sellable units")
}

func cmdQuote(args []string) {
	fs := flag.NewFlagSet("quote", flag.ExitOnError)
	inputsPath := fs.String("inputs", "", "Path to quote inputs JSON")
	cfgPath := fs.String("config", "", "Path to YAML config")
	outPath := fs.String("out", "", "Optional output CSV path for the allocation table")
	showLog := fs.Bool("log", false, "Print the step-by-step allocation log")
	_ = fs.Parse(args)

	if *inputsPath == "" || *cfgPath == "" {
		fmt.Println("--inputs and --config are required")
		os.Exit(2)
	}

	conf, err := config.Load(*cfgPath)
	if err != nil {
		fatal("load config: %v", err)
	}

	raw, err := os.ReadFile(*inputsPath)
	if err != nil {
		fatal("read inputs: %v", err)
	}
	var req models.QuoteRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		fatal("parse inputs: %v", err)
	}
	if len(req.Deficits) == 0 {
		fatal("inputs contain no deficits")
	}

	snap, err := data.LoadSnapshot(conf.Snapshot)
	if err != nil {
		fatal("load snapshot: %v", err)
	}

	tier := resolveTier(&req, conf.Optimiser)
	if !geography.ValidTier(tier) {
		fatal("tier must be local, adjacent, or far, got %q", tier)
	}

	pricingRows := snap.Pricing
	if req.Pricing != nil {
		pricingRows = req.Pricing
	}
	catalogRows := snap.Catalog
	if req.Catalog != nil {
		catalogRows = req.Catalog
	}
	inventory := snap.Inventory
	if req.Inventory != nil {
		inventory = data.PrepareInventory(req.Inventory)
	}

	contractSize := req.ContractSize
	if contractSize == "" {
		contractSize = conf.Optimiser.ContractSize
	}
	srm := conf.Optimiser.SRMMultiplier
	if req.SRMMultiplier != nil {
		srm = *req.SRMMultiplier
	}
	maxIterations := conf.Optimiser.MaxIterations
	if req.MaxIterations > 0 {
		maxIterations = req.MaxIterations
	}

	engine, err := optimiser.New(optimiser.Params{
		Estimator:     pricing.NewEstimator(pricingRows, conf.Optimiser.DefaultPrices),
		Catalog:       model.NewCatalog(catalogRows),
		Levels:        conf.Optimiser.DistinctivenessLevels,
		Tier:          tier,
		ContractSize:  contractSize,
		SRMMultiplier: srm,
		MaxIterations: maxIterations,
	})
	if err != nil {
		fatal("build engine: %v", err)
	}

	result := engine.Run(req.DeficitEntries(), req.SurplusEntries(), inventory)

	optimiser.WriteSummary(os.Stdout, result)
	if *showLog {
		fmt.Println("\nAllocation log")
		fmt.Println("--------------")
		for _, line := range result.Log {
			fmt.Println(line)
		}
	}

	if *outPath != "" {
		rows := optimiser.AllocationTable(result)
		if err := optimiser.WriteAllocationCSV(*outPath, rows); err != nil {
			fatal("write csv: %v", err)
		}
		fmt.Printf("\nAllocation table written to %s\n", *outPath)
	}
}

func cmdBanks(args []string) {
	fs := flag.NewFlagSet("banks", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	tierFlag := fs.String("tier", "", "Tier override (local|adjacent|far)")
	_ = fs.Parse(args)

	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}

	conf, err := config.Load(*cfgPath)
	if err != nil {
		fatal("load config: %v", err)
	}
	snap, err := data.LoadSnapshot(conf.Snapshot)
	if err != nil {
		fatal("load snapshot: %v", err)
	}

	tier := *tierFlag
	if tier == "" {
		tier = conf.Optimiser.Tier
	}
	if tier == "" {
		tier = geography.TierFar
	}
	if !geography.ValidTier(tier) {
		fatal("tier must be local, adjacent, or far, got %q", tier)
	}

	est := pricing.NewEstimator(snap.Pricing, conf.Optimiser.DefaultPrices)
	catalog := model.NewCatalog(snap.Catalog)
	banks := analysis.RankBanks(snap.Inventory, est, catalog, tier, conf.Optimiser.ContractSize)

	fmt.Println("Banks by remaining sellable units")
	fmt.Println(strings.Repeat("-", 33))
	for i, b := range banks {
		fmt.Printf("%d. %s | rows: %d | habitats: %d | remaining: %.4f | net: %.4f | cheapest: £%.2f\n",
			i+1, b.BankName, b.Rows, b.Habitats, b.RemainingGross, b.NetUnits, b.CheapestPrice)
	}
}

func resolveTier(req *models.QuoteRequest, defaults config.OptimiserConfig) string {
	tier := strings.TrimSpace(req.Tier)
	if tier == "" && req.TierLookup != nil {
		tier = geography.ClassifyTier(req.TierLookup.Bank, req.TierLookup.Site, req.TierLookup.Neighbours)
	}
	if tier == "" {
		tier = defaults.Tier
	}
	if tier == "" {
		tier = geography.TierFar
	}
	return strings.ToLower(tier)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
