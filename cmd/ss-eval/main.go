package main

import (
	"SetSpectra/internal/config"
	"SetSpectra/internal/engine/impl/estimator"
	"flag"
	"log"
	"math/rand"
)

// ss-eval runs the estimator against synthetic key sets with a known
// symmetric difference and reports estimate vs ground truth for every
// scenario in the config file. No networking: the "exchange" is the
// serialize/deserialize round trip the wire format defines.

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the config file")
	flag.Parse()

	log.Println("Starting ss-eval...")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if len(cfg.Estimator.StrataTasks) == 0 {
		log.Fatalf("No strata_tasks defined in config.")
	}
	if len(cfg.Eval.Scenarios) == 0 {
		log.Fatalf("No eval scenarios defined in config.")
	}

	taskCfg := cfg.Estimator.StrataTasks[0]

	for _, scenario := range cfg.Eval.Scenarios {
		runScenario(taskCfg, scenario)
	}
}

func runScenario(taskCfg config.StrataTaskDef, scenario config.EvalScenario) {
	local, err := estimator.New(taskCfg)
	if err != nil {
		log.Fatalf("Scenario '%s': failed to create local estimator: %v", scenario.Name, err)
	}
	remote, err := estimator.New(taskCfg)
	if err != nil {
		log.Fatalf("Scenario '%s': failed to create remote estimator: %v", scenario.Name, err)
	}

	// Shared keys go to both sides, the rest to exactly one.
	for i := uint64(0); i < scenario.SharedKeys; i++ {
		key := rand.Uint64()
		local.ProcessKey(estimator.Key(key))
		remote.ProcessKey(estimator.Key(key))
	}
	for i := uint64(0); i < scenario.LocalOnly; i++ {
		local.ProcessKey(estimator.Key(rand.Uint64()))
	}
	for i := uint64(0); i < scenario.RemoteOnly; i++ {
		remote.ProcessKey(estimator.Key(rand.Uint64()))
	}

	// Wire round trip: the remote side serializes, the local side
	// estimates against the received buffer.
	buf, ok := remote.Snapshot().([]byte)
	if !ok {
		log.Fatalf("Scenario '%s': unexpected snapshot type", scenario.Name)
	}

	estimate, err := local.Estimate(buf)
	if err != nil {
		log.Fatalf("Scenario '%s': estimation failed: %v", scenario.Name, err)
	}

	truth := scenario.LocalOnly + scenario.RemoteOnly
	ratio := 0.0
	if truth > 0 {
		ratio = float64(estimate) / float64(truth)
	}
	log.Printf("Scenario '%s': shared=%d local_only=%d remote_only=%d | truth=%d estimate=%d (x%.2f, wire %d bytes)\n",
		scenario.Name, scenario.SharedKeys, scenario.LocalOnly, scenario.RemoteOnly,
		truth, estimate, ratio, len(buf))
}
