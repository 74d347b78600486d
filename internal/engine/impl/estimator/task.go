package estimator

import (
	"SetSpectra/internal/config"
	"SetSpectra/internal/engine/impl/estimator/statistic"
	"SetSpectra/internal/factory"
	"SetSpectra/internal/model"
	"fmt"
	"log"

	"github.com/cespare/xxhash/v2"
)

// --- Factory Registration ---

func init() {
	factory.RegisterEstimator("strata", func(cfg *config.Config) (*factory.TaskGroup, error) {
		tasks := make([]model.Task, 0, len(cfg.Estimator.StrataTasks))
		for _, taskCfg := range cfg.Estimator.StrataTasks {
			task, err := New(taskCfg)
			if err != nil {
				return nil, err
			}
			tasks = append(tasks, task)
		}
		return &factory.TaskGroup{Tasks: tasks}, nil
	})
}

// --- Task Implementation ---

// Key aliases the statistic key type for callers that pre-hash their
// elements.
type Key = statistic.Key

// Task wraps one strata estimator and adapts the opaque-element Task
// interface onto it. Elements are hashed to 64-bit keys with xxhash;
// callers that already hold 64-bit keys can feed them directly through
// ProcessKey and skip the derivation.
type Task struct {
	name string
	se   *statistic.StrataEstimator
}

// New creates a new estimator task based on the provided configuration.
func New(cfg config.StrataTaskDef) (*Task, error) {
	se, err := statistic.NewStrataEstimator(cfg.StrataCount, cfg.IBFSize, cfg.IBFHashnum)
	if err != nil {
		return nil, fmt.Errorf("task '%s': %w", cfg.Name, err)
	}
	log.Printf("Creating strata estimator '%s' with %d strata, ibf size %d, hashnum %d (wire size %d bytes)\n",
		cfg.Name, se.StrataCount(), se.IBFSize(), se.IBFHashnum(), se.SerializedSize())

	return &Task{
		name: cfg.Name,
		se:   se,
	}, nil
}

// Name returns the name of the task.
func (t *Task) Name() string {
	return t.name
}

// KeyFor derives the 64-bit estimator key for an element.
func KeyFor(elem []byte) statistic.Key {
	return statistic.Key(xxhash.Sum64(elem))
}

// ProcessElement hashes the element and inserts its key.
func (t *Task) ProcessElement(elem []byte) {
	t.se.Insert(KeyFor(elem))
}

// RemoveElement cancels a prior ProcessElement of the same element.
func (t *Task) RemoveElement(elem []byte) {
	t.se.Remove(KeyFor(elem))
}

// ProcessKey inserts an already-derived key.
func (t *Task) ProcessKey(key statistic.Key) {
	t.se.Insert(key)
}

// Snapshot returns the serialized estimator, ready for wire transfer.
func (t *Task) Snapshot() interface{} {
	return t.se.Bytes()
}

// Estimate computes the symmetric-difference estimate against a peer's
// serialized estimator. The peer must have used identical parameters.
// The live estimator is never decoded destructively; insertion may
// resume afterwards.
func (t *Task) Estimate(remote []byte) (uint64, error) {
	peer, err := statistic.NewStrataEstimator(t.se.StrataCount(), t.se.IBFSize(), t.se.IBFHashnum())
	if err != nil {
		return 0, err
	}
	if err := peer.SetBytes(remote); err != nil {
		return 0, fmt.Errorf("task '%s': bad peer estimator: %w", t.name, err)
	}
	return t.se.Difference(peer)
}

// Reset clears the internal state of the task, preparing for a new session.
func (t *Task) Reset() {
	se, err := statistic.NewStrataEstimator(t.se.StrataCount(), t.se.IBFSize(), t.se.IBFHashnum())
	if err != nil {
		// Parameters were already validated at construction.
		log.Fatalf("Failed to reset estimator task '%s': %v", t.name, err)
	}
	t.se = se
}
