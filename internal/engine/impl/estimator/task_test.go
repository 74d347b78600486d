package estimator

import (
	"SetSpectra/internal/config"
	"SetSpectra/internal/factory"
	"fmt"
	"testing"
)

func TestTaskEstimateRoundTrip(t *testing.T) {
	cfg := config.StrataTaskDef{
		Name:        "reconcile",
		StrataCount: 32,
		IBFSize:     80,
		IBFHashnum:  4,
	}

	local, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create local task: %v", err)
	}
	remote, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create remote task: %v", err)
	}

	// Both sides scan their element sets; 20 records are shared, 3 are
	// local-only and 2 remote-only, so the true symmetric difference
	// is 5.
	for i := 0; i < 20; i++ {
		elem := []byte(fmt.Sprintf("record-%04d", i))
		local.ProcessElement(elem)
		remote.ProcessElement(elem)
	}
	for i := 0; i < 3; i++ {
		local.ProcessElement([]byte(fmt.Sprintf("local-only-%d", i)))
	}
	for i := 0; i < 2; i++ {
		remote.ProcessElement([]byte(fmt.Sprintf("remote-only-%d", i)))
	}

	buf, ok := remote.Snapshot().([]byte)
	if !ok {
		t.Fatalf("Snapshot returned %T, want []byte", remote.Snapshot())
	}

	estimate, err := local.Estimate(buf)
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}
	if estimate != 5 {
		t.Errorf("estimate = %d, want 5", estimate)
	}

	// The live estimator was not consumed by the estimation.
	if again, err := local.Estimate(buf); err != nil || again != estimate {
		t.Errorf("repeated estimate = %d (err %v), want %d", again, err, estimate)
	}
}

func TestTaskEstimateRejectsBadBuffer(t *testing.T) {
	task, err := New(config.StrataTaskDef{Name: "bounds"})
	if err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}

	if _, err := task.Estimate([]byte{1, 2, 3}); err == nil {
		t.Error("Estimate with a truncated peer buffer should fail")
	}
}

func TestTaskReset(t *testing.T) {
	task, err := New(config.StrataTaskDef{Name: "reset"})
	if err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}
	empty, err := New(config.StrataTaskDef{Name: "empty"})
	if err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}

	task.ProcessElement([]byte("something"))
	task.Reset()

	buf, _ := empty.Snapshot().([]byte)
	estimate, err := task.Estimate(buf)
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}
	if estimate != 0 {
		t.Errorf("estimate after Reset = %d, want 0", estimate)
	}
}

func TestRemoveElementCancelsInsert(t *testing.T) {
	task, err := New(config.StrataTaskDef{Name: "cancel"})
	if err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}
	empty, err := New(config.StrataTaskDef{Name: "empty"})
	if err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}

	task.ProcessElement([]byte("transient"))
	task.RemoveElement([]byte("transient"))

	buf, _ := empty.Snapshot().([]byte)
	estimate, err := task.Estimate(buf)
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}
	if estimate != 0 {
		t.Errorf("estimate after insert+remove = %d, want 0", estimate)
	}
}

func TestFactoryCreate(t *testing.T) {
	cfg := &config.Config{
		Estimator: config.EstimatorConfig{
			Types: []string{"strata"},
			StrataTasks: []config.StrataTaskDef{
				{Name: "a"},
				{Name: "b", StrataCount: 16, IBFSize: 40, IBFHashnum: 3},
			},
		},
	}

	groups, err := factory.Create(cfg)
	if err != nil {
		t.Fatalf("factory.Create failed: %v", err)
	}
	if len(groups) != 1 || len(groups[0].Tasks) != 2 {
		t.Fatalf("expected 1 group with 2 tasks, got %d groups", len(groups))
	}
	if groups[0].Tasks[0].Name() != "a" || groups[0].Tasks[1].Name() != "b" {
		t.Errorf("task names not preserved: %s, %s",
			groups[0].Tasks[0].Name(), groups[0].Tasks[1].Name())
	}
}

func TestFactoryUnknownType(t *testing.T) {
	cfg := &config.Config{
		Estimator: config.EstimatorConfig{Types: []string{"minhash"}},
	}
	if _, err := factory.Create(cfg); err == nil {
		t.Error("unknown estimator type should fail")
	}
}
