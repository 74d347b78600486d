package manager

import (
	"SetSpectra/internal/config"
	"fmt"
	"testing"
)

func testConfig() *config.Config {
	return &config.Config{
		Estimator: config.EstimatorConfig{
			Types: []string{"strata"},
			StrataTasks: []config.StrataTaskDef{
				{Name: "primary"},
			},
			SizeOfElementChannel: 128,
		},
	}
}

func TestManagerLifecycle(t *testing.T) {
	mgr, err := NewManager(testConfig())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	mgr.Start()
	in := mgr.InputChannel()
	for i := 0; i < 100; i++ {
		in <- []byte(fmt.Sprintf("elem-%d", i))
	}
	mgr.Stop()

	snapshots := mgr.Snapshots()
	if len(snapshots) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(snapshots))
	}

	buf, ok := snapshots["primary"]
	if !ok {
		t.Fatalf("snapshot for task 'primary' missing")
	}
	// Default geometry: 32 strata x 80 buckets x 16 bytes.
	if want := 32 * 80 * 16; len(buf) != want {
		t.Errorf("snapshot size = %d bytes, want %d", len(buf), want)
	}
}

func TestManagerUnknownTypeFails(t *testing.T) {
	cfg := testConfig()
	cfg.Estimator.Types = []string{"bogus"}
	if _, err := NewManager(cfg); err == nil {
		t.Error("NewManager with an unknown estimator type should fail")
	}
}
