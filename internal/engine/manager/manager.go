package manager

import (
	"SetSpectra/internal/config"
	_ "SetSpectra/internal/engine/impl/estimator" // Registers the strata estimator type
	"SetSpectra/internal/factory"
	"SetSpectra/internal/model"
	"log"
	"sync"
)

const defaultElementChannelSize = 1024

// Manager orchestrates a set of estimation tasks. Elements are fed
// through a buffered input channel and drained by a single processing
// goroutine: estimators are single-owner structures, so one goroutine
// mutates them and snapshots are only taken once Stop has returned.
type Manager struct {
	taskGroups []factory.TaskGroup

	elementChannel chan []byte
	workerWg       sync.WaitGroup
}

// NewManager creates a new Manager.
func NewManager(cfg *config.Config) (*Manager, error) {
	taskGroups, err := factory.Create(cfg)
	if err != nil {
		return nil, err
	}

	channelSize := cfg.Estimator.SizeOfElementChannel
	if channelSize <= 0 {
		channelSize = defaultElementChannelSize
	}

	return &Manager{
		taskGroups:     taskGroups,
		elementChannel: make(chan []byte, channelSize),
	}, nil
}

// Start begins the manager's element processing worker.
func (m *Manager) Start() {
	m.workerWg.Add(1)
	go m.worker()
	log.Println("Manager started.")
}

// Stop gracefully shuts down the manager. After Stop returns every
// buffered element has been processed and snapshots are safe to take.
func (m *Manager) Stop() {
	log.Println("Manager stopping...")
	close(m.elementChannel)
	m.workerWg.Wait()
	log.Println("Manager stopped.")
}

func (m *Manager) worker() {
	defer m.workerWg.Done()
	for elem := range m.elementChannel {
		// Fan out the element to all tasks in all groups.
		for _, group := range m.taskGroups {
			for _, task := range group.Tasks {
				task.ProcessElement(elem)
			}
		}
	}
}

// InputChannel returns the channel to which elements should be sent.
func (m *Manager) InputChannel() chan<- []byte {
	return m.elementChannel
}

// Tasks returns all tasks across all groups.
func (m *Manager) Tasks() []model.Task {
	var tasks []model.Task
	for _, group := range m.taskGroups {
		tasks = append(tasks, group.Tasks...)
	}
	return tasks
}

// Snapshots returns the serialized state of every task, keyed by task
// name. Only call after Stop (or before Start) so no insertions race
// with serialization.
func (m *Manager) Snapshots() map[string][]byte {
	snapshots := make(map[string][]byte)
	for _, task := range m.Tasks() {
		buf, ok := task.Snapshot().([]byte)
		if !ok {
			log.Printf("Task '%s' returned unexpected snapshot type %T, skipping.", task.Name(), task.Snapshot())
			continue
		}
		snapshots[task.Name()] = buf
	}
	return snapshots
}
