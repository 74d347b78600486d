package factory

import (
	"SetSpectra/internal/config"
	"SetSpectra/internal/model"
	"fmt"
	"log"
)

// TaskGroup is a logical grouping of estimation tasks created together.
type TaskGroup struct {
	Tasks []model.Task
}

// TaskFactory defines a function that creates a group of tasks.
type TaskFactory func(cfg *config.Config) (*TaskGroup, error)

// registry holds the mapping of estimator types to their factory functions.
var registry = make(map[string]TaskFactory)

// RegisterEstimator registers a new estimator type with its factory function.
func RegisterEstimator(name string, factory TaskFactory) {
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("estimator type '%s' already registered", name))
	}
	registry[name] = factory
}

// Create creates a list of TaskGroups based on the provided config.
func Create(cfg *config.Config) ([]TaskGroup, error) {
	var taskGroups []TaskGroup

	for _, estType := range cfg.Estimator.Types {
		log.Printf("Creating tasks for estimator type: '%s'\n", estType)

		factory, ok := registry[estType]
		if !ok {
			return nil, fmt.Errorf("unknown estimator type: '%s'", estType)
		}

		group, err := factory(cfg)
		if err != nil {
			return nil, fmt.Errorf("error creating estimator type '%s': %w", estType, err)
		}

		taskGroups = append(taskGroups, *group)
	}

	return taskGroups, nil
}
