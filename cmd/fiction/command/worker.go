package command

import (
	"fmt"

	"github.com/pixil98/go-fiction/internal/checker"
	"github.com/pixil98/go-fiction/internal/engine"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	// Load every configured game into the library
	library := engine.MapLibrary{}
	for i, g := range cfg.Games {
		def, err := g.BuildDefinition()
		if err != nil {
			return nil, fmt.Errorf("loading game %d: %w", i, err)
		}
		if _, ok := library[def.Spec.Name]; ok {
			return nil, fmt.Errorf("duplicate game name %q", def.Spec.Name)
		}
		library[def.Spec.Name] = def
	}

	// Create a worker list
	return service.WorkerList{
		"checker": checker.NewChecker(library),
	}, nil
}
