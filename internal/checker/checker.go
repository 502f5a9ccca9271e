// Package checker builds every game in a library once and reports what
// it finds. Authors run it against their definition files before
// shipping; broken references surface here instead of at play time.
package checker

import (
	"context"
	"fmt"
	"sort"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-fiction/internal/attr"
	"github.com/pixil98/go-fiction/internal/engine"
	"github.com/pixil98/go-fiction/internal/world"
	"github.com/pixil98/go-log"
)

type Checker struct {
	library engine.MapLibrary
}

func NewChecker(library engine.MapLibrary) *Checker {
	return &Checker{library: library}
}

// Start checks every game and returns an aggregate error when any
// failed to build. It runs once and exits; there is nothing to serve.
func (c *Checker) Start(ctx context.Context) error {
	logger := log.GetLogger(ctx)

	names := make([]string, 0, len(c.library))
	for name := range c.library {
		names = append(names, name)
	}
	sort.Strings(names)

	el := errors.NewErrorList()
	for _, name := range names {
		def := c.library[name]

		reg := attr.NewRegistry()
		sys, err := world.RegisterSystemAttributes(reg)
		if err != nil {
			return err
		}

		w, err := world.NewBuilder(def.Spec, def.Rooms, def.Entities).Build(reg, sys)
		if err != nil {
			logger.Errorf("game %q: %s", name, err)
			el.Add(fmt.Errorf("game %q: %w", name, err))
			continue
		}

		logger.Infof("game %q ok: %d rooms, %d entities, %d attributes",
			name, len(w.Rooms()), len(w.Entities()), reg.Count())
	}

	return el.Err()
}
