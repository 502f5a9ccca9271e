package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

type Config struct {
	Games []GameConfig `json:"games"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if len(c.Games) == 0 {
		el.Add(fmt.Errorf("at least one game is required"))
	}
	for i, g := range c.Games {
		if err := g.validate(); err != nil {
			el.Add(fmt.Errorf("game %d: %w", i, err))
		}
	}

	return el.Err()
}
