package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-fiction/internal/bundle"
	"github.com/pixil98/go-fiction/internal/engine"
	"github.com/pixil98/go-fiction/internal/storage"
	"github.com/pixil98/go-fiction/internal/world"
)

// GameConfig points at one game's definition directories.
type GameConfig struct {
	Game     AssetConfig[*world.GameSpec]   `json:"game"`
	Rooms    AssetConfig[*world.RoomSpec]   `json:"rooms"`
	Entities AssetConfig[*world.EntitySpec] `json:"entities"`

	// Passages and Assets are optional; not every game ships prose
	// assets separately from its definitions.
	Passages AssetConfig[*bundle.Passage] `json:"passages"`
	Assets   string                       `json:"assets"`
}

func (c *GameConfig) validate() error {
	el := errors.NewErrorList()
	el.Add(c.Game.Validate("game"))
	el.Add(c.Rooms.Validate("rooms"))
	el.Add(c.Entities.Validate("entities"))
	if c.Passages.Path != "" {
		el.Add(c.Passages.Validate("passages"))
	}
	return el.Err()
}

// BuildDefinition loads the game's stores and assembles the engine
// definition. The game directory must hold exactly one game spec.
func (c *GameConfig) BuildDefinition() (*engine.Definition, error) {
	games, err := c.Game.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating game store: %w", err)
	}
	rooms, err := c.Rooms.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating room store: %w", err)
	}
	entities, err := c.Entities.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating entity store: %w", err)
	}

	all := games.GetAll()
	if len(all) != 1 {
		return nil, fmt.Errorf("expected exactly one game spec in %q, found %d", c.Game.Path, len(all))
	}
	var spec *world.GameSpec
	for _, s := range all {
		spec = s
	}

	def := &engine.Definition{
		Spec:     spec,
		Rooms:    rooms,
		Entities: entities,
	}

	if c.Passages.Path != "" {
		passages, err := c.Passages.BuildFileStore()
		if err != nil {
			return nil, fmt.Errorf("creating passage store: %w", err)
		}
		root := c.Assets
		if root == "" {
			root = c.Passages.Path
		}
		def.Passages = bundle.NewFileProvider(passages, root)
	}

	return def, nil
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}
