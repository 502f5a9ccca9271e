package persist

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"
)

var slotBucket = []byte("saves")

// SlotInfo summarizes one named save without loading the full world
// state into the caller.
type SlotInfo struct {
	Name     string
	GameName string
	SavedAt  time.Time
	NumTurns int
}

// SlotStore keeps named saves in a single bolt file, one gob-encoded
// GameState per slot.
type SlotStore struct {
	db *bolt.DB
}

// OpenSlotStore opens or creates the save database at path.
func OpenSlotStore(path string) (*SlotStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening save database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(slotBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating save bucket: %w", err)
	}

	return &SlotStore{db: db}, nil
}

func (s *SlotStore) Save(slot string, st *GameState) error {
	if slot == "" {
		return fmt.Errorf("slot name is required")
	}

	var buf bytes.Buffer
	if err := Write(&buf, st); err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(slotBucket).Put([]byte(slot), buf.Bytes())
	})
}

func (s *SlotStore) Load(slot string) (*GameState, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(slotBucket).Get([]byte(slot)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading slot %q: %w", slot, err)
	}
	if data == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoSlot, slot)
	}

	return Read(bytes.NewReader(data))
}

// List returns a summary of every readable slot, newest first. Slots
// whose data no longer decodes are skipped rather than failing the
// whole listing.
func (s *SlotStore) List() ([]SlotInfo, error) {
	var out []SlotInfo
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(slotBucket).ForEach(func(k, v []byte) error {
			st, err := Read(bytes.NewReader(v))
			if err != nil {
				return nil
			}
			out = append(out, SlotInfo{
				Name:     string(k),
				GameName: st.GameName,
				SavedAt:  st.SavedAt,
				NumTurns: st.NumTurns,
			})
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("listing slots: %w", err)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].SavedAt.After(out[j].SavedAt) })
	return out, nil
}

func (s *SlotStore) Delete(slot string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(slotBucket).Delete([]byte(slot))
	})
}

func (s *SlotStore) Close() error {
	return s.db.Close()
}
