package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// loadCollection decodes the whole-collection blob stored under key. A
// missing blob yields an empty collection. A blob that fails to decode is
// deleted and likewise yields an empty collection; corrupted state is
// discarded, never kept and never fatal.
func loadCollection[T any](store Store, key string, log zerolog.Logger) []T {
	data, err := store.Get(key)
	if errors.Is(err, ErrKeyNotFound) {
		log.Debug().Str("key", key).Msg("No saved collection found")
		return nil
	}
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to read collection, starting empty")
		return nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Discarding corrupted collection blob")
		if delErr := store.Delete(key); delErr != nil {
			log.Warn().Err(delErr).Str("key", key).Msg("Failed to delete corrupted blob")
		}
		return nil
	}

	log.Info().Int("count", len(items)).Str("key", key).Msg("Loaded collection from storage")
	return items
}

// persistCollection re-encodes the full collection and mirrors it to the
// store under key.
func persistCollection[T any](store Store, key string, items []T) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode collection %q: %w", key, err)
	}
	if err := store.Put(key, data); err != nil {
		return fmt.Errorf("failed to persist collection %q: %w", key, err)
	}
	return nil
}
