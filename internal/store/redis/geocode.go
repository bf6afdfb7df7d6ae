package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// LatLng is one memoized place coordinate.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// geocodeDoc is the persisted shape of the geocode memo: a versioned
// JSON document read-modify-written wholesale. Concurrent writers are
// not coordinated; last write wins, and entries are never evicted.
type geocodeDoc struct {
	Version   int               `json:"version"`
	UpdatedAt string            `json:"updatedAt"`
	Entries   map[string]LatLng `json:"entries"`
}

// Store handles Redis operations for the geocode memo.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// NormalizePlace folds a place name into its cache key form.
func NormalizePlace(place string) string {
	return strings.ToLower(strings.TrimSpace(place))
}

// GetLatLng returns the memoized coordinate for place, or nil on a miss.
func (s *Store) GetLatLng(ctx context.Context, place string) (*LatLng, error) {
	key := NormalizePlace(place)
	if key == "" {
		return nil, nil
	}

	doc, err := s.readDoc(ctx)
	if err != nil {
		return nil, err
	}
	if ll, ok := doc.Entries[key]; ok {
		return &ll, nil
	}
	return nil, nil
}

// PutLatLng memoizes a successful geocode lookup for place.
func (s *Store) PutLatLng(ctx context.Context, place string, ll LatLng) error {
	key := NormalizePlace(place)
	if key == "" {
		return nil
	}

	doc, err := s.readDoc(ctx)
	if err != nil {
		return err
	}
	doc.Entries[key] = ll
	doc.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal geocode cache: %w", err)
	}
	if err := s.client.Set(ctx, KeyGeocodeCache, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save geocode cache: %w", err)
	}
	return nil
}

// EntryCount reports how many places are memoized.
func (s *Store) EntryCount(ctx context.Context) (int, error) {
	doc, err := s.readDoc(ctx)
	if err != nil {
		return 0, err
	}
	return len(doc.Entries), nil
}

func (s *Store) readDoc(ctx context.Context) (geocodeDoc, error) {
	data, err := s.client.Get(ctx, KeyGeocodeCache).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return emptyDoc(), nil
		}
		return geocodeDoc{}, fmt.Errorf("failed to get geocode cache: %w", err)
	}
	return decodeDoc(data), nil
}

// decodeDoc tolerates a malformed or wrong-version document by starting
// over with an empty memo, mirroring the cache's best-effort contract.
func decodeDoc(data []byte) geocodeDoc {
	var doc geocodeDoc
	if err := json.Unmarshal(data, &doc); err != nil || doc.Version != 1 || doc.Entries == nil {
		return emptyDoc()
	}
	return doc
}

func emptyDoc() geocodeDoc {
	return geocodeDoc{
		Version:   1,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
		Entries:   make(map[string]LatLng),
	}
}
