package state

import (
	"encoding/json"
	"fmt"
	"slices"
	"sync"
)

// Store owns the client State. Favorite and history actions are written to
// storage before Dispatch returns.
type Store struct {
	mu      sync.Mutex
	state   State
	storage Storage
}

// NewStore hydrates favorites and search history from storage. Missing or
// corrupt entries start out empty.
func NewStore(storage Storage) (*Store, error) {
	favorites, err := loadList(storage, KeyFavorites)
	if err != nil {
		return nil, err
	}
	history, err := loadList(storage, KeySearchHistory)
	if err != nil {
		return nil, err
	}

	return &Store{
		state: State{
			Favorites:     favorites,
			SearchHistory: history,
		},
		storage: storage,
	}, nil
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.state
	if out.CurrentWeather != nil {
		w := *out.CurrentWeather
		out.CurrentWeather = &w
	}
	out.Forecast = slices.Clone(out.Forecast)
	out.Favorites = slices.Clone(out.Favorites)
	out.SearchHistory = slices.Clone(out.SearchHistory)
	return out
}

// Dispatch applies a and persists the list it touched. The in-memory state
// is updated even if the write fails.
func (s *Store) Dispatch(a Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Reduce(s.state, a)

	switch a.(type) {
	case AddFavorite, RemoveFavorite:
		return s.persist(KeyFavorites, s.state.Favorites)
	case AddToHistory:
		return s.persist(KeySearchHistory, s.state.SearchHistory)
	}
	return nil
}

func (s *Store) persist(key string, list []string) error {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	if err := s.storage.Set(key, string(b)); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}

func loadList(storage Storage, key string) ([]string, error) {
	raw, ok, err := storage.Get(key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return nil, nil
	}

	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, nil
	}
	return list, nil
}
