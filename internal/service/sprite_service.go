package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robertgriman1702/daka-technical-assessment/internal/event"
	"github.com/robertgriman1702/daka-technical-assessment/internal/model"
)

// maxPokedexID is the highest upstream id we roll for a random fetch.
const maxPokedexID = 898

// SpriteService fetches random sprites from the upstream pokemon API and
// keeps them in an in-memory list. Fetched and deleted sprites are announced
// on the event bus so connected websocket clients see them live.
type SpriteService struct {
	client  *http.Client
	baseURL string
	bus     event.Bus

	mu      sync.Mutex
	sprites []model.Sprite
	lastID  int64
}

func NewSpriteService(baseURL string, timeout time.Duration, bus event.Bus) *SpriteService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &SpriteService{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		bus:     bus,
		sprites: []model.Sprite{},
	}
}

type upstreamPokemon struct {
	Name    string `json:"name"`
	Sprites struct {
		FrontDefault string `json:"front_default"`
	} `json:"sprites"`
}

func (s *SpriteService) FetchRandom(ctx context.Context) (model.Sprite, error) {
	pokedexID := rand.Intn(maxPokedexID) + 1

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/pokemon/%d", s.baseURL, pokedexID), nil)
	if err != nil {
		return model.Sprite{}, fmt.Errorf("build upstream request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Warn("sprite fetch failed", "pokedex_id", pokedexID, "error", err)
		return model.Sprite{}, model.ErrUpstream
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("sprite fetch returned non-200", "pokedex_id", pokedexID, "status", resp.StatusCode)
		return model.Sprite{}, model.ErrUpstream
	}

	var parsed upstreamPokemon
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		slog.Warn("sprite response decode failed", "pokedex_id", pokedexID, "error", err)
		return model.Sprite{}, model.ErrUpstream
	}

	s.mu.Lock()
	// Millisecond timestamps are the sprite id; bump by one when two fetches
	// land in the same millisecond so ids stay unique.
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id

	sprite := model.Sprite{
		ID:     id,
		Name:   parsed.Name,
		Sprite: parsed.Sprites.FrontDefault,
	}
	s.sprites = append(s.sprites, sprite)
	s.mu.Unlock()

	s.publish(event.TypeSpriteFetched, sprite)
	return sprite, nil
}

func (s *SpriteService) FindAll() []model.Sprite {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Sprite, len(s.sprites))
	copy(out, s.sprites)
	return out
}

func (s *SpriteService) Remove(id int64) error {
	s.mu.Lock()
	index := -1
	for i, sprite := range s.sprites {
		if sprite.ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		s.mu.Unlock()
		return model.ErrSpriteNotFound
	}
	s.sprites = append(s.sprites[:index], s.sprites[index+1:]...)
	s.mu.Unlock()

	s.publish(event.TypeSpriteDeleted, model.DeleteResult{Deleted: true, ID: id})
	return nil
}

func (s *SpriteService) RemoveAll() int {
	s.mu.Lock()
	count := len(s.sprites)
	s.sprites = []model.Sprite{}
	s.mu.Unlock()

	s.publish(event.TypeSpriteCleared, model.ClearResult{Deleted: true, Count: count})
	return count
}

func (s *SpriteService) publish(eventType event.Type, payload any) {
	if s.bus == nil {
		return
	}

	s.bus.Publish(event.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
