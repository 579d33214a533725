package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robertgriman1702/daka-technical-assessment/internal/event"
	"github.com/robertgriman1702/daka-technical-assessment/internal/model"
)

const stubPokemonJSON = `{
	"name": "pikachu",
	"sprites": {"front_default": "https://sprites.example/pikachu.png"}
}`

func newStubUpstream(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestSpriteService_FetchRandom(t *testing.T) {
	t.Parallel()

	upstream := newStubUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(stubPokemonJSON))
	})

	svc := NewSpriteService(upstream.URL, time.Second, event.NewBus())

	sprite, err := svc.FetchRandom(context.Background())
	require.NoError(t, err)
	require.Equal(t, "pikachu", sprite.Name)
	require.Equal(t, "https://sprites.example/pikachu.png", sprite.Sprite)
	require.NotZero(t, sprite.ID)

	all := svc.FindAll()
	require.Len(t, all, 1)
	require.Equal(t, sprite, all[0])
}

func TestSpriteService_FetchRandomUpstreamError(t *testing.T) {
	t.Parallel()

	upstream := newStubUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	svc := NewSpriteService(upstream.URL, time.Second, event.NewBus())

	_, err := svc.FetchRandom(context.Background())
	require.ErrorIs(t, err, model.ErrUpstream)
	require.Empty(t, svc.FindAll())
}

func TestSpriteService_RemoveAndRemoveAll(t *testing.T) {
	t.Parallel()

	upstream := newStubUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(stubPokemonJSON))
	})

	svc := NewSpriteService(upstream.URL, time.Second, event.NewBus())
	ctx := context.Background()

	first, err := svc.FetchRandom(ctx)
	require.NoError(t, err)
	second, err := svc.FetchRandom(ctx)
	require.NoError(t, err)

	require.NotEqual(t, first.ID, second.ID)

	require.NoError(t, svc.Remove(first.ID))
	require.ErrorIs(t, svc.Remove(first.ID), model.ErrSpriteNotFound)

	require.Len(t, svc.FindAll(), 1)
	require.Equal(t, second.ID, svc.FindAll()[0].ID)

	require.Equal(t, 1, svc.RemoveAll())
	require.Empty(t, svc.FindAll())
	require.Equal(t, 0, svc.RemoveAll())
}

func TestSpriteService_PublishesEvents(t *testing.T) {
	t.Parallel()

	upstream := newStubUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(stubPokemonJSON))
	})

	bus := event.NewBus()
	events, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	svc := NewSpriteService(upstream.URL, time.Second, bus)

	sprite, err := svc.FetchRandom(context.Background())
	require.NoError(t, err)

	fetched := <-events
	require.Equal(t, event.TypeSpriteFetched, fetched.Type)

	require.NoError(t, svc.Remove(sprite.ID))
	deleted := <-events
	require.Equal(t, event.TypeSpriteDeleted, deleted.Type)

	svc.RemoveAll()
	cleared := <-events
	require.Equal(t, event.TypeSpriteCleared, cleared.Type)
}
