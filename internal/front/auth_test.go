package front

import (
	"context"
	"errors"
	"testing"

	"github.com/BibaPutt/vibeathon-arena/internal/game"
	"github.com/BibaPutt/vibeathon-arena/internal/models"
)

type storeDispatcher struct {
	store *game.Store
}

func (d *storeDispatcher) Dispatch(ctx context.Context, action game.Action) models.GameStore {
	return d.store.Apply(action)
}

func (d *storeDispatcher) State() models.GameStore {
	return d.store.Snapshot()
}

type fakeGateway struct {
	remote   *models.SharedState
	fetchErr error
}

func (g *fakeGateway) FetchShared(ctx context.Context) (*models.SharedState, error) {
	return g.remote, g.fetchErr
}

func (g *fakeGateway) PushShared(ctx context.Context, shared *models.SharedState) error {
	return nil
}

func newAuth(t *testing.T) (*Auth, *storeDispatcher, *fakeGateway) {
	t.Helper()
	dispatcher := &storeDispatcher{store: game.NewStore(models.DefaultStore(3))}
	remote := models.DefaultStore(3).ToShared()
	gw := &fakeGateway{remote: &remote}
	return NewAuth(dispatcher, gw, "tumhari_maut"), dispatcher, gw
}

func TestNormalizePlayerID(t *testing.T) {
	cases := map[string]string{
		"7":       "007",
		"007":     "007",
		"VB-007":  "007",
		" 12 ":    "012",
		"vb 3":    "003",
		"1234":    "1234",
		"letters": "",
		"":        "",
	}
	for in, want := range cases {
		if got := normalizePlayerID(in); got != want {
			t.Fatalf("normalizePlayerID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoginAdminCode(t *testing.T) {
	auth, dispatcher, _ := newAuth(t)

	result, err := auth.Login(context.Background(), "tumhari_maut")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Role != "admin" || result.PlayerID != "" {
		t.Fatalf("result = %+v, want admin", result)
	}
	if state := dispatcher.State(); !state.IsAdmin {
		t.Fatal("admin flag not set")
	}
}

func TestLoginPlayerValidatesAgainstFreshRemote(t *testing.T) {
	auth, dispatcher, _ := newAuth(t)

	result, err := auth.Login(context.Background(), "VB-2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Role != "player" || result.PlayerID != "002" {
		t.Fatalf("result = %+v, want player 002", result)
	}
	if state := dispatcher.State(); state.CurrentPlayerID != "002" {
		t.Fatalf("CurrentPlayerID = %q", state.CurrentPlayerID)
	}
}

func TestLoginRejections(t *testing.T) {
	ctx := context.Background()

	t.Run("no digits", func(t *testing.T) {
		auth, _, _ := newAuth(t)
		if _, err := auth.Login(ctx, "garbage"); !errors.Is(err, ErrInvalidCode) {
			t.Fatalf("err = %v, want ErrInvalidCode", err)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		auth, _, _ := newAuth(t)
		if _, err := auth.Login(ctx, "999"); !errors.Is(err, ErrPlayerNotFound) {
			t.Fatalf("err = %v, want ErrPlayerNotFound", err)
		}
	})

	t.Run("gateway down", func(t *testing.T) {
		auth, _, gw := newAuth(t)
		gw.fetchErr = errors.New("connection refused")
		if _, err := auth.Login(ctx, "001"); !errors.Is(err, ErrServerUnavailable) {
			t.Fatalf("err = %v, want ErrServerUnavailable", err)
		}
	})

	t.Run("already active", func(t *testing.T) {
		auth, _, gw := newAuth(t)
		gw.remote.Players[0].Status = models.StatusPlaying
		if _, err := auth.Login(ctx, "001"); !errors.Is(err, ErrAlreadyActive) {
			t.Fatalf("err = %v, want ErrAlreadyActive", err)
		}
	})

	t.Run("eliminated", func(t *testing.T) {
		auth, _, gw := newAuth(t)
		gw.remote.Players[0].Status = models.StatusEliminated
		if _, err := auth.Login(ctx, "001"); !errors.Is(err, ErrEliminated) {
			t.Fatalf("err = %v, want ErrEliminated", err)
		}
	})

	t.Run("completed", func(t *testing.T) {
		auth, _, gw := newAuth(t)
		gw.remote.Players[0].Status = models.StatusCompleted
		if _, err := auth.Login(ctx, "001"); !errors.Is(err, ErrCompleted) {
			t.Fatalf("err = %v, want ErrCompleted", err)
		}
	})
}

func TestLogoutClearsIdentity(t *testing.T) {
	auth, dispatcher, _ := newAuth(t)
	if _, err := auth.Login(context.Background(), "001"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	auth.Logout(context.Background())

	state := dispatcher.State()
	if state.CurrentPlayerID != "" || state.IsAdmin {
		t.Fatalf("identity survived logout: %+v", state)
	}
}
