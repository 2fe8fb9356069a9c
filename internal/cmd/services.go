package main

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/BibaPutt/vibeathon-arena/internal/admin"
	"github.com/BibaPutt/vibeathon-arena/internal/arena"
	"github.com/BibaPutt/vibeathon-arena/internal/catalog"
	"github.com/BibaPutt/vibeathon-arena/internal/front"
	"github.com/BibaPutt/vibeathon-arena/internal/game"
	"github.com/BibaPutt/vibeathon-arena/internal/gateway"
	"github.com/BibaPutt/vibeathon-arena/internal/models"
	"github.com/BibaPutt/vibeathon-arena/internal/session"
	syncpkg "github.com/BibaPutt/vibeathon-arena/internal/sync"
)

// Services holds every constructed component of the game core.
type Services struct {
	DB       *sql.DB
	Sessions *session.SQLiteStore
	Gateway  *gateway.Client
	Loop     *syncpkg.Loop
	Engine   *arena.Engine
	Auth     *front.Auth
	Controls *admin.Controls
	ConnMgr  *front.ConnectionManager
	Handler  *front.Handler
}

func setupServices(ctx context.Context, cfg *Config, tuning Tuning) (*Services, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	db, err := session.OpenDatabase(ctx, filepath.Join(cfg.DataDir, "session.db"))
	if err != nil {
		return nil, err
	}

	sessions, err := session.NewSQLiteStore(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}

	bank, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		db.Close()
		return nil, err
	}

	clock := clockwork.NewRealClock()
	gw := gateway.NewClient(gateway.Config{
		BaseURL:   cfg.SharedBinURL,
		MasterKey: cfg.SharedBinKey,
	})

	store := game.NewStore(models.DefaultStore(tuning.RosterSize))
	loop := syncpkg.NewLoop(store, gw, sessions, clock, tuning.pollInterval())

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	engine := arena.NewEngine(loop, bank, sessions, clock, rng, arena.Tuning{
		Cooldown: tuning.cooldown(),
		Tick:     tuning.tickInterval(),
	})

	auth := front.NewAuth(loop, gw, tuning.AdminCode)
	controls := admin.NewControls(loop, clock)
	connMgr := front.NewConnectionManager(front.DefaultConnectionConfig())

	loop.OnChange(func(state models.GameStore) {
		event, err := front.NewStateEvent(state)
		if err != nil {
			return
		}
		connMgr.Broadcast(event)
	})

	return &Services{
		DB:       db,
		Sessions: sessions,
		Gateway:  gw,
		Loop:     loop,
		Engine:   engine,
		Auth:     auth,
		Controls: controls,
		ConnMgr:  connMgr,
		Handler:  front.NewHandler(loop, auth, engine, controls, connMgr),
	}, nil
}
