package main

import (
	"net/http"
	"time"

	"github.com/kidandcat/firmportal/internal/api"
	"github.com/kidandcat/firmportal/internal/auth"
	"github.com/kidandcat/firmportal/internal/chat"
	"github.com/kidandcat/firmportal/internal/config"
	"github.com/kidandcat/firmportal/internal/content"
	"github.com/kidandcat/firmportal/internal/db"
	"github.com/kidandcat/firmportal/internal/directory"
	"github.com/kidandcat/firmportal/internal/docstore"
	"github.com/kidandcat/firmportal/internal/handlers"
	"github.com/kidandcat/firmportal/internal/logging"
	"github.com/kidandcat/firmportal/internal/role"
	"github.com/kidandcat/firmportal/internal/upload"
)

func uploadBackend(u config.UploadConfig) upload.Backend {
	if u.TickInterval <= 0 {
		return upload.Fixed{100}
	}
	return upload.Simulated{Interval: u.TickInterval, MinStep: u.MinStep, MaxStep: u.MaxStep}
}

// routes wires the in-memory components to the public site, the dashboard
// shell and the JSON API.
func routes(cfg config.Config, a *auth.Service, store *db.Store) (http.Handler, error) {
	dir := directory.NewMock()
	accounts, err := store.ListUsers()
	if err != nil {
		return nil, err
	}
	for _, u := range accounts {
		dir.Users.Import(directory.User{Name: u.Name, Email: u.Email, Role: role.Parse(u.Role), Status: "active"})
	}

	docs := docstore.NewRegistry(uploadBackend(cfg.Upload),
		docstore.WithSeeder(docstore.MockSeeder(time.Now)),
		docstore.WithMaxBytes(cfg.Upload.MaxBytes),
	)
	hub := chat.NewHub(chat.DefaultRoster(), chat.SystemClock, cfg.Chat.ReplyDelay,
		chat.WithMaxBytes(cfg.Upload.MaxBytes),
	)
	a.OnSignOut(hub.End)

	pages, err := content.Load()
	if err != nil {
		return nil, err
	}
	site, err := handlers.New(a, pages, dir, cfg.FirmName)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	site.Register(mux)
	api.New(a, docs, hub, dir, cfg.Upload.MaxBytes).Register(mux)

	return logging.Middleware(mux), nil
}
