package main

import (
	"context"
	"errors"
	"log"
	"net/http"

	adapthttp "microblog/internal/adapter/http"
	"microblog/internal/adapter/postgres"
	"microblog/internal/app"
	"microblog/internal/cache"
	"microblog/internal/config"
	"microblog/internal/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer func() { _ = db.Close() }()

	tokens, err := token.NewManager(cfg.SecretKey, cfg.Algorithm, cfg.AccessTokenTTL)
	if err != nil {
		log.Fatalf("token manager: %v", err)
	}

	authSvc := app.NewAuthService(db, tokens)
	postSvc := app.NewPostService(postgres.NewPostRepo(db), cache.New(), cfg.CacheTTL)

	var sso *adapthttp.SSO
	if cfg.OIDC.Enabled() {
		sso, err = adapthttp.NewSSO(context.Background(), cfg.OIDC)
		if err != nil {
			log.Fatalf("oidc provider: %v", err)
		}
	}

	h := adapthttp.New(authSvc, postSvc, cfg.MaxBodyBytes, sso).Handler()
	log.Printf("listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, h); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
