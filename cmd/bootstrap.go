package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/rm-hull/godx"

	"github.com/letteryzzm/jike-skill/internal"
	"github.com/letteryzzm/jike-skill/internal/models"
)

// bootstrap initialises the shared resources used by every API command:
// environment, startup diagnostics, and the authenticated client. Token
// flags take precedence over JIKE_ACCESS_TOKEN / JIKE_REFRESH_TOKEN.
func bootstrap(accessToken, refreshToken string) (internal.JikeClient, internal.Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	godx.GitVersion()
	godx.EnvironmentVars()
	godx.UserInfo()

	if accessToken == "" {
		accessToken = os.Getenv("JIKE_ACCESS_TOKEN")
	}
	if refreshToken == "" {
		refreshToken = os.Getenv("JIKE_REFRESH_TOKEN")
	}

	cfg := internal.DefaultConfig()
	tokens := models.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}

	client, err := internal.NewJikeClient(cfg, tokens)
	if err != nil {
		return nil, cfg, fmt.Errorf("missing credentials, run `jike auth` and export JIKE_ACCESS_TOKEN / JIKE_REFRESH_TOKEN: %w", err)
	}

	return client, cfg, nil
}
