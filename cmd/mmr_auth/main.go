package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/2beens/ridesmap/internal/config"
	"github.com/2beens/ridesmap/internal/logging"
	"github.com/2beens/ridesmap/internal/mapmyride"
	"github.com/2beens/ridesmap/pkg"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	code := flag.String("code", "", "authorization code from the redirect, exchanged for a token")
	refreshToken := flag.String("refresh", "", "refresh token, exchanged for a new access token")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogToStdout: true,
		LogLevel:    cfg.LogLevel,
		Environment: cfg.Environment,
	})

	secrets, err := pkg.RequiredEnv("MMR_CLIENT_ID", "MMR_CLIENT_SECRET")
	if err != nil {
		log.Fatalln(err)
	}

	oauth := mapmyride.NewOAuth(cfg.MapMyRideAPIURL, mapmyride.OAuthParams{
		ClientID:     secrets["MMR_CLIENT_ID"],
		ClientSecret: secrets["MMR_CLIENT_SECRET"],
		RedirectURL:  cfg.MapMyRideRedirectURL,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var token *oauth2.Token
	switch {
	case *code != "":
		token, err = oauth.ExchangeCode(ctx, *code)
	case *refreshToken != "":
		token, err = oauth.RefreshToken(ctx, *refreshToken)
	default:
		state, err := pkg.GenerateRandomString(16)
		if err != nil {
			log.Fatalf("generate state: %s", err)
		}
		fmt.Println("open the following url, authorize the app, and run again with -code=<code from the redirect>:")
		fmt.Println(oauth.AuthCodeURL(state))
		fmt.Printf("state: %s\n", state)
		return
	}
	if err != nil {
		log.Fatalf("get token: %s", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(token); err != nil {
		log.Fatalf("print token: %s", err)
	}
	fmt.Printf("token expires in %.1f days, export it as MMR_AUTH_TOKEN\n", mapmyride.ExpiresInDays(token))
}
