package mapmyride

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"
)

const AuthorizeURL = "https://www.mapmyfitness.com/oauth2/authorize/"

var timeNow = time.Now

type OAuthParams struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// OAuth runs the authorization code flow against the API's token endpoint
type OAuth struct {
	config     *oauth2.Config
	httpClient *http.Client
}

// NewOAuth builds the OAuth helper; baseURL is the API root the token endpoint lives under
func NewOAuth(baseURL string, params OAuthParams) *OAuth {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}

	return &OAuth{
		config: &oauth2.Config{
			ClientID:     params.ClientID,
			ClientSecret: params.ClientSecret,
			RedirectURL:  params.RedirectURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:   AuthorizeURL,
				TokenURL:  baseURL + "/v7.2/oauth2/access_token/",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		// the token endpoint wants the Api-Key header as well
		httpClient: &http.Client{
			Transport: &apiKeyTransport{
				apiKey: params.ClientID,
				base:   http.DefaultTransport,
			},
		},
	}
}

func (o *OAuth) AuthCodeURL(state string) string {
	return o.config.AuthCodeURL(state)
}

func (o *OAuth) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, o.httpClient)
	token, err := o.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	return token, nil
}

func (o *OAuth) RefreshToken(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, o.httpClient)
	token, err := o.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}
	return token, nil
}

// ExpiresInDays returns the token lifetime reported by the token endpoint, in days
func ExpiresInDays(token *oauth2.Token) float64 {
	if token == nil {
		return 0
	}
	switch v := token.Extra("expires_in").(type) {
	case float64:
		return v / (24 * 60 * 60)
	case string:
		if secs, err := strconv.ParseFloat(v, 64); err == nil {
			return secs / (24 * 60 * 60)
		}
	}
	if token.Expiry.IsZero() {
		return 0
	}
	return token.Expiry.Sub(timeNow()).Hours() / 24
}

type apiKeyTransport struct {
	apiKey string
	base   http.RoundTripper
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("Api-Key", t.apiKey)
	return t.base.RoundTrip(clone)
}
