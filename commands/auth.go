package commands

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/net/context"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// authorize returns an HTTP client for the Google APIs, using the cached tokens if they exist
// and otherwise running the OAuth2 installed application flow.
func authorize(ctx context.Context, credentials, tokens string, scopes ...string) (*http.Client, error) {
	config, err := oauthConfig(credentials, scopes...)
	if err != nil {
		return nil, err
	}

	token, err := tokenFromFile(tokens)
	if err != nil {
		if token, err = getTokenFromWeb(ctx, config); err != nil {
			return nil, err
		} else if err := saveToken(tokens, token); err != nil {
			return nil, err
		}
	}

	source := config.TokenSource(ctx, token)
	refreshed, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("unable to refresh OAuth2 token - try running 'authorise' (%w)", err)
	}

	if refreshed.AccessToken != token.AccessToken {
		if err := saveToken(tokens, refreshed); err != nil {
			return nil, err
		}
	}

	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(refreshed, source)), nil
}

func oauthConfig(credentials string, scopes ...string) (*oauth2.Config, error) {
	bytes, err := os.ReadFile(credentials)
	if err != nil {
		return nil, err
	}

	return google.ConfigFromJSON(bytes, scopes...)
}

// tokensFile returns the path of the cached OAuth2 tokens for a credentials file, e.g.
// <dir>/credentials.sheets for credentials.json.
func tokensFile(dir, credentials string) string {
	_, file := filepath.Split(credentials)
	name := strings.TrimSuffix(file, filepath.Ext(file))

	return filepath.Join(dir, fmt.Sprintf("%s.sheets", name))
}

// getTokenFromWeb requests an authorisation code via the user's browser and exchanges it for a
// token. The authorisation code is returned to a temporary HTTP listener on the loopback
// interface.
func getTokenFromWeb(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}

	state, err := nonce()
	if err != nil {
		return nil, err
	}

	config.RedirectURL = fmt.Sprintf("http://%v", listener.Addr())

	authorised := make(chan string, 1)
	rejected := make(chan error, 1)

	srv := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
			if rq.FormValue("state") != state {
				http.Error(w, "Invalid authorisation state", http.StatusBadRequest)
				return
			}

			if e := rq.FormValue("error"); e != "" {
				fmt.Fprintf(w, "%v authorisation failed (%v)\n", APP, e)
				select {
				case rejected <- fmt.Errorf("authorisation failed (%v)", e):
				default:
				}
				return
			}

			if code := rq.FormValue("code"); code != "" {
				fmt.Fprintf(w, "%v authorised - you can close this window\n", APP)
				select {
				case authorised <- code:
				default:
				}
			}
		}),
	}

	go func() {
		if err := srv.Serve(listener); err != http.ErrServerClosed {
			warnf("%v", err)
		}
	}()

	defer func() {
		if err := srv.Shutdown(context.Background()); err != nil {
			warnf("%v", err)
		}
	}()

	url := config.AuthCodeURL(state, oauth2.AccessTypeOffline)

	fmt.Printf("Go to the following link in your browser to authorise %v:\n\n  %v\n\n", APP, url)

	if err := exec.Command(BROWSER, url).Start(); err != nil {
		fmt.Println("Could not open the authorisation page in your browser - please open the link manually")
	}

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("authorisation cancelled (%w)", ctx.Err())

	case err := <-rejected:
		return nil, err

	case code := <-authorised:
		token, err := config.Exchange(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve token from web (%w)", err)
		}

		return token, nil
	}
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	token := oauth2.Token{}
	if err := json.NewDecoder(f).Decode(&token); err != nil {
		return nil, err
	}

	return &token, nil
}

func saveToken(file string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(file), 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(file, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache OAuth2 token (%w)", err)
	}

	defer f.Close()

	return json.NewEncoder(f).Encode(token)
}

func nonce() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}
