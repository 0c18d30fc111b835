package auth

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"time"
)

const callbackPage = "The authentication flow has completed. You may close this window."

// LocalServerFlow runs the installed application authorization code flow. It listens on a random
// loopback port for the redirect, so the client secret must allow loopback redirect URIs.
type LocalServerFlow struct {
	// Host defaults to 127.0.0.1.
	Host    string
	Timeout time.Duration
	// Open presents the consent URL to the user. Defaults to printing it and trying to start a browser.
	Open func(authURL string) error
}

type callbackResult struct {
	code string
	err  error
}

func (f LocalServerFlow) Authorize(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	host := f.Host
	if host == "" {
		host = "127.0.0.1"
	}

	timeout := f.Timeout
	if timeout == 0 {
		timeout = 5 * time.Minute
	}

	listener, err := net.Listen("tcp", net.JoinHostPort(host, "0"))

	if err != nil {
		return nil, fmt.Errorf("failed to listen for the authorization callback: %w", err)
	}

	flowConfig := *config
	flowConfig.RedirectURL = "http://" + listener.Addr().String() + "/"

	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	authURL := flowConfig.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier))

	results := make(chan callbackResult, 1)
	server := &http.Server{
		Handler:           callbackHandler(state, results),
		ReadHeaderTimeout: 10 * time.Second,
	}

	flowCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	group, groupCtx := errgroup.WithContext(flowCtx)

	group.Go(func() error {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	var code string
	group.Go(func() error {
		defer server.Close()

		if err := f.open(authURL); err != nil {
			return err
		}

		select {
		case result := <-results:
			code = result.code
			return result.err
		case <-groupCtx.Done():
			return groupCtx.Err()
		}
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return flowConfig.Exchange(ctx, code, oauth2.VerifierOption(verifier))
}

func (f LocalServerFlow) open(authURL string) error {
	if f.Open != nil {
		return f.Open(authURL)
	}

	fmt.Println("Please visit this URL to authorize this application: " + authURL)

	if err := openBrowser(authURL); err != nil {
		zap.L().Debug("Could not open a browser: " + err.Error())
	}

	return nil
}

// callbackHandler accepts the first redirect that carries the expected state. Later requests are ignored.
func callbackHandler(state string, results chan<- callbackResult) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		query := r.URL.Query()
		result := callbackResult{}

		switch {
		case query.Get("state") != state:
			result.err = errors.New("the authorization callback had an unexpected state")
		case query.Get("error") != "":
			result.err = errors.New("authorization was denied: " + query.Get("error"))
		case query.Get("code") == "":
			result.err = errors.New("the authorization callback did not include a code")
		default:
			result.code = query.Get("code")
		}

		if result.err != nil {
			http.Error(w, result.err.Error(), http.StatusBadRequest)
		} else {
			w.Write([]byte(callbackPage))
		}

		select {
		case results <- result:
		default:
		}
	})
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}

	return cmd.Start()
}
