package pesu

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"pesuslides/lib/telemetry"

	"github.com/stretchr/testify/require"
)

const loginPageFixture = `<html><head>
	<meta name="csrf-token" content="%s">
</head><body>login</body></html>`

func newTestClient(t *testing.T, baseUrl string) *Client {
	client, err := NewClient(context.Background(), ClientOptions{BaseUrl: baseUrl})
	require.NoError(t, err)
	return client
}

func TestLogin(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:pesu")
	defer cleanup()

	mux := http.NewServeMux()
	mux.HandleFunc(rootPath, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, loginPageFixture, "tok-login")
	})
	mux.HandleFunc(loginPath, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "stu123", r.PostForm.Get("j_username"))
		require.Equal(t, "hunter2", r.PostForm.Get("j_password"))
		require.Equal(t, "tok-login", r.Header.Get("X-CSRF-Token"))
		http.Redirect(w, r, profilePath, http.StatusFound)
	})
	mux.HandleFunc(profilePath, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, loginPageFixture, "tok-profile")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server.URL)
	err := client.Login(context.Background(), "stu123", "hunter2")
	require.NoError(t, err)
}

func TestLoginBadCredentials(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:pesu")
	defer cleanup()

	mux := http.NewServeMux()
	mux.HandleFunc(rootPath, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, loginPageFixture, "tok-login")
	})
	// the portal signals a bad password by bouncing back to the login
	// page with a 200, never through a 4xx
	mux.HandleFunc(loginPath, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, rootPath, http.StatusFound)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server.URL)
	err := client.Login(context.Background(), "stu123", "wrong")
	require.ErrorIs(t, err, LoginFailed)
}

func TestLoginTokenMissing(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:pesu")
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head></head><body>maintenance</body></html>`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	err := client.Login(context.Background(), "stu123", "hunter2")
	require.ErrorIs(t, err, TokenNotFound)
}

func TestRefreshTokenRotates(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:pesu")
	defer cleanup()

	serial := 0
	mux := http.NewServeMux()
	mux.HandleFunc(profilePath, func(w http.ResponseWriter, r *http.Request) {
		serial++
		fmt.Fprintf(w, loginPageFixture, fmt.Sprintf("tok-%d", serial))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server.URL)

	first, err := client.RefreshToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "tok-1", first)

	second, err := client.RefreshToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "tok-2", second)
}
