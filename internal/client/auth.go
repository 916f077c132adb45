package client

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

const loginPath = "/user/login/"

// Login primes the CSRF cookie with a GET of the login page, then posts the
// credentials with that token attached and the login page as referer. Success
// is judged by response status; the API answers directly, no redirect chasing
// needed. On success the session is persisted.
func (c *odaClient) Login(ctx context.Context, email, password string) error {
	loginURL := c.transport.pageURL(loginPath, nil)
	if _, err := c.transport.document(ctx, loginPath, nil); err != nil {
		return fmt.Errorf("failed to fetch login page: %w", err)
	}

	form := map[string]string{
		"email":      email,
		"password":   password,
		"csrf-token": c.session.CSRFToken(),
	}
	if _, err := c.transport.postForm(ctx, loginPath, loginURL, form); err != nil {
		return fmt.Errorf("login rejected: %w", err)
	}

	if err := c.session.Save(); err != nil {
		// The session is valid in memory either way; only persistence failed.
		log.Warnf("could not persist session after login: %v", err)
	}
	log.Infof("logged in as %s", email)
	return nil
}

// CheckUser probes an authenticated page for the embedded current-user
// record. An absent record means the caller is not logged in, which is a
// normal outcome reported as "", not an error.
func (c *odaClient) CheckUser(ctx context.Context) (string, error) {
	html, err := c.transport.document(ctx, "/", nil)
	if err != nil {
		return "", err
	}
	data := queryData(embeddedState(parseHTML(html)), tagCurrentUser)
	if data == nil {
		return "", nil
	}
	return parseUser(data).DisplayName(), nil
}
