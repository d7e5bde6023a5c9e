package auth

import (
	"context"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

type FirebaseConfig struct {
	ProjectID string
	// path to a service account file (GOOGLE_APPLICATION_CREDENTIALS)
	CredentialsFile string
	// inline service account JSON (FIREBASE_SERVICE_ACCOUNT_KEY); wins over the file
	ServiceAccountJSON string
}

// subset of the firebase auth client the verifier needs
type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// verifies Firebase ID tokens with the Admin SDK
type FirebaseVerifier struct {
	client idTokenVerifier
}

func NewFirebaseVerifier(ctx context.Context, cfg FirebaseConfig) (*FirebaseVerifier, error) {
	var opts []option.ClientOption

	switch {
	case cfg.ServiceAccountJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(normalizePrivateKey(cfg.ServiceAccountJSON))))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	var conf *firebase.Config
	if cfg.ProjectID != "" {
		conf = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth client: %w", err)
	}

	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	tok, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	email, _ := tok.Claims["email"].(string)
	verified, _ := tok.Claims["email_verified"].(bool)
	name, _ := tok.Claims["name"].(string)

	return newIdentity(tok.UID, email, verified, name), nil
}

// env-injected keys often carry literal "\n" sequences inside the PEM block
func normalizePrivateKey(raw string) string {
	if !strings.Contains(raw, `\\n`) {
		return raw
	}

	return strings.ReplaceAll(raw, `\\n`, `\n`)
}
