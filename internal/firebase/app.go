// Package firebase opens the Firestore and Cloud Storage clients of a
// Firebase project from a service-account key file.
package firebase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// ErrMissingCredentials is returned when the service-account key cannot be used
var ErrMissingCredentials = errors.New("service account credentials unavailable")

// CredentialsError explains how to provide a usable key file
type CredentialsError struct {
	Path   string
	Reason string
}

func (e *CredentialsError) Error() string {
	return fmt.Sprintf("%s: %s (%s). Download a key from Firebase Console > Project settings > Service accounts and save it there, or set GOOGLE_APPLICATION_CREDENTIALS",
		ErrMissingCredentials, e.Path, e.Reason)
}

func (e *CredentialsError) Unwrap() error {
	return ErrMissingCredentials
}

type serviceAccount struct {
	Type        string `json:"type"`
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
}

// ProjectID reads the project id from a service-account key file
func ProjectID(credentialsFile string) (string, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", &CredentialsError{Path: credentialsFile, Reason: "file not found"}
		}
		return "", &CredentialsError{Path: credentialsFile, Reason: err.Error()}
	}

	var sa serviceAccount
	if err := json.Unmarshal(data, &sa); err != nil {
		return "", &CredentialsError{Path: credentialsFile, Reason: "not a JSON key file"}
	}
	if sa.ProjectID == "" {
		return "", &CredentialsError{Path: credentialsFile, Reason: "project_id missing"}
	}
	return sa.ProjectID, nil
}

// App holds the clients of one Firebase project
type App struct {
	ProjectID string
	Firestore *firestore.Client
	Storage   *storage.Client
}

// New opens both clients. projectID overrides the id in the key file when set.
func New(ctx context.Context, credentialsFile, projectID string) (*App, error) {
	fileProject, err := ProjectID(credentialsFile)
	if err != nil {
		return nil, err
	}
	if projectID == "" {
		projectID = fileProject
	}

	opt := option.WithCredentialsFile(credentialsFile)

	fs, err := firestore.NewClient(ctx, projectID, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	gcs, err := storage.NewClient(ctx, opt)
	if err != nil {
		fs.Close()
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	slog.Debug("Firebase clients ready", "project", projectID)
	return &App{ProjectID: projectID, Firestore: fs, Storage: gcs}, nil
}

// Close releases both clients
func (a *App) Close() error {
	return errors.Join(a.Firestore.Close(), a.Storage.Close())
}
