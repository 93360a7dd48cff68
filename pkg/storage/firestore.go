package storage

import (
	"context"
	"fmt"
	"os"
	"strings"

	gcpfirestore "cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// FirestoreConfig configures the Firestore-backed Adapter. When Enabled is
// false, NewFirestore returns a client that serves every call as a no-op
// (useful for local development without GCP credentials).
type FirestoreConfig struct {
	ProjectID       string
	CredentialsFile string
	Collection      string // defaults to "originals_storage"
	Enabled         bool
}

// DefaultFirestoreConfig reads connection settings from the environment.
func DefaultFirestoreConfig() *FirestoreConfig {
	return &FirestoreConfig{
		ProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),
		CredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		Collection:      "originals_storage",
		Enabled:         os.Getenv("FIRESTORE_ENABLED") == "true",
	}
}

// Firestore is an Adapter backed by a single Firestore collection, one
// document per (domain, path), keyed by a flattened document ID.
type Firestore struct {
	app        *firebase.App
	client     *gcpfirestore.Client
	collection string
	enabled    bool
}

// NewFirestore connects to Firestore per cfg, or returns a disabled
// no-op adapter if cfg.Enabled is false.
func NewFirestore(ctx context.Context, cfg *FirestoreConfig) (*Firestore, error) {
	if cfg == nil {
		cfg = DefaultFirestoreConfig()
	}
	coll := cfg.Collection
	if coll == "" {
		coll = "originals_storage"
	}
	if !cfg.Enabled {
		return &Firestore{collection: coll, enabled: false}, nil
	}
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("storage: FirestoreConfig.ProjectID is required when enabled")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: init firebase app: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage: init firestore client: %w", err)
	}
	return &Firestore{app: app, client: client, collection: coll, enabled: true}, nil
}

// Close releases the underlying Firestore client, if one was created.
func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

type firestoreDoc struct {
	Domain    string `firestore:"domain"`
	Path      string `firestore:"path"`
	Content   []byte `firestore:"content"`
	MediaType string `firestore:"mediaType"`
}

func (f *Firestore) docID(domain, path string) string {
	return strings.ReplaceAll(domain+"_"+normalizePath(path), "/", "__")
}

func (f *Firestore) Put(ctx context.Context, domain, path string, content []byte, mediaType string) (string, error) {
	path = normalizePath(path)
	uri := fmt.Sprintf("https://%s/%s", domain, path)
	if !f.enabled {
		return uri, nil
	}
	doc := f.client.Collection(f.collection).Doc(f.docID(domain, path))
	if _, err := doc.Set(ctx, firestoreDoc{Domain: domain, Path: path, Content: content, MediaType: mediaType}); err != nil {
		return "", fmt.Errorf("storage: firestore put: %w", err)
	}
	return uri, nil
}

func (f *Firestore) Get(ctx context.Context, domain, path string) (*Content, error) {
	path = normalizePath(path)
	if !f.enabled {
		return nil, fmt.Errorf("%w: %s/%s (firestore disabled)", ErrNotFound, domain, path)
	}
	snap, err := f.client.Collection(f.collection).Doc(f.docID(domain, path)).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s/%s: %v", ErrNotFound, domain, path, err)
	}
	var doc firestoreDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("storage: decode firestore doc: %w", err)
	}
	return &Content{Bytes: doc.Content, MediaType: doc.MediaType}, nil
}

func (f *Firestore) Exists(ctx context.Context, domain, path string) (bool, error) {
	path = normalizePath(path)
	if !f.enabled {
		return false, nil
	}
	_, err := f.client.Collection(f.collection).Doc(f.docID(domain, path)).Get(ctx)
	if err != nil {
		return false, nil
	}
	return true, nil
}
