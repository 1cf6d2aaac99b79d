// internal/platform/di/shared/infra.go
package shared

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	appcfg "devevent/internal/infra/config"
	"devevent/internal/infra/database"
	firestoreinfra "devevent/internal/infra/firestore"
	mongodbinfra "devevent/internal/infra/mongodb"
)

// Infra is shared runtime infrastructure for DI.
// - owns external clients (Firestore / Postgres / MongoDB / GCS / SecretManager)
// - exactly one store client is set, chosen by Config.EventStore
//
// IMPORTANT:
// Infra must NOT depend on routers, handlers, or usecases.
type Infra struct {
	Config    *appcfg.Config
	ProjectID string

	// Clients (owned; Close-managed)
	Firestore     *firestoreinfra.ClientWrapper
	Postgres      *database.DB
	Mongo         *mongodbinfra.ClientWrapper
	GCS           *storage.Client
	SecretManager *secretmanager.Client
}

// NewInfra initializes shared infra.
// The selected store and GCS (when a bucket is configured) are strict.
// SecretManager is best-effort (warn + continue).
func NewInfra(ctx context.Context, cfg *appcfg.Config) (*Infra, error) {
	if cfg == nil {
		return nil, errors.New("shared.infra: config is nil")
	}

	inf := &Infra{
		Config:    cfg,
		ProjectID: strings.TrimSpace(cfg.GetFirestoreProjectID()),
	}

	// Credentials file (optional; mainly for local dev)
	var clientOpts []option.ClientOption
	if credFile := cfg.CredentialsFile(); credFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(credFile))
		log.Printf("[shared.infra] Using credentials file for GCP clients: %s", redactPath(credFile))
	} else {
		log.Printf("[shared.infra] Using Application Default Credentials (no credentials file configured)")
	}

	// 1) Optional: Secret Manager client (SendGrid key)
	if strings.TrimSpace(cfg.SendGridAPIKeySecret) != "" && strings.TrimSpace(cfg.SendGridAPIKey) == "" {
		sm, err := secretmanager.NewClient(ctx, clientOpts...)
		if err != nil {
			log.Printf("[shared.infra] WARN: secretmanager.NewClient failed: %v (SendGrid key from Secret Manager disabled)", err)
		} else {
			inf.SecretManager = sm
		}
	}

	// 2) Store (strict)
	switch cfg.EventStore {
	case appcfg.StoreFirestore:
		fs, err := firestoreinfra.NewClient(ctx, inf.ProjectID, clientOpts...)
		if err != nil {
			_ = inf.Close()
			return nil, fmt.Errorf("shared.infra: firestore (project=%s): %w", inf.ProjectID, err)
		}
		inf.Firestore = fs

	case appcfg.StorePostgres:
		db, err := database.NewConnection(ctx, cfg.DatabaseURL)
		if err != nil {
			_ = inf.Close()
			return nil, fmt.Errorf("shared.infra: postgres: %w", err)
		}
		inf.Postgres = db
		if err := db.Migrate(ctx); err != nil {
			_ = inf.Close()
			return nil, fmt.Errorf("shared.infra: postgres: %w", err)
		}

	case appcfg.StoreMongo:
		mc, err := mongodbinfra.NewClient(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoPoolSize)
		if err != nil {
			_ = inf.Close()
			return nil, fmt.Errorf("shared.infra: mongodb: %w", err)
		}
		inf.Mongo = mc

	case appcfg.StoreMemory:
		log.Printf("[shared.infra] WARN: EVENT_STORE=memory; data is lost on restart")

	default:
		return nil, fmt.Errorf("shared.infra: unknown event store %q", cfg.EventStore)
	}

	// 3) GCS (strict when a bucket is configured)
	if strings.TrimSpace(cfg.EventImageBucket) != "" {
		gcsClient, err := storage.NewClient(ctx, clientOpts...)
		if err != nil {
			_ = inf.Close()
			return nil, fmt.Errorf("shared.infra: storage.NewClient failed: %w", err)
		}
		inf.GCS = gcsClient
		log.Printf("[shared.infra] GCS storage client initialized bucket=%s", cfg.EventImageBucket)
	} else {
		log.Printf("[shared.infra] WARN: EVENT_IMAGE_BUCKET is empty (images are kept in memory)")
	}

	return inf, nil
}

func (i *Infra) Close() error {
	if i == nil {
		return nil
	}
	if i.Firestore != nil {
		_ = i.Firestore.Close()
	}
	if i.Postgres != nil {
		_ = i.Postgres.Close()
	}
	if i.Mongo != nil {
		_ = i.Mongo.Close()
	}
	if i.GCS != nil {
		_ = i.GCS.Close()
	}
	if i.SecretManager != nil {
		_ = i.SecretManager.Close()
	}
	return nil
}

func redactPath(p string) string {
	// Do not log full path; keep only the last segment
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	p = strings.ReplaceAll(p, "\\", "/")
	parts := strings.Split(p, "/")
	last := parts[len(parts)-1]
	if last == "" {
		return "***"
	}
	return "***/" + last
}
