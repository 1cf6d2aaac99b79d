// internal/platform/di/container.go
package di

import (
	"context"
	"fmt"
	"log"

	httpin "devevent/internal/adapters/in/http"
	pgrepo "devevent/internal/adapters/out/db"
	fsrepo "devevent/internal/adapters/out/firestore"
	gcsrepo "devevent/internal/adapters/out/gcs"
	mailadp "devevent/internal/adapters/out/mail"
	"devevent/internal/adapters/out/memory"
	mongorepo "devevent/internal/adapters/out/mongodb"
	usecase "devevent/internal/application/usecase"
	bkdom "devevent/internal/domain/booking"
	evdom "devevent/internal/domain/event"
	imgdom "devevent/internal/domain/eventImage"
	appcfg "devevent/internal/infra/config"
	"devevent/internal/platform/di/shared"
)

// Container は main.go から使う依存オブジェクトの束。
type Container struct {
	Config *appcfg.Config
	Infra  *shared.Infra

	EventUC   *usecase.EventUsecase
	BookingUC *usecase.BookingUsecase

	localImages *memory.ObjectStorage
}

// NewContainer loads config and wires infra → repositories → usecases.
func NewContainer(ctx context.Context) (*Container, error) {
	cfg, err := appcfg.Load()
	if err != nil {
		return nil, err
	}
	return NewContainerWithConfig(ctx, cfg)
}

func NewContainerWithConfig(ctx context.Context, cfg *appcfg.Config) (*Container, error) {
	inf, err := shared.NewInfra(ctx, cfg)
	if err != nil {
		return nil, err
	}

	c := &Container{Config: cfg, Infra: inf}

	events, bookings, err := buildRepositories(ctx, inf)
	if err != nil {
		_ = inf.Close()
		return nil, err
	}

	var images imgdom.ObjectStoragePort
	if inf.GCS != nil {
		images = gcsrepo.NewEventImageRepositoryGCS(inf.GCS, cfg.EventImageBucket)
	} else {
		c.localImages = memory.NewObjectStorage(httpin.LocalImagePrefix)
		images = c.localImages
	}

	mailer := mailadp.NewBookingMailerWithSendGrid(ctx, inf.SecretManager, mailadp.SendGridSettings{
		APIKey:       cfg.SendGridAPIKey,
		APIKeySecret: cfg.SendGridAPIKeySecret,
		ProjectID:    inf.ProjectID,
		From:         cfg.MailFrom,
		FromName:     cfg.MailFromName,
		SiteBaseURL:  cfg.SiteBaseURL,
	})

	c.EventUC = usecase.NewEventUsecase(events, bookings, images, usecase.EventUsecaseConfig{
		ImageFolder:   cfg.EventImageFolder,
		MaxImageBytes: cfg.MaxImageBytes,
		CacheTTL:      cfg.EventCacheTTL,
		CacheSize:     cfg.EventCacheSize,
	})
	c.BookingUC = usecase.NewBookingUsecase(c.EventUC, bookings, mailer)

	log.Printf("[di] container ready store=%s images=%T mailer=%T", cfg.EventStore, images, mailer)
	return c, nil
}

func buildRepositories(ctx context.Context, inf *shared.Infra) (evdom.Repository, bkdom.Repository, error) {
	cfg := inf.Config
	switch {
	case inf.Firestore != nil:
		return fsrepo.NewEventRepositoryFS(inf.Firestore.Client, cfg.EventsCollection),
			fsrepo.NewBookingRepositoryFS(inf.Firestore.Client, cfg.BookingsCollection), nil

	case inf.Postgres != nil:
		return pgrepo.NewEventRepositoryPG(inf.Postgres.Client),
			pgrepo.NewBookingRepositoryPG(inf.Postgres.Client), nil

	case inf.Mongo != nil:
		ev := mongorepo.NewEventRepositoryMongo(inf.Mongo.Database, cfg.EventsCollection)
		bk := mongorepo.NewBookingRepositoryMongo(inf.Mongo.Database, cfg.BookingsCollection)
		if err := ev.EnsureIndexes(ctx); err != nil {
			return nil, nil, fmt.Errorf("di: %w", err)
		}
		if err := bk.EnsureIndexes(ctx); err != nil {
			return nil, nil, fmt.Errorf("di: %w", err)
		}
		return ev, bk, nil

	case cfg.EventStore == appcfg.StoreMemory:
		return memory.NewEventRepository(), memory.NewBookingRepository(), nil
	}
	return nil, nil, fmt.Errorf("di: no store client for %q", cfg.EventStore)
}

// RouterDeps builds the HTTP dependencies.
func (c *Container) RouterDeps() httpin.RouterDeps {
	return httpin.RouterDeps{
		EventUC:           c.EventUC,
		BookingUC:         c.BookingUC,
		MaxImageBytes:     c.Config.MaxImageBytes,
		CORSAllowedOrigin: c.Config.CORSAllowedOrigin,
		LocalImages:       c.localImages,
	}
}

// Close は終了時に呼んで安全にリソースを閉じる。
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.EventUC != nil {
		c.EventUC.Close()
	}
	if c.Infra != nil {
		_ = c.Infra.Close()
	}
}
