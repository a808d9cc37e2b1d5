package launch

import (
	"context"
	"encoding/json"
	"fmt"
	"ms-event-setup/internal/logger"
	"ms-event-setup/internal/models"
	"ms-event-setup/internal/utils"
	"time"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

type StoreLayer interface {
	SaveLaunchedEvent(ctx context.Context, ev models.LaunchedEvent) error
	SlugExists(ctx context.Context, slug string) (bool, error)
}

type KafkaPublisher interface {
	PublishEventLaunched(ev models.LaunchedEvent) error
}

// Service persists a finished wizard configuration and announces it.
type Service struct {
	DB      StoreLayer
	Kafka   KafkaPublisher
	Logger  *logger.Logger
	BaseURL string
}

func NewService(db StoreLayer, kafka KafkaPublisher, log *logger.Logger, baseURL string) *Service {
	return &Service{DB: db, Kafka: kafka, Logger: log, BaseURL: baseURL}
}

// Launch stores the event configuration, publishes the launch event and
// returns the public URL plus a QR code pointing at it. A store failure is
// returned to the caller so the launch can be retried; a publish failure is
// only logged, the event is already live at that point.
func (s *Service) Launch(ctx context.Context, req models.LaunchRequest) (*models.LaunchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	config, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event config: %w", err)
	}

	eventID := uuid.New().String()
	slug, err := s.uniqueSlug(ctx, req.Event.Name)
	if err != nil {
		return nil, err
	}

	ev := models.LaunchedEvent{
		EventID:    eventID,
		Slug:       slug,
		Name:       req.Event.Name,
		Mode:       req.Mode,
		Config:     config,
		LaunchedAt: time.Now(),
	}

	if err := s.DB.SaveLaunchedEvent(ctx, ev); err != nil {
		if s.Logger != nil {
			s.Logger.Error("LAUNCH", fmt.Sprintf("Failed to save launched event: %v", err))
		}
		return nil, fmt.Errorf("failed to save launched event: %w", err)
	}

	if err := s.Kafka.PublishEventLaunched(ev); err != nil {
		if s.Logger != nil {
			s.Logger.Warn("KAFKA", fmt.Sprintf("Kafka publish error (event launched): %v", err))
		}
	}

	publicURL := fmt.Sprintf("%s/events/%s", s.BaseURL, slug)
	qr, err := qrcode.Encode(publicURL, qrcode.Medium, 256)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn("LAUNCH", fmt.Sprintf("Failed to generate QR code: %v", err))
		}
		qr = nil
	}

	if s.Logger != nil {
		s.Logger.LogLaunch(eventID, fmt.Sprintf("Event '%s' launched at %s", req.Event.Name, publicURL))
	}

	return &models.LaunchResult{
		EventID:   eventID,
		Slug:      slug,
		PublicURL: publicURL,
		QRCode:    qr,
	}, nil
}

// uniqueSlug derives a URL slug from the event name and retries with a random
// suffix until it doesn't collide with an existing event.
func (s *Service) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := utils.Slugify(name)
	if base == "" {
		base = "event"
	}

	slug := base
	for attempt := 0; attempt < 5; attempt++ {
		taken, err := s.DB.SlugExists(ctx, slug)
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if !taken {
			return slug, nil
		}
		slug = base + "-" + utils.SlugSuffix()
	}
	return "", fmt.Errorf("could not find a free slug for %q", name)
}
