package launch_test

import (
	"context"
	"errors"
	"ms-event-setup/internal/launch"
	"ms-event-setup/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) SaveLaunchedEvent(ctx context.Context, ev models.LaunchedEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *MockStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishEventLaunched(ev models.LaunchedEvent) error {
	args := m.Called(ev)
	return args.Error(0)
}

func sampleRequest() models.LaunchRequest {
	price := 25.0
	return models.LaunchRequest{
		SessionID: "session-1",
		Mode:      models.ModePaid,
		Event:     models.EventDetails{Name: "Beirut Nights"},
		Tickets: []models.TicketType{
			{TicketID: "t1", Name: "Regular", Kind: models.KindSingle, BasePrice: &price, Quantity: 100},
		},
	}
}

func TestLaunchSuccess(t *testing.T) {
	store := new(MockStore)
	publisher := new(MockPublisher)
	svc := launch.NewService(store, publisher, nil, "https://events.example.com")

	store.On("SlugExists", mock.Anything, "beirut-nights").Return(false, nil)
	store.On("SaveLaunchedEvent", mock.Anything, mock.MatchedBy(func(ev models.LaunchedEvent) bool {
		return ev.Slug == "beirut-nights" && ev.Name == "Beirut Nights" && ev.Mode == models.ModePaid
	})).Return(nil)
	publisher.On("PublishEventLaunched", mock.Anything).Return(nil)

	result, err := svc.Launch(context.Background(), sampleRequest())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.NotEmpty(t, result.EventID)
	assert.Equal(t, "beirut-nights", result.Slug)
	assert.Equal(t, "https://events.example.com/events/beirut-nights", result.PublicURL)
	assert.NotEmpty(t, result.QRCode)

	store.AssertExpectations(t)
	publisher.AssertNumberOfCalls(t, "PublishEventLaunched", 1)
}

func TestLaunchSlugCollision(t *testing.T) {
	store := new(MockStore)
	publisher := new(MockPublisher)
	svc := launch.NewService(store, publisher, nil, "https://events.example.com")

	store.On("SlugExists", mock.Anything, "beirut-nights").Return(true, nil).Once()
	store.On("SlugExists", mock.Anything, mock.MatchedBy(func(slug string) bool {
		return len(slug) > len("beirut-nights") && slug[:len("beirut-nights-")] == "beirut-nights-"
	})).Return(false, nil).Once()
	store.On("SaveLaunchedEvent", mock.Anything, mock.Anything).Return(nil)
	publisher.On("PublishEventLaunched", mock.Anything).Return(nil)

	result, err := svc.Launch(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.NotEqual(t, "beirut-nights", result.Slug)
	assert.Contains(t, result.Slug, "beirut-nights-")
}

func TestLaunchStoreFailureDoesNotPublish(t *testing.T) {
	store := new(MockStore)
	publisher := new(MockPublisher)
	svc := launch.NewService(store, publisher, nil, "https://events.example.com")

	store.On("SlugExists", mock.Anything, mock.Anything).Return(false, nil)
	store.On("SaveLaunchedEvent", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	result, err := svc.Launch(context.Background(), sampleRequest())
	assert.Error(t, err)
	assert.Nil(t, result)

	publisher.AssertNotCalled(t, "PublishEventLaunched", mock.Anything)
}

func TestLaunchPublishFailureStillSucceeds(t *testing.T) {
	store := new(MockStore)
	publisher := new(MockPublisher)
	svc := launch.NewService(store, publisher, nil, "https://events.example.com")

	store.On("SlugExists", mock.Anything, mock.Anything).Return(false, nil)
	store.On("SaveLaunchedEvent", mock.Anything, mock.Anything).Return(nil)
	publisher.On("PublishEventLaunched", mock.Anything).Return(errors.New("broker down"))

	result, err := svc.Launch(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestLaunchCancelledContext(t *testing.T) {
	store := new(MockStore)
	publisher := new(MockPublisher)
	svc := launch.NewService(store, publisher, nil, "https://events.example.com")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := svc.Launch(ctx, sampleRequest())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result)

	store.AssertNotCalled(t, "SaveLaunchedEvent", mock.Anything, mock.Anything)
}

func TestLaunchEmptyNameGetsFallbackSlug(t *testing.T) {
	store := new(MockStore)
	publisher := new(MockPublisher)
	svc := launch.NewService(store, publisher, nil, "https://events.example.com")

	store.On("SlugExists", mock.Anything, "event").Return(false, nil)
	store.On("SaveLaunchedEvent", mock.Anything, mock.Anything).Return(nil)
	publisher.On("PublishEventLaunched", mock.Anything).Return(nil)

	req := sampleRequest()
	req.Event.Name = ""

	result, err := svc.Launch(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "event", result.Slug)
}
