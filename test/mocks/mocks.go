// Package mocks provides testify mocks for the capability interfaces used
// across the service tests.
package mocks

import (
	"context"
	"testing"

	"github.com/UnknownOlympus/asclepius/internal/mailer"
	"github.com/UnknownOlympus/asclepius/internal/models"
	"github.com/stretchr/testify/mock"
	"googlemaps.github.io/maps"
)

// Provider mocks geocoding.Provider.
type Provider struct {
	mock.Mock
}

func NewProvider(t *testing.T) *Provider {
	m := &Provider{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *Provider) Geocode(ctx context.Context, address string) (*models.GeoPoint, error) {
	args := m.Called(ctx, address)

	var point *models.GeoPoint
	if args.Get(0) != nil {
		point = args.Get(0).(*models.GeoPoint)
	}

	return point, args.Error(1)
}

func (m *Provider) ReverseGeocode(ctx context.Context, point models.GeoPoint) (string, error) {
	args := m.Called(ctx, point)

	return args.String(0), args.Error(1)
}

// GoogleAPIClient mocks geocoding.GoogleAPIClient.
type GoogleAPIClient struct {
	mock.Mock
}

func NewGoogleAPIClient(t *testing.T) *GoogleAPIClient {
	m := &GoogleAPIClient{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *GoogleAPIClient) Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error) {
	args := m.Called(ctx, r)

	var results []maps.GeocodingResult
	if args.Get(0) != nil {
		results = args.Get(0).([]maps.GeocodingResult)
	}

	return results, args.Error(1)
}

func (m *GoogleAPIClient) ReverseGeocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error) {
	args := m.Called(ctx, r)

	var results []maps.GeocodingResult
	if args.Get(0) != nil {
		results = args.Get(0).([]maps.GeocodingResult)
	}

	return results, args.Error(1)
}

// PlacesAPIClient mocks places.GoogleAPIClient.
type PlacesAPIClient struct {
	mock.Mock
}

func NewPlacesAPIClient(t *testing.T) *PlacesAPIClient {
	m := &PlacesAPIClient{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *PlacesAPIClient) NearbySearch(
	ctx context.Context,
	r *maps.NearbySearchRequest,
) (maps.PlacesSearchResponse, error) {
	args := m.Called(ctx, r)

	var response maps.PlacesSearchResponse
	if args.Get(0) != nil {
		response = args.Get(0).(maps.PlacesSearchResponse)
	}

	return response, args.Error(1)
}

// Searcher mocks places.Searcher.
type Searcher struct {
	mock.Mock
}

func NewSearcher(t *testing.T) *Searcher {
	m := &Searcher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *Searcher) Nearby(
	ctx context.Context,
	point models.GeoPoint,
	radius uint,
) ([]models.DoctorCandidate, error) {
	args := m.Called(ctx, point, radius)

	var candidates []models.DoctorCandidate
	if args.Get(0) != nil {
		candidates = args.Get(0).([]models.DoctorCandidate)
	}

	return candidates, args.Error(1)
}

// Sender mocks mailer.Sender.
type Sender struct {
	mock.Mock
}

func NewSender(t *testing.T) *Sender {
	m := &Sender{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *Sender) Send(ctx context.Context, msg mailer.Message) error {
	args := m.Called(ctx, msg)

	return args.Error(0)
}

// Device mocks resolver.Device.
type Device struct {
	mock.Mock
}

func NewDevice(t *testing.T) *Device {
	m := &Device{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *Device) Permission(ctx context.Context) (models.PermissionState, error) {
	args := m.Called(ctx)

	return args.Get(0).(models.PermissionState), args.Error(1)
}

func (m *Device) Position(ctx context.Context) (*models.GeoPoint, error) {
	args := m.Called(ctx)

	var point *models.GeoPoint
	if args.Get(0) != nil {
		point = args.Get(0).(*models.GeoPoint)
	}

	return point, args.Error(1)
}

// Prompter mocks resolver.Prompter.
type Prompter struct {
	mock.Mock
}

func NewPrompter(t *testing.T) *Prompter {
	m := &Prompter{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *Prompter) PromptPostcode(ctx context.Context, message, suggestion string) (string, error) {
	args := m.Called(ctx, message, suggestion)

	return args.String(0), args.Error(1)
}
