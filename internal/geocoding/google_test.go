package geocoding_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/asclepius/internal/geocoding"
	"github.com/UnknownOlympus/asclepius/internal/models"
	"github.com/UnknownOlympus/asclepius/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

func TestGeocode(t *testing.T) {
	mockClient := mocks.NewGoogleAPIClient(t)
	provider := geocoding.NewGoogleProvider(mockClient, slog.Default())
	ctx := context.Background()

	t.Run("api returns error", func(t *testing.T) {
		address := "some invalid place"
		req := &maps.GeocodingRequest{Address: address}

		mockClient.On("Geocode", ctx, req).Return(nil, assert.AnError).Once()

		_, err := provider.Geocode(ctx, address)

		require.Error(t, err)
		require.ErrorIs(t, err, assert.AnError)
	})

	t.Run("api return empty response", func(t *testing.T) {
		address := "some invalid place"
		req := &maps.GeocodingRequest{Address: address}

		mockClient.On("Geocode", ctx, req).Return(nil, nil).Once()

		point, err := provider.Geocode(ctx, address)

		require.Nil(t, point)
		require.ErrorIs(t, err, geocoding.ErrEmptyResponse)
	})

	t.Run("successfull geocoding", func(t *testing.T) {
		address := "G2 1AL"
		req := &maps.GeocodingRequest{Address: address}
		mockResponse := []maps.GeocodingResult{
			{Geometry: maps.AddressGeometry{Location: maps.LatLng{Lat: 55.8621, Lng: -4.2542}}},
		}

		mockClient.On("Geocode", ctx, req).Return(mockResponse, nil).Once()

		point, err := provider.Geocode(ctx, address)

		require.NoError(t, err)
		require.NotNil(t, point)
		require.InEpsilon(t, 55.8621, point.Latitude, 0.01)
		require.InEpsilon(t, -4.2542, point.Longitude, 0.01)
	})
}

func TestReverseGeocode(t *testing.T) {
	mockClient := mocks.NewGoogleAPIClient(t)
	provider := geocoding.NewGoogleProvider(mockClient, slog.Default())
	ctx := context.Background()

	point := models.GeoPoint{Latitude: 55.8621, Longitude: -4.2542}
	req := &maps.GeocodingRequest{LatLng: &maps.LatLng{Lat: point.Latitude, Lng: point.Longitude}}

	t.Run("api returns error", func(t *testing.T) {
		mockClient.On("ReverseGeocode", ctx, req).Return(nil, assert.AnError).Once()

		_, err := provider.ReverseGeocode(ctx, point)

		require.Error(t, err)
		require.ErrorIs(t, err, assert.AnError)
	})

	t.Run("api return empty response", func(t *testing.T) {
		mockClient.On("ReverseGeocode", ctx, req).Return(nil, nil).Once()

		postcode, err := provider.ReverseGeocode(ctx, point)

		require.Empty(t, postcode)
		require.ErrorIs(t, err, geocoding.ErrEmptyResponse)
	})

	t.Run("no postal_code component in results", func(t *testing.T) {
		mockResponse := []maps.GeocodingResult{
			{AddressComponents: []maps.AddressComponent{
				{LongName: "Glasgow", Types: []string{"locality"}},
			}},
		}

		mockClient.On("ReverseGeocode", ctx, req).Return(mockResponse, nil).Once()

		postcode, err := provider.ReverseGeocode(ctx, point)

		require.Empty(t, postcode)
		require.ErrorIs(t, err, geocoding.ErrNoPostalCode)
	})

	t.Run("postal_code extracted from typed components", func(t *testing.T) {
		mockResponse := []maps.GeocodingResult{
			{AddressComponents: []maps.AddressComponent{
				{LongName: "Glasgow", Types: []string{"locality"}},
				{LongName: "G2 1AL", ShortName: "G2 1AL", Types: []string{"postal_code"}},
			}},
		}

		mockClient.On("ReverseGeocode", ctx, req).Return(mockResponse, nil).Once()

		postcode, err := provider.ReverseGeocode(ctx, point)

		require.NoError(t, err)
		assert.Equal(t, "G2 1AL", postcode)
	})

	t.Run("postal_code taken from a later result", func(t *testing.T) {
		mockResponse := []maps.GeocodingResult{
			{AddressComponents: []maps.AddressComponent{
				{LongName: "Scotland", Types: []string{"administrative_area_level_1"}},
			}},
			{AddressComponents: []maps.AddressComponent{
				{LongName: "EH1 1AA", Types: []string{"postal_code"}},
			}},
		}

		mockClient.On("ReverseGeocode", ctx, req).Return(mockResponse, nil).Once()

		postcode, err := provider.ReverseGeocode(ctx, point)

		require.NoError(t, err)
		assert.Equal(t, "EH1 1AA", postcode)
	})
}
