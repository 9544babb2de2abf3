package service_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/UnknownOlympus/asclepius/internal/booking"
	"github.com/UnknownOlympus/asclepius/internal/mailer"
	"github.com/UnknownOlympus/asclepius/internal/metrics"
	"github.com/UnknownOlympus/asclepius/internal/models"
	"github.com/UnknownOlympus/asclepius/internal/resolver"
	"github.com/UnknownOlympus/asclepius/internal/search"
	"github.com/UnknownOlympus/asclepius/internal/service"
	"github.com/UnknownOlympus/asclepius/internal/session"
	"github.com/UnknownOlympus/asclepius/test/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	svc      *service.Appointment
	geo      *mocks.Provider
	searcher *mocks.Searcher
	sender   *mocks.Sender
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := slog.Default()
	appMetrics := metrics.NewMetrics(prometheus.NewRegistry())

	geo := mocks.NewProvider(t)
	searcher := mocks.NewSearcher(t)
	sender := mocks.NewSender(t)

	sessions := session.NewManager(log, appMetrics, 30*time.Minute)
	orchestrator := search.New(searcher, appMetrics, log, 3000)
	flow := booking.New(sender, appMetrics, log)

	return &testEnv{
		svc:      service.NewAppointment(log, sessions, geo, "test", orchestrator, flow, appMetrics, 3),
		geo:      geo,
		searcher: searcher,
		sender:   sender,
	}
}

func TestStartSession_DeviceLocation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	point := models.GeoPoint{Latitude: 55.8621, Longitude: -4.2542}

	device := mocks.NewDevice(t)
	device.On("Permission", ctx).Return(models.PermissionGranted, nil).Once()
	device.On("Position", ctx).Return(&point, nil).Once()

	env.geo.On("ReverseGeocode", mock.Anything, point).Return("G2 1AL", nil).Once()
	env.searcher.On("Nearby", ctx, point, uint(3000)).
		Return([]models.DoctorCandidate{{Name: "City Practice"}}, nil).Once()

	sess, resolution, err := env.svc.StartSession(ctx, device, mocks.NewPrompter(t))

	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, models.SourceDevice, resolution.Source)

	require.Len(t, sess.Candidates(), 1)
	center, zoom := sess.View().Center()
	assert.Equal(t, point, center)
	assert.Equal(t, 14, zoom)

	require.Eventually(t, func() bool {
		return sess.Postcode() == "G2 1AL"
	}, time.Second, 10*time.Millisecond)
}

func TestStartSession_PromptRequired(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	device := mocks.NewDevice(t)
	device.On("Permission", ctx).Return(models.PermissionDenied, nil).Once()

	prompter := mocks.NewPrompter(t)
	prompter.On("PromptPostcode", ctx, resolver.MsgNoPermission, resolver.DefaultSuggestion).
		Return("", resolver.ErrPromptUnavailable).Once()

	sess, resolution, err := env.svc.StartSession(ctx, device, prompter)

	require.NotNil(t, sess, "the session survives an unsettled cycle")
	require.Nil(t, resolution)

	var promptErr *resolver.PromptError
	require.ErrorAs(t, err, &promptErr)
	assert.Equal(t, resolver.MsgNoPermission, promptErr.Message)

	// The map stays on the default centre until a cycle settles.
	center, zoom := sess.View().Center()
	assert.Equal(t, models.GeoPoint{Latitude: 55.8597, Longitude: -4.2550}, center)
	assert.Equal(t, 12, zoom)
}

func TestStartSession_SearchFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	point := models.GeoPoint{Latitude: 55.8621, Longitude: -4.2542}

	device := mocks.NewDevice(t)
	device.On("Permission", ctx).Return(models.PermissionGranted, nil).Once()
	device.On("Position", ctx).Return(&point, nil).Once()

	env.geo.On("ReverseGeocode", mock.Anything, point).Return("G2 1AL", nil).Once()
	env.searcher.On("Nearby", ctx, point, uint(3000)).Return(nil, assert.AnError).Once()

	sess, _, err := env.svc.StartSession(ctx, device, mocks.NewPrompter(t))

	require.NotNil(t, sess)
	require.ErrorIs(t, err, search.ErrSearchFailed)
	assert.Empty(t, sess.Candidates())

	// The field fill keeps running after the failed search.
	require.Eventually(t, func() bool {
		return sess.Postcode() == "G2 1AL"
	}, time.Second, 10*time.Millisecond)
}

func TestSelectMarker_Unknown(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	device := mocks.NewDevice(t)
	device.On("Permission", ctx).Return(models.PermissionDenied, nil).Once()

	prompter := mocks.NewPrompter(t)
	prompter.On("PromptPostcode", ctx, resolver.MsgNoPermission, resolver.DefaultSuggestion).
		Return("", resolver.ErrPromptUnavailable).Once()

	sess, _, _ := env.svc.StartSession(ctx, device, prompter)

	_, err := env.svc.SelectMarker(sess, 42)

	require.ErrorIs(t, err, service.ErrUnknownMarker)
}

// The full denied-permission journey: prompt, geocode, search, select the
// second result, submit a complete form, one confirmation email.
func TestBookingJourney_PostcodePath(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	point := models.GeoPoint{Latitude: 55.9533, Longitude: -3.1883}

	device := mocks.NewDevice(t)
	device.On("Permission", ctx).Return(models.PermissionDenied, nil).Once()

	prompter := mocks.NewPrompter(t)
	prompter.On("PromptPostcode", ctx, resolver.MsgNoPermission, resolver.DefaultSuggestion).
		Return("EH1 1AA", nil).Once()

	env.geo.On("Geocode", ctx, "EH1 1AA").Return(&point, nil).Once()
	env.searcher.On("Nearby", ctx, point, uint(3000)).Return([]models.DoctorCandidate{
		{Name: "Old Town Practice", Vicinity: "1 Royal Mile, Edinburgh"},
		{Name: "New Town Surgery", Vicinity: "14 Queen Street, Edinburgh"},
	}, nil).Once()

	sess, resolution, err := env.svc.StartSession(ctx, device, prompter)
	require.NoError(t, err)
	assert.Equal(t, models.SourcePostcode, resolution.Source)
	assert.Equal(t, "EH1 1AA", sess.Postcode(), "field shows the entered text verbatim")

	markers := sess.View().Markers()
	require.Len(t, markers, 2)

	selected, err := env.svc.SelectMarker(sess, markers[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "New Town Surgery", selected.Name)

	name, vicinity := sess.DoctorDisplay()
	assert.Equal(t, "New Town Surgery", name)
	assert.Equal(t, "14 Queen Street, Edinburgh", vicinity)

	env.sender.On("Send", ctx, mailer.Message{
		To:      "ada@example.com",
		ToName:  "Ada",
		Subject: "Appointment Booked",
		Body: "Hello Ada,\n\n" +
			"Your appointment with New Town Surgery at 14 Queen Street, Edinburgh " +
			"has been booked for 2026-09-03 10:30\n\nThanks",
	}).Return(nil).Once()

	result, err := env.svc.Book(ctx, sess, models.BookingForm{
		Name:          "Ada",
		Email:         "ada@example.com",
		PreferredTime: "2026-09-03 10:30",
	})

	require.NoError(t, err)
	assert.True(t, result.Booked)
	assert.Equal(t, []string{booking.AlertBooked}, result.Alerts)
}

func TestUpdateLocation_ReplacesResults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	glasgow := models.GeoPoint{Latitude: 55.8621, Longitude: -4.2542}
	edinburgh := models.GeoPoint{Latitude: 55.9533, Longitude: -3.1883}

	device := mocks.NewDevice(t)
	device.On("Permission", ctx).Return(models.PermissionGranted, nil).Once()
	device.On("Position", ctx).Return(&glasgow, nil).Once()

	env.geo.On("ReverseGeocode", mock.Anything, glasgow).Return("G2 1AL", nil).Once()
	env.searcher.On("Nearby", ctx, glasgow, uint(3000)).
		Return([]models.DoctorCandidate{{Name: "City Practice"}}, nil).Once()

	sess, _, err := env.svc.StartSession(ctx, device, mocks.NewPrompter(t))
	require.NoError(t, err)

	// Let the device cycle's field fill land before superseding it.
	require.Eventually(t, func() bool {
		return sess.Postcode() == "G2 1AL"
	}, time.Second, 10*time.Millisecond)

	sess.Select(sess.Candidates()[0])
	require.NotNil(t, sess.Selected())

	env.geo.On("Geocode", ctx, "EH1 1AA").Return(&edinburgh, nil).Once()
	env.searcher.On("Nearby", ctx, edinburgh, uint(3000)).
		Return([]models.DoctorCandidate{{Name: "Old Town Practice"}}, nil).Once()

	resolution, err := env.svc.UpdateLocation(ctx, sess, "EH1 1AA", mocks.NewPrompter(t))

	require.NoError(t, err)
	assert.Equal(t, "EH1 1AA", resolution.Postcode)

	require.Len(t, sess.Candidates(), 1)
	assert.Equal(t, "Old Town Practice", sess.Candidates()[0].Name)
	assert.Nil(t, sess.Selected(), "new results clear the previous selection")

	center, _ := sess.View().Center()
	assert.Equal(t, edinburgh, center)
}
