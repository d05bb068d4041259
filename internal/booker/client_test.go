package booker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/wanabot/wanabot-go/internal/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, nil)
}

func TestBookings(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/bookings", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]Booking{
			{ID: "101", Date: "01/06/2024", CourtTime: "09:00", CourtNumber: 2},
		})
	})

	bookings, err := client.Bookings(context.Background())
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "101", bookings[0].ID)
	assert.Equal(t, 2, bookings[0].CourtNumber)
}

func TestCreateBookingQuery(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/bookings/101", r.URL.Path)
		assert.Equal(t, "2024-06-05", r.URL.Query().Get("date"))
		w.WriteHeader(http.StatusCreated)
	})

	err := client.CreateBooking(context.Background(), "101", "2024-06-05")
	assert.NoError(t, err)
}

func TestCreateBotBody(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var bot Bot
		require.NoError(t, json.NewDecoder(r.Body).Decode(&bot))
		assert.Equal(t, Bot{
			Name:      "bot_monday_09_40",
			WeekDay:   "Monday",
			CourtTime: "09:40",
			Status:    StatusCreated,
		}, bot)
		w.WriteHeader(http.StatusCreated)
	})

	err := client.CreateBot(context.Background(), Bot{
		Name:      "bot_monday_09_40",
		WeekDay:   "Monday",
		CourtTime: "09:40",
		Status:    StatusCreated,
	})
	assert.NoError(t, err)
}

func TestNon2xxIsUpstreamError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	err := client.DeployBots(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUpstream)

	var upstream *apperrors.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusBadGateway, upstream.StatusCode)
}

func TestTimeSlots(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/time_slots", r.URL.Path)
		assert.Equal(t, "2024-06-05", r.URL.Query().Get("date"))
		_ = json.NewEncoder(w).Encode([]string{"09:00", "09:40"})
	})

	slots, err := client.TimeSlots(context.Background(), "2024-06-05")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:40"}, slots)
}

func TestAvailableCourts(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/available_courts", r.URL.Path)
		assert.Equal(t, "2024-06-05 19:40", r.URL.Query().Get("datetime"))
		_ = json.NewEncoder(w).Encode([]Court{{CourtNumber: 1, BookingID: "555"}})
	})

	courts, err := client.AvailableCourts(context.Background(), "2024-06-05 19:40")
	require.NoError(t, err)
	require.Len(t, courts, 1)
	assert.Equal(t, "555", courts[0].BookingID)
}

func TestDeleteBotEscapesName(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/bots/bot_monday_09_00", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.DeleteBot(context.Background(), "bot_monday_09_00")
	assert.NoError(t, err)
}
