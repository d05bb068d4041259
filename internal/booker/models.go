// Package booker provides the REST client for the booker service, which
// owns court bookings and scheduled booking-attempt jobs ("bots").
package booker

// Bot status values as reported by the booker service.
const (
	StatusCreated = "Created"
	StatusRunning = "Running"
)

// Booking is a reserved court slot owned by the booker service.
// Date is dd/mm/yyyy and CourtTime is HH:MM, as the booker renders them.
// The bot only reads bookings and references their ids; it never caches
// them beyond a single request.
type Booking struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	CourtTime   string `json:"court_time"`
	CourtNumber int    `json:"court_number"`
}

// Bot is a scheduled booking-attempt job. Name is its unique identity.
type Bot struct {
	Name      string `json:"name"`
	WeekDay   string `json:"week_day"`
	CourtTime string `json:"court_time"`
	Status    string `json:"status"`
}

// Court is an available court returned for a specific date-time, together
// with the booking id to use when reserving it.
type Court struct {
	CourtNumber int    `json:"court_number"`
	BookingID   string `json:"booking_id"`
}
