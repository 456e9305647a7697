package steps

import "time"

const (
	FallbackFlightDuration = 3 * time.Hour
	PickupDelay            = 15 * time.Minute
	DineInDelay            = 30 * time.Minute
	DeliveryDelay          = 45 * time.Minute
	RentalStayDays         = 2
	HotelNights            = 2
)

// FallbackArrival is used when the flight booking does not say when the flight lands.
func FallbackArrival(departure time.Time) time.Time {
	return departure.Add(FallbackFlightDuration)
}

func PickupTime(arrival time.Time) time.Time {
	return arrival.Add(PickupDelay)
}

func ReservationTime(pickup time.Time) time.Time {
	return pickup.Add(DineInDelay)
}

func DeliveryTime(pickup time.Time) time.Time {
	return pickup.Add(DeliveryDelay)
}

// RentalCheckout is check-in plus RentalStayDays of elapsed time, whatever zone check-in is in.
func RentalCheckout(checkIn time.Time) time.Time {
	return checkIn.Add(RentalStayDays * 24 * time.Hour)
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}
