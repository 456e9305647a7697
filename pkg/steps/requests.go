package steps

// Fixed request values.
const (
	SeatClass       = "economy"
	PickupLocation  = "airport"
	DropoffLocation = "guest's destination"
	PartySize       = 2
	PropertyType    = "entire place"
	RoomType        = "standard"

	FlightNote   = "Fly-out booking for arriving guest"
	RideNote     = "Pick up at arrivals after landing"
	DiningNote   = "Table for the guest after arrival"
	DeliveryNote = "Deliver to the guest's lodging"
)

// DefaultDeliveryItems is the food order sent to the delivery service.
var DefaultDeliveryItems = []string{"Chef's special", "Garden salad", "Sparkling water"}

type FlightRequest struct {
	GuestName     string `json:"guestName"`
	Origin        string `json:"origin"`
	DepartureDate string `json:"departureDate"`
	SeatClass     string `json:"seatClass"`
	Note          string `json:"note"`
}

type RideRequest struct {
	GuestName       string `json:"guestName"`
	PickupLocation  string `json:"pickupLocation"`
	PickupTime      string `json:"pickupTime"`
	DropoffLocation string `json:"dropoffLocation"`
	Note            string `json:"note"`
}

type TableRequest struct {
	GuestName string `json:"guestName"`
	Time      string `json:"time"`
	PartySize int    `json:"partySize"`
	Note      string `json:"note"`
}

type FoodOrderRequest struct {
	GuestName    string   `json:"guestName"`
	DeliveryTime string   `json:"deliveryTime"`
	Items        []string `json:"items"`
	Note         string   `json:"note"`
}

type StayRequest struct {
	GuestName    string `json:"guestName"`
	Checkin      string `json:"checkin"`
	Checkout     string `json:"checkout"`
	PropertyType string `json:"propertyType"`
}

type HotelRequest struct {
	GuestName string `json:"guestName"`
	Checkin   string `json:"checkin"`
	Nights    int    `json:"nights"`
	RoomType  string `json:"roomType"`
}

type CalendarEntry struct {
	Title string `json:"title"`
	Date  string `json:"date"`
	Note  string `json:"note"`
}

type CalendarRequest struct {
	GuestName string          `json:"guestName"`
	Events    []CalendarEntry `json:"events"`
}

type SummaryRequest struct {
	APIKey  string `json:"apiKey"`
	Message string `json:"message"`
}
