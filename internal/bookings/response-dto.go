package bookings

import (
	"time"

	"busbooking/internal/passengers"
)

type BookingResponse struct {
	ID            string              `json:"id"`
	BookingCode   string              `json:"booking_code"`
	ScheduleID    string              `json:"schedule_id"`
	Source        string              `json:"source"`
	Destination   string              `json:"destination"`
	TravelDate    string              `json:"travel_date"`
	DepartureTime time.Time           `json:"departure_time"`
	Status        Status              `json:"status"`
	PaymentStatus PaymentStatus       `json:"payment_status"`
	Seats         []string            `json:"seats"`
	Fare          FareInfo            `json:"fare"`
	Passengers    []PassengerResponse `json:"passengers,omitempty"`
	Payment       *PaymentInfo        `json:"payment,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	CancelledAt   *time.Time          `json:"cancelled_at,omitempty"`
}

type FareInfo struct {
	BaseFare    int64 `json:"base_fare"`
	ServiceFee  int64 `json:"service_fee"`
	GSTAmount   int64 `json:"gst_amount"`
	TotalAmount int64 `json:"total_amount"`
}

type PassengerResponse struct {
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
	Seat   string `json:"seat"`
}

type PaymentInfo struct {
	ID            string        `json:"id"`
	Amount        int64         `json:"amount"`
	Currency      string        `json:"currency"`
	Status        PaymentStatus `json:"status"`
	PaymentMethod string        `json:"payment_method"`
	TransactionID string        `json:"transaction_id"`
	ProcessedAt   *time.Time    `json:"processed_at,omitempty"`
}

type BookingListResponse struct {
	Bookings   []BookingResponse `json:"bookings"`
	Pagination Pagination        `json:"pagination"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

func (b *Booking) ToResponse(travellers []passengers.Passenger) BookingResponse {
	resp := BookingResponse{
		ID:            b.ID.String(),
		BookingCode:   b.BookingCode,
		ScheduleID:    b.ScheduleID.String(),
		Source:        b.Source,
		Destination:   b.Destination,
		TravelDate:    b.TravelDate,
		DepartureTime: b.DepartureTime,
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		Seats:         b.SeatNumbers(),
		Fare: FareInfo{
			BaseFare:    b.BaseFare,
			ServiceFee:  b.ServiceFee,
			GSTAmount:   b.GSTAmount,
			TotalAmount: b.TotalPrice,
		},
		CreatedAt:   b.CreatedAt,
		CancelledAt: b.CancelledAt,
	}

	for _, p := range travellers {
		resp.Passengers = append(resp.Passengers, PassengerResponse{
			Name:   p.Name,
			Age:    p.Age,
			Gender: string(p.Gender),
			Seat:   p.SeatNumber,
		})
	}

	if len(b.Payments) > 0 {
		info := b.Payments[0].ToPaymentInfo()
		resp.Payment = &info
	}
	return resp
}

func (p *Payment) ToPaymentInfo() PaymentInfo {
	return PaymentInfo{
		ID:            p.ID.String(),
		Amount:        p.Amount,
		Currency:      p.Currency,
		Status:        p.Status,
		PaymentMethod: p.PaymentMethod,
		TransactionID: p.TransactionID,
		ProcessedAt:   p.ProcessedAt,
	}
}
