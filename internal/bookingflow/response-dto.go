package bookingflow

import (
	"context"
	"time"

	"busbooking/internal/fare"
	"busbooking/internal/passengers"
	"busbooking/internal/seatmap"
	"busbooking/internal/stops"
)

type SeatView struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Type     string `json:"type"`
	Status   string `json:"status"`
	Price    int64  `json:"price"`
	Selected bool   `json:"selected"`
}

type RowView struct {
	Row   int        `json:"row"`
	Seats []SeatView `json:"seats"`
}

type FlowResponse struct {
	ID          string             `json:"id"`
	State       State              `json:"state"`
	Schedule    *ScheduleInfo      `json:"schedule,omitempty"`
	SeatMap     []RowView          `json:"seat_map"`
	Selected    []string           `json:"selected_seats"`
	Fare        fare.Breakdown     `json:"fare"`
	Stops       stops.Choice       `json:"stops"`
	Cities      []string           `json:"cities,omitempty"`
	Passengers  []passengers.Draft `json:"passengers"`
	Authorized  bool               `json:"authorized"`
	PaymentRef  string             `json:"payment_reference,omitempty"`
	BookingID   string             `json:"booking_id,omitempty"`
	BookingCode string             `json:"booking_code,omitempty"`
	LastError   string             `json:"last_error,omitempty"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

type ToggleResponse struct {
	Selected bool          `json:"selected"`
	Flow     *FlowResponse `json:"flow"`
}

// ToResponse renders the flow together with everything derived from it.
func ToResponse(ctx context.Context, f *Flow, calc fare.Calculator) *FlowResponse {
	f.normalize()

	resp := &FlowResponse{
		ID:          f.ID.String(),
		State:       f.State,
		Schedule:    f.Schedule,
		SeatMap:     []RowView{},
		Selected:    f.Selection.Labels(),
		Fare:        f.Fare(calc),
		Stops:       f.Stops,
		Cities:      f.Cities,
		Passengers:  f.Passengers.Drafts(),
		Authorized:  f.UserID != nil,
		PaymentRef:  f.PaymentRef,
		BookingCode: f.BookingCode,
		LastError:   f.LastError,
		UpdatedAt:   f.UpdatedAt,
	}
	if f.BookingID != nil {
		resp.BookingID = f.BookingID.String()
	}

	for _, row := range f.SeatMap(ctx).Rows() {
		resp.SeatMap = append(resp.SeatMap, toRowView(row, f))
	}
	return resp
}

func toRowView(row seatmap.Row, f *Flow) RowView {
	view := RowView{Row: row.Number, Seats: make([]SeatView, 0, len(row.Seats))}
	for _, s := range row.Seats {
		view.Seats = append(view.Seats, SeatView{
			ID:       s.ID.String(),
			Label:    s.SeatNumber,
			Type:     string(s.SeatType),
			Status:   string(s.Status),
			Price:    s.Price,
			Selected: f.Selection.Contains(s.ID),
		})
	}
	return view
}
