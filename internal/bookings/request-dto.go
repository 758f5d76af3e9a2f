package bookings

// BookingListQuery is bound from the query string of GET /users/bookings.
type BookingListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=50"`
	Status   string `form:"status" binding:"omitempty,oneof=CONFIRMED CANCELLED"`
	DateFrom string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo   string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
}

func (q BookingListQuery) normalized() BookingListQuery {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
	return q
}

// cacheable reports whether the query is the plain paginated listing.
func (q BookingListQuery) cacheable() bool {
	return q.Status == "" && q.DateFrom == "" && q.DateTo == "" && q.Limit == DefaultPageLimit
}
