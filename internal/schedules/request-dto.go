package schedules

type ScheduleSearchQuery struct {
	From  string `form:"from" binding:"omitempty,min=2,max=100"`
	To    string `form:"to" binding:"omitempty,min=2,max=100"`
	Date  string `form:"date" binding:"omitempty,datetime=2006-01-02"`
	Page  int    `form:"page" binding:"omitempty,min=1"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=50"`
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 50
)

func (q ScheduleSearchQuery) normalized() ScheduleSearchQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
	return q
}
