// Command smoke walks one booking through a running server: search, open a
// schedule, pick a seat, log in, add a passenger and pay. Read endpoints are
// requested twice so the cached second response time can be compared.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"busbooking/internal/auth"
	"busbooking/internal/bookingflow"
	"busbooking/internal/payments"
	"busbooking/internal/schedules"
	"busbooking/internal/shared/utils/response"
	"busbooking/pkg/logger"
)

type envelope struct {
	response.StandardApiResponse
	Data json.RawMessage `json:"data,omitempty"`
}

type StepResult struct {
	Step         string        `json:"step"`
	Status       int           `json:"status"`
	ResponseTime time.Duration `json:"response_time"`
	Success      bool          `json:"success"`
	Error        string        `json:"error,omitempty"`
}

type Suite struct {
	BaseURL string
	Token   string
	Results []StepResult
	client  *http.Client
}

func main() {
	base := flag.String("base", "http://localhost:8080/api/v1", "API base URL")
	email := flag.String("email", "traveller@busbooking.dev", "login email")
	password := flag.String("password", "qwerty", "login password")
	from := flag.String("from", "Pune", "source city")
	to := flag.String("to", "Goa", "destination city")
	date := flag.String("date", time.Now().AddDate(0, 0, 1).Format("2006-01-02"), "travel date")
	flag.Parse()

	s := &Suite{BaseURL: *base, client: &http.Client{Timeout: 30 * time.Second}}
	if err := s.run(*email, *password, *from, *to, *date); err != nil {
		logger.GetDefault().WithError(err).Error("smoke run failed")
		s.report()
		os.Exit(1)
	}
	s.report()
}

func (s *Suite) run(email, password, from, to, date string) error {
	q := url.Values{"from": {from}, "to": {to}, "date": {date}}
	var search schedules.SearchResponse
	if err := s.do("search (miss)", http.MethodGet, "/schedules?"+q.Encode(), nil, &search); err != nil {
		return err
	}
	if err := s.do("search (cached)", http.MethodGet, "/schedules?"+q.Encode(), nil, &search); err != nil {
		return err
	}
	if len(search.Schedules) == 0 {
		return fmt.Errorf("no schedules from %s to %s on %s", from, to, date)
	}
	scheduleID := search.Schedules[0].ID

	var flow bookingflow.FlowResponse
	if err := s.do("start flow", http.MethodPost, "/flows", nil, &flow); err != nil {
		return err
	}
	flowPath := "/flows/" + flow.ID

	if err := s.do("open schedule", http.MethodPost, flowPath+"/schedule",
		bookingflow.OpenScheduleRequest{ScheduleID: scheduleID}, &flow); err != nil {
		return err
	}

	seatID := firstAvailable(flow)
	if seatID == "" {
		return fmt.Errorf("schedule %s has no available seats", scheduleID)
	}
	var toggled bookingflow.ToggleResponse
	if err := s.do("toggle seat", http.MethodPost, flowPath+"/seats/"+seatID+"/toggle", nil, &toggled); err != nil {
		return err
	}

	var login auth.AuthResponse
	if err := s.do("login", http.MethodPost, "/auth/login",
		auth.LoginRequest{Email: email, Password: password}, &login); err != nil {
		return err
	}
	s.Token = login.AccessToken

	steps := []struct {
		name string
		path string
		body interface{}
	}{
		{"passenger info", flowPath + "/passenger-info", nil},
		{"add passenger", flowPath + "/passengers", bookingflow.PassengerRequest{Name: login.User.FirstName + " " + login.User.LastName, Age: 30, Gender: "FEMALE"}},
		{"review fare", flowPath + "/payment", nil},
		{"pay", flowPath + "/pay", payments.Card{Number: "4242424242424242", Holder: "SMOKE TEST", Expiry: "12/30", CVV: "123"}},
	}
	for _, step := range steps {
		if err := s.do(step.name, http.MethodPost, step.path, step.body, &flow); err != nil {
			return err
		}
	}

	if flow.State != bookingflow.StateConfirmed {
		return fmt.Errorf("flow ended in %s: %s", flow.State, flow.LastError)
	}
	fmt.Printf("\nBooked %s (total %d)\n", flow.BookingCode, flow.Fare.TotalAmount)
	return nil
}

func firstAvailable(flow bookingflow.FlowResponse) string {
	for _, row := range flow.SeatMap {
		for _, seat := range row.Seats {
			if seat.Status == "AVAILABLE" {
				return seat.ID
			}
		}
	}
	return ""
}

func (s *Suite) do(step, method, path string, body, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, s.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	result := StepResult{Step: step, ResponseTime: time.Since(start)}
	if err != nil {
		result.Error = err.Error()
		s.record(result)
		return err
	}
	defer resp.Body.Close()

	result.Status = resp.StatusCode
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		result.Error = err.Error()
		s.record(result)
		return fmt.Errorf("%s: decode response: %w", step, err)
	}

	result.Success = resp.StatusCode < 400
	if !result.Success {
		result.Error = env.Message
		s.record(result)
		return fmt.Errorf("%s: HTTP %d %s", step, resp.StatusCode, env.Message)
	}
	s.record(result)

	if dest != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, dest)
	}
	return nil
}

func (s *Suite) record(r StepResult) {
	s.Results = append(s.Results, r)
	mark := "ok"
	if !r.Success {
		mark = "FAIL"
	}
	fmt.Printf("  %-16s %-4s %3d %v\n", r.Step, mark, r.Status, r.ResponseTime)
}

func (s *Suite) report() {
	passed := 0
	var total time.Duration
	for _, r := range s.Results {
		if r.Success {
			passed++
		}
		total += r.ResponseTime
	}
	fmt.Printf("\n%d/%d steps passed in %v\n", passed, len(s.Results), total)
}
