package calendar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	config "github.com/anmolmalik/talk_sessions/configs"
	"github.com/anmolmalik/talk_sessions/models"
	"github.com/google/uuid"
)

const calendarBaseURL = "https://www.googleapis.com/calendar/v3"

// TimePeriod is one busy window returned by the free/busy lookup.
type TimePeriod struct {
	Start time.Time
	End   time.Time
}

// EventResult carries the identifiers the booking stores after the
// calendar invite is created.
type EventResult struct {
	EventID  string
	MeetLink string
	HTMLLink string
}

func calendarID() string {
	if id := config.Config("GOOGLE_CALENDAR_ID"); id != "" {
		return id
	}
	return "primary"
}

type freeBusyRequest struct {
	TimeMin string              `json:"timeMin"`
	TimeMax string              `json:"timeMax"`
	Items   []map[string]string `json:"items"`
}

type freeBusyResponse struct {
	Calendars map[string]struct {
		Busy []struct {
			Start string `json:"start"`
			End   string `json:"end"`
		} `json:"busy"`
	} `json:"calendars"`
}

// FetchBusy queries the provider's calendar for busy windows between the
// two instants. Callers treat an error as "no conflicts known".
func FetchBusy(timeMin, timeMax time.Time) ([]TimePeriod, error) {
	accessToken, err := GetAccessToken()
	if err != nil {
		return nil, err
	}

	id := calendarID()
	payload := freeBusyRequest{
		TimeMin: timeMin.Format(time.RFC3339),
		TimeMax: timeMax.Format(time.RFC3339),
		Items:   []map[string]string{{"id": id}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", calendarBaseURL+"/freeBusy", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("freeBusy query returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var fb freeBusyResponse
	if err := json.NewDecoder(resp.Body).Decode(&fb); err != nil {
		return nil, err
	}

	var busy []TimePeriod
	for _, window := range fb.Calendars[id].Busy {
		start, err := time.Parse(time.RFC3339, window.Start)
		if err != nil {
			continue
		}
		end, err := time.Parse(time.RFC3339, window.End)
		if err != nil {
			continue
		}
		busy = append(busy, TimePeriod{Start: start, End: end})
	}
	return busy, nil
}

type eventDateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type eventAttendee struct {
	Email          string `json:"email"`
	DisplayName    string `json:"displayName,omitempty"`
	Organizer      bool   `json:"organizer,omitempty"`
	ResponseStatus string `json:"responseStatus,omitempty"`
}

type eventRequest struct {
	Summary        string          `json:"summary"`
	Description    string          `json:"description"`
	Start          eventDateTime   `json:"start"`
	End            eventDateTime   `json:"end"`
	Attendees      []eventAttendee `json:"attendees"`
	ConferenceData struct {
		CreateRequest struct {
			RequestID             string            `json:"requestId"`
			ConferenceSolutionKey map[string]string `json:"conferenceSolutionKey"`
		} `json:"createRequest"`
	} `json:"conferenceData"`
	Reminders struct {
		UseDefault bool `json:"useDefault"`
		Overrides  []struct {
			Method  string `json:"method"`
			Minutes int    `json:"minutes"`
		} `json:"overrides"`
	} `json:"reminders"`
	GuestsCanModify       bool `json:"guestsCanModify"`
	GuestsCanInviteOthers bool `json:"guestsCanInviteOthers"`
}

type eventResponse struct {
	ID             string `json:"id"`
	HTMLLink       string `json:"htmlLink"`
	ConferenceData struct {
		EntryPoints []struct {
			EntryPointType string `json:"entryPointType"`
			URI            string `json:"uri"`
		} `json:"entryPoints"`
	} `json:"conferenceData"`
}

func sessionLabel(bookingType string) string {
	if bookingType == models.BookingTypeQuick {
		return "Quick 10-min"
	}
	return "Strategy 45-min"
}

// CreateEvent inserts the session on the provider's calendar with a Meet
// conference and native invites for both attendees.
func CreateEvent(booking *models.Booking) (*EventResult, error) {
	accessToken, err := GetAccessToken()
	if err != nil {
		return nil, err
	}

	adminEmail := config.Config("ADMIN_EMAIL")
	label := sessionLabel(booking.BookingType)

	var payload eventRequest
	payload.Summary = fmt.Sprintf("%s Session with %s", label, booking.User.Name)
	payload.Description = fmt.Sprintf(
		"1-on-1 Session\n\nSession Type: %s\nCustomer: %s\nEmail: %s\n\nThis meeting was scheduled automatically.",
		label, booking.User.Name, booking.User.Email,
	)
	payload.Start = eventDateTime{DateTime: booking.SlotStart.UTC().Format(time.RFC3339), TimeZone: "UTC"}
	payload.End = eventDateTime{DateTime: booking.SlotEnd.UTC().Format(time.RFC3339), TimeZone: "UTC"}
	payload.Attendees = []eventAttendee{
		{Email: booking.User.Email, DisplayName: booking.User.Name},
		{Email: adminEmail, Organizer: true, ResponseStatus: "accepted"},
	}
	payload.ConferenceData.CreateRequest.RequestID = fmt.Sprintf("%s-%s", booking.ID, uuid.New().String()[:8])
	payload.ConferenceData.CreateRequest.ConferenceSolutionKey = map[string]string{"type": "hangoutsMeet"}
	payload.Reminders.UseDefault = false
	payload.Reminders.Overrides = []struct {
		Method  string `json:"method"`
		Minutes int    `json:"minutes"`
	}{
		{Method: "email", Minutes: 60},
		{Method: "popup", Minutes: 10},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/calendars/%s/events?conferenceDataVersion=1&sendUpdates=all",
		calendarBaseURL, url.PathEscape(calendarID()))

	req, err := http.NewRequest("POST", endpoint, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendar insert returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var event eventResponse
	if err := json.Unmarshal(respBody, &event); err != nil {
		return nil, err
	}

	result := &EventResult{EventID: event.ID, HTMLLink: event.HTMLLink}
	for _, entry := range event.ConferenceData.EntryPoints {
		if entry.EntryPointType == "video" {
			result.MeetLink = entry.URI
			break
		}
	}
	return result, nil
}
