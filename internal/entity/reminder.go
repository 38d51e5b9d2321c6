package entity

type ReminderStatus string

const (
	ReminderSent      ReminderStatus = "Sent"
	ReminderScheduled ReminderStatus = "Scheduled"
)

// DefaultReminderEmail is shown when the session has not set an address.
const DefaultReminderEmail = "student@asu.edu"

// Reminder is derived on every read and never stored.
type Reminder struct {
	Event      Event          `json:"event"`
	HoursUntil int            `json:"hours_until"`
	Status     ReminderStatus `json:"status"`
	Label      string         `json:"label"`
}

type ReminderSettings struct {
	Enabled bool   `json:"enabled"`
	Email   string `json:"email"`
}

func (s ReminderSettings) Recipient() string {
	if s.Email == "" {
		return DefaultReminderEmail
	}
	return s.Email
}
