package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// UnknownTopic is used for events recorded without a topic
const UnknownTopic = "unknown"

// Outcome is the binary result of a practice attempt. It decodes from 0/1 or true/false.
type Outcome bool

// UnmarshalJSON accepts JSON booleans and the integers 0 and 1
func (o *Outcome) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*o = Outcome(b)
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("success must be a boolean or 0/1, got %s", string(data))
	}
	switch n {
	case 0:
		*o = false
	case 1:
		*o = true
	default:
		return fmt.Errorf("success must be 0 or 1, got %v", n)
	}
	return nil
}

// MarshalJSON encodes the outcome as 0 or 1
func (o Outcome) MarshalJSON() ([]byte, error) {
	if o {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

// Float returns 1 for a success and 0 otherwise
func (o Outcome) Float() float64 {
	if o {
		return 1
	}
	return 0
}

// ActivityEvent is one recorded practice attempt
type ActivityEvent struct {
	Platform  string  `json:"platform" binding:"required"`
	Topic     *string `json:"topic,omitempty"`
	Success   Outcome `json:"success"`
	TimeSpent float64 `json:"time_spent" binding:"gte=0"`
	Date      string  `json:"date"`
}

var requiredEventFields = []string{"success", "time_spent", "date"}

// UnmarshalJSON rejects events that omit success, time_spent or date, which
// would otherwise decode as zero values
func (e *ActivityEvent) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	for _, name := range requiredEventFields {
		if v, ok := fields[name]; !ok || string(v) == "null" {
			return fmt.Errorf("%s is required", name)
		}
	}

	type event ActivityEvent
	return json.Unmarshal(data, (*event)(e))
}

// TopicOrDefault returns the event topic, or UnknownTopic when absent
func (e ActivityEvent) TopicOrDefault() string {
	if e.Topic == nil {
		return UnknownTopic
	}
	return *e.Topic
}

// ActivityLog is a user's events ordered oldest first
type ActivityLog []ActivityEvent

// UserPayload is the request body accepted by every insights endpoint
type UserPayload struct {
	UserID     string      `json:"user_id" binding:"required"`
	Activities ActivityLog `json:"activities" binding:"dive"`
}

// Validate applies the request binding rules to payloads that do not arrive
// through gin, such as stream messages
func (p UserPayload) Validate() error {
	if p.UserID == "" {
		return errors.New("user_id is required")
	}
	for i, e := range p.Activities {
		if e.Platform == "" {
			return fmt.Errorf("activities[%d]: platform is required", i)
		}
		if e.TimeSpent < 0 || math.IsNaN(e.TimeSpent) {
			return fmt.Errorf("activities[%d]: time_spent must be >= 0", i)
		}
	}
	return nil
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}
