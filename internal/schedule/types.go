// Package schedule defines the timetable data model and the pure resolution
// logic over it: interval search within a day's time layout, plan selection
// for a date, and override application. Everything here is a pure function of
// its inputs and a supplied "now"; mutable cross-tick state lives in the
// engine package.
package schedule

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimeLayoutItem kinds.
const (
	KindClass     = "class"
	KindBreak     = "break"
	KindSeparator = "separator"
	KindAction    = "action"
)

// Week parity values for plan rules. ParityAny matches every week.
const (
	ParityAny = "any"
	ParityA   = "a"
	ParityB   = "b"
)

// Sentinel subject IDs. These are resolver fallbacks, never persisted in a
// profile's subject table.
const (
	SubjectIDEmpty    = "__empty__"
	SubjectIDBreaking = "__breaking__"
)

// EmptySubject is returned for slots with no subject assigned.
func EmptySubject() Subject {
	return Subject{ID: SubjectIDEmpty, Name: "No class", Initial: "-"}
}

// BreakingSubject is the placeholder shown during a break. The break label
// from the layout item becomes the display name.
func BreakingSubject(label string) Subject {
	if label == "" {
		label = "Break"
	}
	return Subject{ID: SubjectIDBreaking, Name: label, Initial: "·"}
}

// Subject is a teachable subject referenced by class plan slots.
type Subject struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Initial     string `json:"initial"`
	TeacherName string `json:"teacherName"`
}

// TimeLayoutItem is a single wall-clock window within a day: a class, a
// break, a separator, or an action hook. Action payloads are opaque to the
// scheduling core; they are carried for external consumers.
type TimeLayoutItem struct {
	Start             TimeOfDay `json:"start"`
	End               TimeOfDay `json:"end"`
	Kind              string    `json:"kind"`
	DefaultClassIndex int       `json:"defaultClassIndex"`
	BreakLabel        string    `json:"breakLabel,omitempty"`
	ActionPayload     string    `json:"actionPayload,omitempty"`
}

// TimeLayout is a named, start-ordered sequence of time windows defining a
// day's schedule skeleton. Class-kind items, taken in order, define the
// canonical class index sequence joined against ClassPlan.Classes.
type TimeLayout struct {
	ID    string           `json:"id"`
	Name  string           `json:"name"`
	Items []TimeLayoutItem `json:"items"`
}

// ClassInfo assigns a subject to one class-kind slot of a time layout.
// Changed is derived, not authoritative: the override resolver recomputes it
// when substitutions or an overlay apply.
type ClassInfo struct {
	ID        string `json:"id"`
	SubjectID string `json:"subjectId"`
	Index     int    `json:"index"`
	Enabled   bool   `json:"enabled"`
	Changed   bool   `json:"changed"`
}

// PlanRule scopes a class plan to a weekday and optionally a week parity.
type PlanRule struct {
	Weekday    time.Weekday `json:"weekday"`
	WeekParity string       `json:"weekParity"`
}

// ClassPlan maps subjects onto the class slots of a time layout for the days
// its rule matches. An overlay plan temporarily supersedes the plan named by
// OverlaySourceID, tracking which slots differ from it.
type ClassPlan struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	TimeLayoutID     string      `json:"timeLayoutId"`
	Classes          []ClassInfo `json:"classes"`
	Rule             PlanRule    `json:"rule"`
	Enabled          bool        `json:"enabled"`
	IsOverlay        bool        `json:"isOverlay"`
	OverlaySourceID  string      `json:"overlaySourceId,omitempty"`
	OverlaySetupTime time.Time   `json:"overlaySetupTime,omitempty"`
	LastEdited       time.Time   `json:"lastEdited"`
	ValidFrom        *Date       `json:"validFrom,omitempty"`
	ValidUntil       *Date       `json:"validUntil,omitempty"`
}

// Clone returns a deep copy of the plan. Overrides are always applied to a
// clone so stored plans are never mutated.
func (p *ClassPlan) Clone() *ClassPlan {
	out := *p
	out.Classes = make([]ClassInfo, len(p.Classes))
	copy(out.Classes, p.Classes)
	if p.ValidFrom != nil {
		v := *p.ValidFrom
		out.ValidFrom = &v
	}
	if p.ValidUntil != nil {
		v := *p.ValidUntil
		out.ValidUntil = &v
	}
	return &out
}

// TempChange is a single-date substitution of one subject for another in a
// specific plan slot. Non-permanent changes are consumed (Used flipped by the
// caller) the first day they apply; permanent changes re-apply on every tick
// whose date matches ChangeDate and are never reported as consumed.
type TempChange struct {
	ID             string `json:"id"`
	OriginalSlotID string `json:"originalScheduleSlotId"`
	NewSubjectID   string `json:"newSubjectId"`
	ChangeDate     Date   `json:"changeDate"`
	IsPermanent    bool   `json:"isPermanent"`
	Used           bool   `json:"used"`
}

// TimeOfDay is a wall-clock time within a day, stored as seconds since
// midnight. It marshals as "HH:MM:SS".
type TimeOfDay int

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m, sec int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
		sec = 0
		if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
			return 0, fmt.Errorf("invalid time of day %q", s)
		}
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("time of day out of range: %q", s)
	}
	return TimeOfDay(h*3600 + m*60 + sec), nil
}

// MustTimeOfDay is ParseTimeOfDay that panics on error, for fixtures.
func MustTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// TimeOfDayFrom extracts the wall-clock time of day from t.
func TimeOfDayFrom(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*3600 + t.Minute()*60 + t.Second())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", int(t)/3600, int(t)/60%60, int(t)%60)
}

// Sub returns the duration from o to t.
func (t TimeOfDay) Sub(o TimeOfDay) time.Duration {
	return time.Duration(int(t)-int(o)) * time.Second
}

// MarshalJSON implements json.Marshaler.
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Date is a calendar date without a time component. It marshals as
// "2006-01-02".
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf extracts the calendar date from t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses "2006-01-02".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q", s)
	}
	return DateOf(t), nil
}

// MustDate is ParseDate that panics on error, for fixtures.
func MustDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Time returns midnight of the date in the given location.
func (d Date) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// Before reports whether d is earlier than o.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// After reports whether d is later than o.
func (d Date) After(o Date) bool {
	return o.Before(d)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
