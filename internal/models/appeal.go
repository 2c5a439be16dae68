package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// AppealStatus is the closed set of review states an appeal can hold.
// The zero value is not a valid status.
type AppealStatus uint8

const (
	AppealStatusUnfiled AppealStatus = iota + 1
	AppealStatusAccepted
	AppealStatusResolved
	AppealStatusRejected
)

type statusInfo struct {
	code  string
	label string
	color string
}

var statusTable = map[AppealStatus]statusInfo{
	AppealStatusUnfiled:  {code: "UNFILED", label: "未受理", color: "bg-gray-100 text-gray-800"},
	AppealStatusAccepted: {code: "ACCEPTED", label: "已受理", color: "bg-blue-100 text-blue-800"},
	AppealStatusResolved: {code: "RESOLVED", label: "已解决", color: "bg-green-100 text-green-800"},
	AppealStatusRejected: {code: "REJECTED", label: "已拒绝", color: "bg-red-100 text-red-800"},
}

// AppealStatuses lists every status in workflow order.
func AppealStatuses() []AppealStatus {
	return []AppealStatus{AppealStatusUnfiled, AppealStatusAccepted, AppealStatusResolved, AppealStatusRejected}
}

// Valid reports whether s is one of the four known statuses.
func (s AppealStatus) Valid() bool {
	_, ok := statusTable[s]
	return ok
}

// String returns the wire code, e.g. "ACCEPTED".
func (s AppealStatus) String() string {
	if info, ok := statusTable[s]; ok {
		return info.code
	}
	return fmt.Sprintf("AppealStatus(%d)", uint8(s))
}

// Label returns the localized display label.
func (s AppealStatus) Label() string {
	return statusTable[s].label
}

// ColorClass returns the badge style for the status.
func (s AppealStatus) ColorClass() string {
	if info, ok := statusTable[s]; ok {
		return info.color
	}
	return statusTable[AppealStatusUnfiled].color
}

// ParseAppealStatus accepts a wire code (case-insensitive) or a localized label.
func ParseAppealStatus(raw string) (AppealStatus, error) {
	raw = strings.TrimSpace(raw)
	for status, info := range statusTable {
		if strings.EqualFold(raw, info.code) || raw == info.label {
			return status, nil
		}
	}
	return 0, fmt.Errorf("unknown appeal status %q", raw)
}

// MarshalText implements encoding.TextMarshaler.
func (s AppealStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid appeal status %d", uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *AppealStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseAppealStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Value implements driver.Valuer, persisting the wire code.
func (s AppealStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid appeal status %d", uint8(s))
	}
	return s.String(), nil
}

// Scan implements sql.Scanner.
func (s *AppealStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		return s.UnmarshalText([]byte(v))
	case []byte:
		return s.UnmarshalText(v)
	default:
		return fmt.Errorf("cannot scan %T into AppealStatus", src)
	}
}

// Appeal is a student's dispute over recorded exercise data. Only Status is mutable.
type Appeal struct {
	ID          string       `db:"id" json:"id"`
	Type        string       `db:"type" json:"type"`
	StudentName string       `db:"student_name" json:"studentName"`
	StudentID   string       `db:"student_id" json:"studentId"`
	Description string       `db:"description" json:"description"`
	Status      AppealStatus `db:"status" json:"status"`
	Date        Date         `db:"submitted_on" json:"date"`
}

// AppealTransition records one effective status change.
type AppealTransition struct {
	ID        string       `db:"id" json:"id"`
	AppealID  string       `db:"appeal_id" json:"appealId"`
	From      AppealStatus `db:"from_status" json:"from"`
	To        AppealStatus `db:"to_status" json:"to"`
	Actor     string       `db:"actor" json:"actor"`
	CreatedAt time.Time    `db:"created_at" json:"createdAt"`
}

// AppealAction names one of the detail-view controls.
type AppealAction string

const (
	AppealActionAccept  AppealAction = "accept"
	AppealActionResolve AppealAction = "resolve"
	AppealActionReject  AppealAction = "reject"
	AppealActionReset   AppealAction = "reset"
)

// Target returns the status the action applies.
func (a AppealAction) Target() (AppealStatus, bool) {
	switch a {
	case AppealActionAccept:
		return AppealStatusAccepted, true
	case AppealActionResolve:
		return AppealStatusResolved, true
	case AppealActionReject:
		return AppealStatusRejected, true
	case AppealActionReset:
		return AppealStatusUnfiled, true
	default:
		return 0, false
	}
}
