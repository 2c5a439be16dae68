package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DashboardView is the closed set of dashboard pages.
type DashboardView string

const (
	ViewProfile  DashboardView = "profile"
	ViewAppeals  DashboardView = "appeals"
	ViewCheckIn  DashboardView = "checkin"
	ViewStudents DashboardView = "students"
)

var viewLabels = map[DashboardView]string{
	ViewProfile:  "个人信息",
	ViewAppeals:  "申诉管理",
	ViewCheckIn:  "签到监控",
	ViewStudents: "学生数据",
}

var viewIcons = map[DashboardView]string{
	ViewProfile:  "👤",
	ViewAppeals:  "📝",
	ViewCheckIn:  "📍",
	ViewStudents: "📊",
}

// DashboardViews returns the navigation order.
func DashboardViews() []DashboardView {
	return []DashboardView{ViewProfile, ViewAppeals, ViewCheckIn, ViewStudents}
}

// Valid reports whether v names a known view.
func (v DashboardView) Valid() bool {
	_, ok := viewLabels[v]
	return ok
}

// Label returns the navigation label.
func (v DashboardView) Label() string { return viewLabels[v] }

// Icon returns the navigation icon.
func (v DashboardView) Icon() string { return viewIcons[v] }

// AdminProfile describes the operator shown on the profile page.
type AdminProfile struct {
	Name       string `json:"name"`
	ID         string `json:"id"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

// LoginForm carries the credentials typed into the login form.
type LoginForm struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginMeta is request context recorded with a login attempt.
type LoginMeta struct {
	IP        string
	UserAgent string
}

// LoginResponse is returned on a successful attempt.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresIn   int64        `json:"expires_in"`
	IssuedAt    time.Time    `json:"issued_at"`
	Profile     AdminProfile `json:"profile"`
}

// JWTClaims is the access token payload; SessionID keys the dashboard session.
type JWTClaims struct {
	SessionID string `json:"sid"`
	Username  string `json:"username"`
	jwt.RegisteredClaims
}
