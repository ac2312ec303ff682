package templates

import (
	"time"
)

type Option func(*EmailData)

func WithIP(ip string) Option        { return func(d *EmailData) { d.IP = ip } }
func WithUserAgent(ua string) Option { return func(d *EmailData) { d.UserAgent = ua } }
func WithTime(t time.Time) Option {
	return func(d *EmailData) { d.Time = t.UTC().Format("02 January 2006, 15:04 MST") }
}
func WithChanges(ch map[string]string) Option {
	return func(d *EmailData) { d.Changes = ch }
}

func newBase(appName, typ, name, email string, opts ...Option) EmailData {
	d := EmailData{Name: name, Email: email, AppName: appName, Type: typ}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewWelcomeData(appName, name, email string, opts ...Option) map[string]any {
	return ToMap(newBase(appName, Welcome, name, email, opts...))
}

func NewProfileUpdatedData(appName, name, email string, changes map[string]string, opts ...Option) map[string]any {
	opts = append([]Option{WithChanges(changes)}, opts...)
	return ToMap(newBase(appName, ProfileUpdated, name, email, opts...))
}

func NewPasswordChangedData(appName, name, email string, opts ...Option) map[string]any {
	return ToMap(newBase(appName, PasswordChanged, name, email, opts...))
}
