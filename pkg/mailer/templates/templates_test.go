package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)
	tests := []struct {
		name        string
		template    string
		data        map[string]any
		wantSubject string
		wantText    []string
		wantHTML    []string
	}{
		{
			name:        "welcome",
			template:    Welcome,
			data:        NewWelcomeData("Taskboard", "Ann", "ann@example.com"),
			wantSubject: "Welcome to Taskboard, Ann",
			wantText:    []string{"ann@example.com"},
			wantHTML:    []string{"<strong>ann@example.com</strong>"},
		},
		{
			name:        "profile updated",
			template:    ProfileUpdated,
			data:        NewProfileUpdatedData("", "Ann", "ann@example.com", map[string]string{"name": "Ann Lee"}, WithTime(at)),
			wantSubject: "Your Taskboard profile was updated",
			wantText:    []string{"- name: Ann Lee", "01 March 2025, 10:30 UTC"},
			wantHTML:    []string{"<strong>name</strong>: Ann Lee"},
		},
		{
			name:        "password changed",
			template:    PasswordChanged,
			data:        NewPasswordChangedData("Taskboard", "Ann", "ann@example.com", WithIP("10.0.0.1"), WithUserAgent("<script>")),
			wantSubject: "Your Taskboard password was changed",
			wantText:    []string{"from 10.0.0.1"},
			wantHTML:    []string{"Device: &lt;script&gt;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, text, html, err := Render(tt.template, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSubject, subject)
			for _, s := range tt.wantText {
				assert.Contains(t, text, s)
			}
			for _, s := range tt.wantHTML {
				assert.Contains(t, html, s)
			}
		})
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, _, _, err := Render("login_otp", nil)
	assert.Error(t, err)
}

func TestDefaultFn(t *testing.T) {
	assert.Equal(t, "x", defaultFn("x", ""))
	assert.Equal(t, "x", defaultFn("x", "   "))
	assert.Equal(t, "x", defaultFn("x", nil))
	assert.Equal(t, "x", defaultFn("x", 0))
	assert.Equal(t, "y", defaultFn("x", "y"))
}
