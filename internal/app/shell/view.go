// Package shell holds the navigation state of the dashboard: the closed set
// of views, the chrome flags and the one-shot device location.
package shell

import (
	"errors"
	"strings"
)

var ErrUnknownView = errors.New("unknown view")

// View is one of the package-level values below. The zero value is Dashboard.
type View struct {
	idx uint8
}

var (
	Dashboard    = View{0}
	Identity     = View{1}
	Groups       = View{2}
	Chatbot      = View{3}
	Vision       = View{4}
	WalkieTalkie = View{5}
	Settings     = View{6}
)

const viewCount = 7

// Views lists every view in navigation order.
func Views() []View {
	return []View{Dashboard, Identity, Groups, Chatbot, Vision, WalkieTalkie, Settings}
}

var viewNames = [viewCount]string{
	"dashboard",
	"identity",
	"groups",
	"chatbot",
	"vision",
	"walkie-talkie",
	"settings",
}

func (v View) String() string {
	return viewNames[v.idx]
}

// ParseView maps a wire name to a View.
func ParseView(s string) (View, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range viewNames {
		if n == name {
			return View{uint8(i)}, nil
		}
	}
	return View{}, ErrUnknownView
}

func (v View) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *View) UnmarshalText(b []byte) error {
	parsed, err := ParseView(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Screen describes what the client renders for a view.
type Screen struct {
	View     View
	Label    string
	// Stateful screens own server-side state that is reset on unmount.
	Stateful bool
}

var screens = [viewCount]Screen{
	{View: Dashboard, Label: "Dashboard"},
	{View: Identity, Label: "Verified ID"},
	{View: Groups, Label: "Groups"},
	{View: Chatbot, Label: "AI Assistant", Stateful: true},
	{View: Vision, Label: "Vision AI", Stateful: true},
	{View: WalkieTalkie, Label: "Walkie-Talkie"},
	{View: Settings, Label: "Settings"},
}

// ScreenFor returns the screen for v.
func ScreenFor(v View) Screen {
	return screens[v.idx]
}
