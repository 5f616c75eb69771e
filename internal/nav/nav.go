// Package nav tracks which portal page is on screen.
package nav

import "strings"

// View identifies one of the portal pages.
type View int

const (
	Home View = iota
	Business
	Support
	Upload
)

var viewNames = map[View]string{
	Home:     "home",
	Business: "business",
	Support:  "support",
	Upload:   "upload",
}

var viewTitles = map[View]string{
	Home:     "Our Digital Services",
	Business: "Digital Business Services",
	Support:  "Digital Support Services",
	Upload:   "Simulated File Upload",
}

// Views returns every page in menu order.
func Views() []View {
	return []View{Home, Business, Support, Upload}
}

// Valid reports whether v is one of the known pages.
func (v View) Valid() bool {
	_, ok := viewNames[v]
	return ok
}

func (v View) String() string {
	if name, ok := viewNames[v]; ok {
		return name
	}
	return "unknown"
}

// Title is the heading shown at the top of the page.
func (v View) Title() string {
	if title, ok := viewTitles[v]; ok {
		return title
	}
	return "Page not found!"
}

// ParseView maps a page name back to its View.
func ParseView(name string) (View, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for view, candidate := range viewNames {
		if candidate == name {
			return view, true
		}
	}
	return Home, false
}

// Controller owns the active page. The zero value starts on Home.
type Controller struct {
	current View
}

// New returns a controller showing the home page.
func New() *Controller {
	return &Controller{current: Home}
}

// Current returns the page on screen.
func (c *Controller) Current() View {
	return c.current
}

// NavigateTo replaces the active page. It never fails and keeps no history.
func (c *Controller) NavigateTo(target View) {
	c.current = target
}
