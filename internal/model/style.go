package model

// StyleHint is the presentation band derived from an HTTP status code.
type StyleHint string

const (
	StyleNormal   StyleHint = "normal"
	StyleRedirect StyleHint = "redirect"
	StyleWarning  StyleHint = "warning"
	StyleSevere   StyleHint = "severe"
)

// ClassifyStatus maps a status code to exactly one StyleHint.
func ClassifyStatus(status int) StyleHint {
	switch {
	case status >= 500:
		return StyleSevere
	case status >= 400:
		return StyleWarning
	case status >= 300:
		return StyleRedirect
	default:
		return StyleNormal
	}
}

// CSS returns the inline row style the dashboard applies for the band.
func (h StyleHint) CSS() string {
	switch h {
	case StyleSevere:
		return "color: #ff6b6b; background: #2c1a1a; font-weight: bold;"
	case StyleWarning:
		return "color: #ffd93d; background: #2c261a; font-weight: bold;"
	case StyleRedirect:
		return "color: #6bafff; background: #1a1f2c;"
	default:
		return "color: #69db7e; background: #1a2c1a;"
	}
}
