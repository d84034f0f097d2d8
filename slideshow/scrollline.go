package slideshow

// ScrollLine is the vertical progress indicator. Scale is its vertical
// scale and follows normalized carousel progress; it is hidden while a
// slide is focused.
type ScrollLine struct {
	Scale   float64
	Opacity float64
}

func (l *ScrollLine) Render(progress float64) {
	l.Scale = progress
}

func (l *ScrollLine) Activate() {
	l.Opacity = 1
}

func (l *ScrollLine) Deactivate() {
	l.Opacity = 0
}
