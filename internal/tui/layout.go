package tui

type pageLayout struct {
	windowWidth  int
	windowHeight int
	contentWidth int
	pickerHeight int
}

func newPageLayout() pageLayout {
	return pageLayout{
		contentWidth: 72,
		pickerHeight: defaultPickerRow,
	}
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height

	inner := width - contentPadding
	if inner < minContentWidth {
		inner = minContentWidth
	}
	if inner > maxContentWidth {
		inner = maxContentWidth
	}
	l.contentWidth = inner

	picker := height - pickerChrome
	if picker < minPickerHeight {
		picker = minPickerHeight
	}
	l.pickerHeight = picker
}

// wrapWidth is the width available to wrapped copy inside the card.
func (l pageLayout) wrapWidth() int {
	w := l.contentWidth - 4
	if w < minContentWidth-4 {
		w = minContentWidth - 4
	}
	return w
}
