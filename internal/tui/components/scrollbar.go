package components

import "strings"

// RenderScrollbar renders a 1-column vertical scrollbar of viewHeight rows.
// While contentHeight fits in the view it is a blank gutter, keeping the
// layout width stable; otherwise a │ track carries a █ thumb sized to the
// visible fraction and placed by yOffset.
func RenderScrollbar(viewHeight, contentHeight, yOffset int) string {
	if viewHeight <= 0 {
		return ""
	}

	const (
		track = "│"
		thumb = "█"
	)

	if contentHeight <= viewHeight {
		return strings.Repeat(" \n", viewHeight-1) + " "
	}

	thumbSize := max(viewHeight*viewHeight/contentHeight, 1)
	maxYOffset := contentHeight - viewHeight
	thumbMaxTop := viewHeight - thumbSize
	thumbTop := min(max(yOffset*thumbMaxTop/maxYOffset, 0), thumbMaxTop)

	rows := make([]string, viewHeight)
	for i := range rows {
		if i >= thumbTop && i < thumbTop+thumbSize {
			rows[i] = thumb
		} else {
			rows[i] = track
		}
	}
	return strings.Join(rows, "\n")
}
