package wire

type ScreenPrint struct {
	base
	Text string `json:"string"`
}

func NewScreenPrint(text string) ScreenPrint {
	return ScreenPrint{base: base{"lcd_print"}, Text: text}
}

type ScreenPrintAt struct {
	base
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Text   string `json:"string"`
	Opaque bool   `json:"b_opaque"`
}

func NewScreenPrintAt(text string, x, y int, opaque bool) ScreenPrintAt {
	return ScreenPrintAt{base: base{"lcd_print_at"}, X: x, Y: y, Text: text, Opaque: opaque}
}

type ScreenSetCursor struct {
	base
	Row int `json:"row"`
	Col int `json:"col"`
}

func NewScreenSetCursor(row, col int) ScreenSetCursor {
	return ScreenSetCursor{base: base{"lcd_set_cursor"}, Row: row, Col: col}
}

type ScreenSetOrigin struct {
	base
	X int `json:"x"`
	Y int `json:"y"`
}

func NewScreenSetOrigin(x, y int) ScreenSetOrigin {
	return ScreenSetOrigin{base: base{"lcd_set_origin"}, X: x, Y: y}
}

type ScreenNextRow struct{ base }

func NewScreenNextRow() ScreenNextRow {
	return ScreenNextRow{base{"lcd_next_row"}}
}

type ScreenClearRow struct {
	base
	Number int `json:"number"`
	R      int `json:"r"`
	G      int `json:"g"`
	B      int `json:"b"`
}

func NewScreenClearRow(row, r, g, b int) ScreenClearRow {
	return ScreenClearRow{base: base{"lcd_clear_row"}, Number: row, R: r, G: g, B: b}
}

type ScreenClear struct {
	base
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

func NewScreenClear(r, g, b int) ScreenClear {
	return ScreenClear{base: base{"lcd_clear_screen"}, R: r, G: g, B: b}
}

type ScreenSetFont struct {
	base
	FontName string `json:"fontname"`
}

func NewScreenSetFont(fontName string) ScreenSetFont {
	return ScreenSetFont{base: base{"lcd_set_font"}, FontName: fontName}
}

type ScreenSetPenWidth struct {
	base
	Width int `json:"width"`
}

func NewScreenSetPenWidth(width int) ScreenSetPenWidth {
	return ScreenSetPenWidth{base: base{"lcd_set_pen_width"}, Width: width}
}

type ScreenSetPenColor struct {
	base
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

func NewScreenSetPenColor(r, g, b int) ScreenSetPenColor {
	return ScreenSetPenColor{base: base{"lcd_set_pen_color"}, R: r, G: g, B: b}
}

type ScreenSetFillColor struct {
	base
	R           int  `json:"r"`
	G           int  `json:"g"`
	B           int  `json:"b"`
	Transparent bool `json:"b_transparency"`
}

func NewScreenSetFillColor(r, g, b int, transparent bool) ScreenSetFillColor {
	return ScreenSetFillColor{base: base{"lcd_set_fill_color"}, R: r, G: g, B: b, Transparent: transparent}
}

type ScreenDrawLine struct {
	base
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

func NewScreenDrawLine(x1, y1, x2, y2 int) ScreenDrawLine {
	return ScreenDrawLine{base: base{"lcd_draw_line"}, X1: x1, Y1: y1, X2: x2, Y2: y2}
}

type ScreenDrawRectangle struct {
	base
	X           int  `json:"x"`
	Y           int  `json:"y"`
	Width       int  `json:"width"`
	Height      int  `json:"height"`
	R           int  `json:"r"`
	G           int  `json:"g"`
	B           int  `json:"b"`
	Transparent bool `json:"b_transparency"`
}

func NewScreenDrawRectangle(x, y, width, height, r, g, b int, transparent bool) ScreenDrawRectangle {
	return ScreenDrawRectangle{base: base{"lcd_draw_rectangle"}, X: x, Y: y, Width: width, Height: height, R: r, G: g, B: b, Transparent: transparent}
}

type ScreenDrawCircle struct {
	base
	X           int  `json:"x"`
	Y           int  `json:"y"`
	Radius      int  `json:"radius"`
	R           int  `json:"r"`
	G           int  `json:"g"`
	B           int  `json:"b"`
	Transparent bool `json:"b_transparency"`
}

func NewScreenDrawCircle(x, y, radius, r, g, b int, transparent bool) ScreenDrawCircle {
	return ScreenDrawCircle{base: base{"lcd_draw_circle"}, X: x, Y: y, Radius: radius, R: r, G: g, B: b, Transparent: transparent}
}

type ScreenDrawPixel struct {
	base
	X int `json:"x"`
	Y int `json:"y"`
}

func NewScreenDrawPixel(x, y int) ScreenDrawPixel {
	return ScreenDrawPixel{base: base{"lcd_draw_pixel"}, X: x, Y: y}
}

type ScreenDrawImageFromFile struct {
	base
	Filename string `json:"filename"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

func NewScreenDrawImageFromFile(filename string, x, y int) ScreenDrawImageFromFile {
	return ScreenDrawImageFromFile{base: base{"lcd_draw_image_from_file"}, Filename: filename, X: x, Y: y}
}

type ScreenSetClipRegion struct {
	base
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func NewScreenSetClipRegion(x, y, width, height int) ScreenSetClipRegion {
	return ScreenSetClipRegion{base: base{"lcd_set_clip_region"}, X: x, Y: y, Width: width, Height: height}
}

type ShowEmoji struct {
	base
	Name int `json:"name"`
	Look int `json:"look"`
}

func NewShowEmoji(name, look int) ShowEmoji {
	return ShowEmoji{base: base{"show_emoji"}, Name: name, Look: look}
}

type HideEmoji struct{ base }

func NewHideEmoji() HideEmoji {
	return HideEmoji{base{"hide_emoji"}}
}

type ShowAIVision struct{ base }

func NewShowAIVision() ShowAIVision {
	return ShowAIVision{base{"show_aivision"}}
}

type HideAIVision struct{ base }

func NewHideAIVision() HideAIVision {
	return HideAIVision{base{"hide_aivision"}}
}
