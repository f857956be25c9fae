package aim

import (
	"context"

	"github.com/phoenix-dive/aimlink/internal/status"
	"github.com/phoenix-dive/aimlink/internal/wire"
)

// Screen drives the robot's LCD and reads its touch panel.
type Screen struct {
	robot *Robot
}

type Color struct {
	R int
	G int
	B int
}

func (s *Screen) Print(ctx context.Context, text string) error {
	return s.robot.send(ctx, wire.NewScreenPrint(text))
}

func (s *Screen) PrintAt(ctx context.Context, text string, x, y int, opaque bool) error {
	return s.robot.send(ctx, wire.NewScreenPrintAt(text, x, y, opaque))
}

func (s *Screen) SetCursor(ctx context.Context, row, col int) error {
	return s.robot.send(ctx, wire.NewScreenSetCursor(row, col))
}

func (s *Screen) SetOrigin(ctx context.Context, x, y int) error {
	return s.robot.send(ctx, wire.NewScreenSetOrigin(x, y))
}

func (s *Screen) NextRow(ctx context.Context) error {
	return s.robot.send(ctx, wire.NewScreenNextRow())
}

func (s *Screen) ClearRow(ctx context.Context, row int, c Color) error {
	return s.robot.send(ctx, wire.NewScreenClearRow(row, c.R, c.G, c.B))
}

func (s *Screen) Clear(ctx context.Context, c Color) error {
	return s.robot.send(ctx, wire.NewScreenClear(c.R, c.G, c.B))
}

func (s *Screen) SetFont(ctx context.Context, fontName string) error {
	return s.robot.send(ctx, wire.NewScreenSetFont(fontName))
}

func (s *Screen) SetPenWidth(ctx context.Context, width int) error {
	return s.robot.send(ctx, wire.NewScreenSetPenWidth(width))
}

func (s *Screen) SetPenColor(ctx context.Context, c Color) error {
	return s.robot.send(ctx, wire.NewScreenSetPenColor(c.R, c.G, c.B))
}

func (s *Screen) SetFillColor(ctx context.Context, c Color, transparent bool) error {
	return s.robot.send(ctx, wire.NewScreenSetFillColor(c.R, c.G, c.B, transparent))
}

func (s *Screen) DrawLine(ctx context.Context, x1, y1, x2, y2 int) error {
	return s.robot.send(ctx, wire.NewScreenDrawLine(x1, y1, x2, y2))
}

func (s *Screen) DrawRectangle(ctx context.Context, x, y, width, height int, c Color, transparent bool) error {
	return s.robot.send(ctx, wire.NewScreenDrawRectangle(x, y, width, height, c.R, c.G, c.B, transparent))
}

func (s *Screen) DrawCircle(ctx context.Context, x, y, radius int, c Color, transparent bool) error {
	return s.robot.send(ctx, wire.NewScreenDrawCircle(x, y, radius, c.R, c.G, c.B, transparent))
}

func (s *Screen) DrawPixel(ctx context.Context, x, y int) error {
	return s.robot.send(ctx, wire.NewScreenDrawPixel(x, y))
}

func (s *Screen) DrawImageFromFile(ctx context.Context, filename string, x, y int) error {
	return s.robot.send(ctx, wire.NewScreenDrawImageFromFile(filename, x, y))
}

func (s *Screen) SetClipRegion(ctx context.Context, x, y, width, height int) error {
	return s.robot.send(ctx, wire.NewScreenSetClipRegion(x, y, width, height))
}

// ShowEmoji displays one of the built-in emoji faces.
func (s *Screen) ShowEmoji(ctx context.Context, name, look int) error {
	return s.robot.send(ctx, wire.NewShowEmoji(name, look))
}

func (s *Screen) HideEmoji(ctx context.Context) error {
	return s.robot.send(ctx, wire.NewHideEmoji())
}

// Pressing reports whether the touch panel is currently pressed.
func (s *Screen) Pressing() bool {
	return s.robot.snapshot().Robot.TouchFlags.Has(status.TouchPressed)
}

// TouchX and TouchY return the last touch position in pixels.
func (s *Screen) TouchX() int { return s.robot.snapshot().Robot.TouchX.Int() }
func (s *Screen) TouchY() int { return s.robot.snapshot().Robot.TouchY.Int() }

// Row and Column return the text cursor position.
func (s *Screen) Row() int    { return s.robot.snapshot().Robot.Screen.Row.Int() }
func (s *Screen) Column() int { return s.robot.snapshot().Robot.Screen.Column.Int() }

// OnPressed registers a callback for each touch press edge.
func (s *Screen) OnPressed(fn func()) { s.robot.statusWorker.OnPressed(fn) }

// OnReleased registers a callback for each touch release edge.
func (s *Screen) OnReleased(fn func()) { s.robot.statusWorker.OnReleased(fn) }
