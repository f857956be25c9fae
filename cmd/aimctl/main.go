package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	aim "github.com/phoenix-dive/aimlink"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := buildApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildApp() *cli.App {
	return &cli.App{
		Name:    "aimctl",
		Usage:   "drive and inspect a VEX AIM robot",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Usage: "robot address (defaults to the settings file)"},
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "debug, info, warn or error"},
			&cli.StringFlag{Name: "record", Usage: "record the session into a SQLite file"},
		},
		Commands: []*cli.Command{
			{
				Name:  "status",
				Usage: "print a one-shot robot status",
				Action: func(c *cli.Context) error {
					return withRobot(c, printStatus)
				},
			},
			{
				Name:  "drive",
				Usage: "drive a distance at an angle and wait",
				Flags: []cli.Flag{
					&cli.Float64Flag{Name: "distance", Required: true, Usage: "millimeters"},
					&cli.Float64Flag{Name: "angle", Usage: "degrees, robot relative"},
					&cli.Float64Flag{Name: "velocity", Usage: "percent, 0 for default"},
				},
				Action: func(c *cli.Context) error {
					return withRobot(c, func(ctx context.Context, r *aim.Robot) error {
						return r.MoveFor(ctx, c.Float64("distance"), c.Float64("angle"), c.Float64("velocity"), true)
					})
				},
			},
			{
				Name:  "turn-to",
				Usage: "turn to an absolute heading and wait",
				Flags: []cli.Flag{
					&cli.Float64Flag{Name: "heading", Required: true, Usage: "degrees"},
					&cli.Float64Flag{Name: "velocity", Usage: "percent, 0 for default"},
				},
				Action: func(c *cli.Context) error {
					return withRobot(c, func(ctx context.Context, r *aim.Robot) error {
						return r.TurnTo(ctx, c.Float64("heading"), c.Float64("velocity"), true)
					})
				},
			},
			{
				Name:  "stop",
				Usage: "stop all movement",
				Action: func(c *cli.Context) error {
					return withRobot(c, func(ctx context.Context, r *aim.Robot) error {
						return r.StopAllMovement(ctx)
					})
				},
			},
			{
				Name:  "image",
				Usage: "grab one camera frame",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Value: "frame.jpg", Usage: "output file"},
				},
				Action: func(c *cli.Context) error {
					return withRobot(c, func(ctx context.Context, r *aim.Robot) error {
						frame, err := r.Vision().GetImage(ctx)
						if err != nil {
							return err
						}
						if err := os.WriteFile(c.String("out"), frame, 0o644); err != nil {
							return err
						}
						fmt.Printf("wrote %d bytes to %s\n", len(frame), c.String("out"))
						return nil
					})
				},
			},
			{
				Name:      "sound",
				Usage:     "play a built-in sound, or a local wav/mp3 file",
				ArgsUsage: "<name-or-path>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "volume", Value: 80},
				},
				Action: func(c *cli.Context) error {
					name := c.Args().First()
					if name == "" {
						return cli.Exit("sound name or file path required", 2)
					}
					return withRobot(c, func(ctx context.Context, r *aim.Robot) error {
						if _, err := os.Stat(name); err == nil {
							return r.Sound().PlayFile(ctx, name, c.Int("volume"))
						}
						return r.Sound().PlayBuiltin(ctx, name, c.Int("volume"))
					})
				},
			},
			{
				Name:  "objects",
				Usage: "list detected objects, largest first",
				Action: func(c *cli.Context) error {
					return withRobot(c, printObjects)
				},
			},
			{
				Name:  "calibrate",
				Usage: "calibrate the inertial sensor (keep the robot still)",
				Action: func(c *cli.Context) error {
					return withRobot(c, func(ctx context.Context, r *aim.Robot) error {
						return r.Inertial().Calibrate(ctx)
					})
				},
			},
		},
	}
}

func withRobot(c *cli.Context, fn func(context.Context, *aim.Robot) error) error {
	r, err := aim.New(c.Context, aim.Options{
		Host:          c.String("host"),
		LogLevel:      c.String("log-level"),
		TelemetryPath: c.String("record"),
	})
	if err != nil {
		return err
	}
	defer r.Close()
	return fn(c.Context, r)
}

func printStatus(ctx context.Context, r *aim.Robot) error {
	fmt.Printf("battery   %d%%\n", r.Battery())
	fmt.Printf("heading   %.1f deg\n", r.Heading())
	fmt.Printf("position  (%.1f, %.1f) mm\n", r.XPosition(), r.YPosition())
	fmt.Printf("moving    %v\n", r.IsMoving())
	fmt.Printf("crashed   %v\n", r.HasCrashed())
	roll := r.Inertial().Roll()
	pitch := r.Inertial().Pitch()
	fmt.Printf("attitude  roll %.2f pitch %.2f\n", roll, pitch)
	return nil
}

func printObjects(ctx context.Context, r *aim.Robot) error {
	objs := r.Vision().GetData(0, aim.AllObjects)
	if len(objs) == 0 {
		fmt.Println("no objects detected")
		return nil
	}
	for _, o := range objs {
		extra := ""
		if d, ok := o.Detail.(aim.ModelDetail); ok {
			extra = fmt.Sprintf(" %s score=%.2f", d.ClassName, d.Score)
		}
		fmt.Printf("%-6s id=%-3d area=%-7.0f center=(%.0f,%.0f) bearing=%.1f%s\n",
			o.Kind, o.ID, o.Area, o.CenterX, o.CenterY, o.Bearing, extra)
	}
	return nil
}
