// Command smartscopectl drives internal/abi.Facade directly, for manual
// exercising and diagnostics without a C caller.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/smartscope-embedded/smartscope/internal/abi"
	"github.com/smartscope-embedded/smartscope/internal/conf"
	"github.com/smartscope-embedded/smartscope/internal/smartscope"
)

var cli struct {
	Confpath string `help:"path to the configuration file" default:"smartscope.json"`

	Status struct {
	} `cmd:"" help:"print the current capability snapshot and debug status as JSON"`

	Rotate struct {
		Degrees int `arg:"" help:"rotation in degrees, one of 0/90/180/270"`
	} `cmd:"" help:"set the video transform's rotation"`

	Flip struct {
		Horizontal bool `help:"flip horizontally"`
		Vertical   bool `help:"flip vertically"`
	} `cmd:"" help:"set the video transform's flip flags"`

	StartRecording struct {
		Mode string `arg:"" help:"display mode tag appended to the session path"`
	} `cmd:"" help:"start the external recorder"`

	StopRecording struct {
	} `cmd:"" help:"stop the external recorder"`

	SetParameter struct {
		Side  string `arg:"" help:"left|right|single"`
		Param string `arg:"" help:"brightness|contrast|saturation|hue|white_balance|gamma|gain|exposure"`
		Value int32  `arg:""`
	} `cmd:"" help:"write a V4L2 camera control"`
}

func main() {
	ctx := kong.Parse(&cli, kong.Description("SmartScope diagnostic CLI"), kong.UsageOnError())

	c, _, err := conf.Load(cli.Confpath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERR: %s\n", err)
		os.Exit(1)
	}

	f, err := abi.New(c, cli.Confpath, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERR: %s\n", err)
		os.Exit(1)
	}
	defer f.Close()

	switch ctx.Command() {
	case "status":
		printJSON(f.DebugStatus())

	case "rotate <degrees>":
		f.SetRotation(cli.Rotate.Degrees)
		printJSON(f.VideoTransform())

	case "flip":
		f.SetFlip(cli.Flip.Horizontal, cli.Flip.Vertical)
		printJSON(f.VideoTransform())

	case "start-recording <mode>":
		path, err := f.StartRecording(cli.StartRecording.Mode)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERR: %s\n", err)
			os.Exit(1)
		}
		fmt.Println(path)

	case "stop-recording":
		if err := f.StopRecording(); err != nil {
			fmt.Fprintf(os.Stderr, "ERR: %s\n", err)
			os.Exit(1)
		}

	case "set-parameter <side> <param> <value>":
		side, err := parseSide(cli.SetParameter.Side)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERR: %s\n", err)
			os.Exit(1)
		}
		param, err := parseParameter(cli.SetParameter.Param)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERR: %s\n", err)
			os.Exit(1)
		}
		if err := f.SetParameter(side, param, cli.SetParameter.Value); err != nil {
			fmt.Fprintf(os.Stderr, "ERR: %s\n", err)
			os.Exit(1)
		}

	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", ctx.Command())
		os.Exit(1)
	}
}

func printJSON(v interface{}) {
	byts, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERR: %s\n", err)
		os.Exit(1)
	}
	fmt.Println(string(byts))
}

func parseSide(s string) (smartscope.CameraSide, error) {
	switch s {
	case "left":
		return smartscope.SideLeft, nil
	case "right":
		return smartscope.SideRight, nil
	case "single":
		return smartscope.SideSingle, nil
	default:
		return 0, fmt.Errorf("unknown side %q", s)
	}
}

var parameterByName = map[string]smartscope.CameraParameter{
	"brightness":     smartscope.ParamBrightness,
	"contrast":       smartscope.ParamContrast,
	"saturation":     smartscope.ParamSaturation,
	"hue":            smartscope.ParamHue,
	"white_balance":  smartscope.ParamWhiteBalance,
	"gamma":          smartscope.ParamGamma,
	"gain":           smartscope.ParamGain,
	"exposure":       smartscope.ParamExposure,
}

func parseParameter(s string) (smartscope.CameraParameter, error) {
	p, ok := parameterByName[s]
	if !ok {
		return 0, fmt.Errorf("unknown parameter %q", s)
	}
	return p, nil
}
