// Command pcbcam renders a JSON motion-command stream into G-code for a
// chosen controller dialect. The geometric pipeline itself has no CLI
// surface; this harness only bridges the motion-stream wire format to a
// post-processor, for driving the core from scripts and tests.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pcbcam/engine/internal/gcode"
	"github.com/pcbcam/engine/internal/motionstream"
)

func main() {
	in := flag.String("in", "-", "motion-stream JSON file (- for stdin)")
	out := flag.String("out", "-", "G-code output file (- for stdout)")
	profile := flag.String("profile", "Generic", "controller dialect: Grbl, Mach3, LinuxCNC, Generic")
	spindle := flag.Float64("spindle", 12000, "spindle speed (RPM)")
	safeZ := flag.Float64("safez", 3.0, "safe Z height for the postamble retract (mm)")
	workOffset := flag.String("workoffset", "", "work offset word (e.g. G54); empty to omit")
	flag.Parse()

	if err := run(*in, *out, *profile, *spindle, *safeZ, *workOffset); err != nil {
		fmt.Fprintf(os.Stderr, "pcbcam: %v\n", err)
		os.Exit(1)
	}
}

func run(in, out, profile string, spindle, safeZ float64, workOffset string) error {
	var data []byte
	var err error
	if in == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(in)
	}
	if err != nil {
		return fmt.Errorf("reading motion stream: %w", err)
	}

	plan, err := motionstream.Decode(data)
	if err != nil {
		return err
	}

	pp := gcode.New(gcode.GetProfile(profile))
	pp.SpindleSpeed = spindle
	pp.SafeZ = safeZ
	pp.WorkOffset = workOffset
	text := pp.Generate(plan)

	if out == "-" {
		_, err = os.Stdout.WriteString(text)
		return err
	}
	if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing G-code: %w", err)
	}
	return nil
}
