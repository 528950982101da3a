package cmd

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var stepCmd = &cobra.Command{
	Use:   "step",
	Short: "Edit individual steps of a recorded session",
}

var stepDeleteCmd = &cobra.Command{
	Use:   "delete <session> <step>",
	Short: "Delete a step and its screenshot",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := stepNumber(args[1])
		if err != nil {
			return err
		}
		if err := refuseIfRecording(args[0]); err != nil {
			return err
		}
		if err := sessionStore().DeleteStep(args[0], n); err != nil {
			return err
		}
		cmd.Printf("Deleted step %d from %s.\n", n, args[0])
		return nil
	},
}

var stepDescribeCmd = &cobra.Command{
	Use:   "describe <session> <step> <text>",
	Short: "Attach a description to a step",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := stepNumber(args[1])
		if err != nil {
			return err
		}
		if err := refuseIfRecording(args[0]); err != nil {
			return err
		}
		text := strings.Join(args[2:], " ")
		if err := sessionStore().DescribeStep(args[0], n, text); err != nil {
			return err
		}
		cmd.Printf("Described step %d of %s.\n", n, args[0])
		return nil
	},
}

var stepCropCmd = &cobra.Command{
	Use:   "crop <session> <step> <x> <y> <width> <height>",
	Short: "Crop a step's screenshot",
	Args:  cobra.ExactArgs(6),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := stepNumber(args[1])
		if err != nil {
			return err
		}
		if err := refuseIfRecording(args[0]); err != nil {
			return err
		}
		var v [4]int
		for i, a := range args[2:] {
			if v[i], err = strconv.Atoi(a); err != nil {
				return fmt.Errorf("invalid crop value %q: %w", a, err)
			}
		}
		if v[2] <= 0 || v[3] <= 0 {
			return fmt.Errorf("crop width and height must be positive")
		}
		r := image.Rect(v[0], v[1], v[0]+v[2], v[1]+v[3])
		if err := sessionStore().CropScreenshot(args[0], n, r); err != nil {
			return err
		}
		cmd.Printf("Cropped screenshot of step %d.\n", n)
		return nil
	},
}

var stepAnnotateCmd = &cobra.Command{
	Use:   "annotate <session> <step> <overlay.png>",
	Short: "Draw a transparent PNG overlay onto a step's screenshot",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := stepNumber(args[1])
		if err != nil {
			return err
		}
		if err := refuseIfRecording(args[0]); err != nil {
			return err
		}
		f, err := os.Open(args[2])
		if err != nil {
			return err
		}
		defer f.Close()
		overlay, err := png.Decode(f)
		if err != nil {
			return fmt.Errorf("invalid overlay image: %w", err)
		}
		if err := sessionStore().AnnotateScreenshot(args[0], n, overlay); err != nil {
			return err
		}
		cmd.Printf("Annotated screenshot of step %d.\n", n)
		return nil
	},
}

func stepNumber(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid step number %q", s)
	}
	return n, nil
}

func init() {
	stepCmd.AddCommand(stepDeleteCmd, stepDescribeCmd, stepCropCmd, stepAnnotateCmd)
	rootCmd.AddCommand(stepCmd)
}
