package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jsphweid/musicbin/convert"
	"github.com/jsphweid/musicbin/midi"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var dump bool

func init() {
	inspectCmd.Flags().BoolVar(&dump, "dump", false, "print every element")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <in.bin>",
	Short: "Inspects a MusicBin or MIDI file",
	Long:  `Inspects a MusicBin file, or summarizes a .mid file such as one written by bin2mid.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspect(args[0])
	},
}

func isMidiPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".mid" || ext == ".midi"
}

func inspect(path string) error {
	if isMidiPath(path) {
		s, err := midi.ReadMidiFile(path)
		if err != nil {
			return err
		}
		fmt.Println(midi.Summarize(s))
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	res, err := convert.Inspect(f, dump)
	if err != nil {
		return err
	}
	fmt.Printf("length: %v\n", res.Length)
	fmt.Printf("elements: %v\n", res.Elements)
	fmt.Printf("divisions: %v\n", res.Divisions)
	fmt.Printf("voices: %v\n", res.Voices)
	for i, el := range res.Dump {
		fmt.Printf("%4d %v\n", i, el)
	}
	return nil
}
