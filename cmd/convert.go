package cmd

import (
	"io"
	"os"
	"strconv"

	"github.com/jsphweid/musicbin/convert"
	"github.com/jsphweid/musicbin/logging"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(xml2binCmd, bin2xmlCmd, bin2midCmd, xmlmultiCmd, e2eCmd, sampleCmd)
}

// convertFile runs fn from the file at in to a new file at out.
func convertFile(in, out string, fn func(r io.Reader, w io.Writer) error) error {
	r, err := os.Open(in)
	if err != nil {
		return errors.WithStack(err)
	}
	defer r.Close()
	w, err := os.Create(out)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := fn(r, w); err != nil {
		w.Close()
		os.Remove(out)
		return err
	}
	logging.Infof("Wrote %v", out)
	return errors.WithStack(w.Close())
}

var xml2binCmd = &cobra.Command{
	Use:   "xml2bin <in.musicxml> <out.bin>",
	Short: "Converts MusicXML to MusicBin",
	Long:  `Converts the first supported part of a MusicXML score to MusicBin.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return convertFile(args[0], args[1], func(r io.Reader, w io.Writer) error {
			_, err := convert.XMLToBin(r, w)
			return err
		})
	},
}

var bin2xmlCmd = &cobra.Command{
	Use:   "bin2xml <in.bin> <out.musicxml>",
	Short: "Converts MusicBin to MusicXML",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return convertFile(args[0], args[1], convert.BinToXML)
	},
}

var bin2midCmd = &cobra.Command{
	Use:   "bin2mid <in.bin> <out.mid>",
	Short: "Converts MusicBin to MIDI",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return convertFile(args[0], args[1], convert.BinToMIDI)
	},
}

var xmlmultiCmd = &cobra.Command{
	Use:   "xmlmulti <in.musicxml> <out.musicxml>",
	Short: "Rewrites MusicXML keeping every supported part",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return convertFile(args[0], args[1], convert.XMLMulti)
	},
}

var e2eCmd = &cobra.Command{
	Use:   "e2e <in.musicxml> <out.musicxml>",
	Short: "Converts MusicXML to MusicBin and back",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return convert.EndToEnd(args[0], args[1], os.TempDir())
	},
}

var sampleCmd = &cobra.Command{
	Use:   "sample <in.bin> <out.bin> <start> <count>",
	Short: "Cuts measures out of a MusicBin file",
	Long:  `Writes count measures from the zero-based measure start as a new MusicBin file.`,
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := strconv.Atoi(args[2])
		if err != nil {
			return err
		}
		count, err := strconv.Atoi(args[3])
		if err != nil {
			return err
		}
		return convertFile(args[0], args[1], func(r io.Reader, w io.Writer) error {
			return convert.Sample(r, w, start, count)
		})
	},
}
