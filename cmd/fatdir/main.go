package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aligator/fatdir"
	"github.com/aligator/fatdir/internal/volume"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// session is one opened image together with the directory layer on top of it.
type session struct {
	file   afero.File
	volume *volume.Volume
	fs     *fatdir.Fs
}

func openSession(fs afero.Fs, image string, writable bool) (*session, error) {
	flags := os.O_RDONLY
	if writable {
		flags = os.O_RDWR
	}

	file, err := fs.OpenFile(image, flags, 0)
	if err != nil {
		return nil, err
	}

	vol, err := volume.Open(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("unable to open %s: %w", image, err)
	}
	log.Debugf("Opened %s: %v", image, vol)

	dirs, err := fatdir.New(vol.Params(), vol, vol, fatdir.WithLogger(log.StandardLogger()))
	if err != nil {
		file.Close()
		return nil, err
	}

	return &session{file: file, volume: vol, fs: dirs}, nil
}

// close writes pending changes back if flush is set and closes the image.
func (s *session) close(flush bool) error {
	if flush {
		if err := s.volume.Flush(); err != nil {
			s.file.Close()
			return err
		}
	}
	return s.file.Close()
}

// splitPath separates the last component of path from its parent directory.
func splitPath(path string) (string, string) {
	path = strings.TrimRight(path, "/")
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return "", path
	}
	return path[:i], path[i+1:]
}

// newCmd builds the command tree. Images are opened from fs.
func newCmd(fs afero.Fs) *cobra.Command {
	var (
		image   string
		verbose bool
	)
	cmd := &cobra.Command{
		Use:          "fatdir",
		Short:        "inspect and modify directories of FAT images",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
			if image == "" {
				return fmt.Errorf("no image given, use --image")
			}
			return nil
		},
	}

	cmd.AddCommand(statCmd(fs, &image))
	cmd.AddCommand(touchCmd(fs, &image))
	cmd.AddCommand(mkdirCmd(fs, &image))
	cmd.AddCommand(rmCmd(fs, &image))
	cmd.AddCommand(emptyCmd(fs, &image))

	cmd.PersistentFlags().StringVar(&image, "image", "", "FAT image file to operate on")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose execution")

	return cmd
}

func main() {
	if err := newCmd(afero.NewOsFs()).Execute(); err != nil {
		os.Exit(1)
	}
}
