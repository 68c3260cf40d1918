package main

import (
	"errors"
	"fmt"

	"github.com/aligator/fatdir"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func statCmd(fs afero.Fs, image *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stat PATH",
		Short: "print a directory entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(fs, *image, false)
			if err != nil {
				return err
			}
			defer s.close(false)

			found, err := s.fs.Resolve(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			info := found.FileInfo()
			fmt.Fprintf(out, "Name:    %s\n", info.Name())
			fmt.Fprintf(out, "Mode:    %v\n", info.Mode())
			fmt.Fprintf(out, "Size:    %d\n", info.Size())
			fmt.Fprintf(out, "Modify:  %v\n", info.ModTime())
			fmt.Fprintf(out, "Entry:   %v\n", found.Entry)
			fmt.Fprintf(out, "Start:   %v\n", found.Entry.Start())
			fmt.Fprintf(out, "Slot:    %v\n", found.Short)
			fmt.Fprintf(out, "Long:    %v\n", found.Long)
			return nil
		},
	}
}

// createEntry adds a new entry named by path, failing if it already exists.
func createEntry(s *session, path string, attr byte, target uint32) (fatdir.Entry, error) {
	dir, name := splitPath(path)
	parent, err := s.fs.Resolve(dir + "/")
	if err != nil {
		return fatdir.Entry{}, err
	}

	if _, err := s.fs.FindChild(parent.Entry, name); err == nil {
		return fatdir.Entry{}, fmt.Errorf("%s already exists", path)
	} else if !errors.Is(err, fatdir.ErrNotFound) {
		return fatdir.Entry{}, err
	}

	if _, err := s.fs.AddEntry(parent.Entry, name, attr, target); err != nil {
		return fatdir.Entry{}, err
	}
	return parent.Entry, nil
}

func touchCmd(fs afero.Fs, image *string) *cobra.Command {
	return &cobra.Command{
		Use:   "touch PATH",
		Short: "create an empty file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(fs, *image, true)
			if err != nil {
				return err
			}

			if _, err := createEntry(s, args[0], fatdir.AttrArchive, 0); err != nil {
				s.close(false)
				return err
			}
			return s.close(true)
		},
	}
}

func mkdirCmd(fs afero.Fs, image *string) *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir PATH",
		Short: "create a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(fs, *image, true)
			if err != nil {
				return err
			}

			cluster, err := s.volume.Allocate()
			if err != nil {
				s.close(false)
				return err
			}
			if _, err := s.volume.ClearUnit(fatdir.ChainCluster(cluster)); err != nil {
				s.close(false)
				return err
			}

			parent, err := createEntry(s, args[0], fatdir.AttrDirectory, cluster)
			if err != nil {
				s.close(false)
				return err
			}
			if err := s.fs.AddDotEntries(cluster, parent); err != nil {
				s.close(false)
				return err
			}

			log.Debugf("Created directory %s at cluster %d", args[0], cluster)
			return s.close(true)
		},
	}
}

func rmCmd(fs afero.Fs, image *string) *cobra.Command {
	var (
		dir   bool
		force bool
	)
	cmd := &cobra.Command{
		Use:   "rm PATH",
		Short: "remove a file or an empty directory",
		Long: `Remove a file or, with --dir, an empty directory and free its clusters.

A path naming an entry by its 8.3 alias erases only the short entry; long name
records stored in front of it are left behind.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// "." and ".." share the cluster of a live directory.
			if _, name := splitPath(args[0]); name == "." || name == ".." {
				return fmt.Errorf("%s: refusing to remove %q", args[0], name)
			}

			s, err := openSession(fs, *image, true)
			if err != nil {
				return err
			}

			found, err := s.fs.Resolve(args[0])
			if err != nil {
				s.close(false)
				if force && errors.Is(err, fatdir.ErrNotFound) {
					return nil
				}
				return err
			}
			if found.Short.IsZero() {
				s.close(false)
				return fmt.Errorf("the root directory can't be removed")
			}

			if found.Entry.IsDir() {
				if !dir {
					s.close(false)
					return fmt.Errorf("%s is a directory, use --dir", args[0])
				}
				empty, err := s.fs.IsEmpty(found.Entry.Start())
				if err != nil {
					s.close(false)
					return err
				}
				if !empty {
					s.close(false)
					return fmt.Errorf("%s is not empty", args[0])
				}
			}

			if found.Long.IsZero() {
				log.WithField("entry", found.Short.String()).Debug("Erasing short entry only")
			}
			if err := s.fs.Erase(found.Short, found.Long); err != nil {
				s.close(false)
				return err
			}
			if cluster := found.Entry.Cluster(); cluster != 0 {
				if err := s.volume.FreeChain(cluster); err != nil {
					s.close(false)
					return err
				}
			}

			return s.close(true)
		},
	}

	cmd.Flags().BoolVar(&dir, "dir", false, "Allow removing empty directories")
	cmd.Flags().BoolVar(&force, "force", false, "Ignore a missing path")

	return cmd
}

func emptyCmd(fs afero.Fs, image *string) *cobra.Command {
	return &cobra.Command{
		Use:   "empty PATH",
		Short: "report whether a directory is empty",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(fs, *image, false)
			if err != nil {
				return err
			}
			defer s.close(false)

			found, err := s.fs.Resolve(args[0])
			if err != nil {
				return err
			}
			if !found.Entry.IsDir() {
				return fmt.Errorf("%s is not a directory", args[0])
			}

			empty, err := s.fs.IsEmpty(found.Entry.Start())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), empty)
			return nil
		},
	}
}
