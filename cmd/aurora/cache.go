package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/aurora-build/aurora/internal/cache"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or reset the build cache",
	}
	cmd.AddCommand(newCacheStatusCmd(), newCacheCleanCmd())
	return cmd
}

func newCacheStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List every beam with a recorded cache entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bf, err := loadBeamfile()
			if err != nil {
				return err
			}
			c, err := cache.Load(cacheDirFor(bf), nil)
			if err != nil {
				return err
			}

			entries := c.Entries()
			names := make([]string, 0, len(entries))
			for name := range entries {
				names = append(names, name)
			}
			sort.Strings(names)

			t := table.NewWriter()
			t.AppendHeader(table.Row{"Beam", "Command Hash", "Recorded At"})
			for _, name := range names {
				e := entries[name]
				t.AppendRow(table.Row{name, shortHash(e.CommandHash), time.Unix(e.Timestamp, 0).Format(time.RFC3339)})
			}
			fmt.Println(t.Render())
			return nil
		},
	}
}

func newCacheCleanCmd() *cobra.Command {
	var beamName string
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove cache entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bf, err := loadBeamfile()
			if err != nil {
				return err
			}
			c, err := cache.Load(cacheDirFor(bf), nil)
			if err != nil {
				return err
			}

			if beamName != "" {
				if err := c.Invalidate(beamName); err != nil {
					return err
				}
				fmt.Printf("cleared cache entry for %q\n", beamName)
				return nil
			}
			if err := c.Clear(); err != nil {
				return err
			}
			fmt.Println("cleared all cache entries")
			return nil
		},
	}
	cmd.Flags().StringVar(&beamName, "beam", "", "only clear the named beam's entry")
	return cmd
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
