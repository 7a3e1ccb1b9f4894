package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var cachePruneOlderThan time.Duration

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the extraction cache",
	Long: `Extracted metadata is cached by file content so that renaming the same
file again skips the external tools. Use these commands to inspect or empty
the cache.`,
	RunE: runCacheInfo,
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show cache location and size",
	RunE:  runCacheInfo,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached extraction",
	RunE:  runCacheClear,
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old cached extractions",
	RunE:  runCachePrune,
}

func init() {
	cachePruneCmd.Flags().DurationVar(&cachePruneOlderThan, "older-than", 30*24*time.Hour,
		"remove entries stored longer ago than this")
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cachePruneCmd)
	rootCmd.AddCommand(cacheCmd)
}

func withCache(fn func(c CacheAdmin) error) error {
	if openCache == nil {
		return errors.New("cache not configured")
	}
	c, err := openCache()
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer c.Close()
	return fn(c)
}

func runCacheInfo(cmd *cobra.Command, _ []string) error {
	return withCache(func(c CacheAdmin) error {
		n, err := c.Count(cmd.Context())
		if err != nil {
			return err
		}

		size := "unknown"
		if info, err := os.Stat(c.Path()); err == nil {
			size = humanize.Bytes(uint64(info.Size()))
		}

		cmd.Printf("Path:    %s\n", c.Path())
		cmd.Printf("Entries: %s\n", humanize.Comma(int64(n)))
		cmd.Printf("Size:    %s\n", size)
		return nil
	})
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	return withCache(func(c CacheAdmin) error {
		if err := c.Purge(cmd.Context()); err != nil {
			return err
		}
		cmd.Println("Cache cleared.")
		return nil
	})
}

func runCachePrune(cmd *cobra.Command, _ []string) error {
	if cachePruneOlderThan <= 0 {
		return errors.New("--older-than must be positive")
	}
	cutoff := time.Now().Add(-cachePruneOlderThan)

	return withCache(func(c CacheAdmin) error {
		n, err := c.PruneOlderThan(cmd.Context(), cutoff)
		if err != nil {
			return err
		}
		cmd.Printf("Removed %s entries stored before %s.\n",
			humanize.Comma(n), humanize.Time(cutoff))
		return nil
	})
}
