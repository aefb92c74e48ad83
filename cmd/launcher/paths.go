package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/oldphotos/launcher/internal/config"
	"github.com/oldphotos/launcher/internal/workroot"
	"github.com/spf13/cobra"
)

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Print the resolved project paths",
	Run:   runPaths,
}

func init() {
	rootCmd.AddCommand(pathsCmd)
}

func runPaths(cmd *cobra.Command, args []string) {
	cfg := config.Default()
	cfg.FromEnv(os.LookupEnv)
	start := workroot.StartDir()
	root := workroot.Resolve(cfg.RootOverride, start, cfg.MarkerDir)
	// Best effort: paths should print even with a broken config file.
	_ = cfg.MergeFile(filepath.Join(root, config.FileName))

	fmt.Printf("start dir:    %s\n", start)
	fmt.Printf("working root: %s\n", root)
	fmt.Printf("entry script: %s\n", filepath.Join(root, filepath.FromSlash(cfg.EntryScript)))
	fmt.Printf("config file:  %s\n", filepath.Join(root, config.FileName))
	fmt.Printf("service url:  %s\n", cfg.ServiceURL())
	if cfg.SkipServer {
		fmt.Println("dev server:   external (supervision skipped)")
	}
}
