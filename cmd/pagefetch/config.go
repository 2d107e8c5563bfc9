package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"pagefetch/pkg/config"
	"pagefetch/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage pagefetch configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (PAGEFETCH_*)
  - Configuration file
  - Default values (lowest priority)`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file is created as '.pagefetch.yaml' in the current directory unless a
different path is given with the --config flag.`,
	Run: runConfigInit,
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the configuration that a fetch run would use, merged from all
sources: flags, environment variables, config file, and defaults.`,
	Run: runConfigShow,
}

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Run:   runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

const exampleConfig = `# pagefetch configuration file

source:
  # Base URL before the page segment. Image URLs become
  # {base_url}/{page_prefix}_{N}/{M}{image_ext}
  base_url: "https://example.com/galleries"
  page_prefix: "gallery"
  image_ext: ".jpg"

pages:
  start_page: 1
  last_page: 10
  # Safety limit: highest image index probed on each page
  max_images_per_page: 200

output:
  directory: "./downloads"

http:
  timeout: 10s
  # Fixed politeness delay between requests; 0 disables it
  request_delay: 0s

download:
  # 1 keeps the run strictly sequential; higher values enable the
  # bounded worker pool
  concurrent: 1

logging:
  level: "info"
  # Set a file path to also log to a rotating file
  file: ""
  max_size: 100
  max_backups: 3
  max_age: 7
  compress: false
`

func runConfigInit(cmd *cobra.Command, args []string) {
	configPath := configFile
	if configPath == "" {
		configPath = ".pagefetch.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists: %s", configPath)
		os.Exit(1)
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		ui.PrintError("Failed to write configuration file: %v", err)
		os.Exit(1)
	}

	ui.PrintSuccess("Created %s", configPath)
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg := config.DefaultConfig()
	if err := cfg.LoadFromFile(configFile); err != nil {
		ui.PrintError("Failed to load configuration file: %v", err)
		os.Exit(1)
	}
	if err := cfg.LoadFromEnv(); err != nil {
		ui.PrintError("Failed to load environment variables: %v", err)
		os.Exit(1)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		ui.PrintError("Failed to render configuration: %v", err)
		os.Exit(1)
	}
	fmt.Print(string(data))
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	cfg := config.DefaultConfig()
	if err := cfg.LoadFromFile(configFile); err != nil {
		ui.PrintError("Configuration file is invalid: %v", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		ui.PrintError("Configuration is invalid:\n%v", err)
		os.Exit(1)
	}
	ui.PrintSuccess("Configuration is valid")
}
