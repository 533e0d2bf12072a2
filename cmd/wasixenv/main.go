// wasixenv manages the wasix toolchain environment: downloading the
// sysroot, LLVM, and binaryen assets, installing the wrapper executables,
// and inspecting the current configuration.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"wasixcc/config"
	"wasixcc/driver"
	"wasixcc/fetch"
	"wasixcc/report"
)

var settingsArgs []string

// gatherSettings resolves the user settings from the repeatable -s flags
// plus the environment and configuration file.
func gatherSettings() (*config.UserSettings, error) {
	// The -s values arrive without their flag prefix; restore the inline
	// argument form the settings layer expects.
	prefixed := make([]string, 0, len(settingsArgs))
	for _, s := range settingsArgs {
		prefixed = append(prefixed, "-s"+s)
	}

	return config.GatherSettings(prefixed)
}

func parseTagArg(args []string) (fetch.TagSpec, error) {
	if len(args) == 0 {
		return fetch.Latest, nil
	}

	return fetch.ParseTagSpec(args[0])
}

var rootCmd = &cobra.Command{
	Use:           "wasixenv",
	Short:         "Manage the wasix toolchain environment",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var installExecutablesCmd = &cobra.Command{
	Use:   "install-executables <path>",
	Short: "Install the wrapper executables (via symlinks to wasixcc) to the specified path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return driver.InstallExecutables(args[0])
	},
}

var downloadSysrootCmd = &cobra.Command{
	Use:   "download-sysroot [tag]",
	Short: "Download the WASIX sysroot ('latest' or a tag starting with 'v')",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tag, err := parseTagArg(args)
		if err != nil {
			return err
		}

		settings, err := gatherSettings()
		if err != nil {
			return err
		}

		return fetch.DownloadSysroot(tag, settings)
	},
}

var downloadLLVMCmd = &cobra.Command{
	Use:   "download-llvm [tag]",
	Short: "Download the custom LLVM toolchain",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tag, err := parseTagArg(args)
		if err != nil {
			return err
		}

		settings, err := gatherSettings()
		if err != nil {
			return err
		}

		return fetch.DownloadLLVM(tag, settings)
	},
}

var downloadBinaryenCmd = &cobra.Command{
	Use:   "download-binaryen [tag]",
	Short: "Download binaryen (wasm-opt)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tag, err := parseTagArg(args)
		if err != nil {
			return err
		}

		settings, err := gatherSettings()
		if err != nil {
			return err
		}

		return fetch.DownloadBinaryen(tag, settings)
	},
}

var installAllCmd = &cobra.Command{
	Use:   "install-all <path>",
	Short: "Download and install everything",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		llvmTag, err := fetchTagFlag(cmd, "llvm-tag")
		if err != nil {
			return err
		}
		sysrootTag, err := fetchTagFlag(cmd, "sysroot-tag")
		if err != nil {
			return err
		}
		binaryenTag, err := fetchTagFlag(cmd, "binaryen-tag")
		if err != nil {
			return err
		}

		settings, err := gatherSettings()
		if err != nil {
			return err
		}

		if err := fetch.DownloadLLVM(llvmTag, settings); err != nil {
			return err
		}
		if err := fetch.DownloadSysroot(sysrootTag, settings); err != nil {
			return err
		}
		if err := fetch.DownloadBinaryen(binaryenTag, settings); err != nil {
			return err
		}

		return driver.InstallExecutables(args[0])
	},
}

func fetchTagFlag(cmd *cobra.Command, name string) (fetch.TagSpec, error) {
	value, err := cmd.Flags().GetString(name)
	if err != nil || value == "" {
		return fetch.Latest, err
	}

	return fetch.ParseTagSpec(value)
}

var printSysrootCmd = &cobra.Command{
	Use:   "print-sysroot",
	Short: "Print the sysroot location according to the current configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := gatherSettings()
		if err != nil {
			return err
		}

		sysroot, err := settings.EnsureSysroot()
		if err != nil {
			return err
		}

		fmt.Println(sysroot)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("wasixenv version: %s\n", driver.Version)
	},
}

var helpConfigCmd = &cobra.Command{
	Use:   "help-config",
	Short: "Print help information about the configuration options",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(driver.ConfigHelp)
	},
}

func init() {
	rootCmd.PersistentFlags().StringArrayVarP(&settingsArgs, "setting", "s", nil,
		"user settings in the form KEY=VALUE, see 'help-config' output for details")

	installAllCmd.Flags().String("llvm-tag", "", "the tag from which to download the LLVM toolchain")
	installAllCmd.Flags().String("sysroot-tag", "", "the tag from which to download the sysroot")
	installAllCmd.Flags().String("binaryen-tag", "", "the tag from which to download binaryen")

	rootCmd.AddCommand(
		installExecutablesCmd,
		downloadSysrootCmd,
		downloadLLVMCmd,
		downloadBinaryenCmd,
		installAllCmd,
		printSysrootCmd,
		versionCmd,
		helpConfigCmd,
	)
}

func main() {
	_ = godotenv.Load()
	report.InitReporterFromEnv()

	if err := rootCmd.Execute(); err != nil {
		report.DisplayError(err)
		os.Exit(1)
	}
}
