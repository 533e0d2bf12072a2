package fetch

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"wasixcc/config"
	"wasixcc/report"
)

// llvmAssetName returns the LLVM release asset for the current platform.
func llvmAssetName() (string, error) {
	switch runtime.GOOS + "/" + runtime.GOARCH {
	case "linux/amd64":
		return "LLVM-Linux-x86_64.tar.gz", nil
	case "linux/arm64":
		return "LLVM-Linux-aarch64.tar.gz", nil
	case "darwin/amd64":
		return "LLVM-MacOS-x86_64.tar.gz", nil
	case "darwin/arm64":
		return "LLVM-MacOS-aarch64.tar.gz", nil
	default:
		return "", fmt.Errorf("LLVM download for %s on %s is not supported", runtime.GOOS, runtime.GOARCH)
	}
}

// binaryenAssetSuffix returns the binaryen release asset suffix for the
// current platform.
func binaryenAssetSuffix() (string, error) {
	switch runtime.GOOS + "/" + runtime.GOARCH {
	case "linux/amd64":
		return "-x86_64-linux.tar.gz", nil
	case "linux/arm64":
		return "-aarch64-linux.tar.gz", nil
	case "darwin/amd64":
		return "-x86_64-macos.tar.gz", nil
	case "darwin/arm64":
		return "-arm64-macos.tar.gz", nil
	default:
		return "", fmt.Errorf("binaryen download for %s on %s is not supported", runtime.GOOS, runtime.GOARCH)
	}
}

// DownloadSysroot downloads and installs all three sysroot variants under
// the configured sysroot prefix.
func DownloadSysroot(tag TagSpec, settings *config.UserSettings) error {
	if settings.SysrootLocation != "" {
		report.Warningf("SYSROOT is ignored when downloading the sysroot")
	}

	release, err := fetchRelease(sysrootRepo, tag)
	if err != nil {
		return err
	}

	for _, assetName := range []string{"sysroot.tar.gz", "sysroot-eh.tar.gz", "sysroot-ehpic.tar.gz"} {
		asset, err := release.findAsset("'"+assetName+"'", func(a releaseAsset) bool {
			return a.Name == assetName
		})
		if err != nil {
			return err
		}

		if err := installSysrootAsset(asset, settings.SysrootPrefix); err != nil {
			return fmt.Errorf("failed to download and unpack sysroot asset '%s': %w", assetName, err)
		}
	}

	return nil
}

// installSysrootAsset unpacks one sysroot archive into a temp dir and
// re-roots its contents under the sysroot prefix.
func installSysrootAsset(asset releaseAsset, sysrootPrefix string) error {
	tempDir, err := os.MkdirTemp("", "wasixcc-sysroot")
	if err != nil {
		return fmt.Errorf("failed to create temporary directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	if err := downloadAsset(asset, tempDir); err != nil {
		return err
	}

	// The archive is expected to contain exactly one wasix-sysroot* root
	// directory with a sysroot directory inside it.
	entries, err := os.ReadDir(tempDir)
	if err != nil {
		return fmt.Errorf("failed to read unpacked asset directory: %w", err)
	}

	if len(entries) != 1 {
		return fmt.Errorf("expected exactly one directory in unpacked asset, found %d entries", len(entries))
	}

	assetDirName := entries[0].Name()
	postfix, ok := strings.CutPrefix(assetDirName, "wasix-sysroot")
	if !ok {
		return fmt.Errorf("expected unpacked asset directory to start with 'wasix-sysroot', found %s", assetDirName)
	}

	if err := os.MkdirAll(sysrootPrefix, 0o755); err != nil {
		return fmt.Errorf("failed to create target directory: %w", err)
	}

	finalDir := filepath.Join(sysrootPrefix, "sysroot"+postfix)
	if _, err := os.Stat(finalDir); err == nil {
		if err := os.RemoveAll(finalDir); err != nil {
			return fmt.Errorf("failed to remove existing sysroot directory at %s: %w", finalDir, err)
		}
	}

	if err := moveDir(filepath.Join(tempDir, assetDirName, "sysroot"), finalDir); err != nil {
		return err
	}

	report.Infof("downloaded sysroot asset '%s' to '%s'", asset.Name, finalDir)
	return nil
}

// DownloadLLVM downloads and installs the LLVM toolchain into the
// configured LLVM location.
func DownloadLLVM(tag TagSpec, settings *config.UserSettings) error {
	if runtime.GOOS == "windows" {
		return fmt.Errorf("LLVM download is not supported on windows")
	}

	assetName, err := llvmAssetName()
	if err != nil {
		return err
	}

	targetDir := settings.LLVM.Dir()
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return fmt.Errorf("failed to create LLVM directory at %s: %w", targetDir, err)
	}

	release, err := fetchRelease(llvmRepo, tag)
	if err != nil {
		return err
	}

	asset, err := release.findAsset("'"+assetName+"'", func(a releaseAsset) bool {
		return a.Name == assetName
	})
	if err != nil {
		return err
	}

	if err := downloadAsset(asset, targetDir); err != nil {
		return fmt.Errorf("failed to download and unpack asset '%s': %w", assetName, err)
	}

	if err := markBinExecutable(targetDir); err != nil {
		return err
	}

	report.Infof("downloaded LLVM asset '%s' to '%s'", asset.Name, targetDir)
	return nil
}

// DownloadBinaryen downloads and installs binaryen into the configured
// binaryen location.
func DownloadBinaryen(tag TagSpec, settings *config.UserSettings) error {
	assetSuffix, err := binaryenAssetSuffix()
	if err != nil {
		return err
	}

	targetDir := settings.Binaryen.Dir()
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return fmt.Errorf("failed to create binaryen directory at %s: %w", targetDir, err)
	}

	release, err := fetchRelease(binaryenRepo, tag)
	if err != nil {
		return err
	}

	// Asset names are like: binaryen-version_124-x86_64-linux.tar.gz.
	asset, err := release.findAsset("for the current platform", func(a releaseAsset) bool {
		return strings.HasSuffix(a.Name, assetSuffix)
	})
	if err != nil {
		return err
	}

	if err := downloadAsset(asset, targetDir); err != nil {
		return fmt.Errorf("failed to download and unpack asset '%s': %w", asset.Name, err)
	}

	// Flatten the versioned directory into the target directory.
	version, ok := strings.CutPrefix(asset.Name, "binaryen-version_")
	if !ok {
		return fmt.Errorf("could not extract version from asset name '%s'", asset.Name)
	}
	version = strings.SplitN(version, "-", 2)[0]

	versionedDir := filepath.Join(targetDir, "binaryen-version_"+version)
	entries, err := os.ReadDir(versionedDir)
	if err != nil {
		return fmt.Errorf("failed to read unpacked binaryen directory: %w", err)
	}

	for _, entry := range entries {
		target := filepath.Join(targetDir, entry.Name())
		_ = os.RemoveAll(target)
		if err := os.Rename(filepath.Join(versionedDir, entry.Name()), target); err != nil {
			return fmt.Errorf("failed to move binaryen file to target directory: %w", err)
		}
	}

	if err := os.RemoveAll(versionedDir); err != nil {
		return fmt.Errorf("failed to remove temporary binaryen directory: %w", err)
	}

	if err := markBinExecutable(targetDir); err != nil {
		return err
	}

	report.Infof("downloaded binaryen asset '%s' to '%s'", asset.Name, targetDir)
	return nil
}
