package fetch

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	"wasixcc/report"
)

// downloadAsset streams a release asset and unpacks it into the target
// directory.  Both .tar.gz and .tar.xz archives are handled.
func downloadAsset(asset releaseAsset, targetDir string) error {
	report.Infof("downloading asset '%s' from url '%s'", asset.Name, asset.BrowserDownloadURL)

	req, err := newRequest(asset.BrowserDownloadURL)
	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download of %s returned %s", asset.Name, resp.Status)
	}

	var decoded io.Reader
	switch {
	case strings.HasSuffix(asset.Name, ".tar.xz"):
		decoded, err = xz.NewReader(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to decompress asset: %w", err)
		}
	default:
		decoded, err = gzip.NewReader(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to decompress asset: %w", err)
		}
	}

	if err := unpackTar(decoded, targetDir); err != nil {
		return fmt.Errorf("failed to unpack asset: %w", err)
	}

	return nil
}

// unpackTar extracts a tar stream under targetDir, refusing entries that
// would escape it.
func unpackTar(r io.Reader, targetDir string) error {
	archive := tar.NewReader(r)

	for {
		header, err := archive.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		path := filepath.Join(targetDir, filepath.Clean(header.Name))
		if !strings.HasPrefix(path, filepath.Clean(targetDir)+string(filepath.Separator)) &&
			path != filepath.Clean(targetDir) {
			return fmt.Errorf("archive entry %s escapes target directory", header.Name)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(path, 0o755); err != nil {
				return err
			}

		case tar.TypeSymlink:
			_ = os.Remove(path)
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			if err := os.Symlink(header.Linkname, path); err != nil {
				return err
			}

		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}

			out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(header.Mode).Perm())
			if err != nil {
				return err
			}

			if _, err := io.Copy(out, archive); err != nil {
				out.Close()
				return err
			}

			if err := out.Close(); err != nil {
				return err
			}
		}
	}
}

// markBinExecutable sets the executable bits on every regular file in the
// bin subdirectory of dir.
func markBinExecutable(dir string) error {
	entries, err := os.ReadDir(filepath.Join(dir, "bin"))
	if err != nil {
		return fmt.Errorf("failed to read bin directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}

		path := filepath.Join(dir, "bin", entry.Name())
		info, err := os.Stat(path)
		if err != nil {
			return err
		}

		if err := os.Chmod(path, info.Mode().Perm()|0o110); err != nil {
			return err
		}
	}

	return nil
}

// moveDir renames a directory, falling back to a recursive copy when the
// rename crosses filesystems.
func moveDir(src, dst string) error {
	if _, err := os.Stat(dst); err == nil {
		return fmt.Errorf("destination directory %s already exists", dst)
	}

	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	if err := copyDir(src, dst); err != nil {
		return fmt.Errorf("failed to copy directory: %w", err)
	}

	if err := os.RemoveAll(src); err != nil {
		return fmt.Errorf("failed to remove source directory: %w", err)
	}

	return nil
}

func copyDir(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case info.IsDir():
			return os.MkdirAll(target, info.Mode().Perm())

		case info.Mode()&os.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)

		default:
			in, err := os.Open(path)
			if err != nil {
				return err
			}
			defer in.Close()

			out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
			if err != nil {
				return err
			}

			if _, err := io.Copy(out, in); err != nil {
				out.Close()
				return err
			}

			return out.Close()
		}
	})
}
