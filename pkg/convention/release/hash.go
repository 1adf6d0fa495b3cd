package release

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/linecard/samlstack/internal/util"
	"github.com/linecard/samlstack/pkg/convention/stack"
)

// ContentHash fingerprints a build context: every regular file's relative path and bytes, in
// lexical order, plus the target platform. Version control metadata is skipped.
func ContentHash(contextPath string, platform stack.Platform) (string, error) {
	info, err := os.Stat(contextPath)
	if err != nil {
		return "", fmt.Errorf("build context %s: %w", contextPath, err)
	}

	if !info.IsDir() {
		return "", fmt.Errorf("build context %s is not a directory", contextPath)
	}

	if !util.PathExists(filepath.Join(contextPath, "Dockerfile")) {
		return "", fmt.Errorf("build context %s has no Dockerfile", contextPath)
	}

	hasher := sha256.New()
	fmt.Fprintf(hasher, "platform\x00%s\x00", platform)

	err = filepath.WalkDir(contextPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(contextPath, path)
		if err != nil {
			return err
		}

		fmt.Fprintf(hasher, "file\x00%s\x00", filepath.ToSlash(rel))

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		if _, err := io.Copy(hasher, f); err != nil {
			return err
		}

		_, err = hasher.Write([]byte{0})
		return err
	})

	if err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
