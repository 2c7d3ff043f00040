package publisher

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// archive moves the consumed image and sidecar out of the source directories
func (p *Publisher) archive(imagePath, sidecarPath string) error {
	if err := moveInto(imagePath, p.opts.Archive.ImagesDir); err != nil {
		return err
	}
	if sidecarPath == "" {
		return nil
	}

	metaDir := p.opts.Archive.MetadataDir
	if metaDir == "" {
		metaDir = p.opts.Archive.ImagesDir
	}
	return moveInto(sidecarPath, metaDir)
}

func moveInto(src, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}

	dst := filepath.Join(dir, filepath.Base(src))
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	// Rename fails across filesystems; fall back to copy and remove
	if err := copyFile(src, dst); err != nil {
		return fmt.Errorf("failed to move %s: %w", src, err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("failed to remove %s after copy: %w", src, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
