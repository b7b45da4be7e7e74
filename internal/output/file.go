package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// writeFile runs write against outputPath, or stdout if outputPath is "-".
//
// Files are written to a temporary sibling and renamed into place after the
// writer has been flushed and closed. On any error the temporary file is
// removed and an existing file at outputPath is left untouched.
func writeFile(outputPath string, write func(io.Writer) error) (err error) {
	if outputPath == "-" {
		bw := bufio.NewWriter(os.Stdout)
		if err := write(bw); err != nil {
			return err
		}
		return bw.Flush()
	}

	dir := filepath.Dir(outputPath)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(outputPath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("cannot create output file in %q: %w", dir, err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = write(bw); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	if err = tmp.Chmod(0644); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", outputPath, err)
	}
	if err = os.Rename(tmpName, outputPath); err != nil {
		return fmt.Errorf("moving output into %s: %w", outputPath, err)
	}
	return nil
}
