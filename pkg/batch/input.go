package batch

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// ReadIdentifiers reads raw identifiers from r, one per line. Lines are
// returned as-is; normalization happens during processing, so blank or
// digit-free lines are preserved and later counted as empty.
func ReadIdentifiers(r io.Reader) ([]string, error) {
	var ids []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		ids = append(ids, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read identifiers: %w", err)
	}
	return ids, nil
}

// ReadIdentifierFile reads raw identifiers from the file at path.
func ReadIdentifierFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file %s: %w", path, err)
	}
	defer f.Close()

	return ReadIdentifiers(f)
}
