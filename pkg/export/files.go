package export

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadAutofillName returns the first non-empty value stored under key in
// autofill_information.json. The top-level values are visited in document
// order; a list value contributes its first element. A missing file
// returns "" without error.
func LoadAutofillName(path, key string) (string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	tree, err := decodeOrdered(data)
	if err != nil {
		return "", &ParseError{Path: path, Err: err}
	}

	root, ok := tree.(object)
	if !ok {
		return "", nil
	}

	for _, provider := range root {
		info, ok := provider.value.(object)
		if !ok {
			continue
		}
		for _, f := range info {
			if f.key != key {
				continue
			}
			switch v := f.value.(type) {
			case string:
				if v != "" {
					return v, nil
				}
			case []any:
				if len(v) > 0 {
					if s, ok := v[0].(string); ok && s != "" {
						return s, nil
					}
				}
			}
			break
		}
	}

	return "", nil
}

// LoadStopwords reads a newline-delimited word list. Lines are trimmed and
// blank lines ignored. A missing file yields an empty list.
func LoadStopwords(path string) ([]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	words := []string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			words = append(words, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return words, nil
}
