// Package wordlist loads word lists from files.
package wordlist

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed data/en.txt
var defaultEnglish string

// DefaultLang is the language of the embedded corpus.
const DefaultLang = "en"

// Default returns the embedded English corpus.
func Default() []string {
	words, err := parseWords(strings.NewReader(defaultEnglish), FilterForLang(DefaultLang))
	if err != nil {
		panic(fmt.Sprintf("embedded word list: %v", err))
	}
	return words
}

// LoadWords reads one word per line from the provided file path.
func LoadWords(path string, keep FilterFunc) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	return parseWords(file, keep)
}

// Resolve loads the word list at path, falling back to the embedded corpus when
// path is empty and lang matches it. The returned source names where words came from.
func Resolve(path, lang string) (words []string, source string, err error) {
	if path == "" {
		if !strings.EqualFold(lang, DefaultLang) {
			return nil, "", fmt.Errorf("no built-in word list for language %q; set a word list path", lang)
		}
		return Default(), "builtin:" + DefaultLang, nil
	}
	words, err = LoadWords(path, FilterForLang(lang))
	if err != nil {
		return nil, "", fmt.Errorf("failed to load word list %s: %w", path, err)
	}
	return words, path, nil
}

func parseWords(r io.Reader, keep FilterFunc) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if keep != nil && !keep(line) {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}
