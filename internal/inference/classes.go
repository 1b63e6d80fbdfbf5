package inference

import (
	"bufio"
	"os"
	"strings"

	"github.com/smartscope-embedded/smartscope/internal/smartscope"
)

// LoadClassCatalog reads a newline-delimited class-name file shipped
// alongside the model, one name per line, index == class id. The catalog
// is never hardcoded (open question #3).
func LoadClassCatalog(path string) (smartscope.ClassCatalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, smartscope.NewError("inference.LoadClassCatalog", smartscope.ErrIO, err)
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, smartscope.NewError("inference.LoadClassCatalog", smartscope.ErrIO, err)
	}

	return smartscope.ClassCatalog(names), nil
}
