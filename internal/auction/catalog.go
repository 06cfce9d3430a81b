package auction

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadItemsFile reads a catalog file of "description,minimumBid" lines.
// Blank lines are skipped; a malformed line fails the whole load.
func LoadItemsFile(path string) ([]ItemSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	defer f.Close()

	var specs []ItemSpec
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		desc, minBidText, ok := strings.Cut(line, ",")
		if !ok {
			return nil, fmt.Errorf("catalog: %s:%d: missing comma", path, lineNo)
		}
		minBid, err := strconv.Atoi(strings.TrimSpace(minBidText))
		if err != nil {
			return nil, fmt.Errorf("catalog: %s:%d: bad minimum bid: %w", path, lineNo, err)
		}
		specs = append(specs, ItemSpec{Description: strings.TrimSpace(desc), MinimumBid: minBid})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return specs, nil
}
