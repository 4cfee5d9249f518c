package validation

import (
	"fmt"
	"strings"
)

// NormalizeFundCodes validates a list of fund codes, as used by batch
// refreshes. Duplicates are dropped while keeping the first position.
func NormalizeFundCodes(codes []string) ([]string, error) {
	if len(codes) == 0 {
		return nil, ErrEmptySlice
	}
	seen := make(map[string]bool, len(codes))
	out := make([]string, 0, len(codes))
	invalid := []string{}
	for _, raw := range codes {
		code, err := NormalizeFundCode(raw)
		if err != nil {
			invalid = append(invalid, strings.TrimSpace(raw))
			continue
		}
		if !seen[code] {
			seen[code] = true
			out = append(out, code)
		}
	}
	if len(invalid) > 0 {
		return nil, &Error{
			Fields: map[string]string{"codes": fmt.Sprintf("invalid fund codes: %s", strings.Join(invalid, ", "))},
			Cause:  ErrInvalidCodeList,
		}
	}
	return out, nil
}
