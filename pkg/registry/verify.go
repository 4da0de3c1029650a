package registry

import (
	"fmt"
	"regexp"
	"strings"
)

// WasCalled reports whether any recorded signature matches pattern.
func (s *RegistrySession) WasCalled(pattern string) (bool, error) {
	n, err := s.CallCount(pattern)
	return n > 0, err
}

// CallCount counts the call records whose signature matches pattern.
func (s *RegistrySession) CallCount(pattern string) (int, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return 0, fmt.Errorf("invalid verification pattern %q: %w", pattern, err)
	}
	count := 0
	for _, call := range s.calls {
		if re.MatchString(call.Signature) {
			count++
		}
	}
	return count, nil
}

// AssertCalledAtLeast returns an error listing the full call log when
// fewer than n recorded signatures match pattern.
func (s *RegistrySession) AssertCalledAtLeast(pattern string, n int) error {
	count, err := s.CallCount(pattern)
	if err != nil {
		return err
	}
	if count >= n {
		return nil
	}
	var log strings.Builder
	for i, call := range s.calls {
		fmt.Fprintf(&log, "  %d. [%s] %s\n", i+1, call.Category, call.Signature)
	}
	if log.Len() == 0 {
		log.WriteString("  (no calls recorded)\n")
	}
	return fmt.Errorf("expected at least %d calls matching %q, got %d; call log:\n%s", n, pattern, count, log.String())
}
