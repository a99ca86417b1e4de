package check

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ParseSuiteFile parses a YAML suite file.
func ParseSuiteFile(filePath string) (*Suite, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var suite Suite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateSuite(&suite); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return &suite, nil
}

func validateSuite(suite *Suite) error {
	if suite.Name == "" {
		return fmt.Errorf("suite name is required")
	}
	if len(suite.Checks) == 0 {
		return fmt.Errorf("at least one check is required")
	}

	for i, check := range suite.Checks {
		if check.Name == "" {
			return fmt.Errorf("check %d: name is required", i)
		}
		if check.Expect.empty() {
			return fmt.Errorf("check '%s': expect must assert at least one property", check.Name)
		}
		if check.Expect.MinNodes < 0 || check.Expect.MaxNodes < 0 {
			return fmt.Errorf("check '%s': node bounds must be non-negative", check.Name)
		}
		if check.Expect.MaxNodes > 0 && check.Expect.MinNodes > check.Expect.MaxNodes {
			return fmt.Errorf("check '%s': min_nodes exceeds max_nodes", check.Name)
		}
	}
	return nil
}
