package wizard

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/celeryops/celeryctl/internal/deploy"
)

// LoadAnswers reads a YAML answers file into cfg for non-interactive runs.
// Unknown keys are rejected so a typo in the file fails loudly instead of
// silently falling back to a default.
func LoadAnswers(path string, cfg *deploy.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("wizard: read answers %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil // empty file, keep defaults
		}
		return fmt.Errorf("wizard: parse answers %s: %w", path, err)
	}
	return nil
}
