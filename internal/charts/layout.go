package charts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/insights-cli/internal/dataset"
	"github.com/KaramelBytes/insights-cli/internal/utils"
)

// Layout is a saved, ordered list of chart configs.
type Layout struct {
	Charts []Config `yaml:"charts"`
}

// LoadLayout reads a YAML layout file. Omitted top_n values become
// DefaultTopN.
func LoadLayout(path string) (*Layout, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("layout not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read layout: %w", err)
	}
	var l Layout
	if err := yaml.Unmarshal(b, &l); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	for i := range l.Charts {
		if l.Charts[i].TopN == 0 {
			l.Charts[i].TopN = DefaultTopN
		}
	}
	return &l, nil
}

// Save writes the layout as YAML using an atomic write.
func (l *Layout) Save(path string) error {
	b, err := l.Marshal()
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(path, b)
}

// Marshal encodes l as YAML in the form LoadLayout reads.
func (l *Layout) Marshal() ([]byte, error) {
	b, err := yaml.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal layout: %w", err)
	}
	return b, nil
}

// Apply validates every chart against f and appends it to s. The first
// invalid chart stops the load; its 1-based position is in the error.
func (l *Layout) Apply(f *dataset.Frame, s *Store) error {
	for i, cfg := range l.Charts {
		if _, err := s.Append(f, cfg); err != nil {
			return fmt.Errorf("layout chart %d: %w", i+1, err)
		}
	}
	return nil
}
