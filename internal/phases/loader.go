package phases

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/ShayCichocki/breathcheck/internal/sequencer"
)

// scriptFile is the on-disk layout of a phase script:
//
//	phases:
//	  - title: We're retrieving your breath data...
//	    subtitle: Please remain calm and breathe normally
//	    icon: activity
//	    duration: 7s      # or 7000 (milliseconds)
type scriptFile struct {
	Phases []scriptPhase `yaml:"phases"`
}

type scriptPhase struct {
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
	Icon     string `yaml:"icon"`
	Duration string `yaml:"duration"`
}

// LoadFile reads and validates a phase script.
func LoadFile(path string) ([]sequencer.Phase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading phase script: %w", err)
	}
	phases, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return phases, nil
}

// Parse decodes a YAML phase script and validates it.
func Parse(data []byte) ([]sequencer.Phase, error) {
	var file scriptFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing phase script: %w", err)
	}

	phases := make([]sequencer.Phase, 0, len(file.Phases))
	for i, sp := range file.Phases {
		d, err := parseDuration(sp.Duration)
		if err != nil {
			return nil, fmt.Errorf("%w: phase %d: %v", sequencer.ErrInvalidConfiguration, i, err)
		}
		phases = append(phases, sequencer.Phase{
			Title:    sp.Title,
			Subtitle: sp.Subtitle,
			Icon:     sp.Icon,
			Duration: d,
		})
	}

	if err := sequencer.Validate(phases); err != nil {
		return nil, err
	}
	return phases, nil
}

// maxMillis is the largest millisecond count a time.Duration can hold.
const maxMillis = math.MaxInt64 / int64(time.Millisecond)

// parseDuration accepts Go duration strings ("7s", "1500ms") or a bare
// integer, which is read as milliseconds.
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("missing duration")
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		if ms > maxMillis || ms < -maxMillis {
			return 0, fmt.Errorf("duration %q out of range", s)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}
