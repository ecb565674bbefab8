package decoder

import (
	"log"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseDimension parses the pipeline-style WIDTH:HEIGHT dimension syntax,
// as in "option2=640:480". Fields past the second are ignored with a
// notice.
//
// Arguments:
//   - s: The dimension string.
//
// Returns:
//   - int: Width.
//   - int: Height.
//   - error: An error when the string does not carry two non-negative
//     integers.
func ParseDimension(s string) (int, int, error) {
	fields := strings.Split(s, ":")
	if len(fields) < 2 {
		return 0, 0, errors.Errorf("dimension %q must be WIDTH:HEIGHT", s)
	}
	if len(fields) > 2 {
		log.Printf("dimension %q: elements past WIDTH:HEIGHT are ignored", s)
	}

	width, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return 0, 0, errors.Wrapf(err, "width %q", fields[0])
	}
	height, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return 0, 0, errors.Wrapf(err, "height %q", fields[1])
	}
	if width < 0 || height < 0 {
		return 0, 0, errors.Errorf("dimension %q must be non-negative", s)
	}
	return width, height, nil
}

// SetOption applies one numbered option, the textual configuration surface
// used when decoders are driven from pipeline descriptions. Option 1 names
// a built-in mode, 2 sets the output dimensions, 3 the input dimensions,
// 4 the gate threshold. Empty values and unknown option numbers are
// ignored, matching the pipeline convention.
//
// Arguments:
//   - n: The 1-based option number.
//   - value: The textual option value.
//
// Returns:
//   - error: An error for a malformed value, nil otherwise.
func (c *Config) SetOption(n int, value string) error {
	if value == "" {
		return nil
	}

	switch n {
	case 1:
		mode, err := ParseMode(value)
		if err != nil {
			return err
		}
		c.Mode = mode
	case 2:
		w, h, err := ParseDimension(value)
		if err != nil {
			return errors.Wrap(err, "output dimensions")
		}
		c.OutputWidth = w
		c.OutputHeight = h
	case 3:
		w, h, err := ParseDimension(value)
		if err != nil {
			return errors.Wrap(err, "input dimensions")
		}
		c.InputWidth = w
		c.InputHeight = h
	case 4:
		t, err := strconv.ParseFloat(value, 32)
		if err != nil {
			return errors.Wrapf(err, "threshold %q", value)
		}
		c.Threshold = float32(t)
	default:
		log.Printf("decoder option %d is ignored", n)
	}
	return nil
}
