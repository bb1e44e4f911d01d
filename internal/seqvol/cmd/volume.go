package cmd

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseVolume converts the user's volume argument to the raw operand
// byte. Accepted forms: decimal ("64"), hex ("0x40"), or a percentage of
// the engine's full volume of 127 ("50%", decimals allowed, rounded up).
func ParseVolume(s string) (byte, error) {
	if strings.HasSuffix(s, "%") {
		pct, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid volume percentage %q", s)
		}
		if pct < 0 || pct > 200 {
			return 0, fmt.Errorf("volume percentage must be between 0%% and 200%%")
		}
		return byte(math.Ceil(pct / 100 * 127)), nil
	}

	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid volume value %q", s)
	}
	if v > 0xFF {
		return 0, fmt.Errorf("volume value must be between 0 and 255 (or 0x00 and 0xFF)")
	}
	return byte(v), nil
}
