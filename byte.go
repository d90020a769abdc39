package vidkit

import (
	"fmt"
	"strconv"
)

// Byte is a file size that displays with a human-readable unit.
type Byte float64

var units = []string{"B", "K", "M", "G", "T", "P"}

func (b Byte) String() string {
	i := 0
	for ; i < len(units); i++ {
		if b < 1024 {
			return fmt.Sprintf("%.1f%s", b, units[i])
		}
		b /= 1024
	}
	return fmt.Sprintf("%.1f%s", b*1024, units[i-1])
}

// UnmarshalText parses the plain byte counts ffprobe reports.
func (b *Byte) UnmarshalText(in []byte) error {
	sz, err := strconv.ParseUint(string(in), 10, 64)
	if err != nil {
		return err
	}
	*b = Byte(sz)
	return nil
}
