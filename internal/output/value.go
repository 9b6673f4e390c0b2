package output

import (
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// formatCell renders a driver value as CSV/XLSX text. NULL becomes the empty
// string.
func formatCell(value any) string {
	switch v := normalizeValue(value).(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case bool:
		return strconv.FormatBool(v)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// normalizeValue unwraps driver-specific types into plain Go values: byte
// slices become strings, 16-byte arrays (pgx UUIDs) become canonical UUID
// text, and driver.Valuer types such as pgtype.Numeric yield their value.
func normalizeValue(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return string(v)
	case [16]byte:
		return formatUUID(v)
	case time.Time, string, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return v
	case driver.Valuer:
		inner, err := v.Value()
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return normalizeValue(inner)
	default:
		return v
	}
}

func formatUUID(b [16]byte) string {
	var buf [36]byte
	hex.Encode(buf[0:8], b[0:4])
	buf[8] = '-'
	hex.Encode(buf[9:13], b[4:6])
	buf[13] = '-'
	hex.Encode(buf[14:18], b[6:8])
	buf[18] = '-'
	hex.Encode(buf[19:23], b[8:10])
	buf[23] = '-'
	hex.Encode(buf[24:], b[10:])
	return string(buf[:])
}
