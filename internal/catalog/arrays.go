package catalog

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
)

// pqInt64Array and pqStringArray are naive Postgres array[] Scan/Value
// adapters: driver.Valuer encodes the Go slice as a literal "{...}",
// Scan parses that literal back.

type pqInt64Array []int64

func (a pqInt64Array) Value() (driver.Value, error) {
	parts := make([]string, len(a))
	for i, v := range a {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

func (a *pqInt64Array) Scan(src any) error {
	s, err := arrayLiteral(src)
	if err != nil {
		return err
	}
	if s == "" {
		*a = nil
		return nil
	}
	fields := strings.Split(s, ",")
	out := make(pqInt64Array, len(fields))
	for i, f := range fields {
		n, err := strconv.ParseInt(strings.TrimSpace(f), 10, 64)
		if err != nil {
			return fmt.Errorf("catalog: parse int array element %q: %w", f, err)
		}
		out[i] = n
	}
	*a = out
	return nil
}

type pqStringArray []string

func (a pqStringArray) Value() (driver.Value, error) {
	return "{" + strings.Join([]string(a), ",") + "}", nil
}

func (a *pqStringArray) Scan(src any) error {
	s, err := arrayLiteral(src)
	if err != nil {
		return err
	}
	if s == "" {
		*a = nil
		return nil
	}
	*a = strings.Split(s, ",")
	return nil
}

func arrayLiteral(src any) (string, error) {
	if src == nil {
		return "", nil
	}
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return "", fmt.Errorf("catalog: unsupported array column type %T", src)
	}
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "{")
	raw = strings.TrimSuffix(raw, "}")
	return raw, nil
}
