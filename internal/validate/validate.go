package validate

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"amp-monitor-backend/internal/model"
)

// Code identifies the specific rule a payload violated.
type Code string

const (
	CodeMissingField     Code = "missing_field"
	CodeInvalidUsername  Code = "invalid_username"
	CodeInvalidAmper     Code = "invalid_amper"
	CodeInvalidProductID Code = "invalid_product_id"
	CodeInvalidName      Code = "invalid_name"
	CodeInvalidSensors   Code = "invalid_sensors"
	CodeUnknownSensor    Code = "unknown_sensor"
)

// Error is a tagged validation failure, detected before any store mutation.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

const maxUsernameLen = 50

// IngestPayload is the duck-typed ingest request body. Fields are `any` so
// that absent, null, and wrongly-typed values can each be reported precisely.
type IngestPayload struct {
	Username  any `json:"username"`
	Amper     any `json:"amper"`
	ProductID any `json:"productId"`
	Sensor    any `json:"sensor"`
}

// Ingest is the validated form of an ingest request.
type Ingest struct {
	Username  string
	Amper     float64
	ProductID string
	Sensor    string
}

// ParseIngest checks shape, range, and format of an ingest payload. It does
// not verify that the product exists; the handler does that via the store.
func ParseIngest(p IngestPayload) (Ingest, *Error) {
	if p.Username == nil || p.Amper == nil || p.ProductID == nil {
		return Ingest{}, newError(CodeMissingField, "username, amper and productId are required")
	}

	username, err := Username(p.Username)
	if err != nil {
		return Ingest{}, err
	}

	amper, ok := coerceNumber(p.Amper)
	if !ok {
		return Ingest{}, newError(CodeInvalidAmper, "amper must be a number")
	}
	if amper < 0 || amper > 100 {
		return Ingest{}, newError(CodeInvalidAmper, "amper must be between 0 and 100")
	}

	rawID, ok := p.ProductID.(string)
	if !ok {
		return Ingest{}, newError(CodeInvalidProductID, "productId must be a string")
	}
	productID := strings.TrimSpace(rawID)
	if !model.ValidID(productID) {
		return Ingest{}, newError(CodeInvalidProductID, "productId must be a 24-character hex identifier")
	}

	var sensor string
	if p.Sensor != nil {
		s, ok := p.Sensor.(string)
		if !ok {
			return Ingest{}, newError(CodeInvalidSensors, "sensor must be a string")
		}
		sensor = strings.TrimSpace(s)
	}

	return Ingest{
		Username:  username,
		Amper:     amper,
		ProductID: productID,
		Sensor:    sensor,
	}, nil
}

// Username validates a username value from a body field or path segment.
func Username(v any) (string, *Error) {
	raw, ok := v.(string)
	if !ok {
		return "", newError(CodeInvalidUsername, "username must be a string")
	}
	username := strings.TrimSpace(raw)
	if username == "" {
		return "", newError(CodeInvalidUsername, "username must not be empty")
	}
	if len(username) > maxUsernameLen {
		return "", newError(CodeInvalidUsername, "username must be at most %d characters", maxUsernameLen)
	}
	return username, nil
}

// coerceNumber accepts JSON numbers and numeric strings, rejecting NaN/Inf.
func coerceNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

const maxProductNameLen = 100

// ProductPayload is the duck-typed product creation body.
type ProductPayload struct {
	Name    any `json:"name"`
	Sensors any `json:"sensors"`
}

// Product is the validated form of a product creation request.
type Product struct {
	Name    string
	Sensors []string
}

// ParseProduct checks a product creation payload: a required trimmed name of
// at most 100 characters and an optional list of distinct sensor names.
func ParseProduct(p ProductPayload) (Product, *Error) {
	if p.Name == nil {
		return Product{}, newError(CodeMissingField, "name is required")
	}
	rawName, ok := p.Name.(string)
	if !ok {
		return Product{}, newError(CodeInvalidName, "name must be a string")
	}
	name := strings.TrimSpace(rawName)
	if name == "" {
		return Product{}, newError(CodeInvalidName, "name must not be empty")
	}
	if len(name) > maxProductNameLen {
		return Product{}, newError(CodeInvalidName, "name must be at most %d characters", maxProductNameLen)
	}

	sensors := []string{}
	if p.Sensors != nil {
		list, ok := p.Sensors.([]any)
		if !ok {
			return Product{}, newError(CodeInvalidSensors, "sensors must be an array of strings")
		}
		seen := make(map[string]struct{}, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return Product{}, newError(CodeInvalidSensors, "sensors must be an array of strings")
			}
			s = strings.TrimSpace(s)
			if s == "" {
				return Product{}, newError(CodeInvalidSensors, "sensor names must not be empty")
			}
			if _, dup := seen[s]; dup {
				return Product{}, newError(CodeInvalidSensors, "sensor names must be distinct")
			}
			seen[s] = struct{}{}
			sensors = append(sensors, s)
		}
	}

	return Product{Name: name, Sensors: sensors}, nil
}

// Sensor validates a requested sensor name against a product's declared list.
func Sensor(product *model.Product, name string) *Error {
	if !product.HasSensor(name) {
		return newError(CodeUnknownSensor, "unknown sensor %q for product %q; valid sensors: %s",
			name, product.Name, strings.Join(product.Sensors, ", "))
	}
	return nil
}

const (
	defaultPageLimit = 50
	maxPageLimit     = 100
)

// Pagination parses limit/page query values, falling back to limit 50 and
// page 1. Garbage and non-positive values take the defaults; limit caps at 100.
func Pagination(limitRaw, pageRaw string) (limit, page int) {
	limit = defaultPageLimit
	if n, err := strconv.Atoi(limitRaw); err == nil && n > 0 {
		limit = n
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	page = 1
	if n, err := strconv.Atoi(pageRaw); err == nil && n > 0 {
		page = n
	}
	return limit, page
}
