package record

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scalar is a persisted value that legacy data may hold as a number or a
// string. It keeps the authored text and parses on demand.
type Scalar string

// UnmarshalYAML accepts any scalar node. Mappings and sequences decode to "".
func (s *Scalar) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode || node.Tag == "!!null" {
		*s = ""
		return nil
	}
	*s = Scalar(node.Value)
	return nil
}

// UnmarshalJSON accepts strings, numbers and booleans. Other values decode to "".
func (s *Scalar) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*s = Scalar(text)
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(data, &number); err == nil {
		*s = Scalar(number.String())
		return nil
	}
	var flag bool
	if err := json.Unmarshal(data, &flag); err == nil {
		*s = Scalar(strconv.FormatBool(flag))
		return nil
	}
	*s = ""
	return nil
}

// IntOK parses an integral value. Non-integral or unparseable text is not ok.
func (s Scalar) IntOK() (int, bool) {
	text := strings.TrimSpace(string(s))
	if text == "" {
		return 0, false
	}
	if v, err := strconv.Atoi(text); err == nil {
		return v, true
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// Int parses an integral value, falling back to 0.
func (s Scalar) Int() int {
	v, _ := s.IntOK()
	return v
}

// IntOr parses an integral value, falling back to def.
func (s Scalar) IntOr(def int) int {
	if v, ok := s.IntOK(); ok {
		return v
	}
	return def
}

// Float parses a decimal value, falling back to 0.
func (s Scalar) Float() float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(s)), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ParseWeight reads a weight that may carry a "kg" suffix ("2.5 kg").
// Unparseable values weigh 0.
func ParseWeight(value string) float64 {
	text := strings.TrimSpace(strings.ToLower(value))
	text = strings.TrimSpace(strings.TrimSuffix(text, "kg"))
	return Scalar(text).Float()
}

var aptitudePattern = regexp.MustCompile(`(?i)\bapt(?:itudes?)?\s*:\s*([^\n;.]+)`)

// ParseAptitudes extracts an "Apt: X, Y" list embedded in free text. Names
// keep their authored spelling; duplicates are dropped.
func ParseAptitudes(text string) []string {
	match := aptitudePattern.FindStringSubmatch(text)
	if match == nil {
		return nil
	}
	var out []string
	seen := map[string]bool{}
	for _, part := range strings.Split(match[1], ",") {
		name := strings.TrimSpace(part)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
