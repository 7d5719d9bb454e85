package domain

import (
	"cmp"
	"regexp"
	"strconv"
	"strings"
)

// ---------- Sorting ----------

// CompareNaturalPortOrder compares two port names by alternating alpha and
// numeric runs. Numeric runs compare by value, then by run width; alpha runs
// compare case-insensitively; an alpha run sorts before a numeric one. Ties
// fall back to a case-insensitive and finally a byte comparison.
func CompareNaturalPortOrder(left, right string) int {
	lt := tokenizeNatural(left)
	rt := tokenizeNatural(right)
	for i := 0; i < len(lt) || i < len(rt); i++ {
		if i >= len(lt) {
			return -1
		}
		if i >= len(rt) {
			return 1
		}
		l, r := lt[i], rt[i]
		lNum, rNum := isDigitRune(rune(l[0])), isDigitRune(rune(r[0]))
		switch {
		case lNum && rNum:
			ln := trimLeadingZeroes(l)
			rn := trimLeadingZeroes(r)
			if c := cmp.Compare(len(ln), len(rn)); c != 0 {
				return c
			}
			if c := cmp.Compare(ln, rn); c != 0 {
				return c
			}
			if c := cmp.Compare(len(l), len(r)); c != 0 {
				return c
			}
		case lNum:
			return 1
		case rNum:
			return -1
		default:
			if c := cmp.Compare(strings.ToLower(l), strings.ToLower(r)); c != 0 {
				return c
			}
		}
	}
	if c := cmp.Compare(strings.ToLower(left), strings.ToLower(right)); c != 0 {
		return c
	}
	return cmp.Compare(left, right)
}

func tokenizeNatural(value string) []string {
	var tokens []string
	start := 0
	for i := 1; i <= len(value); i++ {
		if i == len(value) || isDigitRune(rune(value[i])) != isDigitRune(rune(value[i-1])) {
			tokens = append(tokens, value[start:i])
			start = i
		}
	}
	return tokens
}

func trimLeadingZeroes(value string) string {
	trimmed := strings.TrimLeft(value, "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}

func isDigitRune(r rune) bool {
	return r >= '0' && r <= '9'
}

// ---------- Parsing ----------

var lastNumberRe = regexp.MustCompile(`(\d+)\D*$`)

// LastNumber returns the last run of digits embedded in name.
func LastNumber(name string) (int, bool) {
	m := lastNumberRe.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

var interfacePrefixRe = regexp.MustCompile(`^(.+?)_(gi|fa|ge|te|tw|xe|et|eth|po|vlan|slot)\d`)

// InferDevicePrefix derives the device prefix from an anchor entity id such
// as "switch.study_gi1_0_1".
func InferDevicePrefix(entityID string) string {
	entityID = strings.TrimSpace(entityID)
	if entityID == "" {
		return ""
	}
	object := entityID
	if _, after, ok := strings.Cut(entityID, "."); ok {
		object = after
	}
	if m := interfacePrefixRe.FindStringSubmatch(strings.ToLower(object)); m != nil {
		return object[:len(m[1])]
	}
	before, _, _ := strings.Cut(object, "_")
	return before
}

// ObjectID returns the part of an entity id after the domain.
func ObjectID(entityID string) string {
	_, after, ok := strings.Cut(entityID, ".")
	if !ok {
		return entityID
	}
	return after
}

// ParseSpeedMbps parses speed attributes: numbers above 100000 are bps,
// strings like "1 Gbps" or "100Mbps" are labels.
func ParseSpeedMbps(value string) (float64, bool) {
	text := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(value), " ", ""))
	if text == "" {
		return 0, false
	}
	if n, err := strconv.ParseFloat(text, 64); err == nil {
		if n > 100000 {
			return n / 1e6, true
		}
		return n, n > 0
	}
	for suffix, mult := range map[string]float64{"gbps": 1000, "mbps": 1} {
		if num, ok := strings.CutSuffix(text, suffix); ok {
			n, err := strconv.ParseFloat(num, 64)
			if err != nil || n <= 0 {
				return 0, false
			}
			return n * mult, true
		}
	}
	return 0, false
}

// SpeedLabel renders a speed in Mbps as "100 Mbps" or "2.5 Gbps".
func SpeedLabel(mbps float64) string {
	if mbps <= 0 {
		return ""
	}
	if mbps >= 1000 {
		return strconv.FormatFloat(mbps/1000, 'f', -1, 64) + " Gbps"
	}
	return strconv.FormatFloat(mbps, 'f', -1, 64) + " Mbps"
}
