// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"

	"github.com/tfctl/hellocdk/internal/attrs"
	"github.com/tfctl/hellocdk/internal/driller"
	"github.com/tfctl/hellocdk/internal/hungarian"
)

// filterRegex splits an expression into key, operator (optionally negated) and
// target. The key stops at the first operator character.
var filterRegex = regexp.MustCompile(`^([^!=^~<>@/]*)(!?[=^~<>@/])?(.*)$`)

// Filter is a single parsed --filter expression.
type Filter struct {
	Key     string `yaml:"key" json:"Key"`
	Negate  bool   `yaml:"negate" json:"Negate"`
	Operand string `yaml:"operand" json:"Operand"`
	Value   string `yaml:"value" json:"Value"`
}

// BuildFilters parses a filter spec. Malformed entries are logged and
// skipped.
func BuildFilters(spec string) []Filter {
	var filters []Filter

	if spec == "" {
		return filters
	}

	delim := ","
	if d, ok := os.LookupEnv("HELLOCDK_FILTER_DELIM"); ok && d != "" {
		delim = d
	}

	for _, filterSpec := range strings.Split(spec, delim) {
		filterSpec = strings.TrimSpace(filterSpec)
		if filterSpec == "" {
			continue
		}

		parts := filterRegex.FindStringSubmatch(filterSpec)
		key := strings.TrimSpace(parts[1])
		operand := parts[2]
		if key == "" || operand == "" {
			log.Errorf("invalid filter: %s", filterSpec)
			continue
		}

		negate := strings.HasPrefix(operand, "!")
		filters = append(filters, Filter{
			Key:     key,
			Negate:  negate,
			Operand: strings.TrimPrefix(operand, "!"),
			Value:   parts[3],
		})
	}

	return filters
}

// FilterDataset keeps the candidates matching spec and projects each onto
// the attrs' output keys. Values are left untransformed.
func FilterDataset(candidates gjson.Result, al attrs.AttrList, spec string) []map[string]interface{} {
	var results []map[string]interface{}

	filters := BuildFilters(spec)

	for _, candidate := range candidates.Array() {
		if !applyFilters(candidate, al, filters) {
			continue
		}

		row := make(map[string]interface{}, len(al))
		for _, attr := range al {
			row[attr.OutputKey] = driller.Driller(candidate.Raw, attr.Key).Value()
		}
		results = append(results, row)
	}

	return results
}

// applyFilters reports whether candidate passes every filter. Filters on keys
// no attr provides are reported once per row and ignored.
func applyFilters(candidate gjson.Result, al attrs.AttrList, filters []Filter) bool {
	for _, filter := range filters {
		// hungarian is computed from the row rather than read from an attr.
		if filter.Key == "hungarian" {
			if !checkHungarian(candidate, filter) {
				return false
			}
			continue
		}

		key := ""
		for _, attr := range al {
			if attr.OutputKey == filter.Key {
				key = attr.Key
				break
			}
		}
		if key == "" {
			msg := fmt.Sprintf("filter key not found: %s", filter.Key)
			log.Error(msg)
			fmt.Fprintf(os.Stderr, "warning: %s\n", msg)
			continue
		}

		value := driller.Driller(candidate.Raw, key).Value()
		if value == nil {
			return false
		}

		var ok bool
		switch v := value.(type) {
		case string:
			ok = checkString(v, filter)
		case bool:
			ok = checkString(strconv.FormatBool(v), filter)
		case float64:
			ok = checkNumeric(v, filter)
		default:
			ok = checkContains(v, filter)
		}
		if !ok {
			return false
		}
	}

	return true
}

// checkContains handles '@' against lists and maps; other operands fail.
func checkContains(value interface{}, filter Filter) bool {
	if filter.Operand != "@" {
		log.Errorf("unsupported operand %s for %T", filter.Operand, value)
		return false
	}

	found := false
	switch v := value.(type) {
	case []interface{}:
		for _, item := range v {
			if fmt.Sprint(item) == filter.Value {
				found = true
				break
			}
		}
	case map[string]interface{}:
		_, found = v[filter.Value]
	default:
		log.Errorf("unsupported type for contains filtering: %T", value)
		return false
	}
	return found != filter.Negate
}

// checkNumeric compares numerically when the target parses as a number and
// falls back to string comparison otherwise.
func checkNumeric(value float64, filter Filter) bool {
	tgt, err := strconv.ParseFloat(strings.TrimSpace(filter.Value), 64)
	if err != nil {
		return checkString(strconv.FormatFloat(value, 'f', -1, 64), filter)
	}

	var result bool
	switch filter.Operand {
	case "=":
		result = value == tgt
	case ">":
		result = value > tgt
	case "<":
		result = value < tgt
	default:
		return checkString(strconv.FormatFloat(value, 'f', -1, 64), filter)
	}
	return result != filter.Negate
}

func checkString(value string, filter Filter) bool {
	var result bool
	switch filter.Operand {
	case "=":
		result = value == filter.Value
	case "~":
		result = strings.EqualFold(value, filter.Value)
	case "^":
		result = strings.HasPrefix(value, filter.Value)
	case "@":
		result = strings.Contains(value, filter.Value)
	case ">":
		result = value > filter.Value
	case "<":
		result = value < filter.Value
	case "/":
		re, err := regexp.Compile(filter.Value)
		if err != nil {
			log.Errorf("invalid regex: %s", filter.Value)
			return false
		}
		result = re.MatchString(value)
	default:
		log.Errorf("unsupported filtering operand: %s", filter.Operand)
		return false
	}
	return result != filter.Negate
}

// checkHungarian keeps rows whose logical id does (hungarian=true, or an
// empty value) or does not (hungarian=false) repeat a token of their
// resource type. Rows without a type always pass.
func checkHungarian(candidate gjson.Result, filter Filter) bool {
	typ := candidate.Get("attributes.type").String()
	if typ == "" {
		typ = candidate.Get("type").String()
	}
	id := candidate.Get("id").String()
	if typ == "" || id == "" {
		return true
	}

	want := filter.Value == "" || filter.Value == "true"
	if filter.Negate {
		want = !want
	}
	return hungarian.IsHungarian(typ, id) == want
}
