// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/apex/log"
)

// schemaTag is the parsed form of a `jsonapi:"kind,name"` struct tag.
type schemaTag struct {
	Kind string
	Name string
}

func parseTag(value string) schemaTag {
	kind, name, _ := strings.Cut(value, ",")
	name, _, _ = strings.Cut(name, ",")
	return schemaTag{Kind: kind, Name: name}
}

// DumpSchema writes the attribute names of typ, sorted, one per line. Only
// jsonapi "attr" tags are listed; the primary key is always ".id".
func DumpSchema(typ reflect.Type, w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}

	fmt.Fprintln(w, "Attributes available to the --attrs and --filter flags. The primary key is .id.")
	fmt.Fprintln(w, "")

	var names []string
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		value, ok := field.Tag.Lookup("jsonapi")
		if !ok {
			continue
		}
		if tag := parseTag(value); tag.Kind == "attr" && tag.Name != "" {
			names = append(names, tag.Name)
		}
	}

	if len(names) == 0 {
		log.Debugf("no jsonapi attrs found for type: %s", typ.Name())
		return
	}

	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintln(w, name)
	}
}
