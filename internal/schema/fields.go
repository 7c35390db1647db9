// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"fmt"
	"strings"

	"github.com/tfctl/snapdiff/internal/log"
)

// FieldList is the ordered list of compared fields. Order is significant: it
// is the order of changed fields in every result and report.
type FieldList []Field

// Set parses a --fields spec and merges it into the list. The spec is a comma
// separated list of name[:type[:trunc]] entries, e.g.
// "price:int,amount:number:trunc,updated_at:timestamp,name". The type defaults
// to string. An entry naming an existing field replaces its type and display
// rule in place so the original position is kept.
func (l *FieldList) Set(value string) error {
	if strings.TrimSpace(value) == "" {
		log.Debugf("early return: value=%q", value)
		return nil
	}

	const (
		nameIdx = iota
		typeIdx
		optIdx
	)

specloop:
	for _, spec := range strings.Split(value, ",") {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			continue
		}

		parts := strings.Split(spec, ":")
		if len(parts) > optIdx+1 {
			return fmt.Errorf("invalid field spec %q: too many ':' separated parts", spec)
		}

		f := Field{Name: strings.TrimSpace(parts[nameIdx]), Type: TypeString}
		if f.Name == "" {
			return fmt.Errorf("invalid field spec %q: empty name", spec)
		}

		if len(parts) > typeIdx && strings.TrimSpace(parts[typeIdx]) != "" {
			f.Type = FieldType(strings.ToLower(strings.TrimSpace(parts[typeIdx])))
			if !f.Type.Valid() {
				return fmt.Errorf("invalid field spec %q: unknown type %q", spec, f.Type)
			}
		}

		if len(parts) > optIdx {
			switch opt := strings.ToLower(strings.TrimSpace(parts[optIdx])); opt {
			case "trunc", "truncate":
				f.Truncate = true
			default:
				return fmt.Errorf("invalid field spec %q: unknown option %q", spec, opt)
			}
		}
		log.Tracef("field parsed: name=%s type=%s truncate=%v", f.Name, f.Type, f.Truncate)

		for i := range *l {
			if (*l)[i].Name == f.Name {
				(*l)[i].Type = f.Type
				(*l)[i].Truncate = f.Truncate
				log.Tracef("existing updated: i=%d", i)
				continue specloop
			}
		}

		*l = append(*l, f)
	}

	return nil
}

// Names returns the field names in declared order.
func (l FieldList) Names() []string {
	names := make([]string, 0, len(l))
	for _, f := range l {
		names = append(names, f.Name)
	}
	return names
}

// Index returns the fields keyed by name.
func (l FieldList) Index() map[string]Field {
	idx := make(map[string]Field, len(l))
	for _, f := range l {
		idx[f.Name] = f
	}
	return idx
}

// String renders the list in --fields syntax.
func (l FieldList) String() string {
	parts := make([]string, 0, len(l))
	for _, f := range l {
		s := fmt.Sprintf("%s:%s", f.Name, f.Type)
		if f.Truncate {
			s += ":trunc"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ",")
}
