package utils

import (
	"fmt"
	"io"
	"reflect"
	"strings"
)

const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
)

const (
	LevelNormal   = "normal"
	LevelWarning  = "warning"
	LevelCritical = "critical"
)

// UsageLevel buckets a usage percentage for the "level" color rule: below 40
// is normal, up to 80 is a warning, anything above is critical.
func UsageLevel(percent float64) string {
	switch {
	case percent < 40:
		return LevelNormal
	case percent <= 80:
		return LevelWarning
	default:
		return LevelCritical
	}
}

const (
	OutputBrief  = "brief"
	OutputDetail = "detail"
	OutputJSON   = "json"
)

// StructPrinter renders structs annotated with `name`, `output` and `color`
// tags as an indented label/value listing.
//
//	name:   label, fields without it are skipped
//	output: "both", "brief" or "detail"
//	color:  "trueGreen", "DefaultGreen" or "level"
type StructPrinter struct {
	w          io.Writer
	indent     int
	labelWidth int
	noColor    bool
}

func NewStructPrinter(w io.Writer) *StructPrinter {
	return &StructPrinter{
		w:          w,
		indent:     4,
		labelWidth: 28,
	}
}

// WithoutColor disables ANSI colors, e.g. when stdout is not a terminal.
func (sp *StructPrinter) WithoutColor() *StructPrinter {
	sp.noColor = true
	return sp
}

func (sp *StructPrinter) formatValue(colorRule string, value any) string {
	strValue := fmt.Sprintf("%v", value)
	if colorRule == "" || sp.noColor {
		return strValue
	}

	color := sp.getColor(colorRule, strValue)
	if color == "" {
		return strValue
	}

	return color + strValue + ColorReset
}

func (sp *StructPrinter) getColor(colorRule, value string) string {
	var color string
	switch colorRule {
	case "trueGreen":
		if value == "true" {
			color = ColorGreen
		} else {
			color = ColorRed
		}
	case "DefaultGreen":
		if value != "" {
			color = ColorGreen
		}
	case "level":
		switch value {
		case "normal":
			color = ColorCyan
		case "warning":
			color = ColorYellow
		case "critical":
			color = ColorRed
		}
	}
	return color
}

func (sp *StructPrinter) printField(indent int, label string, value any, colorRule string) {
	indentStr := strings.Repeat(" ", indent*sp.indent)
	width := sp.labelWidth - indent*sp.indent
	if width < len(label) {
		width = len(label)
	}
	fmt.Fprintf(sp.w, "%s%-*s: %s\n", indentStr, width, label, sp.formatValue(colorRule, value))
}

func (sp *StructPrinter) printHeader(indent int, label string) {
	indentStr := strings.Repeat(" ", indent*sp.indent)
	fmt.Fprintf(sp.w, "\n%s[%s]\n", indentStr, label)
}

// Print writes v for the given output mode, "brief" or "detail".
func (sp *StructPrinter) Print(v any, outputType string) {
	sp.printValue(reflect.ValueOf(v), outputType, 0)
}

func (sp *StructPrinter) printValue(v reflect.Value, outputType string, indent int) {
	v, ok := derefStruct(v)
	if !ok {
		return
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name, colorRule, ok := parseFieldTag(field, outputType)
		if !ok {
			continue
		}

		value := v.Field(i)
		switch value.Kind() {
		case reflect.Slice, reflect.Array:
			sp.printSlice(value, name, colorRule, outputType, indent)
		case reflect.Struct, reflect.Ptr:
			if _, ok := derefStruct(value); !ok {
				continue
			}
			sp.printHeader(indent, name)
			sp.printValue(value, outputType, indent+1)
		default:
			if value.IsZero() {
				continue
			}
			sp.printField(indent, name, value.Interface(), colorRule)
		}
	}
}

func (sp *StructPrinter) printSlice(value reflect.Value, name, colorRule, outputType string, indent int) {
	if value.Len() == 0 {
		return
	}

	if value.Type().Elem().Kind() == reflect.String {
		items := make([]string, 0, value.Len())
		for j := 0; j < value.Len(); j++ {
			items = append(items, value.Index(j).String())
		}
		sp.printField(indent, name, strings.Join(items, ", "), colorRule)
		return
	}

	for j := 0; j < value.Len(); j++ {
		elem, ok := derefStruct(value.Index(j))
		if !ok {
			continue
		}

		sp.printHeader(indent, fmt.Sprintf("%s #%d", name, j))
		sp.printValue(elem, outputType, indent+1)
	}
}

func derefStruct(v reflect.Value) (reflect.Value, bool) {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return v, false
		}
		v = v.Elem()
	}

	return v, v.Kind() == reflect.Struct
}

func parseFieldTag(field reflect.StructField, outputType string) (string, string, bool) {
	name := field.Tag.Get("name")
	color := field.Tag.Get("color")
	output := field.Tag.Get("output")

	var ot string
	switch output {
	case "both":
		ot = outputType
	case OutputBrief:
		ot = OutputBrief
	case OutputDetail:
		ot = OutputDetail
	}

	// detail is a superset of brief
	if outputType == OutputDetail && ot == OutputBrief {
		ot = OutputDetail
	}

	if ot != outputType || name == "" {
		return "", "", false
	}

	return name, color, true
}
