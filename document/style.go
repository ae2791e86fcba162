package document

import (
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

// ParseStyle parses an inline style attribute into declarations. Input the
// CSS parser rejects falls back to a plain split on semicolons.
func ParseStyle(style string) []*css.Declaration {
	style = strings.TrimSpace(style)
	if style == "" {
		return nil
	}

	// the CSS parser is strict about the final semicolon, inline styles are not
	if !strings.HasSuffix(style, ";") {
		style += ";"
	}
	decls, err := parser.ParseDeclarations(style)
	if err == nil {
		return decls
	}

	var fallback []*css.Declaration
	for _, part := range strings.Split(style, ";") {
		kv := strings.SplitN(part, ":", 2)
		if len(kv) != 2 {
			continue
		}
		property := strings.ToLower(strings.TrimSpace(kv[0]))
		value := strings.TrimSpace(kv[1])
		if property == "" || value == "" {
			continue
		}
		fallback = append(fallback, &css.Declaration{Property: property, Value: value})
	}
	return fallback
}

// StyleValue returns the value of the last declaration of property.
func StyleValue(style, property string) (string, bool) {
	var (
		value string
		found bool
	)
	for _, decl := range ParseStyle(style) {
		if strings.EqualFold(decl.Property, property) {
			value = strings.TrimSpace(decl.Value)
			found = true
		}
	}
	return value, found
}

// FormatStyle renders declarations as "prop: value;" joined by spaces.
func FormatStyle(decls []*css.Declaration) string {
	parts := make([]string, 0, len(decls))
	for _, decl := range decls {
		part := strings.ToLower(decl.Property) + ": " + strings.TrimSpace(decl.Value)
		if decl.Important {
			part += " !important"
		}
		parts = append(parts, part+";")
	}
	return strings.Join(parts, " ")
}

// StripAlignmentStyle removes float, display: block and auto margin
// declarations so alignment styles can be re-applied without duplicates.
func StripAlignmentStyle(style string) string {
	decls := ParseStyle(style)
	kept := decls[:0]
	for _, decl := range decls {
		if isAlignmentDeclaration(decl) {
			continue
		}
		kept = append(kept, decl)
	}
	return FormatStyle(kept)
}

func isAlignmentDeclaration(decl *css.Declaration) bool {
	property := strings.ToLower(strings.TrimSpace(decl.Property))
	value := strings.ToLower(strings.Join(strings.Fields(decl.Value), " "))
	switch property {
	case "float":
		return true
	case "display":
		return value == "block"
	case "margin":
		return value == "auto" || value == "0 auto"
	case "margin-left", "margin-right":
		return value == "auto"
	}
	return false
}
