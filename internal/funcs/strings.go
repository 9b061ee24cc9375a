package funcs

import (
	"strconv"
	"strings"

	"github.com/aadamsx/josson/internal/node"
)

// registerStringFuncs ports FuncString.java's text transformation
// functions onto node.Node text values.
func registerStringFuncs(c Catalog) {
	c["upperCase"] = textFn(strings.ToUpper)
	c["lowerCase"] = textFn(strings.ToLower)
	c["trim"] = textFn(strings.TrimSpace)
	c["capitalize"] = textFn(capitalize)
	c["uncapitalize"] = textFn(uncapitalize)

	c["length"] = func(cur *node.Node, args []*node.Node) (*node.Node, error) {
		return node.NewNumber(float64(len(node.AsText(cur)))), nil
	}

	c["substr"] = func(cur *node.Node, args []*node.Node) (*node.Node, error) {
		text := node.AsText(cur)
		start, end := argInt(args, 0, 0), argInt(args, 1, len(text))
		return node.NewText(substring(text, start, end)), nil
	}

	c["split"] = func(cur *node.Node, args []*node.Node) (*node.Node, error) {
		text := node.AsText(cur)
		sep := " "
		if len(args) > 0 {
			sep = node.AsText(args[0])
		}
		var parts []string
		if sep == "" {
			parts = strings.Fields(text)
		} else {
			parts = strings.Split(text, sep)
		}
		out := node.NewArray()
		for _, p := range parts {
			if p != "" {
				out.Append(node.NewText(p))
			}
		}
		return out, nil
	}

	c["concat"] = func(cur *node.Node, args []*node.Node) (*node.Node, error) {
		var b strings.Builder
		b.WriteString(node.AsText(cur))
		for _, a := range args {
			b.WriteString(node.AsText(a))
		}
		return node.NewText(b.String()), nil
	}

	c["repeat"] = func(cur *node.Node, args []*node.Node) (*node.Node, error) {
		n := argInt(args, 0, 0)
		if n < 0 {
			n = 0
		}
		return node.NewText(strings.Repeat(node.AsText(cur), n)), nil
	}

	c["replace"] = func(cur *node.Node, args []*node.Node) (*node.Node, error) {
		if len(args) < 2 {
			return node.NewText(node.AsText(cur)), nil
		}
		max := -1
		if len(args) > 2 {
			max = argInt(args, 2, -1)
		}
		return node.NewText(strings.Replace(node.AsText(cur), node.AsText(args[0]), node.AsText(args[1]), max)), nil
	}

	c["keepAfter"] = keepFn(false, false)
	c["keepAfterLast"] = keepFn(false, true)
	c["keepBefore"] = keepFn(true, false)
	c["keepBeforeLast"] = keepFn(true, true)

	c["leftPad"] = padFn(true)
	c["rightPad"] = padFn(false)

	c["removeStart"] = func(cur *node.Node, args []*node.Node) (*node.Node, error) {
		text := node.AsText(cur)
		prefix := argText(args, 0, "")
		return node.NewText(strings.TrimPrefix(text, prefix)), nil
	}
	c["removeEnd"] = func(cur *node.Node, args []*node.Node) (*node.Node, error) {
		text := node.AsText(cur)
		suffix := argText(args, 0, "")
		return node.NewText(strings.TrimSuffix(text, suffix)), nil
	}
	c["appendIfMissing"] = func(cur *node.Node, args []*node.Node) (*node.Node, error) {
		text, suffix := node.AsText(cur), argText(args, 0, "")
		if strings.HasSuffix(text, suffix) {
			return node.NewText(text), nil
		}
		return node.NewText(text + suffix), nil
	}
	c["prependIfMissing"] = func(cur *node.Node, args []*node.Node) (*node.Node, error) {
		text, prefix := node.AsText(cur), argText(args, 0, "")
		if strings.HasPrefix(text, prefix) {
			return node.NewText(text), nil
		}
		return node.NewText(prefix + text), nil
	}
	c["contains"] = func(cur *node.Node, args []*node.Node) (*node.Node, error) {
		return node.NewBool(strings.Contains(node.AsText(cur), argText(args, 0, ""))), nil
	}
}

func textFn(f func(string) string) Fn {
	return func(cur *node.Node, args []*node.Node) (*node.Node, error) {
		return node.NewText(f(node.AsText(cur))), nil
	}
}

func keepFn(before, last bool) Fn {
	return func(cur *node.Node, args []*node.Node) (*node.Node, error) {
		text, find := node.AsText(cur), argText(args, 0, "")
		if find == "" {
			return node.NewText(text), nil
		}
		pos := -1
		if last {
			pos = strings.LastIndex(text, find)
		} else {
			pos = strings.Index(text, find)
		}
		if pos < 0 {
			return node.NewText(""), nil
		}
		if before {
			return node.NewText(text[:pos]), nil
		}
		return node.NewText(text[pos+len(find):]), nil
	}
}

func padFn(left bool) Fn {
	return func(cur *node.Node, args []*node.Node) (*node.Node, error) {
		text := node.AsText(cur)
		size := argInt(args, 0, 0)
		padChar := " "
		if len(args) > 1 {
			padChar = node.AsText(args[1])
		}
		if padChar == "" {
			padChar = " "
		}
		for len(text) < size {
			if left {
				text = padChar + text
			} else {
				text = text + padChar
			}
		}
		return node.NewText(text), nil
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func uncapitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func substring(s string, start, end int) string {
	n := len(s)
	if start < 0 {
		start += n
	}
	if end < 0 {
		end += n
	}
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if start >= end {
		return ""
	}
	return s[start:end]
}

func argText(args []*node.Node, i int, def string) string {
	if i < 0 || i >= len(args) {
		return def
	}
	return node.AsText(args[i])
}

func argInt(args []*node.Node, i int, def int) int {
	if i < 0 || i >= len(args) {
		return def
	}
	if args[i].IsNumber() {
		return int(args[i].Number())
	}
	if v, err := strconv.Atoi(strings.TrimSpace(node.AsText(args[i]))); err == nil {
		return v
	}
	return def
}
