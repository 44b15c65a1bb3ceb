package decoded

import "strings"

const missingArgument = "<decode: missing data>"

// conversions terminate a printf-style specifier.
const conversions = "diouxXeEfFgGaAcCsSpn@"

// formatMessage substitutes args, in order, for the specifiers in format.
// Specifiers may carry an os_log annotation such as %{public}s; the
// annotation is dropped. "%%" yields a literal percent sign.
func formatMessage(format string, args []string) string {
	var b strings.Builder
	b.Grow(len(format))

	next := 0
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		if i+1 < len(format) && format[i+1] == '%' {
			b.WriteByte('%')
			i++
			continue
		}

		end := specifierEnd(format, i+1)
		if end < 0 {
			// Dangling specifier, keep it verbatim.
			b.WriteString(format[i:])
			break
		}
		if next < len(args) {
			b.WriteString(args[next])
		} else {
			b.WriteString(missingArgument)
		}
		next++
		i = end
	}
	return b.String()
}

// specifierEnd returns the index of the conversion character of the
// specifier starting at start, or -1 if there is none.
func specifierEnd(format string, start int) int {
	i := start
	if i < len(format) && format[i] == '{' {
		j := strings.IndexByte(format[i:], '}')
		if j < 0 {
			return -1
		}
		i += j + 1
	}
	for ; i < len(format); i++ {
		c := format[i]
		switch {
		case strings.IndexByte(conversions, c) >= 0:
			return i
		case strings.IndexByte("-+ #0123456789.*hlqLjzt'", c) >= 0:
			continue
		default:
			return -1
		}
	}
	return -1
}
