package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
)

func (a *App) title(s string) {
	fmt.Fprintf(a.out, "\n== %s ==\n", s)
}

// table prints rows under headers with aligned columns.
func (a *App) table(headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(a.out, "(nothing here yet)")
		return
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	_ = tw.Flush()
}

// fields prints label/value pairs, skipping empty values.
func (a *App) fields(pairs ...string) {
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			continue
		}
		if pairs[i] == "" {
			fmt.Fprintf(tw, "\t%s\n", pairs[i+1])
			continue
		}
		fmt.Fprintf(tw, "%s:\t%s\n", pairs[i], pairs[i+1])
	}
	_ = tw.Flush()
}

func (a *App) hint(s string) {
	fmt.Fprintln(a.out, "→", s)
}

func price(v float64) string {
	s := strconv.FormatFloat(v, 'f', 0, 64)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 && s[i-1] != '-' {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return "Rp " + b.String()
}

func percent(v float64) string {
	if v <= 1 {
		v *= 100
	}
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

func mark(on bool, s string) string {
	if on {
		return s
	}
	return ""
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}

