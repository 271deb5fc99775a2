package query

import (
	"fmt"
	"strings"
)

// Where accumulates AND-ed SQL conditions with numbered placeholders.
type Where struct {
	conds []string
	args  []any
}

// Arg registers v and returns its placeholder.
func (w *Where) Arg(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

// And appends a condition. Placeholders inside cond must come from Arg.
func (w *Where) And(cond string) {
	w.conds = append(w.conds, cond)
}

// SQL renders the WHERE clause with a leading space, or "" with no conditions.
func (w *Where) SQL() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

func (w *Where) Args() []any {
	return w.args
}

// NextArg is the placeholder number the next Arg call will return.
func (w *Where) NextArg() int {
	return len(w.args) + 1
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern turns s into an ILIKE pattern matching s anywhere, with
// LIKE wildcards in s escaped.
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
