package proto

import (
	"strconv"
	"strings"

	"github.com/coralstore/diskctl/head"
)

// EncodeActions renders one head's action list per spec §6's action
// string grammar: a run of 'r'/'p' characters terminated by '#', or a
// single "j <target>" line with no terminator. An empty list (spec §7
// soft budget underflow) encodes as a bare "#".
func EncodeActions(actions []head.Action) string {
	if len(actions) == 1 && actions[0].Kind == head.Jump {
		return "j " + strconv.Itoa(actions[0].Pos)
	}
	var b strings.Builder
	for _, a := range actions {
		switch a.Kind {
		case head.Read:
			b.WriteByte('r')
		case head.Pass:
			b.WriteByte('p')
		}
	}
	b.WriteByte('#')
	return b.String()
}
