package model

import (
	"path"
	"strings"
)

// ScriptKind distinguishes the two server-side script namespaces of a
// container. Ids are unique per kind, not across kinds.
type ScriptKind int

const (
	StoredProcedure ScriptKind = iota
	UserDefinedFunction
)

// ScriptKinds lists the kinds in the order they are reconciled.
var ScriptKinds = []ScriptKind{StoredProcedure, UserDefinedFunction}

func (k ScriptKind) String() string {
	switch k {
	case StoredProcedure:
		return "stored procedure"
	case UserDefinedFunction:
		return "user defined function"
	default:
		return "unknown"
	}
}

// Script is a resolved server-side script.
type Script struct {
	Kind ScriptKind

	// Path is the file reference as written in the document.
	Path string

	// ID is derived from Path with ScriptID.
	ID string

	Body string
}

// ScriptID derives a script id from a file reference: the file name without
// directory and without its final extension. Both "/" and "\" separate
// directories, so "scripts/foo.js" and `other\foo.js` both yield "foo".
// A name that is only an extension, like ".js", yields "".
func ScriptID(ref string) string {
	base := path.Base(strings.ReplaceAll(ref, `\`, "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}
