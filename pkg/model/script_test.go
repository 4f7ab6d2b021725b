package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScriptID(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		want string
	}{
		{name: "bare file", ref: "sp1.js", want: "sp1"},
		{name: "nested directory", ref: "scripts/foo.js", want: "foo"},
		{name: "other directory same name", ref: "other/foo.js", want: "foo"},
		{name: "windows separators", ref: `scripts\sprocs\bulk.js`, want: "bulk"},
		{name: "only final extension removed", ref: "lib/foo.min.js", want: "foo.min"},
		{name: "no extension", ref: "scripts/plain", want: "plain"},
		{name: "absolute path", ref: "/opt/scripts/udf.js", want: "udf"},
		{name: "extension only", ref: "scripts/.js", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScriptID(tt.ref))
		})
	}
}

func TestScriptID_IgnoresDirectory(t *testing.T) {
	assert.Equal(t, ScriptID("scripts/foo.js"), ScriptID("other/foo.js"))
}

func TestScriptKindString(t *testing.T) {
	assert.Equal(t, "stored procedure", StoredProcedure.String())
	assert.Equal(t, "user defined function", UserDefinedFunction.String())
	assert.Equal(t, "unknown", ScriptKind(42).String())
}
