package decoded

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Schema definitions, one per document kind.
const (
	defUUIDText      = "#UUIDText"
	defSharedStrings = "#SharedStrings"
	defTimesync      = "#Timesync"
	defTrace         = "#Trace"
)

// validator checks raw YAML documents against the embedded CUE schema.
type validator struct {
	ctx    *cue.Context
	schema cue.Value
}

func newValidator() (*validator, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &validator{ctx: ctx, schema: schema}, nil
}

// validate unifies data with the named definition and requires every field
// to be concrete. Unknown fields are rejected because definitions are closed.
func (v *validator) validate(def string, data []byte) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	if raw == nil {
		return fmt.Errorf("empty document")
	}

	doc := v.ctx.Encode(raw)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	unified := v.schema.LookupPath(cue.ParsePath(def)).Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%s: %s", def, cueerrors.Details(err, nil))
	}
	return nil
}
