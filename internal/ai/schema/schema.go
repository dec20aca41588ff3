// Package schema describes the structured JSON reply requested from a
// generative backend. It has no dependencies so that callers can build a
// reply format without linking any provider SDK.
package schema

type Type string

const (
	Bool   Type = "boolean"
	String Type = "string"
)

// Field is one property of the reply object.
type Field struct {
	Name        string
	Type        Type
	Description string
}

// Object is a flat JSON object. Every field is required and no other
// fields are allowed.
type Object struct {
	Name   string
	Fields []Field
}

// Required lists the field names in declaration order.
func (o *Object) Required() []string {
	out := make([]string, 0, len(o.Fields))
	for _, f := range o.Fields {
		out = append(out, f.Name)
	}
	return out
}
