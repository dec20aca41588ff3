package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequiredKeepsDeclarationOrder(t *testing.T) {
	o := &Object{
		Name: "verdict",
		Fields: []Field{
			{Name: "reason", Type: String},
			{Name: "needsHumanAttention", Type: Bool},
		},
	}
	assert.Equal(t, []string{"reason", "needsHumanAttention"}, o.Required())
	assert.Empty(t, (&Object{}).Required())
}
