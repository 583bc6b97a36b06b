package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocument_Text(t *testing.T) {
	doc := &Document{Pages: []string{"first page", "", "third page"}}
	assert.Equal(t, "first page\n\n\n\nthird page", doc.Text())

	empty := &Document{}
	assert.Equal(t, "", empty.Text())
}
