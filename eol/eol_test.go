package eol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	native := "native"
	lfVal := "LF"
	crVal := "CR"
	crlfVal := "CRLF"
	bogus := "bogus"

	style, target := Resolve(nil)
	assert.Equal(t, StyleNone, style)
	assert.Nil(t, target)

	style, target = Resolve(&native)
	assert.Equal(t, StyleNative, style)
	assert.Equal(t, Native, target)

	style, target = Resolve(&lfVal)
	assert.Equal(t, StyleFixed, style)
	assert.Equal(t, []byte("\n"), target)

	style, target = Resolve(&crVal)
	assert.Equal(t, StyleFixed, style)
	assert.Equal(t, []byte("\r"), target)

	style, target = Resolve(&crlfVal)
	assert.Equal(t, StyleFixed, style)
	assert.Equal(t, []byte("\r\n"), target)

	style, target = Resolve(&bogus)
	assert.Equal(t, StyleUnknown, style)
	assert.Nil(t, target)
}

func TestTranslationRequired(t *testing.T) {
	assert.True(t, TranslationRequired(StyleNone, nil, true, false, false), "keywords alone force translation")
	assert.True(t, TranslationRequired(StyleNone, nil, false, true, false), "special alone forces translation")
	assert.False(t, TranslationRequired(StyleNone, nil, false, false, false))
	assert.True(t, TranslationRequired(StyleFixed, []byte("\r\n"), false, false, true), "force with a real style always translates")

	// StyleFixed disagreeing with the platform native terminator needs
	// translation regardless of force.
	other := Native
	if string(Native) == "\n" {
		other = []byte("\r\n")
	} else {
		other = []byte("\n")
	}
	assert.True(t, TranslationRequired(StyleFixed, other, false, false, false))
	assert.False(t, TranslationRequired(StyleFixed, Native, false, false, false))
}
