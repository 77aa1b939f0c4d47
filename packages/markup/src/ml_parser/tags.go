package ml_parser

import (
	"strings"
)

// TagContentType represents how the content of an element is scanned
type TagContentType int

const (
	TagContentTypeRAW_TEXT TagContentType = iota
	TagContentTypeESCAPABLE_RAW_TEXT
	TagContentTypePARSABLE_DATA
)

func (t TagContentType) String() string {
	switch t {
	case TagContentTypeRAW_TEXT:
		return "RAW_TEXT"
	case TagContentTypeESCAPABLE_RAW_TEXT:
		return "ESCAPABLE_RAW_TEXT"
	}
	return "PARSABLE_DATA"
}

// TagClass is the classification of an element name
type TagClass int

const (
	TagClassNormal TagClass = iota
	TagClassVoid
	TagClassRawText
	TagClassEscapableRawText
	TagClassOptionalEndTag
)

func (c TagClass) String() string {
	switch c {
	case TagClassVoid:
		return "Void"
	case TagClassRawText:
		return "RawText"
	case TagClassEscapableRawText:
		return "EscapableRawText"
	case TagClassOptionalEndTag:
		return "OptionalEndTag"
	}
	return "Normal"
}

// TagDefinition defines the behavior of an element
type TagDefinition interface {
	Class() TagClass
	IsVoid() bool
	// IsKnown reports whether the name is a standard HTML element. Known
	// names are matched case-insensitively, everything else exactly.
	IsKnown() bool
	IsClosedByChild(name string) bool
	GetContentType() TagContentType
}

// SameTagName reports whether an end tag name closes an open element name.
func SameTagName(open, closing string) bool {
	if open == closing {
		return true
	}
	return GetHtmlTagDefinition(open).IsKnown() && strings.EqualFold(open, closing)
}
