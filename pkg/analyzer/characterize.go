package analyzer

import (
	"strings"
	"unicode"

	"github.com/Pradhumn115/ruma-vision/pkg/recognizer"
	"github.com/Pradhumn115/ruma-vision/pkg/vision"
)

var linkMarkers = []string{
	"http://",
	"https://",
	"www.",
	".com",
	".org",
	".net",
	".io",
}

var codeMarkers = []string{
	"func ",
	"def ",
	"class ",
	"import ",
	"var ",
	"let ",
	"const ",
	"return ",
	"{",
	"}",
	"();",
	"=>",
	"</",
	"/>",
	"#include",
}

var actionWords = []string{
	"click",
	"submit",
	"cancel",
	"ok",
	"apply",
	"save",
	"close",
	"done",
}

var menuWords = []string{
	"file",
	"edit",
	"view",
	"help",
	"window",
	"preferences",
	"tools",
	"format",
}

// characterize derives the text attributes from a raw observation. All
// predicates are pure. Boldness is approximated through confidence since no
// stroke-width signal is available; italic detection has no signal at all.
func characterize(text recognizer.Text) vision.TextCharacteristics {
	return vision.TextCharacteristics{
		IsBold:      text.Confidence > 0.9,
		IsItalic:    false,
		IsUppercase: isUppercase(text.Text),
		IsNumeric:   isNumeric(text.Text),
		IsLink:      containsAny(text.Text, linkMarkers),
	}
}

func isUppercase(s string) bool {
	return len(s) > 1 && s == strings.ToUpper(s)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if !unicode.IsDigit(r) && !unicode.IsPunct(r) {
			return false
		}
	}

	return true
}

func containsAny(s string, markers []string) bool {
	s = strings.ToLower(s)

	for _, marker := range markers {
		if strings.Contains(s, marker) {
			return true
		}
	}

	return false
}

// containsWord matches whole words only, so "token" does not match "ok".
func containsWord(s string, words []string) bool {
	for _, field := range strings.Fields(strings.ToLower(s)) {
		field = strings.Trim(field, ".,:;!?…")

		for _, word := range words {
			if field == word {
				return true
			}
		}
	}

	return false
}

type classificationRule struct {
	label vision.TextType
	match func(s string, box vision.Rect, ch vision.TextCharacteristics) bool
}

// classificationRules is evaluated top to bottom, first match wins. The
// ordering is load-bearing: a short uppercase string ending in ":" is a
// heading, not a label, because the heading rule is checked first.
var classificationRules = []classificationRule{
	{
		label: vision.TextTypeURL,
		match: func(s string, box vision.Rect, ch vision.TextCharacteristics) bool {
			return ch.IsLink || containsAny(s, linkMarkers)
		},
	},
	{
		label: vision.TextTypeCode,
		match: func(s string, box vision.Rect, ch vision.TextCharacteristics) bool {
			return containsAny(s, codeMarkers)
		},
	},
	{
		label: vision.TextTypeButton,
		match: func(s string, box vision.Rect, ch vision.TextCharacteristics) bool {
			return len(s) < 20 && containsWord(s, actionWords)
		},
	},
	{
		label: vision.TextTypeMenuItem,
		match: func(s string, box vision.Rect, ch vision.TextCharacteristics) bool {
			return len(s) < 30 && containsWord(s, menuWords)
		},
	},
	{
		label: vision.TextTypeHeading,
		match: func(s string, box vision.Rect, ch vision.TextCharacteristics) bool {
			return ch.IsBold || ch.IsUppercase || box.Height > 20
		},
	},
	{
		label: vision.TextTypeLabel,
		match: func(s string, box vision.Rect, ch vision.TextCharacteristics) bool {
			return strings.HasSuffix(s, ":") && len(s) < 50
		},
	},
	{
		label: vision.TextTypeCaption,
		match: func(s string, box vision.Rect, ch vision.TextCharacteristics) bool {
			return box.Height < 12 && len(s) < 100
		},
	},
}

func classifyText(s string, box vision.Rect, ch vision.TextCharacteristics) vision.TextType {
	for _, rule := range classificationRules {
		if rule.match(s, box, ch) {
			return rule.label
		}
	}

	return vision.TextTypeBody
}

// Characterize enriches a raw text observation into a classified
// TextObservation.
func Characterize(text recognizer.Text) vision.TextObservation {
	characteristics := characterize(text)

	return vision.TextObservation{
		Text:       text.Text,
		Confidence: text.Confidence,

		Box: text.Box,

		Type:            classifyText(text.Text, text.Box, characteristics),
		Characteristics: characteristics,
	}
}
