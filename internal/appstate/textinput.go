package appstate

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/mobile/event/key"
)

// textField collects typed text for the text prompt and the caption bar.
type textField struct {
	text  string
	limit int
}

type fieldResult int

const (
	fieldEdited fieldResult = iota
	fieldIgnored
	fieldSubmit
	fieldCancel
)

// handle applies one key press to the field.
func (f *textField) handle(e key.Event) fieldResult {
	if e.Direction == key.DirRelease {
		return fieldIgnored
	}
	switch e.Code {
	case key.CodeReturnEnter, key.CodeKeypadEnter:
		return fieldSubmit
	case key.CodeEscape:
		return fieldCancel
	case key.CodeDeleteBackspace:
		if f.text == "" {
			return fieldIgnored
		}
		_, n := utf8.DecodeLastRuneInString(f.text)
		f.text = f.text[:len(f.text)-n]
		return fieldEdited
	}
	if e.Modifiers&(key.ModControl|key.ModMeta) != 0 {
		return fieldIgnored
	}
	if e.Rune <= 0 || !unicode.IsPrint(e.Rune) {
		return fieldIgnored
	}
	if f.limit > 0 && utf8.RuneCountInString(f.text) >= f.limit {
		return fieldIgnored
	}
	f.text += string(e.Rune)
	return fieldEdited
}

func (f *textField) reset() { f.text = "" }
