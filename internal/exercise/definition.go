// Package exercise models exercise identities and discovers them on disk.
package exercise

import (
	"cmp"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"unicode/utf8"
)

// Kind tells which half of a (chapter, exercise) pair failed to parse.
type Kind string

const (
	KindChapter  Kind = "chapter"
	KindExercise Kind = "exercise"
)

var dirNamePattern = regexp.MustCompile(`^(\d{2})_(\w+)$`)

// ParseError reports a directory name that is not a valid NN_name pair member.
type ParseError struct {
	Value  string
	Kind   Kind
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %q as a %s (<NN>_<name>): %s", e.Value, e.Kind, e.Reason)
}

// Definition identifies one exercise within a collection.
type Definition struct {
	ChapterName   string
	ChapterNumber uint16
	Name          string
	Number        uint16
}

// Parse builds a Definition from a chapter and exercise directory name.
func Parse(chapterDir, exerciseDir string) (Definition, error) {
	chapterNumber, chapterName, err := parseDirName(chapterDir, KindChapter)
	if err != nil {
		return Definition{}, err
	}
	number, name, err := parseDirName(exerciseDir, KindExercise)
	if err != nil {
		return Definition{}, err
	}
	return Definition{
		ChapterName:   chapterName,
		ChapterNumber: chapterNumber,
		Name:          name,
		Number:        number,
	}, nil
}

func parseDirName(value string, kind Kind) (uint16, string, error) {
	if !utf8.ValidString(value) {
		return 0, "", &ParseError{Value: value, Kind: kind, Reason: "not valid UTF-8 text"}
	}
	match := dirNamePattern.FindStringSubmatch(value)
	if match == nil {
		return 0, "", &ParseError{Value: value, Kind: kind, Reason: "does not match the expected pattern"}
	}
	// Two ASCII digits always fit.
	number, err := strconv.ParseUint(match[1], 10, 16)
	if err != nil {
		return 0, "", &ParseError{Value: value, Kind: kind, Reason: err.Error()}
	}
	return uint16(number), match[2], nil
}

// Chapter returns the canonical NN_name form of the chapter.
// It is also the persistence key, so the format must not change.
func (d Definition) Chapter() string {
	return fmt.Sprintf("%02d_%s", d.ChapterNumber, d.ChapterName)
}

// Exercise returns the canonical NN_name form of the exercise.
func (d Definition) Exercise() string {
	return fmt.Sprintf("%02d_%s", d.Number, d.Name)
}

// Dir returns the exercise directory under the collection root.
func (d Definition) Dir(root string) string {
	return filepath.Join(root, d.Chapter(), d.Exercise())
}

func (d Definition) String() string {
	return fmt.Sprintf("(%02d) %s - (%02d) %s", d.ChapterNumber, d.ChapterName, d.Number, d.Name)
}

// Compare orders definitions by chapter number, then exercise number.
// Names do not take part in the ordering.
func Compare(a, b Definition) int {
	if c := cmp.Compare(a.ChapterNumber, b.ChapterNumber); c != 0 {
		return c
	}
	return cmp.Compare(a.Number, b.Number)
}

// Less reports whether a sorts before b.
func (d Definition) Less(other Definition) bool {
	return Compare(d, other) < 0
}
