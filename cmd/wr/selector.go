package main

import (
	"strconv"
)

// selector picks a chapter or an exercise either by number or by its full
// NN_name directory name.
type selector interface {
	Matches(name string, number uint16) bool
	String() string
}

type byNumber uint16

func (s byNumber) Matches(_ string, number uint16) bool {
	return uint16(s) == number
}

func (s byNumber) String() string {
	return strconv.FormatUint(uint64(s), 10)
}

type byName string

func (s byName) Matches(name string, _ uint16) bool {
	return string(s) == name
}

func (s byName) String() string {
	return string(s)
}

// parseSelector treats anything that parses as a uint16 as a number.
func parseSelector(value string) selector {
	if n, err := strconv.ParseUint(value, 10, 16); err == nil {
		return byNumber(n)
	}
	return byName(value)
}
