package text

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	numberedLine = regexp.MustCompile(`^[0-9]+\..*`)
	leadingLine  = regexp.MustCompile(`^[0-9]+.*`)
	anyNumber    = regexp.MustCompile(`\d+`)
	lineSplit    = regexp.MustCompile(`\r?\n`)
)

// NumericList isolates the items of a numbered list, e.g.
//
//	1. 45
//	Other stuff
//	3. Nice
//
// results in ["45", "Nice"].
func NumericList(utterance string) []string {
	var items []string

	for _, line := range lineSplit.Split(utterance, -1) {
		if item, ok := numberedItem(line); ok {
			items = append(items, item)
		}
	}
	return items
}

// NumericLists isolates numbered lists separated by other text, e.g.
//
//	1. This is
//	2. a list
//	Other stuff
//	4. the end
//
// results in [["This is", "a list"], ["the end"]].
func NumericLists(utterance string) [][]string {
	var (
		lists  [][]string
		items  []string
		inList bool
	)

	for _, line := range lineSplit.Split(utterance, -1) {
		if item, ok := numberedItem(line); ok {
			inList = true
			items = append(items, item)
		} else if inList {
			inList = false
			lists = append(lists, items)
			items = nil
		}
	}
	if inList && len(items) > 0 {
		lists = append(lists, items)
	}
	return lists
}

// NumericListOfIntegers parses every integer out of each numbered line, e.g.
//
//	1.   2,3,4
//	2.   90, 100
//
// results in [[1,2,3,4], [2,90,100]]. The line numbers themselves are
// included, matching what callers historically relied on.
func NumericListOfIntegers(utterance string) [][]int {
	var items [][]int

	for _, line := range lineSplit.Split(utterance, -1) {
		if !leadingLine.MatchString(line) {
			continue
		}
		var numbers []int
		for _, m := range anyNumber.FindAllString(line, -1) {
			n, err := strconv.Atoi(m)
			if err != nil {
				continue
			}
			numbers = append(numbers, n)
		}
		items = append(items, numbers)
	}
	return items
}

// ToNumericList renders a slice as a numbered list starting at 1:
//
//	["a", "b"] -> "1. a\n2. b"
func ToNumericList(list []string) string {
	var sb strings.Builder
	for i, entry := range list {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%d. %s", i+1, entry)
	}
	return sb.String()
}

// ToAlphabeticList renders a slice as an alphabetic list starting at "a)". One
// entry per line, trailing newline included, which is the shape the
// categorize prompt expects.
func ToAlphabeticList(list []string) string {
	var sb strings.Builder
	for i, entry := range list {
		fmt.Fprintf(&sb, "%c) %s\n", 'a'+i, entry)
	}
	return sb.String()
}

// numberedItem extracts the text after the "N." prefix of a numbered line.
func numberedItem(line string) (string, bool) {
	if !numberedLine.MatchString(line) {
		return "", false
	}
	start := strings.IndexByte(line, '.') + 1
	if start == 0 {
		start = strings.IndexByte(line, ' ')
	}
	if start <= 0 || start >= len(line) {
		return "", false
	}
	item := strings.TrimSpace(line[start:])
	if item == "" {
		return "", false
	}
	return item, true
}
