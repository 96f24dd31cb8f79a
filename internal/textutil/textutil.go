// Package textutil provides string helpers shared by the index, matcher and writers.
package textutil

import (
	"strconv"
	"strings"
)

// StripSpaces removes every ASCII space character from s.
// Tabs, newlines and other whitespace are left untouched.
func StripSpaces(s string) string {
	if strings.IndexByte(s, ' ') < 0 {
		return s
	}
	return strings.ReplaceAll(s, " ", "")
}

// AppendList appends item to a comma-joined list, starting a new list when
// list is empty.
func AppendList(list, item string) string {
	if list == "" {
		return item
	}
	return list + "," + item
}

// SplitList splits a comma-joined list. An empty list yields nil.
func SplitList(list string) []string {
	if list == "" {
		return nil
	}
	return strings.Split(list, ",")
}

// JoinInts renders ints as a comma-joined list.
func JoinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// Column returns row[i] and whether i is inside the row.
func Column(row []string, i int) (string, bool) {
	if i < 0 || i >= len(row) {
		return "", false
	}
	return row[i], true
}

// IndexOf returns the position of the first cell equal to name, or -1.
func IndexOf(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}
