package main

import (
	"fmt"
	"image"
	"strconv"
)

// parseGeometry parses a window geometry: "WxH", "WxH@X,Y" or the four
// corners "X0,Y0,X1,Y1" (a space works as separator too). havemin
// reports whether the geometry included a position.
func parseGeometry(s string) (r image.Rectangle, havemin bool, err error) {
	orig := s
	isdigit := func(c byte) bool { return '0' <= c && c <= '9' }
	number := func() (int, bool) {
		i := 0
		for i < len(s) && isdigit(s[i]) {
			i++
		}
		if i == 0 {
			return 0, false
		}
		n, err := strconv.Atoi(s[:i])
		s = s[i:]
		return n, err == nil
	}
	expect := func(c byte) bool {
		if s == "" || s[0] != c {
			return false
		}
		s = s[1:]
		return true
	}
	oops := fmt.Errorf("bad syntax in window size '%s'", orig)

	i, ok := number()
	if !ok {
		return image.Rectangle{}, false, oops
	}
	if expect('x') {
		j, ok := number()
		if !ok {
			return image.Rectangle{}, false, oops
		}
		r = image.Rect(0, 0, i, j)
		if s == "" {
			return r, false, nil
		}
		if !expect('@') {
			return image.Rectangle{}, false, oops
		}
		x, ok := number()
		if !ok || !(expect(',') || expect(' ')) {
			return image.Rectangle{}, false, oops
		}
		y, ok := number()
		if !ok || s != "" {
			return image.Rectangle{}, false, oops
		}
		return r.Add(image.Pt(x, y)), true, nil
	}

	if s == "" || (s[0] != ' ' && s[0] != ',') {
		return image.Rectangle{}, false, oops
	}
	sep := s[0]
	var v [3]int
	for k := range v {
		if !expect(sep) {
			return image.Rectangle{}, false, oops
		}
		if v[k], ok = number(); !ok {
			return image.Rectangle{}, false, oops
		}
	}
	if s != "" {
		return image.Rectangle{}, false, oops
	}
	return image.Rect(i, v[0], v[1], v[2]), true, nil
}
