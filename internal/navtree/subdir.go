package navtree

import (
	"crypto/md5"
	"fmt"
	"path"
	"strings"
)

// Subdir returns the two-level directory prefix ("d3/df9/") that
// documentation generators use to spread pages when CREATE_SUBDIRS is on.
// The prefix is derived from the MD5 of the page's base name without
// extension, so it is stable across builds but unrelated to tree order.
func Subdir(page string) string {
	base := strings.TrimSuffix(path.Base(page), path.Ext(page))
	sum := md5.Sum([]byte(base))
	return fmt.Sprintf("d%x/d%02x/", sum[14]&0xf, sum[15])
}

// HashedURL prefixes a bare page url with its Subdir. Urls that already
// carry a directory are returned unchanged.
func HashedURL(url string) string {
	page, frag := SplitURL(url)
	if page == "" || strings.Contains(page, "/") {
		return url
	}
	out := Subdir(page) + page
	if frag != "" {
		out += "#" + frag
	}
	return out
}
