package blobstore

import "strings"

// ListPrefix returns the object key prefix that lists names starting with
// prefix inside root. The separator after root is kept so sibling roots such
// as "maps2/" never match "maps/".
func ListPrefix(root, prefix string) string {
	root = strings.Trim(root, "/")
	if root == "" {
		return prefix
	}
	return root + "/" + strings.TrimPrefix(prefix, "/")
}

// RelativeName strips root from an object key. ok is false for keys outside
// root and for the root itself.
func RelativeName(root, key string) (name string, ok bool) {
	root = strings.Trim(root, "/")
	if root == "" {
		return key, key != ""
	}
	name, ok = strings.CutPrefix(key, root+"/")
	return name, ok && name != ""
}
