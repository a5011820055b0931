//go:build sqlite_vec && cgo

package vectorsearch

import vec "github.com/asg017/sqlite-vec-go-bindings/cgo"

// Registering the sqlite-vec extension at init time makes the vec0 virtual
// table available to sqlite connections. Store neither creates nor queries
// one, so searches use the brute-force scan in store.go with or without the
// sqlite_vec tag.
func init() {
	vec.Auto()
}
