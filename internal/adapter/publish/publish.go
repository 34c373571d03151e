// Package publish delivers rendered artifacts to the local output directory
// and to static-hosting buckets.
package publish

// CacheControl is sent with every bucket upload.
const CacheControl = "public, max-age=300"

func objectKey(prefix, name string) string {
	return prefix + name
}
