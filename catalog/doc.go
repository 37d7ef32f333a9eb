// Package catalog provides injected model catalogs. There is no global registry:
// callers build a catalog and pass it where models are looked up.
//
// Static holds a fixed set of models; FromFS builds one from every YAML manifest
// under a directory of an fs.FS (e.g. embed.FS). Remote loads one manifest per
// provider through a Fetcher (see HTTPFetcher), caches it with a TTL and
// collapses concurrent fetches of the same provider into one.
package catalog
